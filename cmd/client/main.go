// Package main runs the interactive cardfolio client: a local-first card
// collection persisted to disk, synchronized with the record store in the
// background.
package main

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardfolio/cardfolio/internal/client/remote"
	"github.com/cardfolio/cardfolio/internal/client/store"
	"github.com/cardfolio/cardfolio/internal/client/store/pushq"
	"github.com/cardfolio/cardfolio/internal/config"
	"github.com/cardfolio/cardfolio/internal/dedupe"
	"github.com/cardfolio/cardfolio/internal/extract"
	"github.com/cardfolio/cardfolio/internal/logger"
	"github.com/cardfolio/cardfolio/internal/models"
	appsync "github.com/cardfolio/cardfolio/internal/sync"
)

var (
	version   string
	buildDate string
)

// app bundles the client-side components the shell commands operate on.
type app struct {
	owner      string
	cards      *store.CardStore
	referrals  *store.ReferralStore
	remote     *remote.Client
	queue      *pushq.Queue
	recognizer *extract.Recognizer
	reconciler *appsync.Reconciler
}

// prompt reads one line with a label, returning the default when the input
// is empty.
func prompt(scanner *bufio.Scanner, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !scanner.Scan() {
		return def
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return def
	}
	return line
}

// promptCard interactively fills a card's fields, starting from draft.
func promptCard(scanner *bufio.Scanner, draft models.Card) models.Card {
	draft.Name = prompt(scanner, "Name", draft.Name)
	draft.Company = prompt(scanner, "Company", draft.Company)
	draft.Title = prompt(scanner, "Title", draft.Title)
	draft.Email = prompt(scanner, "Email", draft.Email)
	if phone := prompt(scanner, "Phone", strings.Join(draft.Phones, ", ")); phone != "" {
		draft.Phones = splitList(phone)
	}
	if addr := prompt(scanner, "Address", strings.Join(draft.Addresses, "; ")); addr != "" {
		draft.Addresses = splitListOn(addr, ";")
	}
	draft.Website = prompt(scanner, "Website", draft.Website)
	draft.Notes = prompt(scanner, "Notes", draft.Notes)
	return draft
}

func splitList(s string) []string { return splitListOn(s, ",") }

func splitListOn(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// repl runs the interactive shell loop.
func (a *app) repl() {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("cardfolio> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, list, get <id>, add, scan <image>, edit <id>, delete <id>,")
			fmt.Println("  referrals, refer <card-id>, outcome <id> <pending|successful|unsuccessful>,")
			fmt.Println("  dedupe, reconcile, reset [all], dashboard, exit")
		case "list":
			for _, c := range a.cards.List() {
				fmt.Printf("%s  %-24s %s\n", c.ID, c.Name, c.Company)
			}
		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <id>")
				continue
			}
			c := a.cards.Get(args[1])
			if c == nil {
				fmt.Println("Card not found")
				continue
			}
			printJSON(c)
		case "add":
			a.addCard(scanner, models.Card{})
		case "scan":
			if len(args) < 2 {
				fmt.Println("Usage: scan <image>")
				continue
			}
			draft, err := a.recognizer.ScanFile(context.Background(), args[1])
			if err != nil {
				fmt.Println("Scan failed:", err)
				continue
			}
			// Review the extracted fields before saving; an empty name in
			// particular must be filled by hand.
			a.addCard(scanner, draft)
		case "edit":
			if len(args) < 2 {
				fmt.Println("Usage: edit <id>")
				continue
			}
			c := a.cards.Get(args[1])
			if c == nil {
				fmt.Println("Card not found")
				continue
			}
			updated := promptCard(scanner, *c)
			if err := a.cards.Update(updated); err != nil {
				fmt.Println("Update failed:", err)
				continue
			}
			fmt.Println("Card updated")
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if err := a.cards.Delete(context.Background(), args[1]); err != nil {
				fmt.Println("Delete failed:", err)
				continue
			}
			fmt.Println("Card deleted")
		case "referrals":
			for _, r := range a.referrals.List() {
				fmt.Printf("%s  %s -> %s  %-12s %s\n",
					r.ID, r.ReferrerID, r.RecipientID, r.Outcome, r.Category)
			}
		case "refer":
			if len(args) < 2 {
				fmt.Println("Usage: refer <card-id>")
				continue
			}
			a.addReferral(scanner, args[1])
		case "outcome":
			if len(args) < 3 {
				fmt.Println("Usage: outcome <id> <pending|successful|unsuccessful>")
				continue
			}
			patch := models.Referral{Outcome: models.Outcome(args[2])}
			if err := a.referrals.Update(args[1], patch); err != nil {
				fmt.Println("Update failed:", err)
				continue
			}
			fmt.Println("Referral updated")
		case "dedupe":
			a.dedupe()
		case "reconcile":
			a.reconcile()
		case "reset":
			all := len(args) > 1 && args[1] == "all"
			err := a.cards.ResetToSeed(context.Background(), store.ResetOptions{IncludeRelated: all})
			if err != nil {
				fmt.Println("Reset failed:", err)
				continue
			}
			if all {
				if err := a.referrals.SeedFromCards(a.cards.List()); err != nil {
					fmt.Println("Referral reseed failed:", err)
					continue
				}
			}
			fmt.Println("Collection reset to seed data")
		case "dashboard":
			summary, err := a.remote.Dashboard(context.Background())
			if err != nil {
				fmt.Println("Dashboard unavailable:", err)
				continue
			}
			printJSON(summary)
		case "exit":
			// Let in-flight background pushes drain before quitting.
			a.queue.WaitIdle()
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (a *app) addCard(scanner *bufio.Scanner, draft models.Card) {
	card := promptCard(scanner, draft)
	if card.Name == "" {
		fmt.Println("A card needs a name")
		return
	}
	now := time.Now().UTC()
	card.ID = uuid.NewString()
	card.CreatedAt = now
	card.UpdatedAt = now
	if err := a.cards.Add(card); err != nil {
		fmt.Println("Add failed:", err)
		return
	}
	fmt.Println("Card added:", card.ID)
}

func (a *app) addReferral(scanner *bufio.Scanner, recipient string) {
	ref := models.Referral{
		ID:          uuid.NewString(),
		ReferrerID:  a.owner,
		RecipientID: recipient,
		Date:        time.Now().UTC(),
		Outcome:     models.OutcomePending,
	}
	ref.Category = prompt(scanner, "Category", "")
	if v := prompt(scanner, "Value", ""); v != "" {
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fmt.Println("Value must be a number")
			return
		}
		ref.Value = value
	}
	if err := a.referrals.Add(ref); err != nil {
		fmt.Println("Referral failed:", err)
		return
	}
	fmt.Println("Referral added:", ref.ID)
}

func (a *app) dedupe() {
	kept, removed := dedupe.Resolve(a.cards.List())
	if removed == 0 {
		fmt.Println("No duplicates found")
		return
	}
	if err := a.cards.ReplaceAll(kept); err != nil {
		fmt.Println("Dedupe failed:", err)
		return
	}
	fmt.Printf("Removed %d duplicate card(s)\n", removed)
	// The bulk replace bypasses per-record pushes; bring the remote table
	// back in line immediately.
	a.reconcile()
}

func (a *app) reconcile() {
	ctx := context.Background()
	// Queued pushes touch the same rows; drain them first.
	a.queue.WaitIdle()
	for _, table := range []struct {
		name string
		t    appsync.Table
	}{
		{"cards", a.cards},
		{"referrals", a.referrals},
	} {
		rep, err := a.reconciler.Reconcile(ctx, table.t)
		if err != nil {
			fmt.Printf("Reconcile %s failed: %v\n", table.name, err)
			continue
		}
		fmt.Printf("Reconciled %s: pushed %d, deleted %d\n", table.name, rep.Pushed, rep.Deleted)
	}
}

func main() {
	options := config.Parse()

	fmt.Printf("cardfolio client\nVersion: %s\nBuild Date: %s\n",
		cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	if options.Token == "" {
		log.Fatal("please provide -token=<profile login>")
	}

	zl := logger.New()
	if err := zl.Init("Info"); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Log.Sync() }()

	rc := remote.NewClient(options.BaseURL, options.Token, nil)

	// Registration is idempotent; make sure the profile row exists before
	// any scoped call.
	if _, err := rc.RegisterProfile(context.Background(), options.Token, options.Token); err != nil {
		zl.Log.Warn("profile registration failed, continuing offline", zap.Error(err))
	}

	queue := pushq.New(zl.Log)
	cards := store.NewCardStore(filepath.Join(options.DataDir, "cards.json"), rc, queue, zl.Log)
	if err := cards.Load(); err != nil {
		log.Fatal(err)
	}
	referrals := store.NewReferralStore(
		filepath.Join(options.DataDir, "referrals.json"),
		options.Token, cards, rc, queue, zl.Log,
	)
	if err := referrals.Load(); err != nil {
		log.Fatal(err)
	}

	a := &app{
		owner:      options.Token,
		cards:      cards,
		referrals:  referrals,
		remote:     rc,
		queue:      queue,
		recognizer: extract.NewRecognizer(options.RecognizerURL, nil),
		reconciler: appsync.New(zl.Log),
	}
	a.repl()
}
