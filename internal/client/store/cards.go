// Package store holds the client's authoritative local collections. Every
// mutation persists the full collection to disk first and then pushes to
// the record store in the background; the local write never waits on the
// network. Deletion is the one exception: it talks to the remote store
// synchronously and rolls the local state back if that fails.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cardfolio/cardfolio/internal/client/store/pushq"
	"github.com/cardfolio/cardfolio/internal/models"
	"go.uber.org/zap"
)

// CardRemote is the slice of the record-store SDK the card store uses.
type CardRemote interface {
	CardIDs(ctx context.Context) ([]string, error)
	InsertCards(ctx context.Context, cards []models.Card) error
	UpsertCard(ctx context.Context, card models.Card) error
	DeleteCards(ctx context.Context, ids []string) error
	ClearCards(ctx context.Context) error
	ClearReferrals(ctx context.Context) error
	ClearFiles(ctx context.Context) error
	ClearVoiceNotes(ctx context.Context) error
}

// cardBlob is the persisted on-disk shape.
type cardBlob struct {
	Cards []models.Card `json:"cards"`
}

// CardStore is the local persistent store for cards. Construct one per
// process with NewCardStore and share it by reference.
type CardStore struct {
	mu     sync.Mutex
	cards  []models.Card
	loaded bool

	path   string
	remote CardRemote
	queue  *pushq.Queue
	log    *zap.Logger
}

// NewCardStore creates a CardStore persisting to path and pushing through
// queue to remote.
func NewCardStore(path string, remote CardRemote, queue *pushq.Queue, log *zap.Logger) *CardStore {
	return &CardStore{path: path, remote: remote, queue: queue, log: log}
}

// Load rehydrates the in-memory collection from disk. A missing file, an
// undecodable blob, or a blob using the legacy identifier scheme all
// discard the persisted state and reinitialize from seed data.
func (s *CardStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.reseedLocked()
		}
		return fmt.Errorf("read card store: %w", err)
	}

	var blob cardBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		s.log.Warn("card blob undecodable, reseeding", zap.Error(err))
		return s.reseedLocked()
	}
	for _, c := range blob.Cards {
		if !models.IsUUID(c.ID) {
			s.log.Warn("legacy identifier scheme detected, reseeding",
				zap.String("id", c.ID))
			return s.reseedLocked()
		}
	}

	s.cards = blob.Cards
	s.loaded = true
	return nil
}

// reseedLocked replaces the collection with seed data and persists it.
// Caller holds s.mu.
func (s *CardStore) reseedLocked() error {
	s.cards = SeedCards()
	s.loaded = true
	return s.saveLocked()
}

// saveLocked persists the full collection. Caller holds s.mu.
func (s *CardStore) saveLocked() error {
	data, err := json.Marshal(cardBlob{Cards: s.cards})
	if err != nil {
		return fmt.Errorf("encode card store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write card store: %w", err)
	}
	return nil
}

// Loaded reports whether Load has completed.
func (s *CardStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// List returns a copy of the collection in display order (newest first).
func (s *CardStore) List() []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Get returns the card with the given id, or nil.
func (s *CardStore) Get(id string) *models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].ID == id {
			c := s.cards[i]
			return &c
		}
	}
	return nil
}

// Has reports whether a card with the given id exists.
func (s *CardStore) Has(id string) bool {
	return s.Get(id) != nil
}

// LocalIDs returns the identifiers of the current collection.
func (s *CardStore) LocalIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.cards))
	for i, c := range s.cards {
		ids[i] = c.ID
	}
	return ids
}

// Add prepends the card, persists, and schedules a background push. The
// local write is authoritative: a failed push is logged, never rolled back.
func (s *CardStore) Add(card models.Card) error {
	s.mu.Lock()
	s.cards = append([]models.Card{card}, s.cards...)
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.enqueuePush(card)
	return nil
}

// Update replaces the card with a matching identifier, bumps its update
// timestamp, persists, and schedules a background push.
func (s *CardStore) Update(card models.Card) error {
	s.mu.Lock()
	found := false
	for i := range s.cards {
		if s.cards[i].ID == card.ID {
			card.UpdatedAt = time.Now().UTC()
			s.cards[i] = card
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("card %s not found", card.ID)
	}
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.enqueuePush(card)
	return nil
}

// Delete removes the card locally and then deletes the remote row. Unlike
// Add and Update, a remote failure here restores the record in memory and
// on disk and propagates the error to the caller.
func (s *CardStore) Delete(ctx context.Context, id string) error {
	if !models.IsUUID(id) {
		return fmt.Errorf("delete card: %q is not a valid UUID", id)
	}

	s.mu.Lock()
	idx := -1
	var removed models.Card
	for i := range s.cards {
		if s.cards[i].ID == id {
			idx = i
			removed = s.cards[i]
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("card %s not found", id)
	}
	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	if err := s.saveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := s.remote.DeleteCards(ctx, []string{id}); err != nil {
		s.mu.Lock()
		// Restore at the original position.
		if idx > len(s.cards) {
			idx = len(s.cards)
		}
		s.cards = append(s.cards[:idx], append([]models.Card{removed}, s.cards[idx:]...)...)
		if saveErr := s.saveLocked(); saveErr != nil {
			s.log.Error("failed to persist restored card", zap.Error(saveErr))
		}
		s.mu.Unlock()
		return fmt.Errorf("remote delete failed, local state restored: %w", err)
	}
	return nil
}

// ReplaceAll swaps in a new collection (used by the duplicate resolver's
// bulk replace) and persists it. Pushing the result is the caller's job,
// typically via a full reconcile.
func (s *CardStore) ReplaceAll(cards []models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = cards
	return s.saveLocked()
}

// ResetOptions selects what ResetToSeed clears beyond the cards table.
type ResetOptions struct {
	// IncludeRelated also clears the user's referral, file and voice-note
	// rows.
	IncludeRelated bool
}

// ResetToSeed clears the user's remote rows, reinitializes the local
// collection from seed data with fresh timestamps, and re-pushes the seed
// set. Being an explicit user action, failures propagate to the caller.
func (s *CardStore) ResetToSeed(ctx context.Context, opts ResetOptions) error {
	if err := s.remote.ClearCards(ctx); err != nil {
		return fmt.Errorf("clear remote cards: %w", err)
	}
	if opts.IncludeRelated {
		if err := s.remote.ClearReferrals(ctx); err != nil {
			return fmt.Errorf("clear remote referrals: %w", err)
		}
		if err := s.remote.ClearFiles(ctx); err != nil {
			return fmt.Errorf("clear remote files: %w", err)
		}
		if err := s.remote.ClearVoiceNotes(ctx); err != nil {
			return fmt.Errorf("clear remote voice notes: %w", err)
		}
	}

	seed := SeedCards()
	s.mu.Lock()
	s.cards = seed
	s.loaded = true
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.remote.InsertCards(ctx, seed); err != nil {
		return fmt.Errorf("push seed set: %w", err)
	}
	return nil
}

// enqueuePush schedules a background push for one card. The push
// de-duplicates against the remote identifier set fetched fresh per call:
// existing rows are upserted, new ones inserted.
func (s *CardStore) enqueuePush(card models.Card) {
	s.queue.Enqueue(card.ID, func() error {
		ctx := context.Background()
		ids, err := s.remote.CardIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == card.ID {
				return s.remote.UpsertCard(ctx, card)
			}
		}
		return s.remote.InsertCards(ctx, []models.Card{card})
	})
}

// RemoteIDs fetches the remote identifier set. Part of the reconciler's
// table contract.
func (s *CardStore) RemoteIDs(ctx context.Context) ([]string, error) {
	return s.remote.CardIDs(ctx)
}

// DeleteRemote removes remote-only rows. Part of the reconciler's table
// contract.
func (s *CardStore) DeleteRemote(ctx context.Context, ids []string) error {
	return s.remote.DeleteCards(ctx, ids)
}

// PushBatch strictly inserts the local records with the given ids. Part of
// the reconciler's table contract.
func (s *CardStore) PushBatch(ctx context.Context, ids []string) error {
	batch := s.byIDs(ids)
	if len(batch) == 0 {
		return nil
	}
	return s.remote.InsertCards(ctx, batch)
}

// PushOne upserts a single local record with duplicate-tolerant semantics.
// Part of the reconciler's table contract.
func (s *CardStore) PushOne(ctx context.Context, id string) error {
	c := s.Get(id)
	if c == nil {
		return nil
	}
	return s.remote.UpsertCard(ctx, *c)
}

func (s *CardStore) byIDs(ids []string) []models.Card {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Card
	for _, c := range s.cards {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
