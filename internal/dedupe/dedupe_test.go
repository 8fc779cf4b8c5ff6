package dedupe

import (
	"fmt"
	"testing"
	"time"

	"github.com/cardfolio/cardfolio/internal/models"
)

func scanCard(id, name, email string, createdAt time.Time) models.Card {
	return models.Card{
		ID:        id,
		Name:      name,
		Email:     email,
		Tags:      []string{models.TagScanned},
		CreatedAt: createdAt,
	}
}

func TestResolve_KeepsNewestOfEachPartition(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 5
	cards := make([]models.Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, scanCard(
			fmt.Sprintf("id-%d", i), "John Smith", "john@acme.com",
			base.Add(time.Duration(i)*time.Minute)))
	}

	kept, removed := Resolve(cards)
	if removed != n-1 {
		t.Errorf("removed = %d; want %d", removed, n-1)
	}
	if len(kept) != 1 {
		t.Fatalf("kept %d cards; want 1", len(kept))
	}
	if kept[0].ID != "id-4" {
		t.Errorf("kept %s; want the newest (id-4)", kept[0].ID)
	}
}

func TestResolve_CaseInsensitiveKey(t *testing.T) {
	now := time.Now()
	cards := []models.Card{
		scanCard("a", "John Smith", "John@Acme.com", now),
		scanCard("b", "JOHN SMITH", "john@acme.com", now.Add(time.Minute)),
	}

	kept, removed := Resolve(cards)
	if removed != 1 || len(kept) != 1 || kept[0].ID != "b" {
		t.Errorf("kept = %+v, removed = %d; want only b", kept, removed)
	}
}

func TestResolve_NonScanCardsPassThrough(t *testing.T) {
	now := time.Now()
	manual := models.Card{ID: "m1", Name: "John Smith", Email: "john@acme.com", CreatedAt: now}
	cards := []models.Card{
		manual,
		scanCard("s1", "John Smith", "john@acme.com", now),
		scanCard("s2", "John Smith", "john@acme.com", now.Add(time.Hour)),
	}

	kept, removed := Resolve(cards)
	if removed != 1 {
		t.Errorf("removed = %d; want 1", removed)
	}
	if len(kept) != 2 {
		t.Fatalf("kept %d cards; want 2 (manual + newest scan)", len(kept))
	}
	if kept[0].ID != "m1" || kept[1].ID != "s2" {
		t.Errorf("kept = %v, %v; want m1, s2", kept[0].ID, kept[1].ID)
	}
}

func TestResolve_DistinctKeysUntouched(t *testing.T) {
	now := time.Now()
	cards := []models.Card{
		scanCard("a", "John Smith", "john@acme.com", now),
		scanCard("b", "Jane Doe", "jane@firm.com", now),
		scanCard("c", "John Smith", "", now), // missing email partitions separately
	}

	kept, removed := Resolve(cards)
	if removed != 0 || len(kept) != 3 {
		t.Errorf("kept = %d, removed = %d; want all 3 kept", len(kept), removed)
	}
}

func TestResolve_MissingFieldsUseSentinel(t *testing.T) {
	now := time.Now()
	cards := []models.Card{
		scanCard("a", "", "", now),
		scanCard("b", "", "", now.Add(time.Minute)),
	}

	kept, removed := Resolve(cards)
	if removed != 1 || len(kept) != 1 || kept[0].ID != "b" {
		t.Errorf("kept = %+v, removed = %d; want only b", kept, removed)
	}
}
