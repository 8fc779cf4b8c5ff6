// Package dedupe collapses accidental duplicate cards produced by repeated
// scan-and-save actions.
package dedupe

import (
	"strings"

	"github.com/cardfolio/cardfolio/internal/models"
)

// sentinel stands in for an empty email or name so that cards missing a
// field still partition together.
const sentinel = "\x00none"

// key builds the similarity key a scan-created card is grouped by.
func key(c models.Card) string {
	email := sentinel
	if c.Email != "" {
		email = strings.ToLower(c.Email)
	}
	name := sentinel
	if c.Name != "" {
		name = strings.ToLower(c.Name)
	}
	return email + "|" + name
}

// Resolve partitions scan-created cards by (email, name) and keeps only the
// newest card of each multi-member partition. Cards not created by the scan
// flow and singleton partitions pass through unchanged. The returned slice
// preserves the input order of the survivors; removed is the number of
// collapsed duplicates.
//
// On identical creation timestamps the first card encountered wins; the
// tie-break is arbitrary, not a stability guarantee.
func Resolve(cards []models.Card) (kept []models.Card, removed int) {
	// First pass: find the newest member of each scan-created partition.
	newest := make(map[string]int, len(cards))
	for i, c := range cards {
		if !c.ScanCreated() {
			continue
		}
		k := key(c)
		best, ok := newest[k]
		if !ok || c.CreatedAt.After(cards[best].CreatedAt) {
			newest[k] = i
		}
	}

	kept = make([]models.Card, 0, len(cards))
	for i, c := range cards {
		if c.ScanCreated() && newest[key(c)] != i {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	return kept, removed
}
