// Package models defines the core data structures for cards, referrals
// and the remote tables consumed by the sync layer.
package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TagScanned marks a card created by the scan-and-extract flow.
// The duplicate resolver only considers cards carrying this tag.
const TagScanned = "scanned"

// Card represents a single business card owned by a user.
type Card struct {
	// ID is the unique identifier of the card within the owner's scope.
	ID string `json:"id"`
	// Name is the contact's full name.
	Name string `json:"name"`
	// Company is the organization printed on the card.
	Company string `json:"company"`
	// Title is the contact's job title.
	Title string `json:"title"`
	// Phones holds up to three phone numbers.
	Phones []string `json:"phones"`
	// Addresses holds up to two postal addresses.
	Addresses []string `json:"addresses"`
	Email     string   `json:"email"`
	Website   string   `json:"website"`
	// Tags is an unordered set of classification labels. Duplicates are
	// tolerated; order carries no meaning.
	Tags  []string `json:"tags"`
	Notes string   `json:"notes"`
	// FrontImage and BackImage reference the captured card images, if any.
	FrontImage string `json:"front_image,omitempty"`
	BackImage  string `json:"back_image,omitempty"`
	// FileIDs and VoiceNoteIDs reference attachment rows with independent
	// lifecycle; deleting the card does not cascade to them.
	FileIDs      []string `json:"file_ids,omitempty"`
	VoiceNoteIDs []string `json:"voice_note_ids,omitempty"`
	Favorite     bool     `json:"favorite"`
	// CreatedAt and UpdatedAt are serialized as RFC 3339 strings.
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
}

// cardAlias avoids UnmarshalJSON recursion.
type cardAlias Card

// UnmarshalJSON accepts both the current array form and the legacy
// singular "phone"/"address" fields. Singular values are folded into the
// array fields and never round-trip back out: Card has no singular fields
// to marshal.
func (c *Card) UnmarshalJSON(data []byte) error {
	aux := struct {
		*cardAlias
		LegacyPhone   string `json:"phone"`
		LegacyAddress string `json:"address"`
	}{cardAlias: (*cardAlias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(c.Phones) == 0 && aux.LegacyPhone != "" {
		c.Phones = []string{aux.LegacyPhone}
	}
	if len(c.Addresses) == 0 && aux.LegacyAddress != "" {
		c.Addresses = []string{aux.LegacyAddress}
	}
	return nil
}

// ScanCreated reports whether the card was produced by the scan flow.
func (c *Card) ScanCreated() bool {
	for _, t := range c.Tags {
		if t == TagScanned {
			return true
		}
	}
	return false
}

// IsUUID reports whether id is a canonical 8-4-4-4-12 UUID string.
func IsUUID(id string) bool {
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	// uuid.Parse also accepts braced and URN forms; the identifier
	// contract only admits the canonical 8-4-4-4-12 one.
	return strings.EqualFold(u.String(), id)
}
