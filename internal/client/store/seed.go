package store

import (
	"time"

	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/google/uuid"
)

// SeedCards returns the fixed starter collection with freshly generated
// identifiers and timestamps. It is used on first run, when a persisted
// blob cannot be decoded, and by ResetToSeed.
func SeedCards() []models.Card {
	now := time.Now().UTC()
	return []models.Card{
		{
			ID:        uuid.NewString(),
			Name:      "Dana Whitfield",
			Company:   "Whitfield & Associates",
			Title:     "Managing Partner",
			Phones:    []string{"(415) 555-0132"},
			Addresses: []string{"600 Harrison St, San Francisco, CA"},
			Email:     "dana@whitfieldlaw.com",
			Website:   "www.whitfieldlaw.com",
			Tags:      []string{"legal"},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        uuid.NewString(),
			Name:      "Marcus Cole",
			Company:   "Cole Property Group",
			Title:     "Broker",
			Phones:    []string{"(628) 555-0177"},
			Email:     "marcus@colepg.com",
			Tags:      []string{"real-estate"},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        uuid.NewString(),
			Name:      "Priya Raman",
			Company:   "Raman Financial Planning",
			Title:     "Advisor",
			Phones:    []string{"(510) 555-0108"},
			Email:     "priya@ramanfp.com",
			Website:   "www.ramanfp.com",
			Tags:      []string{"finance"},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// SeedReferrals derives a synthetic referral set from the given cards: each
// adjacent pair produces one pending referral from the owner to the card.
func SeedReferrals(owner string, cards []models.Card) []models.Referral {
	now := time.Now().UTC()
	refs := make([]models.Referral, 0, len(cards))
	for _, c := range cards {
		refs = append(refs, models.Referral{
			ID:          uuid.NewString(),
			ReferrerID:  owner,
			RecipientID: c.ID,
			Date:        now,
			Category:    "introduction",
			Outcome:     models.OutcomePending,
		})
	}
	return refs
}
