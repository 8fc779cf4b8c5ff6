package models

import "time"

// Outcome is the state of a referral.
type Outcome string

const (
	// OutcomePending means the referral has not been resolved yet.
	OutcomePending Outcome = "pending"
	// OutcomeSuccessful means the referral converted.
	OutcomeSuccessful Outcome = "successful"
	// OutcomeUnsuccessful means the referral did not convert.
	OutcomeUnsuccessful Outcome = "unsuccessful"
)

// Referral records one referral between two contacts. Either party may be
// the current user, denoted by the owner's own identifier.
type Referral struct {
	// ID must be a canonical UUID; records failing this are dropped on load.
	ID string `json:"id"`
	// ReferrerID and RecipientID each reference the current user or an
	// existing card identifier.
	ReferrerID  string    `json:"referrer_id"`
	RecipientID string    `json:"recipient_id"`
	Date        time.Time `json:"date"`
	// Category is the free-form case/category label.
	Category string  `json:"category"`
	Outcome  Outcome `json:"outcome"`
	// Value is the monetary value attributed to the referral.
	Value float64 `json:"value"`
	Notes string  `json:"notes,omitempty"`
}

// Merge copies the non-zero fields of patch onto r, leaving the identifier
// untouched. Used by the partial-field update path.
func (r *Referral) Merge(patch Referral) {
	if patch.ReferrerID != "" {
		r.ReferrerID = patch.ReferrerID
	}
	if patch.RecipientID != "" {
		r.RecipientID = patch.RecipientID
	}
	if !patch.Date.IsZero() {
		r.Date = patch.Date
	}
	if patch.Category != "" {
		r.Category = patch.Category
	}
	if patch.Outcome != "" {
		r.Outcome = patch.Outcome
	}
	if patch.Value != 0 {
		r.Value = patch.Value
	}
	if patch.Notes != "" {
		r.Notes = patch.Notes
	}
}
