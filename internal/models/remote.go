package models

import "time"

// Attachment is a file or voice-note row linked to a card. Attachments have
// their own lifecycle and are not cascade-deleted with the card.
type Attachment struct {
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is an event row consumed by the dashboard.
type Event struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
}

// Ticket is a ticket row for an event. Expired tickets are purged by the
// server-side cleaner.
type Ticket struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the per-user row that owns all other rows.
type Profile struct {
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardSummary is the aggregate the dashboard endpoint returns.
type DashboardSummary struct {
	Cards     int `json:"cards"`
	Referrals int `json:"referrals"`
	Events    int `json:"events"`
	Tickets   int `json:"tickets"`
}
