// Package remote is the HTTP SDK for the cardfolio record store. It issues
// per-table CRUD requests scoped by the bearer token's owner and maps the
// server's conflict responses onto typed errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cardfolio/cardfolio/internal/models"
)

// ErrDuplicateKey is returned when a strict batch insert collides with an
// existing remote identifier. Callers fall back to per-record upserts.
var ErrDuplicateKey = errors.New("remote: duplicate key")

// ErrInvalidID is returned before any network call when a record identifier
// fails UUID validation.
var ErrInvalidID = errors.New("remote: identifier is not a valid UUID")

// Client talks to the record-store API on behalf of one user.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient constructs a Client for the given base URL and bearer token.
// hc may be nil, in which case http.DefaultClient is used.
func NewClient(base, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: base, token: token, http: hc}
}

// do issues one JSON request and decodes the response into out (when out is
// non-nil). A 409 response maps to ErrDuplicateKey.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%s %s: %w", method, path, ErrDuplicateKey)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// requireUUIDs rejects any identifier that is not a canonical UUID before a
// network call is made.
func requireUUIDs(ids ...string) error {
	for _, id := range ids {
		if !models.IsUUID(id) {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// RegisterProfile creates (or fetches) the profile row for login.
func (c *Client) RegisterProfile(ctx context.Context, login, displayName string) (*models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, http.MethodPost, "/api/profile/register",
		map[string]string{"login": login, "display_name": displayName}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Dashboard fetches the per-table row counts for the current user.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	var s models.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CardIDs returns the remote identifier set of the user's cards.
func (c *Client) CardIDs(ctx context.Context) ([]string, error) {
	var resp struct {
		IDs []string `json:"ids"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cards/ids", nil, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// Cards returns all remote cards for the user.
func (c *Client) Cards(ctx context.Context) ([]models.Card, error) {
	var resp struct {
		Cards []models.Card `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cards/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// InsertCards inserts cards as one strict batch. An identifier collision
// returns ErrDuplicateKey.
func (c *Client) InsertCards(ctx context.Context, cards []models.Card) error {
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}
	if err := requireUUIDs(ids...); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/cards/", map[string]any{"cards": cards}, nil)
}

// UpsertCard inserts or replaces one card with duplicate-tolerant semantics.
func (c *Client) UpsertCard(ctx context.Context, card models.Card) error {
	if err := requireUUIDs(card.ID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/cards/"+card.ID, card, nil)
}

// DeleteCards removes the given card rows.
func (c *Client) DeleteCards(ctx context.Context, ids []string) error {
	if err := requireUUIDs(ids...); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/cards/", map[string]any{"ids": ids}, nil)
}

// ClearCards removes every card row the user owns.
func (c *Client) ClearCards(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cards/", nil, nil)
}

// ReferralIDs returns the remote identifier set of the user's referrals.
func (c *Client) ReferralIDs(ctx context.Context) ([]string, error) {
	var resp struct {
		IDs []string `json:"ids"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/referrals/ids", nil, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// Referrals returns all remote referrals for the user.
func (c *Client) Referrals(ctx context.Context) ([]models.Referral, error) {
	var resp struct {
		Referrals []models.Referral `json:"referrals"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/referrals/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Referrals, nil
}

// InsertReferrals inserts referrals as one strict batch.
func (c *Client) InsertReferrals(ctx context.Context, refs []models.Referral) error {
	return c.do(ctx, http.MethodPost, "/api/referrals/", map[string]any{"referrals": refs}, nil)
}

// UpsertReferral inserts or replaces one referral.
func (c *Client) UpsertReferral(ctx context.Context, ref models.Referral) error {
	return c.do(ctx, http.MethodPut, "/api/referrals/"+ref.ID, ref, nil)
}

// DeleteReferrals removes the given referral rows.
func (c *Client) DeleteReferrals(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodDelete, "/api/referrals/", map[string]any{"ids": ids}, nil)
}

// ClearReferrals removes every referral row the user owns.
func (c *Client) ClearReferrals(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/referrals/", nil, nil)
}

// UpsertFile stores one file attachment row.
func (c *Client) UpsertFile(ctx context.Context, a models.Attachment) error {
	if err := requireUUIDs(a.ID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/files/"+a.ID, a, nil)
}

// UpsertVoiceNote stores one voice-note attachment row.
func (c *Client) UpsertVoiceNote(ctx context.Context, a models.Attachment) error {
	if err := requireUUIDs(a.ID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/voice-notes/"+a.ID, a, nil)
}

// ClearFiles removes every file row the user owns.
func (c *Client) ClearFiles(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/files/", nil, nil)
}

// ClearVoiceNotes removes every voice-note row the user owns.
func (c *Client) ClearVoiceNotes(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/voice-notes/", nil, nil)
}
