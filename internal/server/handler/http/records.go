// Package http provides HTTP handlers for the per-table record-store API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cardfolio/cardfolio/internal/middleware"
	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/cardfolio/cardfolio/internal/repository"
	"github.com/go-chi/chi/v5"
)

// CardService defines the record-store operations required by CardHandler.
type CardService interface {
	IDs(ctx context.Context, owner string) ([]string, error)
	List(ctx context.Context, owner string) ([]models.Card, error)
	// InsertBatch stores new cards atomically; identifier collisions
	// surface as repository.ErrDuplicate.
	InsertBatch(ctx context.Context, owner string, cards []models.Card) error
	Upsert(ctx context.Context, owner string, card models.Card) error
	// Delete removes the given ids, or every card when ids is empty.
	Delete(ctx context.Context, owner string, ids []string) error
}

// CardHandler handles HTTP requests for the cards table.
type CardHandler struct {
	CardService CardService
}

// IDs handles GET /api/cards/ids.
func (h *CardHandler) IDs(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	ids, err := h.CardService.IDs(r.Context(), owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"ids": ids})
}

// List handles GET /api/cards.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	cards, err := h.CardService.List(r.Context(), owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"cards": cards})
}

// InsertBatch handles POST /api/cards. Identifier collisions return 409 so
// the client can fall back to per-record upserts.
func (h *CardHandler) InsertBatch(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Cards []models.Card `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.CardService.InsertBatch(r.Context(), owner, req.Cards); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Upsert handles PUT /api/cards/{id}.
func (h *CardHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if card.ID != id {
		http.Error(w, "body id does not match path", http.StatusBadRequest)
		return
	}
	if !models.IsUUID(id) {
		http.Error(w, "id is not a valid UUID", http.StatusBadRequest)
		return
	}

	if err := h.CardService.Upsert(r.Context(), owner, card); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /api/cards. A body with ids deletes those rows; an
// empty body (or empty ids) clears every card the user owns.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		IDs []string `json:"ids"`
	}
	// Body is optional for clear-all.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.CardService.Delete(r.Context(), owner, req.IDs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ReferralService defines the record-store operations required by
// ReferralHandler.
type ReferralService interface {
	IDs(ctx context.Context, owner string) ([]string, error)
	List(ctx context.Context, owner string) ([]models.Referral, error)
	InsertBatch(ctx context.Context, owner string, refs []models.Referral) error
	Upsert(ctx context.Context, owner string, ref models.Referral) error
	Delete(ctx context.Context, owner string, ids []string) error
}

// ReferralHandler handles HTTP requests for the referrals table.
type ReferralHandler struct {
	ReferralService ReferralService
}

func (h *ReferralHandler) IDs(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	ids, err := h.ReferralService.IDs(r.Context(), owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"ids": ids})
}

func (h *ReferralHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	refs, err := h.ReferralService.List(r.Context(), owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"referrals": refs})
}

func (h *ReferralHandler) InsertBatch(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Referrals []models.Referral `json:"referrals"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.ReferralService.InsertBatch(r.Context(), owner, req.Referrals); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *ReferralHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var ref models.Referral
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if ref.ID != id {
		http.Error(w, "body id does not match path", http.StatusBadRequest)
		return
	}
	if !models.IsUUID(id) {
		http.Error(w, "id is not a valid UUID", http.StatusBadRequest)
		return
	}

	if err := h.ReferralService.Upsert(r.Context(), owner, ref); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *ReferralHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		IDs []string `json:"ids"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.ReferralService.Delete(r.Context(), owner, req.IDs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
