package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cardfolio/cardfolio/internal/middleware"
	"github.com/cardfolio/cardfolio/internal/models"
)

// ProfileService defines the operations required by ProfileHandler.
type ProfileService interface {
	// Register creates the profile row if needed and returns it.
	Register(ctx context.Context, login, displayName string) (*models.Profile, error)
	// Exists reports whether the login has a profile row.
	Exists(ctx context.Context, login string) (bool, error)
}

// ProfileHandler handles profile registration and lookup.
type ProfileHandler struct {
	ProfileService ProfileService
}

// RegisterRequest represents the JSON payload for profile registration.
type RegisterRequest struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// Register handles POST /api/profile/register. Registration is idempotent:
// re-registering an existing login returns the stored profile.
func (h *ProfileHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	profile, err := h.ProfileService.Register(r.Context(), req.Login, req.DisplayName)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, profile)
}

// Me handles GET /api/profile. It confirms the token's owner has a profile
// row and echoes the resolved identity.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	login := middleware.GetUserIDFromContext(r.Context())

	exists, err := h.ProfileService.Exists(r.Context(), login)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "profile not found", http.StatusForbidden)
		return
	}

	writeJSON(w, map[string]string{
		"status": "ok",
		"user":   login,
	})
}

// DashboardService defines the aggregate operation required by
// DashboardHandler.
type DashboardService interface {
	Summary(ctx context.Context, owner string) (*models.DashboardSummary, error)
}

// DashboardHandler serves the per-user dashboard summary.
type DashboardHandler struct {
	DashboardService DashboardService
}

// Summary handles GET /api/dashboard.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	s, err := h.DashboardService.Summary(r.Context(), owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s)
}
