package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cardfolio/cardfolio/internal/middleware"
	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/go-chi/chi/v5"
)

// AttachmentService defines the operations required by AttachmentHandler.
// One handler instance serves one attachment table (files or voice notes).
type AttachmentService interface {
	List(ctx context.Context, owner string) ([]models.Attachment, error)
	Upsert(ctx context.Context, owner string, a models.Attachment) error
	Delete(ctx context.Context, owner string, ids []string) error
}

// AttachmentHandler handles HTTP requests for one attachment table.
type AttachmentHandler struct {
	AttachmentService AttachmentService
}

func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	atts, err := h.AttachmentService.List(r.Context(), owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"attachments": atts})
}

func (h *AttachmentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var a models.Attachment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if a.ID != id {
		http.Error(w, "body id does not match path", http.StatusBadRequest)
		return
	}
	if !models.IsUUID(id) {
		http.Error(w, "id is not a valid UUID", http.StatusBadRequest)
		return
	}

	if err := h.AttachmentService.Upsert(r.Context(), owner, a); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		IDs []string `json:"ids"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.AttachmentService.Delete(r.Context(), owner, req.IDs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
