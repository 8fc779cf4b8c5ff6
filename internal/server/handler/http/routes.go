// Package http provides HTTP routing and middleware configuration
// for the cardfolio record store.
package http

import (
	"net/http"

	"github.com/cardfolio/cardfolio/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Profile    *ProfileHandler
	Cards      *CardHandler
	Referrals  *ReferralHandler
	Files      *AttachmentHandler
	VoiceNotes *AttachmentHandler
	Dashboard  *DashboardHandler
}

// NewRouter constructs the HTTP handler serving the record-store API.
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") — rejects non-JSON requests
//  2. WithRequestLogging(logger)           — logs incoming requests
//  3. TokenAuth                            — resolves the owning user id
//
// Every table gets the same surface: GET ids, GET list, POST batch insert,
// PUT {id} upsert, DELETE (ids or clear-all). Registration is the only
// public endpoint.
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Resolve the bearer token into the owning user id
	r.Use(middleware.TokenAuth)

	r.Route("/api", func(r chi.Router) {
		// Public endpoint
		r.Post("/profile/register", h.Profile.Register)

		r.Get("/profile", h.Profile.Me)
		r.Get("/dashboard", h.Dashboard.Summary)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/ids", h.Cards.IDs)
			r.Get("/", h.Cards.List)
			r.Post("/", h.Cards.InsertBatch)
			r.Put("/{id}", h.Cards.Upsert)
			r.Delete("/", h.Cards.Delete)
		})

		r.Route("/referrals", func(r chi.Router) {
			r.Get("/ids", h.Referrals.IDs)
			r.Get("/", h.Referrals.List)
			r.Post("/", h.Referrals.InsertBatch)
			r.Put("/{id}", h.Referrals.Upsert)
			r.Delete("/", h.Referrals.Delete)
		})

		r.Route("/files", func(r chi.Router) {
			r.Get("/", h.Files.List)
			r.Put("/{id}", h.Files.Upsert)
			r.Delete("/", h.Files.Delete)
		})

		r.Route("/voice-notes", func(r chi.Router) {
			r.Get("/", h.VoiceNotes.List)
			r.Put("/{id}", h.VoiceNotes.Upsert)
			r.Delete("/", h.VoiceNotes.Delete)
		})
	})

	return r
}
