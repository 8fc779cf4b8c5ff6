// Package service provides business-logic services for the record store,
// delegating persistence to repository interfaces.
package service

import (
	"context"

	"github.com/cardfolio/cardfolio/internal/models"
)

// CardRepository defines the persistence operations needed by CardService.
type CardRepository interface {
	// GetIDs returns the identifiers of all cards owned by the user.
	GetIDs(ctx context.Context, owner string) ([]string, error)
	// GetByOwner retrieves all cards belonging to the user.
	GetByOwner(ctx context.Context, owner string) ([]models.Card, error)
	// InsertBatch inserts cards atomically; identifier collisions surface
	// as repository.ErrDuplicate.
	InsertBatch(ctx context.Context, owner string, cards []models.Card) error
	// Upsert inserts or replaces a single card.
	Upsert(ctx context.Context, owner string, card models.Card) error
	// DeleteMany removes cards by id; an empty slice clears the table for
	// the user.
	DeleteMany(ctx context.Context, owner string, ids []string) error
}

// CardService implements card record-store logic for the HTTP layer.
type CardService struct {
	repo CardRepository
}

// NewCardService constructs a CardService with the provided repository.
func NewCardService(repo CardRepository) *CardService {
	return &CardService{repo: repo}
}

// IDs returns the remote identifier set for the user's cards.
func (s *CardService) IDs(ctx context.Context, owner string) ([]string, error) {
	return s.repo.GetIDs(ctx, owner)
}

// List returns all cards for the user.
func (s *CardService) List(ctx context.Context, owner string) ([]models.Card, error) {
	return s.repo.GetByOwner(ctx, owner)
}

// InsertBatch stores new cards for the user.
func (s *CardService) InsertBatch(ctx context.Context, owner string, cards []models.Card) error {
	return s.repo.InsertBatch(ctx, owner, cards)
}

// Upsert stores or replaces one card for the user.
func (s *CardService) Upsert(ctx context.Context, owner string, card models.Card) error {
	return s.repo.Upsert(ctx, owner, card)
}

// Delete removes the given card ids, or every card when ids is empty.
func (s *CardService) Delete(ctx context.Context, owner string, ids []string) error {
	return s.repo.DeleteMany(ctx, owner, ids)
}

// ReferralRepository defines the persistence operations needed by
// ReferralService.
type ReferralRepository interface {
	GetIDs(ctx context.Context, owner string) ([]string, error)
	GetByOwner(ctx context.Context, owner string) ([]models.Referral, error)
	InsertBatch(ctx context.Context, owner string, refs []models.Referral) error
	Upsert(ctx context.Context, owner string, ref models.Referral) error
	DeleteMany(ctx context.Context, owner string, ids []string) error
}

// ReferralService implements referral record-store logic.
type ReferralService struct {
	repo ReferralRepository
}

// NewReferralService constructs a ReferralService with the provided
// repository.
func NewReferralService(repo ReferralRepository) *ReferralService {
	return &ReferralService{repo: repo}
}

func (s *ReferralService) IDs(ctx context.Context, owner string) ([]string, error) {
	return s.repo.GetIDs(ctx, owner)
}

func (s *ReferralService) List(ctx context.Context, owner string) ([]models.Referral, error) {
	return s.repo.GetByOwner(ctx, owner)
}

func (s *ReferralService) InsertBatch(ctx context.Context, owner string, refs []models.Referral) error {
	return s.repo.InsertBatch(ctx, owner, refs)
}

func (s *ReferralService) Upsert(ctx context.Context, owner string, ref models.Referral) error {
	return s.repo.Upsert(ctx, owner, ref)
}

func (s *ReferralService) Delete(ctx context.Context, owner string, ids []string) error {
	return s.repo.DeleteMany(ctx, owner, ids)
}

// AttachmentRepository defines the persistence operations needed by
// AttachmentService.
type AttachmentRepository interface {
	GetByOwner(ctx context.Context, owner string) ([]models.Attachment, error)
	Upsert(ctx context.Context, owner string, a models.Attachment) error
	DeleteMany(ctx context.Context, owner string, ids []string) error
}

// AttachmentService implements file/voice-note record-store logic.
type AttachmentService struct {
	repo AttachmentRepository
}

// NewAttachmentService constructs an AttachmentService with the provided
// repository.
func NewAttachmentService(repo AttachmentRepository) *AttachmentService {
	return &AttachmentService{repo: repo}
}

func (s *AttachmentService) List(ctx context.Context, owner string) ([]models.Attachment, error) {
	return s.repo.GetByOwner(ctx, owner)
}

func (s *AttachmentService) Upsert(ctx context.Context, owner string, a models.Attachment) error {
	return s.repo.Upsert(ctx, owner, a)
}

func (s *AttachmentService) Delete(ctx context.Context, owner string, ids []string) error {
	return s.repo.DeleteMany(ctx, owner, ids)
}

// DashboardRepository defines the aggregate query needed by
// DashboardService.
type DashboardRepository interface {
	Summary(ctx context.Context, owner string) (*models.DashboardSummary, error)
}

// DashboardService returns per-user aggregates for the dashboard endpoint.
type DashboardService struct {
	repo DashboardRepository
}

// NewDashboardService constructs a DashboardService with the provided
// repository.
func NewDashboardService(repo DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Summary(ctx context.Context, owner string) (*models.DashboardSummary, error) {
	return s.repo.Summary(ctx, owner)
}
