package service

import (
	"context"

	"github.com/cardfolio/cardfolio/internal/models"
)

// ProfileRepository defines the persistence operations required by the
// profile service.
type ProfileRepository interface {
	// Exists returns true if a profile with the given login exists.
	Exists(ctx context.Context, login string) (bool, error)
	// Register creates a new profile row with the given login; registering
	// an existing login is a no-op.
	Register(ctx context.Context, login, displayName string) error
	// Get fetches the profile row for the given login.
	Get(ctx context.Context, login string) (*models.Profile, error)
}

// ProfileService implements profile registration and lookup.
type ProfileService struct {
	repo ProfileRepository
}

// NewProfileService constructs a ProfileService with the provided
// ProfileRepository.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Register creates the profile if needed and returns the stored row.
func (s *ProfileService) Register(ctx context.Context, login, displayName string) (*models.Profile, error) {
	if err := s.repo.Register(ctx, login, displayName); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, login)
}

// Exists reports whether the login has a profile row.
func (s *ProfileService) Exists(ctx context.Context, login string) (bool, error) {
	return s.repo.Exists(ctx, login)
}
