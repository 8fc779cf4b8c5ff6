package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cardfolio/cardfolio/internal/models"
)

// PostgresDashboardRepository aggregates per-user row counts across the
// record tables for the dashboard endpoint.
type PostgresDashboardRepository struct {
	DB *sql.DB
}

// NewPostgresDashboardRepository creates a new PostgresDashboardRepository.
func NewPostgresDashboardRepository(db *sql.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{DB: db}
}

// Summary returns the per-table row counts for the given user.
func (r *PostgresDashboardRepository) Summary(ctx context.Context, owner string) (*models.DashboardSummary, error) {
	var s models.DashboardSummary
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM cards WHERE owner_login = $1),
			(SELECT COUNT(*) FROM referrals WHERE owner_login = $1),
			(SELECT COUNT(*) FROM events WHERE owner_login = $1),
			(SELECT COUNT(*) FROM tickets WHERE owner_login = $1)
	`, owner).Scan(&s.Cards, &s.Referrals, &s.Events, &s.Tickets)
	if err != nil {
		return nil, fmt.Errorf("Summary: %w", err)
	}
	return &s, nil
}
