package repository

import (
	"context"
	"database/sql"

	"github.com/cardfolio/cardfolio/internal/models"
)

// PostgresProfileRepository implements profile persistence using a
// PostgreSQL database.
type PostgresProfileRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository with
// the given database connection.
func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{DB: db}
}

// Exists checks whether a profile with the specified login exists.
func (r *PostgresProfileRepository) Exists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE login = $1)`,
		login,
	).Scan(&exists)
	return exists, err
}

// Register creates the profile row if it does not exist yet. Re-registering
// an existing login is a no-op thanks to ON CONFLICT DO NOTHING.
func (r *PostgresProfileRepository) Register(ctx context.Context, login, displayName string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO profiles (login, display_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		login, displayName,
	)
	return err
}

// Get fetches the profile row for the given login.
func (r *PostgresProfileRepository) Get(ctx context.Context, login string) (*models.Profile, error) {
	var p models.Profile
	err := r.DB.QueryRowContext(ctx, `
		SELECT login, display_name, created_at FROM profiles WHERE login = $1
	`, login).Scan(&p.Login, &p.DisplayName, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
