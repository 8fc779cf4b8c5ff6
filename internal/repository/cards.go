package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/lib/pq"
)

// PostgresCardRepository implements card persistence against PostgreSQL.
type PostgresCardRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCardRepository creates a new PostgresCardRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresCardRepository(db *sql.DB) *PostgresCardRepository {
	return &PostgresCardRepository{DB: db}
}

const cardColumns = `id, name, company, title, phones, addresses, email, website, tags, notes, favorite, created_at, updated_at`

// GetIDs returns the identifiers of all cards owned by the given user.
func (r *PostgresCardRepository) GetIDs(ctx context.Context, owner string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id FROM cards WHERE owner_login = $1
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("GetIDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetByOwner fetches all cards for the specified user.
func (r *PostgresCardRepository) GetByOwner(ctx context.Context, owner string) ([]models.Card, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE owner_login = $1
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("GetByOwner: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.Title,
			pq.Array(&c.Phones), pq.Array(&c.Addresses), &c.Email, &c.Website,
			pq.Array(&c.Tags), &c.Notes, &c.Favorite, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// InsertBatch inserts cards for the owner inside one transaction. An
// identifier collision aborts the batch and surfaces as ErrDuplicate so the
// caller can fall back to per-record upserts.
func (r *PostgresCardRepository) InsertBatch(ctx context.Context, owner string, cards []models.Card) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cards {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cards (id, owner_login, name, company, title, phones, addresses, email, website, tags, notes, favorite, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, c.ID, owner, c.Name, c.Company, c.Title, pq.Array(c.Phones), pq.Array(c.Addresses),
			c.Email, c.Website, pq.Array(c.Tags), c.Notes, c.Favorite, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert card %s: %w", c.ID, ErrDuplicate)
			}
			return fmt.Errorf("insert card %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Upsert inserts the card or, on identifier conflict, replaces the stored
// row with the provided one. Used by the push path and the reconciler's
// duplicate-tolerant fallback.
func (r *PostgresCardRepository) Upsert(ctx context.Context, owner string, c models.Card) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cards (id, owner_login, name, company, title, phones, addresses, email, website, tags, notes, favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			title = EXCLUDED.title,
			phones = EXCLUDED.phones,
			addresses = EXCLUDED.addresses,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			tags = EXCLUDED.tags,
			notes = EXCLUDED.notes,
			favorite = EXCLUDED.favorite,
			updated_at = EXCLUDED.updated_at
	`, c.ID, owner, c.Name, c.Company, c.Title, pq.Array(c.Phones), pq.Array(c.Addresses),
		c.Email, c.Website, pq.Array(c.Tags), c.Notes, c.Favorite, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert card %s: %w", c.ID, err)
	}
	return nil
}

// DeleteMany removes the cards with the given IDs for the specified user.
// An empty id slice removes every card the user owns.
func (r *PostgresCardRepository) DeleteMany(ctx context.Context, owner string, ids []string) error {
	if len(ids) == 0 {
		_, err := r.DB.ExecContext(ctx, `DELETE FROM cards WHERE owner_login = $1`, owner)
		return err
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cards WHERE owner_login = $1 AND id = ANY($2)`, owner, pq.Array(ids))
	return err
}
