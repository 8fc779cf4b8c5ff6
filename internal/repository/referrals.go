package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/lib/pq"
)

// PostgresReferralRepository implements referral persistence against
// PostgreSQL.
type PostgresReferralRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresReferralRepository creates a new PostgresReferralRepository
// using the provided *sql.DB.
func NewPostgresReferralRepository(db *sql.DB) *PostgresReferralRepository {
	return &PostgresReferralRepository{DB: db}
}

const referralColumns = `id, referrer_id, recipient_id, date, category, outcome, value, notes`

// GetIDs returns the identifiers of all referrals owned by the given user.
func (r *PostgresReferralRepository) GetIDs(ctx context.Context, owner string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id FROM referrals WHERE owner_login = $1
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

// GetByOwner fetches all referrals for the specified user.
func (r *PostgresReferralRepository) GetByOwner(ctx context.Context, owner string) ([]models.Referral, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+referralColumns+` FROM referrals WHERE owner_login = $1
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("GetByOwner: %w", err)
	}
	defer rows.Close()

	var refs []models.Referral
	for rows.Next() {
		var ref models.Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.RecipientID, &ref.Date,
			&ref.Category, &ref.Outcome, &ref.Value, &ref.Notes); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// InsertBatch inserts referrals for the owner inside one transaction,
// surfacing identifier collisions as ErrDuplicate.
func (r *PostgresReferralRepository) InsertBatch(ctx context.Context, owner string, refs []models.Referral) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, ref := range refs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO referrals (id, owner_login, referrer_id, recipient_id, date, category, outcome, value, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, ref.ID, owner, ref.ReferrerID, ref.RecipientID, ref.Date, ref.Category, ref.Outcome, ref.Value, ref.Notes)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert referral %s: %w", ref.ID, ErrDuplicate)
			}
			return fmt.Errorf("insert referral %s: %w", ref.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Upsert inserts the referral or replaces the stored row on conflict.
func (r *PostgresReferralRepository) Upsert(ctx context.Context, owner string, ref models.Referral) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO referrals (id, owner_login, referrer_id, recipient_id, date, category, outcome, value, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			referrer_id = EXCLUDED.referrer_id,
			recipient_id = EXCLUDED.recipient_id,
			date = EXCLUDED.date,
			category = EXCLUDED.category,
			outcome = EXCLUDED.outcome,
			value = EXCLUDED.value,
			notes = EXCLUDED.notes
	`, ref.ID, owner, ref.ReferrerID, ref.RecipientID, ref.Date, ref.Category, ref.Outcome, ref.Value, ref.Notes)
	if err != nil {
		return fmt.Errorf("upsert referral %s: %w", ref.ID, err)
	}
	return nil
}

// DeleteMany removes the referrals with the given IDs for the specified
// user. An empty id slice removes every referral the user owns.
func (r *PostgresReferralRepository) DeleteMany(ctx context.Context, owner string, ids []string) error {
	if len(ids) == 0 {
		_, err := r.DB.ExecContext(ctx, `DELETE FROM referrals WHERE owner_login = $1`, owner)
		return err
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM referrals WHERE owner_login = $1 AND id = ANY($2)`, owner, pq.Array(ids))
	return err
}
