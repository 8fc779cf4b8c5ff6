package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/lib/pq"
)

// Attachment tables this repository may touch. card attachments live in two
// structurally identical tables.
const (
	TableFiles      = "files"
	TableVoiceNotes = "voice_notes"
)

// PostgresAttachmentRepository implements file and voice-note persistence.
// The table is fixed at construction time and validated against the known
// attachment tables, so it can be interpolated into queries safely.
type PostgresAttachmentRepository struct {
	DB    *sql.DB
	table string
}

// NewPostgresAttachmentRepository creates a repository bound to one of the
// attachment tables (TableFiles or TableVoiceNotes).
func NewPostgresAttachmentRepository(db *sql.DB, table string) (*PostgresAttachmentRepository, error) {
	if table != TableFiles && table != TableVoiceNotes {
		return nil, fmt.Errorf("unknown attachment table %q", table)
	}
	return &PostgresAttachmentRepository{DB: db, table: table}, nil
}

// GetByOwner fetches all attachments for the specified user.
func (r *PostgresAttachmentRepository) GetByOwner(ctx context.Context, owner string) ([]models.Attachment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, card_id, name, url, created_at FROM `+r.table+` WHERE owner_login = $1
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("GetByOwner %s: %w", r.table, err)
	}
	defer rows.Close()

	var atts []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.CardID, &a.Name, &a.URL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		atts = append(atts, a)
	}
	return atts, rows.Err()
}

// Upsert inserts the attachment or replaces the stored row on conflict.
func (r *PostgresAttachmentRepository) Upsert(ctx context.Context, owner string, a models.Attachment) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO `+r.table+` (id, owner_login, card_id, name, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			card_id = EXCLUDED.card_id,
			name = EXCLUDED.name,
			url = EXCLUDED.url
	`, a.ID, owner, a.CardID, a.Name, a.URL, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert %s %s: %w", r.table, a.ID, err)
	}
	return nil
}

// DeleteMany removes the attachments with the given IDs for the specified
// user. An empty id slice removes every row the user owns.
func (r *PostgresAttachmentRepository) DeleteMany(ctx context.Context, owner string, ids []string) error {
	if len(ids) == 0 {
		_, err := r.DB.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE owner_login = $1`, owner)
		return err
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE owner_login = $1 AND id = ANY($2)`, owner, pq.Array(ids))
	return err
}
