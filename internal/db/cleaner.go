package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartTicketCleaner purges expired tickets with interval
func StartTicketCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	grace time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-grace)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM tickets
                     WHERE expires_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean expired tickets", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired tickets", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
