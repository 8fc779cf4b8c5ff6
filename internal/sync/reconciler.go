// Package sync brings the remote record store into agreement with the
// local persistent store's identifier set. Reconciliation is one-directional
// by design: local state always wins, and records present on both sides are
// left untouched (no field-level merge).
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardfolio/cardfolio/internal/client/remote"
	"go.uber.org/zap"
)

// Table is the per-table contract the reconciler drives. The local stores
// implement it.
type Table interface {
	// LocalIDs returns the authoritative local identifier set.
	LocalIDs() []string
	// RemoteIDs fetches the remote identifier set for the current user.
	RemoteIDs(ctx context.Context) ([]string, error)
	// DeleteRemote removes the given rows from the remote store.
	DeleteRemote(ctx context.Context, ids []string) error
	// PushBatch strictly inserts the local records with the given ids;
	// identifier collisions surface as remote.ErrDuplicateKey.
	PushBatch(ctx context.Context, ids []string) error
	// PushOne upserts one local record with duplicate-tolerant semantics.
	PushOne(ctx context.Context, id string) error
}

// Report summarizes one reconciliation for caller-facing success/error
// reporting.
type Report struct {
	// Pushed is the number of local-only records sent to the remote store.
	Pushed int `json:"pushed"`
	// Deleted is the number of remote-only rows removed.
	Deleted int `json:"deleted"`
}

// Reconciler reconciles one table at a time.
type Reconciler struct {
	log *zap.Logger
}

// New constructs a Reconciler logging through log.
func New(log *zap.Logger) *Reconciler {
	return &Reconciler{log: log}
}

// Reconcile computes the set difference between local and remote
// identifiers, deletes remote-only rows, and pushes local-only records.
// With no intervening local mutation a second call is a no-op: both
// differences come back empty.
func (r *Reconciler) Reconcile(ctx context.Context, t Table) (Report, error) {
	var rep Report

	remoteIDs, err := t.RemoteIDs(ctx)
	if err != nil {
		return rep, fmt.Errorf("fetch remote ids: %w", err)
	}

	local := t.LocalIDs()
	localSet := make(map[string]bool, len(local))
	for _, id := range local {
		localSet[id] = true
	}
	remoteSet := make(map[string]bool, len(remoteIDs))
	for _, id := range remoteIDs {
		remoteSet[id] = true
	}

	var remoteOnly []string
	for _, id := range remoteIDs {
		if !localSet[id] {
			remoteOnly = append(remoteOnly, id)
		}
	}
	var localOnly []string
	for _, id := range local {
		if !remoteSet[id] {
			localOnly = append(localOnly, id)
		}
	}

	if len(remoteOnly) > 0 {
		if err := t.DeleteRemote(ctx, remoteOnly); err != nil {
			return rep, fmt.Errorf("delete remote-only rows: %w", err)
		}
		rep.Deleted = len(remoteOnly)
	}

	if len(localOnly) > 0 {
		if err := t.PushBatch(ctx, localOnly); err != nil {
			if !errors.Is(err, remote.ErrDuplicateKey) {
				return rep, fmt.Errorf("push local-only records: %w", err)
			}
			// An identifier collision raced the batch; retry one record
			// at a time with duplicate-tolerant upserts.
			r.log.Warn("batch insert collided, falling back to per-record upserts",
				zap.Int("records", len(localOnly)))
			for _, id := range localOnly {
				if err := t.PushOne(ctx, id); err != nil {
					return rep, fmt.Errorf("upsert record %s: %w", id, err)
				}
				rep.Pushed++
			}
			return rep, nil
		}
		rep.Pushed = len(localOnly)
	}

	return rep, nil
}
