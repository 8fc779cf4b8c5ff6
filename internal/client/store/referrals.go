package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/cardfolio/cardfolio/internal/client/store/pushq"
	"github.com/cardfolio/cardfolio/internal/models"
	"go.uber.org/zap"
)

// ReferralRemote is the slice of the record-store SDK the referral store
// uses.
type ReferralRemote interface {
	ReferralIDs(ctx context.Context) ([]string, error)
	InsertReferrals(ctx context.Context, refs []models.Referral) error
	UpsertReferral(ctx context.Context, ref models.Referral) error
	DeleteReferrals(ctx context.Context, ids []string) error
}

// referralBlob is the persisted on-disk shape.
type referralBlob struct {
	Referrals []models.Referral `json:"referrals"`
}

// CardLookup answers whether a card identifier exists locally. The card
// store satisfies it.
type CardLookup interface {
	Has(id string) bool
}

// ReferralStore is the local persistent store for referrals.
type ReferralStore struct {
	mu        sync.Mutex
	referrals []models.Referral
	loaded    bool

	path   string
	owner  string
	cards  CardLookup
	remote ReferralRemote
	queue  *pushq.Queue
	log    *zap.Logger
}

// NewReferralStore creates a ReferralStore persisting to path. owner is the
// current user's identifier; referral participants must reference it or an
// existing card in cards.
func NewReferralStore(path, owner string, cards CardLookup, remote ReferralRemote, queue *pushq.Queue, log *zap.Logger) *ReferralStore {
	return &ReferralStore{path: path, owner: owner, cards: cards, remote: remote, queue: queue, log: log}
}

// Load rehydrates the collection from disk. Records whose identifier is not
// a valid UUID are malformed legacy rows and are dropped silently, not
// repaired. A missing or undecodable blob yields an empty collection.
func (s *ReferralStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.referrals = []models.Referral{}
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read referral store: %w", err)
	}

	var blob referralBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		s.log.Warn("referral blob undecodable, starting empty", zap.Error(err))
		s.referrals = []models.Referral{}
		s.loaded = true
		return nil
	}

	kept := blob.Referrals[:0]
	dropped := 0
	for _, r := range blob.Referrals {
		if !models.IsUUID(r.ID) {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	if dropped > 0 {
		s.log.Info("dropped malformed referrals on load", zap.Int("count", dropped))
	}

	s.referrals = kept
	s.loaded = true
	return nil
}

func (s *ReferralStore) saveLocked() error {
	data, err := json.Marshal(referralBlob{Referrals: s.referrals})
	if err != nil {
		return fmt.Errorf("encode referral store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write referral store: %w", err)
	}
	return nil
}

// Loaded reports whether Load has completed.
func (s *ReferralStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// List returns a copy of the collection.
func (s *ReferralStore) List() []models.Referral {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Referral, len(s.referrals))
	copy(out, s.referrals)
	return out
}

// LocalIDs returns the identifiers of the current collection.
func (s *ReferralStore) LocalIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.referrals))
	for i, r := range s.referrals {
		ids[i] = r.ID
	}
	return ids
}

// validParticipant reports whether id denotes the current user or an
// existing card.
func (s *ReferralStore) validParticipant(id string) bool {
	return id == s.owner || s.cards.Has(id)
}

// Add validates the referral's participants, prepends it, persists, and
// schedules a background push. A referral pointing at a card that does not
// exist is rejected.
func (s *ReferralStore) Add(ref models.Referral) error {
	if !s.validParticipant(ref.ReferrerID) {
		return fmt.Errorf("referrer %q is neither the current user nor an existing card", ref.ReferrerID)
	}
	if !s.validParticipant(ref.RecipientID) {
		return fmt.Errorf("recipient %q is neither the current user nor an existing card", ref.RecipientID)
	}

	s.mu.Lock()
	s.referrals = append([]models.Referral{ref}, s.referrals...)
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.enqueuePush(ref)
	return nil
}

// Update merges the non-zero fields of patch into the stored referral,
// persists, and schedules a background push.
func (s *ReferralStore) Update(id string, patch models.Referral) error {
	s.mu.Lock()
	var updated *models.Referral
	for i := range s.referrals {
		if s.referrals[i].ID == id {
			s.referrals[i].Merge(patch)
			r := s.referrals[i]
			updated = &r
			break
		}
	}
	if updated == nil {
		s.mu.Unlock()
		return fmt.Errorf("referral %s not found", id)
	}
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.enqueuePush(*updated)
	return nil
}

// Delete removes the referral locally, then deletes the remote row. On
// remote failure the record is restored locally and the error propagates.
func (s *ReferralStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	var removed models.Referral
	for i := range s.referrals {
		if s.referrals[i].ID == id {
			idx = i
			removed = s.referrals[i]
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("referral %s not found", id)
	}
	s.referrals = append(s.referrals[:idx], s.referrals[idx+1:]...)
	if err := s.saveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := s.remote.DeleteReferrals(ctx, []string{id}); err != nil {
		s.mu.Lock()
		if idx > len(s.referrals) {
			idx = len(s.referrals)
		}
		s.referrals = append(s.referrals[:idx], append([]models.Referral{removed}, s.referrals[idx:]...)...)
		if saveErr := s.saveLocked(); saveErr != nil {
			s.log.Error("failed to persist restored referral", zap.Error(saveErr))
		}
		s.mu.Unlock()
		return fmt.Errorf("remote delete failed, local state restored: %w", err)
	}
	return nil
}

// SeedFromCards bulk-generates a synthetic referral set keyed by the given
// cards, replaces the collection with it, persists, and pushes each record.
func (s *ReferralStore) SeedFromCards(cards []models.Card) error {
	seed := SeedReferrals(s.owner, cards)
	s.mu.Lock()
	s.referrals = seed
	s.loaded = true
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, r := range seed {
		s.enqueuePush(r)
	}
	return nil
}

// enqueuePush schedules a background push for one referral, de-duplicating
// against the remote identifier set fetched fresh per call.
func (s *ReferralStore) enqueuePush(ref models.Referral) {
	s.queue.Enqueue(ref.ID, func() error {
		ctx := context.Background()
		ids, err := s.remote.ReferralIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == ref.ID {
				return s.remote.UpsertReferral(ctx, ref)
			}
		}
		return s.remote.InsertReferrals(ctx, []models.Referral{ref})
	})
}

// RemoteIDs fetches the remote identifier set. Part of the reconciler's
// table contract.
func (s *ReferralStore) RemoteIDs(ctx context.Context) ([]string, error) {
	return s.remote.ReferralIDs(ctx)
}

// DeleteRemote removes remote-only rows. Part of the reconciler's table
// contract.
func (s *ReferralStore) DeleteRemote(ctx context.Context, ids []string) error {
	return s.remote.DeleteReferrals(ctx, ids)
}

// PushBatch strictly inserts the local records with the given ids. Part of
// the reconciler's table contract.
func (s *ReferralStore) PushBatch(ctx context.Context, ids []string) error {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	s.mu.Lock()
	var batch []models.Referral
	for _, r := range s.referrals {
		if want[r.ID] {
			batch = append(batch, r)
		}
	}
	s.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}
	return s.remote.InsertReferrals(ctx, batch)
}

// PushOne upserts a single local record with duplicate-tolerant semantics.
// Part of the reconciler's table contract.
func (s *ReferralStore) PushOne(ctx context.Context, id string) error {
	s.mu.Lock()
	var found *models.Referral
	for i := range s.referrals {
		if s.referrals[i].ID == id {
			r := s.referrals[i]
			found = &r
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return nil
	}
	return s.remote.UpsertReferral(ctx, *found)
}
