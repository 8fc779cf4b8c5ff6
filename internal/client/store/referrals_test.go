package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardfolio/cardfolio/internal/client/store/pushq"
	"github.com/cardfolio/cardfolio/internal/models"
)

type fakeReferralRemote struct {
	mu sync.Mutex

	remoteIDs []string
	inserted  [][]models.Referral
	upserted  []models.Referral
	deleted   [][]string

	deleteFunc func(ctx context.Context, ids []string) error
}

func (f *fakeReferralRemote) ReferralIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.remoteIDs...), nil
}

func (f *fakeReferralRemote) InsertReferrals(ctx context.Context, refs []models.Referral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, refs)
	return nil
}

func (f *fakeReferralRemote) UpsertReferral(ctx context.Context, ref models.Referral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, ref)
	return nil
}

func (f *fakeReferralRemote) DeleteReferrals(ctx context.Context, ids []string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, ids)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	return nil
}

type fakeCardLookup struct {
	ids map[string]bool
}

func (f *fakeCardLookup) Has(id string) bool { return f.ids[id] }

const testOwner = "owner@example.com"

func newReferralStoreForTest(t *testing.T, knownCards ...string) (*ReferralStore, *fakeReferralRemote, *pushq.Queue, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "referrals.json")
	remote := &fakeReferralRemote{}
	lookup := &fakeCardLookup{ids: map[string]bool{}}
	for _, id := range knownCards {
		lookup.ids[id] = true
	}
	queue := pushq.New(zap.NewNop())
	s := NewReferralStore(path, testOwner, lookup, remote, queue, zap.NewNop())
	return s, remote, queue, path
}

func testReferral(recipient string) models.Referral {
	return models.Referral{
		ID:          uuid.NewString(),
		ReferrerID:  testOwner,
		RecipientID: recipient,
		Date:        time.Now().UTC(),
		Category:    "introduction",
		Outcome:     models.OutcomePending,
	}
}

func TestReferralStoreLoadMissingFileStartsEmpty(t *testing.T) {
	s, _, _, _ := newReferralStoreForTest(t)

	require.NoError(t, s.Load())

	assert.True(t, s.Loaded())
	assert.Empty(t, s.List())
}

func TestReferralStoreLoadDropsMalformedRecords(t *testing.T) {
	s, _, _, path := newReferralStoreForTest(t)
	good := uuid.NewString()
	blob := `{"referrals":[` +
		`{"id":"` + good + `","referrer_id":"a","recipient_id":"b"},` +
		`{"id":"ref-1","referrer_id":"a","recipient_id":"b"},` +
		`{"id":"not a uuid","referrer_id":"a","recipient_id":"b"}]}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	// Malformed rows are dropped silently, never an error.
	require.NoError(t, s.Load())

	refs := s.List()
	require.Len(t, refs, 1)
	assert.Equal(t, good, refs[0].ID)
}

func TestReferralStoreLoadUndecodableBlobStartsEmpty(t *testing.T) {
	s, _, _, path := newReferralStoreForTest(t)
	require.NoError(t, os.WriteFile(path, []byte("]["), 0o600))

	require.NoError(t, s.Load())
	assert.Empty(t, s.List())
}

func TestReferralStoreAddValidatesParticipants(t *testing.T) {
	cardID := uuid.NewString()
	s, remote, queue, _ := newReferralStoreForTest(t, cardID)
	require.NoError(t, s.Load())

	// Owner to known card is accepted.
	require.NoError(t, s.Add(testReferral(cardID)))
	queue.WaitIdle()
	remote.mu.Lock()
	assert.Len(t, remote.inserted, 1)
	remote.mu.Unlock()

	// Unknown recipient is rejected before anything is written.
	err := s.Add(testReferral(uuid.NewString()))
	require.Error(t, err)
	assert.Len(t, s.List(), 1)

	// Unknown referrer likewise.
	bad := testReferral(cardID)
	bad.ReferrerID = "stranger"
	require.Error(t, s.Add(bad))
}

func TestReferralStoreUpdateMergesPatch(t *testing.T) {
	cardID := uuid.NewString()
	s, _, queue, _ := newReferralStoreForTest(t, cardID)
	require.NoError(t, s.Load())
	ref := testReferral(cardID)
	require.NoError(t, s.Add(ref))

	patch := models.Referral{Outcome: models.OutcomeSuccessful, Value: 2500}
	require.NoError(t, s.Update(ref.ID, patch))
	queue.WaitIdle()

	refs := s.List()
	require.Len(t, refs, 1)
	assert.Equal(t, ref.ID, refs[0].ID)
	assert.Equal(t, models.OutcomeSuccessful, refs[0].Outcome)
	assert.Equal(t, 2500.0, refs[0].Value)
	// Fields absent from the patch are untouched.
	assert.Equal(t, "introduction", refs[0].Category)
	assert.Equal(t, ref.RecipientID, refs[0].RecipientID)
}

func TestReferralStoreDeleteRemoteFailureRestores(t *testing.T) {
	cardID := uuid.NewString()
	s, remote, queue, _ := newReferralStoreForTest(t, cardID)
	require.NoError(t, s.Load())
	ref := testReferral(cardID)
	require.NoError(t, s.Add(ref))
	queue.WaitIdle()
	remote.deleteFunc = func(ctx context.Context, ids []string) error {
		return errors.New("network down")
	}

	err := s.Delete(context.Background(), ref.ID)

	require.Error(t, err)
	refs := s.List()
	require.Len(t, refs, 1)
	assert.Equal(t, ref.ID, refs[0].ID)
}

func TestReferralStoreSeedFromCards(t *testing.T) {
	cards := []models.Card{
		{ID: uuid.NewString(), Name: "A"},
		{ID: uuid.NewString(), Name: "B"},
	}
	s, remote, queue, _ := newReferralStoreForTest(t, cards[0].ID, cards[1].ID)
	require.NoError(t, s.Load())

	require.NoError(t, s.SeedFromCards(cards))
	queue.WaitIdle()

	refs := s.List()
	require.Len(t, refs, 2)
	for _, r := range refs {
		assert.True(t, models.IsUUID(r.ID))
		assert.Equal(t, testOwner, r.ReferrerID)
		assert.Equal(t, models.OutcomePending, r.Outcome)
	}
	remote.mu.Lock()
	assert.Len(t, remote.inserted, 2)
	remote.mu.Unlock()
}
