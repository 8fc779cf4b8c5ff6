package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/lib/pq"
)

func setupReferralMock(t *testing.T) (*PostgresReferralRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresReferralRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestReferralGetByOwner_Success(t *testing.T) {
	repo, mock, cleanup := setupReferralMock(t)
	defer cleanup()

	owner := "u1"
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "referrer_id", "recipient_id", "date", "category", "outcome", "value", "notes"}).
		AddRow("r1", "me", "c1", now, "intro", "pending", 250.0, "")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM referrals WHERE owner_login = $1`)).
		WithArgs(owner).
		WillReturnRows(rows)

	refs, err := repo.GetByOwner(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != "r1" || refs[0].Outcome != models.OutcomePending {
		t.Errorf("unexpected referrals: %+v", refs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestReferralInsertBatch_Duplicate(t *testing.T) {
	repo, mock, cleanup := setupReferralMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO referrals`)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.InsertBatch(context.Background(), "u", []models.Referral{{ID: "dup"}})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestReferralUpsert_Success(t *testing.T) {
	repo, mock, cleanup := setupReferralMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (id) DO UPDATE SET`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ref := models.Referral{ID: "r2", Outcome: models.OutcomeSuccessful}
	if err := repo.Upsert(context.Background(), "u", ref); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestReferralDeleteMany(t *testing.T) {
	repo, mock, cleanup := setupReferralMock(t)
	defer cleanup()

	ids := []string{"r1"}
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM referrals WHERE owner_login = $1 AND id = ANY($2)`)).
		WithArgs("u", pq.Array(ids)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteMany(context.Background(), "u", ids); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
