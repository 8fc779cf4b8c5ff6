package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/cardfolio/cardfolio/internal/service"
)

type mockCardRepo struct {
	GetIDsFunc      func(ctx context.Context, owner string) ([]string, error)
	GetByOwnerFunc  func(ctx context.Context, owner string) ([]models.Card, error)
	InsertBatchFunc func(ctx context.Context, owner string, cards []models.Card) error
	UpsertFunc      func(ctx context.Context, owner string, card models.Card) error
	DeleteManyFunc  func(ctx context.Context, owner string, ids []string) error
}

func (m *mockCardRepo) GetIDs(ctx context.Context, owner string) ([]string, error) {
	return m.GetIDsFunc(ctx, owner)
}
func (m *mockCardRepo) GetByOwner(ctx context.Context, owner string) ([]models.Card, error) {
	return m.GetByOwnerFunc(ctx, owner)
}
func (m *mockCardRepo) InsertBatch(ctx context.Context, owner string, cards []models.Card) error {
	return m.InsertBatchFunc(ctx, owner, cards)
}
func (m *mockCardRepo) Upsert(ctx context.Context, owner string, card models.Card) error {
	return m.UpsertFunc(ctx, owner, card)
}
func (m *mockCardRepo) DeleteMany(ctx context.Context, owner string, ids []string) error {
	return m.DeleteManyFunc(ctx, owner, ids)
}

func TestCardService_IDs(t *testing.T) {
	want := []string{"a", "b"}
	repo := &mockCardRepo{
		GetIDsFunc: func(ctx context.Context, owner string) ([]string, error) {
			if owner != "u1" {
				t.Errorf("owner = %q; want u1", owner)
			}
			return want, nil
		},
	}
	svc := service.NewCardService(repo)
	got, err := svc.IDs(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("IDs = %v; want %v", got, want)
	}
}

func TestCardService_InsertBatchError(t *testing.T) {
	wantErr := errors.New("dup")
	repo := &mockCardRepo{
		InsertBatchFunc: func(context.Context, string, []models.Card) error {
			return wantErr
		},
	}
	svc := service.NewCardService(repo)
	if err := svc.InsertBatch(context.Background(), "u1", []models.Card{{ID: "x"}}); err != wantErr {
		t.Fatalf("InsertBatch error = %v; want %v", err, wantErr)
	}
}

func TestCardService_Delete(t *testing.T) {
	ids := []string{"a", "b"}
	called := false
	repo := &mockCardRepo{
		DeleteManyFunc: func(ctx context.Context, owner string, in []string) error {
			called = true
			if !reflect.DeepEqual(in, ids) {
				t.Errorf("DeleteMany ids = %v; want %v", in, ids)
			}
			return nil
		},
	}
	svc := service.NewCardService(repo)
	if err := svc.Delete(context.Background(), "u1", ids); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if !called {
		t.Fatal("expected DeleteMany to be called")
	}
}

type mockProfileRepo struct {
	ExistsFunc   func(ctx context.Context, login string) (bool, error)
	RegisterFunc func(ctx context.Context, login, displayName string) error
	GetFunc      func(ctx context.Context, login string) (*models.Profile, error)
}

func (m *mockProfileRepo) Exists(ctx context.Context, login string) (bool, error) {
	return m.ExistsFunc(ctx, login)
}
func (m *mockProfileRepo) Register(ctx context.Context, login, displayName string) error {
	return m.RegisterFunc(ctx, login, displayName)
}
func (m *mockProfileRepo) Get(ctx context.Context, login string) (*models.Profile, error) {
	return m.GetFunc(ctx, login)
}

func TestProfileService_Register(t *testing.T) {
	want := &models.Profile{Login: "alice", DisplayName: "Alice"}
	repo := &mockProfileRepo{
		RegisterFunc: func(ctx context.Context, login, displayName string) error {
			if login != "alice" || displayName != "Alice" {
				t.Errorf("Register args = %q, %q", login, displayName)
			}
			return nil
		},
		GetFunc: func(ctx context.Context, login string) (*models.Profile, error) {
			return want, nil
		},
	}
	svc := service.NewProfileService(repo)
	got, err := svc.Register(context.Background(), "alice", "Alice")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if got != want {
		t.Fatalf("Register returned %+v; want %+v", got, want)
	}
}

func TestProfileService_RegisterError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockProfileRepo{
		RegisterFunc: func(context.Context, string, string) error {
			return wantErr
		},
	}
	svc := service.NewProfileService(repo)
	if _, err := svc.Register(context.Background(), "alice", ""); err != wantErr {
		t.Fatalf("Register error = %v; want %v", err, wantErr)
	}
}
