package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotelio/hotel-reservation/internal/model"
	"github.com/hotelio/hotel-reservation/internal/repository"
)

// memStore is an in-memory RefreshStore with the same conditional-revoke
// contract as the SQL implementation.
type memStore struct {
	tokens map[string]*model.RefreshToken
	nextID uint64
}

func newMemStore() *memStore {
	return &memStore{tokens: map[string]*model.RefreshToken{}}
}

func (s *memStore) FindByValue(_ context.Context, value string) (model.RefreshToken, error) {
	if t, ok := s.tokens[value]; ok {
		return *t, nil
	}
	return model.RefreshToken{}, repository.ErrNotFound
}

func (s *memStore) Insert(_ context.Context, t *model.RefreshToken) error {
	s.nextID++
	t.ID = s.nextID
	cp := *t
	s.tokens[t.Token] = &cp
	return nil
}

func (s *memStore) Revoke(_ context.Context, value string) error {
	t, ok := s.tokens[value]
	if !ok || t.Revoked {
		return repository.ErrNotFound
	}
	t.Revoked = true
	return nil
}

func TestCreateAndVerify(t *testing.T) {
	svc := NewRefreshService(newMemStore(), time.Hour)
	tok, err := svc.Create(context.Background(), 7)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tok.Token == "" || tok.ID == 0 || tok.UserID != 7 {
		t.Fatalf("unexpected token: %+v", tok)
	}
	got, err := svc.Verify(context.Background(), tok.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.Token != tok.Token {
		t.Fatalf("Verify returned a different token")
	}
}

func TestVerifyCollapsesAllFailures(t *testing.T) {
	store := newMemStore()
	svc := NewRefreshService(store, time.Hour)

	if _, err := svc.Verify(context.Background(), "unknown"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("unknown token: got %v, want ErrInvalidRefreshToken", err)
	}

	revoked, _ := svc.Create(context.Background(), 1)
	store.tokens[revoked.Token].Revoked = true
	if _, err := svc.Verify(context.Background(), revoked.Token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("revoked token: got %v, want ErrInvalidRefreshToken", err)
	}

	expired, _ := svc.Create(context.Background(), 1)
	store.tokens[expired.Token].ExpiresAt = time.Now().UTC().Add(-time.Minute)
	if _, err := svc.Verify(context.Background(), expired.Token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expired token: got %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRotateRevokesOldAndIssuesNew(t *testing.T) {
	store := newMemStore()
	svc := NewRefreshService(store, time.Hour)

	old, _ := svc.Create(context.Background(), 42)
	fresh, err := svc.Rotate(context.Background(), old)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if fresh.Token == old.Token {
		t.Fatalf("rotation reused the old token value")
	}
	if fresh.UserID != 42 {
		t.Fatalf("rotated token belongs to user %d, want 42", fresh.UserID)
	}
	if !store.tokens[old.Token].Revoked {
		t.Fatalf("rotation left the old token active")
	}
	if _, err := svc.Verify(context.Background(), old.Token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("old token still verifies after rotation")
	}
}

func TestRotateSameTokenTwiceFails(t *testing.T) {
	store := newMemStore()
	svc := NewRefreshService(store, time.Hour)

	old, _ := svc.Create(context.Background(), 1)
	if _, err := svc.Rotate(context.Background(), old); err != nil {
		t.Fatalf("first rotation: %v", err)
	}
	if _, err := svc.Rotate(context.Background(), old); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("second rotation of the same token: got %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRevokeValue(t *testing.T) {
	store := newMemStore()
	svc := NewRefreshService(store, time.Hour)

	tok, _ := svc.Create(context.Background(), 1)
	if err := svc.RevokeValue(context.Background(), tok.Token); err != nil {
		t.Fatalf("RevokeValue: %v", err)
	}
	if err := svc.RevokeValue(context.Background(), tok.Token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("second revoke: got %v, want ErrInvalidRefreshToken", err)
	}
}
