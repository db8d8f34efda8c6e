package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hotelio/hotel-reservation/internal/model"
)

// ErrInvalidRefreshToken covers every way a refresh token can be unusable:
// unknown value, revoked, or expired. The causes are deliberately collapsed
// into one error so responses do not reveal which case occurred.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// RefreshStore is the persistence surface the rotation engine needs.
// *repository.TokenRepo satisfies it.
type RefreshStore interface {
	FindByValue(ctx context.Context, value string) (model.RefreshToken, error)
	Insert(ctx context.Context, t *model.RefreshToken) error
	// Revoke must be conditional on the token still being active and fail
	// when it is not, so concurrent rotations of one token have exactly
	// one winner.
	Revoke(ctx context.Context, value string) error
}

// RefreshService implements the refresh-token lifecycle: Active until
// revoked or expired, revoked exactly once when a rotation replaces the
// token with a fresh one.
type RefreshService struct {
	store RefreshStore
	ttl   time.Duration
}

func NewRefreshService(store RefreshStore, ttl time.Duration) *RefreshService {
	return &RefreshService{store: store, ttl: ttl}
}

// TTL returns the configured refresh-token lifetime.
func (s *RefreshService) TTL() time.Duration { return s.ttl }

// Create mints and persists a fresh opaque token for the user.
func (s *RefreshService) Create(ctx context.Context, userID uint64) (model.RefreshToken, error) {
	now := time.Now().UTC()
	t := model.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.store.Insert(ctx, &t); err != nil {
		return model.RefreshToken{}, err
	}
	return t, nil
}

// Verify resolves a token value and checks it is still usable. Not-found,
// revoked and expired all surface as ErrInvalidRefreshToken.
func (s *RefreshService) Verify(ctx context.Context, value string) (model.RefreshToken, error) {
	t, err := s.store.FindByValue(ctx, value)
	if err != nil {
		return model.RefreshToken{}, ErrInvalidRefreshToken
	}
	if !t.Usable(time.Now().UTC()) {
		return model.RefreshToken{}, ErrInvalidRefreshToken
	}
	return t, nil
}

// Rotate revokes old and issues a replacement for the same user. The
// conditional revoke makes the revoke-then-create sequence atomic per
// token: a second rotation of the same token fails here instead of
// producing a second live child.
func (s *RefreshService) Rotate(ctx context.Context, old model.RefreshToken) (model.RefreshToken, error) {
	if err := s.store.Revoke(ctx, old.Token); err != nil {
		return model.RefreshToken{}, ErrInvalidRefreshToken
	}
	return s.Create(ctx, old.UserID)
}

// RevokeValue marks the given token value revoked, if it is still active.
// Logout uses it best-effort.
func (s *RefreshService) RevokeValue(ctx context.Context, value string) error {
	if err := s.store.Revoke(ctx, value); err != nil {
		return ErrInvalidRefreshToken
	}
	return nil
}
