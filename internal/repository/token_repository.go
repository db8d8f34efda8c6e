package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hotelio/hotel-reservation/internal/model"
)

// TokenRepo persists refresh tokens. The token value column is unique and
// revocation is a conditional single-row update, which is what makes
// rotation atomic per token: of two concurrent rotations only one can flip
// revoked from 0 to 1.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Insert stores a new refresh token row and fills in the generated id.
func (r *TokenRepo) Insert(ctx context.Context, t *model.RefreshToken) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token, user_id, expires_at, revoked, created_at) VALUES (?,?,?,?,?)",
		t.Token, t.UserID, t.ExpiresAt, t.Revoked, t.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// FindByValue fetches a refresh token by its opaque value.
func (r *TokenRepo) FindByValue(ctx context.Context, value string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,token,user_id,expires_at,revoked,created_at FROM refresh_tokens WHERE token=? LIMIT 1",
		value).Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RefreshToken{}, ErrNotFound
	}
	return t, err
}

// Revoke marks a token revoked. It fails with ErrNotFound when the token
// does not exist or was already revoked, so a racing second revocation of
// the same token loses deterministically.
func (r *TokenRepo) Revoke(ctx context.Context, value string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token=? AND revoked=0", value)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
