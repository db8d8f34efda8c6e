package model

import "time"

// RefreshToken mirrors the `refresh_tokens` table. Token is the opaque
// value handed to the client; it is unique and stored as-is. Revoked is
// monotonic: once set it never goes back to false.
type RefreshToken struct {
	ID        uint64    // refresh_tokens.id
	Token     string    // refresh_tokens.token (unique)
	UserID    uint64    // refresh_tokens.user_id
	ExpiresAt time.Time // refresh_tokens.expires_at
	Revoked   bool      // refresh_tokens.revoked
	CreatedAt time.Time // refresh_tokens.created_at
}

// Usable reports whether the token may still mint new access tokens.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
