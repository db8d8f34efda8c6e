package middleware

// identity.go holds the explicit per-request caller identity. The
// authenticator binds it into the echo context; the access middleware and
// handlers read it back. There is no process-wide "current user".

import "github.com/labstack/echo/v4"

const identityKey = "identity"

// Identity is the resolved caller: a user loaded from the credential
// store, not raw token claims.
type Identity struct {
	UserID uint64
	Email  string
	Roles  []string
}

// HasRole reports whether the identity carries the named role.
func (id *Identity) HasRole(name string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// BindIdentity attaches the caller identity to the request context.
func BindIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// CurrentIdentity returns the caller identity, or nil when the request is
// unauthenticated.
func CurrentIdentity(c echo.Context) *Identity {
	if v, ok := c.Get(identityKey).(*Identity); ok {
		return v
	}
	return nil
}
