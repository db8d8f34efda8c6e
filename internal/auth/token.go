// Package auth implements the token subsystem: the signed access-token
// codec, bcrypt password helpers and the refresh-token rotation engine.
package auth

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec creates and verifies HS256-signed access tokens. Tokens are
// self-contained: subject is the user's email and a "roles" claim carries
// the role names, so authorization needs no extra store lookup once the
// signature and expiry check out.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec decodes the base64 signing secret and binds the access-token
// TTL. An empty or undecodable secret is a configuration error.
func NewCodec(secretB64 string, ttl time.Duration) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	return &Codec{key: key, ttl: ttl}, nil
}

// TTL returns the configured access-token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs an access token for the given identity. Expiry is
// issued-at + TTL.
func (c *Codec) Issue(email string, roles []string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   email,
		"roles": roles,
		"iat":   now.Unix(),
		"exp":   now.Add(c.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.key)
}

// Verify reports whether token carries a valid signature, belongs to the
// expected identity and has not expired. It never returns an error:
// any failure means "unauthenticated", decided later by the access layer.
func (c *Codec) Verify(token, expectedEmail string) bool {
	sub, ok := c.subject(token, true)
	return ok && sub == expectedEmail
}

// Subject extracts the subject of a token whose signature verifies,
// ignoring expiry. The authenticator uses it to learn who a (possibly
// stale) token belonged to before deciding whether to silently refresh.
func (c *Codec) Subject(token string) (string, bool) {
	return c.subject(token, false)
}

func (c *Codec) subject(token string, validateClaims bool) (string, bool) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	return sub, ok && sub != ""
}
