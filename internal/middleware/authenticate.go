package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hotelio/hotel-reservation/internal/auth"
	"github.com/hotelio/hotel-reservation/internal/metrics"
	"github.com/hotelio/hotel-reservation/internal/model"
)

// Cookie names shared by the authenticator and the auth handlers.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// UserSource resolves full identities from the credential store.
// *repository.UserRepo satisfies it.
type UserSource interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
}

// Rotator is the slice of the refresh engine the authenticator needs for
// silent refresh.
type Rotator interface {
	Verify(ctx context.Context, value string) (model.RefreshToken, error)
	Rotate(ctx context.Context, old model.RefreshToken) (model.RefreshToken, error)
	TTL() time.Duration
}

// Authenticator resolves the caller identity once per request, before any
// handler runs. It never rejects a request: a request that cannot be
// authenticated is forwarded anonymous and the access middleware decides
// whether that is acceptable for the route.
type Authenticator struct {
	Codec   *auth.Codec
	Users   UserSource
	Refresh Rotator
}

func NewAuthenticator(codec *auth.Codec, users UserSource, refresh Rotator) *Authenticator {
	return &Authenticator{Codec: codec, Users: users, Refresh: refresh}
}

// Middleware authenticates the request from the Authorization header or
// the access cookie, falling back to silent refresh via the refresh
// cookie. All failures degrade to "no identity".
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := extractAccessToken(c); token != "" && CurrentIdentity(c) == nil {
				a.authenticateAccess(c, token)
			}
			if CurrentIdentity(c) == nil {
				a.silentRefresh(c)
			}
			return next(c)
		}
	}
}

// authenticateAccess binds an identity when the access token's signature,
// subject and expiry all check out against the stored user.
func (a *Authenticator) authenticateAccess(c echo.Context, token string) {
	email, ok := a.Codec.Subject(token)
	if !ok {
		return
	}
	u, err := a.Users.FindByEmail(c.Request().Context(), email)
	if err != nil {
		return
	}
	if !a.Codec.Verify(token, u.Email) {
		return
	}
	BindIdentity(c, &Identity{UserID: u.ID, Email: u.Email, Roles: u.Roles})
}

// silentRefresh rotates a valid refresh cookie into a fresh token pair,
// binds the identity and attaches the new tokens to the response. Any
// failure leaves the request anonymous.
func (a *Authenticator) silentRefresh(c echo.Context) {
	cookie, err := c.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		return
	}
	ctx := c.Request().Context()

	valid, err := a.Refresh.Verify(ctx, cookie.Value)
	if err != nil {
		return
	}
	rotated, err := a.Refresh.Rotate(ctx, valid)
	if err != nil {
		return
	}
	metrics.TokenRotationsTotal.Inc()
	u, err := a.Users.FindByID(ctx, rotated.UserID)
	if err != nil {
		return
	}
	access, err := a.Codec.Issue(u.Email, u.Roles)
	if err != nil {
		return
	}

	BindIdentity(c, &Identity{UserID: u.ID, Email: u.Email, Roles: u.Roles})
	SetTokenCookies(c, access, a.Codec.TTL(), rotated.Token, a.Refresh.TTL())
	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+access)
}

// extractAccessToken reads the bearer token from the Authorization header,
// falling back to the access cookie.
func extractAccessToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(AccessCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// SetTokenCookies attaches both token cookies: HttpOnly, Secure,
// SameSite=Strict, path "/", max-age equal to each token's TTL.
func SetTokenCookies(c echo.Context, access string, accessTTL time.Duration, refresh string, refreshTTL time.Duration) {
	c.SetCookie(tokenCookie(AccessCookie, access, int(accessTTL/time.Second)))
	c.SetCookie(tokenCookie(RefreshCookie, refresh, int(refreshTTL/time.Second)))
}

// ClearTokenCookies expires both token cookies (Max-Age=0 on the wire).
func ClearTokenCookies(c echo.Context) {
	c.SetCookie(tokenCookie(AccessCookie, "", -1))
	c.SetCookie(tokenCookie(RefreshCookie, "", -1))
}

func tokenCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
