package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hotelio/hotel-reservation/internal/auth"
	"github.com/hotelio/hotel-reservation/internal/metrics"
	"github.com/hotelio/hotel-reservation/internal/middleware"
	"github.com/hotelio/hotel-reservation/internal/model"
	"github.com/hotelio/hotel-reservation/internal/repository"
)

// AuthHandler bundles dependencies for the auth endpoints. Every endpoint
// returns a message body and manages the two token cookies.
type AuthHandler struct {
	Users      *repository.UserRepo
	Codec      *auth.Codec
	Refresh    *auth.RefreshService
	BcryptCost int
}

func NewAuthHandler(users *repository.UserRepo, codec *auth.Codec, refresh *auth.RefreshService, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Codec: codec, Refresh: refresh, BcryptCost: bcryptCost}
}

type credentialsReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type userInfoResp struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Comment  string   `json:"comment"`
}

// issuePair mints an access/refresh pair for the user and attaches both as
// cookies.
func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, u model.User) error {
	access, err := h.Codec.Issue(u.Email, u.Roles)
	if err != nil {
		return err
	}
	refresh, err := h.Refresh.Create(ctx, u.ID)
	if err != nil {
		return err
	}
	middleware.SetTokenCookies(c, access, h.Codec.TTL(), refresh.Token, h.Refresh.TTL())
	return nil
}

// Register creates a USER-role account and logs it in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
	}
	if _, err := h.Users.FindRoleByName(ctx, model.RoleUser); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role USER missing"})
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u, err := h.Users.Create(ctx, req.Email, hash, []string{model.RoleUser})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	if err := h.issuePair(c, ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Zarejestrowano pomyślnie"})
}

// Login verifies credentials and sets a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := h.issuePair(c, ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Zalogowano pomyślnie"})
}

// RefreshTokens rotates the refresh cookie into a new pair. Not-found,
// revoked and expired tokens are indistinguishable to the client.
func (h *AuthHandler) RefreshTokens(c echo.Context) error {
	cookie, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	valid, err := h.Refresh.Verify(ctx, cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	rotated, err := h.Refresh.Rotate(ctx, valid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	metrics.TokenRotationsTotal.Inc()

	u, err := h.Users.FindByID(ctx, rotated.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := h.Codec.Issue(u.Email, u.Roles)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	middleware.SetTokenCookies(c, access, h.Codec.TTL(), rotated.Token, h.Refresh.TTL())
	return c.JSON(http.StatusOK, echo.Map{"message": "Odświeżono tokeny"})
}

// Logout always clears both token cookies, authenticated or not. A refresh
// cookie, if present, is revoked best-effort so the chain dies server-side
// too.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.RefreshCookie); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		_ = h.Refresh.RevokeValue(ctx, cookie.Value)
		cancel()
	}
	middleware.ClearTokenCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "Wylogowano"})
}

// Me returns the caller's identity, or a friendly message when anonymous.
func (h *AuthHandler) Me(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "Nie jesteś zalogowany"})
	}
	comment := "Zalogowany"
	if id.HasRole(model.RoleAdmin) {
		comment = "Zalogowany jako administrator"
	}
	return c.JSON(http.StatusOK, userInfoResp{
		Username: id.Email,
		Email:    id.Email,
		Roles:    id.Roles,
		Comment:  comment,
	})
}
