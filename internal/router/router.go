// Package router wires routes to handlers and declares the per-route
// access policies. Authorization lives here as an explicit policy table,
// not inside handler bodies.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hotelio/hotel-reservation/internal/handler"
	"github.com/hotelio/hotel-reservation/internal/middleware"
	"github.com/hotelio/hotel-reservation/internal/model"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
}

// Register mounts all routes. The enforcer evaluates each route's policy
// after the authenticator has bound (or not bound) the caller identity.
func Register(e *echo.Echo, h Handlers, enforce *middleware.Enforcer, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth endpoints carry no policy: register/login/refresh/logout must
	// work for anonymous callers and /me answers politely either way.
	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshTokens)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)

	anyRole := []string{model.RoleUser, model.RoleAdmin, model.RoleManager}

	// The enforcer must wrap the cache: a cache HIT writes the stored body
	// and never calls the next middleware, so caching first would serve
	// protected content to anonymous callers.
	rooms := e.Group("/api/rooms")
	rooms.GET("", h.Rooms.List, enforce.Require(middleware.Policy{
		AllowedRoles: anyRole, Resource: middleware.ResourceRoom, Operations: ops(middleware.OpView),
	}), cache)
	rooms.GET("/available", h.Rooms.Available, enforce.Require(middleware.Policy{
		AllowedRoles: anyRole, Resource: middleware.ResourceRoom, Operations: ops(middleware.OpView),
	}), cache)
	rooms.GET("/:id", h.Rooms.Get, enforce.Require(middleware.Policy{
		AllowedRoles: anyRole, Resource: middleware.ResourceRoom, Operations: ops(middleware.OpView),
	}), cache)
	rooms.POST("", h.Rooms.Create, enforce.Require(middleware.Policy{
		Resource: middleware.ResourceRoom, Operations: ops(middleware.OpCreate),
	}))
	rooms.PUT("/:id", h.Rooms.Update, enforce.Require(middleware.Policy{
		Resource: middleware.ResourceRoom, Operations: ops(middleware.OpUpdate),
	}))
	rooms.DELETE("/:id", h.Rooms.Delete, enforce.Require(middleware.Policy{
		Resource: middleware.ResourceRoom, Operations: ops(middleware.OpDelete),
	}))

	reservations := e.Group("/api/reservations")
	reservations.GET("", h.Reservations.List, enforce.Require(middleware.Policy{
		AllowedRoles: []string{model.RoleManager},
		Resource:     middleware.ResourceReservation, Operations: ops(middleware.OpView),
	}))
	reservations.POST("", h.Reservations.Create, enforce.Require(middleware.Policy{
		AllowedRoles: []string{model.RoleUser},
		Resource:     middleware.ResourceReservation, Operations: ops(middleware.OpCreate),
	}))
	reservations.PUT("/:id", h.Reservations.Update, enforce.Require(middleware.Policy{
		CheckOwnership: true,
		Resource:       middleware.ResourceReservation, Operations: ops(middleware.OpUpdate),
	}))
	reservations.DELETE("/:id", h.Reservations.Cancel, enforce.Require(middleware.Policy{
		AllowedRoles:   []string{model.RoleManager},
		CheckOwnership: true,
		Resource:       middleware.ResourceReservation, Operations: ops(middleware.OpCancel),
	}))

	// User management requires ADMIN (step 2 of the decision algorithm
	// admits ADMIN even with an empty role list).
	users := e.Group("/api/users")
	adminOnly := enforce.Require(middleware.Policy{})
	users.GET("", h.Users.List, adminOnly)
	users.POST("", h.Users.Create, adminOnly)
	users.PUT("/:id", h.Users.Update, adminOnly)
	users.DELETE("/:id", h.Users.Delete, adminOnly)
}

func ops(o ...middleware.Operation) []middleware.Operation { return o }
