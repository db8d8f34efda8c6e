package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/hotelio/hotel-reservation/internal/auth"
	"github.com/hotelio/hotel-reservation/internal/handler"
	"github.com/hotelio/hotel-reservation/internal/middleware"
	"github.com/hotelio/hotel-reservation/internal/model"
	"github.com/hotelio/hotel-reservation/internal/repository"
)

// hitCache simulates a warm response cache: it always answers with a
// stored 200 body and never calls the next handler, exactly like a HIT in
// the redis-backed middleware.
func hitCache(hits *int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			*hits++
			c.Response().Header().Set("X-Cache", "HIT")
			return c.JSON(http.StatusOK, []model.Room{{ID: 1, Number: "101", Beds: 2, Price: 120}})
		}
	}
}

// newRouter registers the real route table with a warm fake cache and an
// optional pre-bound identity in place of the authenticator.
func newRouter(t *testing.T, id *middleware.Identity) (*echo.Echo, *int) {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	codec, err := auth.NewCodec("MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=", time.Minute)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	refresh := auth.NewRefreshService(repository.NewTokenRepo(db), time.Hour)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id != nil {
				middleware.BindIdentity(c, id)
			}
			return next(c)
		}
	})

	var hits int
	Register(e, Handlers{
		Auth:         handler.NewAuthHandler(users, codec, refresh, 4),
		Users:        handler.NewUserHandler(users, 4),
		Rooms:        handler.NewRoomHandler(rooms),
		Reservations: handler.NewReservationHandler(reservations, rooms, users),
	}, middleware.NewEnforcer(reservations), hitCache(&hits))
	return e, &hits
}

func TestCachedRoomRoutesStillRequireAuth(t *testing.T) {
	e, hits := newRouter(t, nil)

	for _, path := range []string{"/api/rooms", "/api/rooms/1", "/api/rooms/available"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("anonymous GET %s = %d (body %s), want 401", path, rec.Code, rec.Body.String())
		}
		if rec.Header().Get("X-Cache") == "HIT" {
			t.Fatalf("anonymous GET %s was served from the cache", path)
		}
	}
	if *hits != 0 {
		t.Fatalf("cache was consulted %d times before the access decision", *hits)
	}
}

func TestAuthorizedRoomRequestReachesCache(t *testing.T) {
	e, hits := newRouter(t, &middleware.Identity{
		UserID: 1, Email: "user@example.com", Roles: []string{model.RoleUser},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("authorized GET /api/rooms = %d X-Cache=%q, want cached 200", rec.Code, rec.Header().Get("X-Cache"))
	}
	if *hits != 1 {
		t.Fatalf("cache hits = %d, want 1", *hits)
	}
}
