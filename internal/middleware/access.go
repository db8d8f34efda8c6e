package middleware

// access.go is the access decision layer: every protected route declares a
// Policy and the Enforcer evaluates it before the handler body runs. The
// policy table lives in the router, not in handler bodies.

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hotelio/hotel-reservation/internal/model"
)

// Resource names the kind of entity a policy protects.
type Resource int

const (
	ResourceReservation Resource = iota
	ResourceRoom
)

// Operation describes what a route does with its resource. Only the
// manager branch of the decision consults it.
type Operation string

const (
	OpView    Operation = "VIEW"
	OpCreate  Operation = "CREATE"
	OpUpdate  Operation = "UPDATE"
	OpDelete  Operation = "DELETE"
	OpConfirm Operation = "CONFIRM"
	OpCancel  Operation = "CANCEL"
)

// Policy is the declarative per-route access rule. IDParam names the route
// parameter holding the resource id for ownership checks; it defaults to
// "id". Binding the id explicitly per route avoids guessing it from
// handler arguments.
type Policy struct {
	AllowedRoles   []string
	CheckOwnership bool
	Resource       Resource
	Operations     []Operation
	IDParam        string
}

// OwnershipLookup resolves the owning user's email for a reservation.
// *repository.ReservationRepo satisfies it.
type OwnershipLookup interface {
	OwnerEmail(ctx context.Context, id uint64) (string, error)
}

// Enforcer evaluates policies against the caller identity bound by the
// authenticator.
type Enforcer struct {
	Reservations OwnershipLookup
}

func NewEnforcer(reservations OwnershipLookup) *Enforcer {
	return &Enforcer{Reservations: reservations}
}

// Require returns middleware enforcing the policy. Decision order, first
// match wins:
//
//  1. anonymous            -> 401
//  2. ADMIN                -> allow
//  3. role in AllowedRoles -> allow
//  4. MANAGER on a reservation route whose operations are empty or
//     include VIEW/CONFIRM/CANCEL -> allow
//  5. owning USER when CheckOwnership is set -> allow
//  6. otherwise            -> 403
func (e *Enforcer) Require(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := CurrentIdentity(c)
			if id == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if id.HasRole(model.RoleAdmin) {
				return next(c)
			}
			for _, role := range p.AllowedRoles {
				if id.HasRole(role) {
					return next(c)
				}
			}
			if p.Resource == ResourceReservation && id.HasRole(model.RoleManager) && managerMayHandle(p.Operations) {
				return next(c)
			}
			if p.CheckOwnership && id.HasRole(model.RoleUser) && e.ownsResource(c, p, id) {
				return next(c)
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
	}
}

// managerMayHandle mirrors the MANAGER privileges on reservations: viewing,
// confirming and cancelling, or any route that declares no operations.
func managerMayHandle(ops []Operation) bool {
	if len(ops) == 0 {
		return true
	}
	for _, op := range ops {
		switch op {
		case OpView, OpConfirm, OpCancel:
			return true
		}
	}
	return false
}

// ownsResource resolves the resource id from the route and compares the
// stored owner's email with the caller. It fails closed: a missing or
// malformed id denies access.
func (e *Enforcer) ownsResource(c echo.Context, p Policy, id *Identity) bool {
	if p.Resource != ResourceReservation || e.Reservations == nil {
		return false
	}
	param := p.IDParam
	if param == "" {
		param = "id"
	}
	resourceID, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		return false
	}
	owner, err := e.Reservations.OwnerEmail(c.Request().Context(), resourceID)
	return err == nil && owner == id.Email
}
