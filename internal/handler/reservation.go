package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hotelio/hotel-reservation/internal/middleware"
	"github.com/hotelio/hotel-reservation/internal/model"
	"github.com/hotelio/hotel-reservation/internal/pricing"
	"github.com/hotelio/hotel-reservation/internal/queue"
	"github.com/hotelio/hotel-reservation/internal/repository"
)

const dateLayout = "2006-01-02"

// ReservationHandler implements the reservation endpoints. The total price
// is always derived server-side from the room rate and the stay length;
// clients never supply it. Publish is swappable so tests run without a
// broker. Pricing, when set, forces one strategy for every booking
// (PRICING_STRATEGY); when nil the strategy is picked per stay length.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	Users        *repository.UserRepo
	Pricing      pricing.Strategy
	Publish      func(ctx context.Context, event queue.ReservationEvent) error
}

func NewReservationHandler(reservations *repository.ReservationRepo, rooms *repository.RoomRepo, users *repository.UserRepo) *ReservationHandler {
	return &ReservationHandler{
		Reservations: reservations,
		Rooms:        rooms,
		Users:        users,
		Publish:      queue.Publish,
	}
}

type createReservationReq struct {
	CheckIn         string `json:"check_in_date" validate:"required"`
	CheckOut        string `json:"check_out_date" validate:"required"`
	SpecialRequests string `json:"special_requests"`
	UserID          uint64 `json:"user_id" validate:"required"`
	RoomID          uint64 `json:"room_id" validate:"required"`
}

type updateReservationReq struct {
	CheckIn         string `json:"check_in_date" validate:"required"`
	CheckOut        string `json:"check_out_date" validate:"required"`
	Status          string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	SpecialRequests string `json:"special_requests"`
}

type reservationResp struct {
	ID              uint64  `json:"id"`
	CheckIn         string  `json:"check_in_date"`
	CheckOut        string  `json:"check_out_date"`
	Status          string  `json:"status"`
	TotalPrice      float64 `json:"total_price"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	UserID          uint64  `json:"user_id"`
	UserEmail       string  `json:"user_email"`
	RoomID          uint64  `json:"room_id"`
}

func toReservationResp(m model.Reservation) reservationResp {
	return reservationResp{
		ID:              m.ID,
		CheckIn:         m.CheckIn.Format(dateLayout),
		CheckOut:        m.CheckOut.Format(dateLayout),
		Status:          m.Status,
		TotalPrice:      m.TotalPrice,
		SpecialRequests: m.SpecialRequests,
		UserID:          m.UserID,
		UserEmail:       m.UserEmail,
		RoomID:          m.RoomID,
	}
}

// List returns every reservation. Restricted by policy to ADMIN/MANAGER.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	all, err := h.Reservations.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reservationResp, 0, len(all))
	for _, m := range all {
		out = append(out, toReservationResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Create books a room. A USER may only book for their own account; ADMIN
// may book on anyone's behalf.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	target, err := h.Users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if id := middleware.CurrentIdentity(c); id != nil && !id.HasRole(model.RoleAdmin) && target.Email != id.Email {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only create reservations for your own account"})
	}

	room, err := h.Rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	strategy := h.Pricing
	if strategy == nil {
		strategy = pricing.ForStay(checkIn, checkOut)
	}
	res := model.Reservation{
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		SpecialRequests: req.SpecialRequests,
		UserID:          target.ID,
		UserEmail:       target.Email,
		RoomID:          room.ID,
		TotalPrice:      strategy.Calculate(room, checkIn, checkOut),
	}
	if err := h.Reservations.Create(ctx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	h.publishEvent(ctx, queue.EventCreated, res)
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Update rewrites dates, status and requests. Policy admits ADMIN and
// owners; the explicit owner check here mirrors the policy for defense in
// depth on the handler's own lookups.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if caller := middleware.CurrentIdentity(c); caller != nil && !caller.HasRole(model.RoleAdmin) && existing.UserEmail != caller.Email {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only update your own reservations"})
	}

	status := req.Status
	if status == "" {
		status = existing.Status
	}
	updated, err := h.Reservations.Update(ctx, id, checkIn, checkOut, status, req.SpecialRequests)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
	}
	return c.JSON(http.StatusOK, toReservationResp(updated))
}

// Cancel marks a reservation CANCELLED. Policy admits ADMIN, MANAGER and
// owners.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if caller := middleware.CurrentIdentity(c); caller != nil &&
		!caller.HasRole(model.RoleAdmin) && !caller.HasRole(model.RoleManager) &&
		existing.UserEmail != caller.Email {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only cancel your own reservations"})
	}

	if err := h.Reservations.Cancel(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
	}
	existing.Status = model.StatusCancelled
	h.publishEvent(ctx, queue.EventCancelled, existing)
	return c.NoContent(http.StatusNoContent)
}

// publishEvent emits a reservation event best-effort; broker failures are
// logged inside the publisher and never fail the request.
func (h *ReservationHandler) publishEvent(ctx context.Context, kind string, m model.Reservation) {
	if h.Publish == nil {
		return
	}
	_ = h.Publish(ctx, queue.ReservationEvent{
		Kind:       kind,
		ID:         m.ID,
		UserID:     m.UserID,
		UserEmail:  m.UserEmail,
		RoomID:     m.RoomID,
		CheckIn:    m.CheckIn.Format(dateLayout),
		CheckOut:   m.CheckOut.Format(dateLayout),
		Status:     m.Status,
		TotalPrice: m.TotalPrice,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func parseStay(in, out string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(dateLayout, in)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := time.Parse(dateLayout, out)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
