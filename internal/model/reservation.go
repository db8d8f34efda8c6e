package model

import "time"

// Reservation status values. A reservation starts as PENDING and moves to
// CONFIRMED or CANCELLED.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Reservation mirrors the `reservations` table. UserEmail is joined in by
// the repository because ownership checks compare the reserving user's
// email against the caller identity.
type Reservation struct {
	ID              uint64    // reservations.id
	CheckIn         time.Time // reservations.check_in (date)
	CheckOut        time.Time // reservations.check_out (date)
	Status          string    // reservations.status
	TotalPrice      float64   // reservations.total_price (server-derived)
	SpecialRequests string    // reservations.special_requests
	UserID          uint64    // reservations.user_id
	UserEmail       string    // users.email (joined)
	RoomID          uint64    // reservations.room_id
	CreatedAt       time.Time // reservations.created_at
	UpdatedAt       time.Time // reservations.updated_at
}
