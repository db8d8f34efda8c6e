// Package queue carries reservation lifecycle events over RabbitMQ so
// downstream consumers (audit, notifications) do not query the primary
// database.
package queue

// EventName is the durable queue all reservation events go through.
const EventName = "reservation.events"

// Event kinds.
const (
	EventCreated   = "reservation.created"
	EventCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation is created or
// cancelled.
type ReservationEvent struct {
	Kind       string  `json:"kind"`
	ID         uint64  `json:"reservation_id"`
	UserID     uint64  `json:"user_id"`
	UserEmail  string  `json:"user_email"`
	RoomID     uint64  `json:"room_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	OccurredAt string  `json:"occurred_at"`
}
