package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hotelio/hotel-reservation/internal/model"
)

// ReservationRepo provides CRUD for reservations. Every read joins the
// owning user's email because access control compares it against the
// caller identity.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationSelect = `
	SELECT rs.id, rs.check_in, rs.check_out, rs.status, rs.total_price,
	       rs.special_requests, rs.user_id, u.email, rs.room_id,
	       rs.created_at, rs.updated_at
	FROM reservations rs
	JOIN users u ON u.id = rs.user_id`

func scanReservation(scan func(dest ...any) error) (model.Reservation, error) {
	var (
		m       model.Reservation
		req     sql.NullString
		updated sql.NullTime
	)
	err := scan(&m.ID, &m.CheckIn, &m.CheckOut, &m.Status, &m.TotalPrice,
		&req, &m.UserID, &m.UserEmail, &m.RoomID, &m.CreatedAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	m.SpecialRequests = req.String
	if updated.Valid {
		m.UpdatedAt = updated.Time
	}
	return m, nil
}

// List returns all reservations.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx, reservationSelect+" ORDER BY rs.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		m, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FindByID fetches a reservation with the owner's email joined in.
func (r *ReservationRepo) FindByID(ctx context.Context, id uint64) (model.Reservation, error) {
	return scanReservation(r.DB.QueryRowContext(ctx, reservationSelect+" WHERE rs.id=? LIMIT 1", id).Scan)
}

// OwnerEmail returns the email of the user who made the reservation.
// Used by the access decision middleware's ownership check.
func (r *ReservationRepo) OwnerEmail(ctx context.Context, id uint64) (string, error) {
	var email string
	err := r.DB.QueryRowContext(ctx,
		"SELECT u.email FROM reservations rs JOIN users u ON u.id=rs.user_id WHERE rs.id=? LIMIT 1",
		id).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return email, err
}

// Create inserts a reservation. Status defaults to PENDING when empty and
// the created_at timestamp is set here so the returned record is complete
// without a second round trip.
func (r *ReservationRepo) Create(ctx context.Context, m *model.Reservation) error {
	if m.Status == "" {
		m.Status = model.StatusPending
	}
	m.CreatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO reservations
			(check_in, check_out, status, total_price, special_requests, user_id, room_id, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		m.CheckIn, m.CheckOut, m.Status, m.TotalPrice, m.SpecialRequests,
		m.UserID, m.RoomID, m.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Update overwrites dates, status and special requests of an existing
// reservation. The price is not recomputed on update.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, checkIn, checkOut time.Time, status, specialRequests string) (model.Reservation, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE reservations
		SET check_in=?, check_out=?, status=?, special_requests=?, updated_at=?
		WHERE id=?`,
		checkIn, checkOut, status, specialRequests, time.Now().UTC(), id)
	if err != nil {
		return model.Reservation{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return model.Reservation{}, err
		}
	}
	return r.FindByID(ctx, id)
}

// Cancel flips a reservation's status to CANCELLED.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reservations SET status=?, updated_at=? WHERE id=?",
		model.StatusCancelled, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
