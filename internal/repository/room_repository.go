package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hotelio/hotel-reservation/internal/model"
)

// RoomRepo provides CRUD for rooms plus the availability query used by
// the /api/rooms/available endpoint.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

const roomColumns = "id,room_number,floor,beds,price"

func scanRoom(row *sql.Row) (model.Room, error) {
	var m model.Room
	err := row.Scan(&m.ID, &m.Number, &m.Floor, &m.Beds, &m.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return m, err
}

// List returns all rooms.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

func collectRooms(rows *sql.Rows) ([]model.Room, error) {
	var out []model.Room
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.Number, &m.Floor, &m.Beds, &m.Price); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FindByID fetches a single room.
func (r *RoomRepo) FindByID(ctx context.Context, id uint64) (model.Room, error) {
	return scanRoom(r.DB.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id=? LIMIT 1", id))
}

// Create inserts a room and returns it with the generated id.
func (r *RoomRepo) Create(ctx context.Context, m model.Room) (model.Room, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (room_number, floor, beds, price) VALUES (?,?,?,?)",
		m.Number, m.Floor, m.Beds, m.Price)
	if err != nil {
		return model.Room{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Room{}, err
	}
	m.ID = uint64(id)
	return m, nil
}

// Update overwrites a room's mutable fields.
func (r *RoomRepo) Update(ctx context.Context, id uint64, m model.Room) (model.Room, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return model.Room{}, err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE rooms SET room_number=?, floor=?, beds=?, price=? WHERE id=?",
		m.Number, m.Floor, m.Beds, m.Price, id)
	if err != nil {
		return model.Room{}, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes a room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindAvailable returns rooms with at least minBeds beds and no
// non-cancelled reservation overlapping [checkIn, checkOut). Two stays
// overlap when one starts before the other ends.
func (r *RoomRepo) FindAvailable(ctx context.Context, checkIn, checkOut time.Time, minBeds int) ([]model.Room, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+roomColumns+` FROM rooms rm
		WHERE rm.beds >= ?
		  AND NOT EXISTS (
			SELECT 1 FROM reservations rs
			WHERE rs.room_id = rm.id
			  AND rs.status <> ?
			  AND rs.check_in < ? AND rs.check_out > ?
		  )
		ORDER BY rm.id`,
		minBeds, model.StatusCancelled, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}
