package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hotelio/hotel-reservation/internal/model"
)

func TestRoomRepoFindAvailableExcludesOverlaps(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewRoomRepo(db)

	checkIn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

	// The overlap predicate compares the other way around: an existing stay
	// blocks a room when it starts before our check-out and ends after our
	// check-in.
	mock.ExpectQuery("SELECT id,room_number,floor,beds,price FROM rooms rm").
		WithArgs(2, model.StatusCancelled, checkOut, checkIn).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "floor", "beds", "price"}).
			AddRow(1, "101", "1", 2, 120.0).
			AddRow(4, "202", "2", 3, 180.0))

	rooms, err := repo.FindAvailable(context.Background(), checkIn, checkOut, 2)
	if err != nil {
		t.Fatalf("FindAvailable: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Number != "101" || rooms[1].Beds != 3 {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoomRepoFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewRoomRepo(db)

	mock.ExpectQuery("SELECT id,room_number,floor,beds,price FROM rooms WHERE id=\\?").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "floor", "beds", "price"}))

	if _, err := repo.FindByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing room: got %v, want ErrNotFound", err)
	}
}

func TestRoomRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewRoomRepo(db)

	mock.ExpectExec("DELETE FROM rooms WHERE id=\\?").
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing room delete: got %v, want ErrNotFound", err)
	}
}
