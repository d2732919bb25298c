package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelbook/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestAtomicCommitsOnSuccess(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE packages p").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := store.Atomic(ctx, func(tx Store) error {
		if err := tx.Inventory().AdjustRoomCount(ctx, "Lagoon Resort", "Deluxe", -1); err != nil {
			return err
		}
		return tx.Bookings().Create(ctx, models.Booking{BookingID: "b1", Status: models.BookingConfirmed, CreatedAt: time.Now()})
	})
	if err != nil {
		t.Fatalf("atomic: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAtomicRollsBackDuplicateKey(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE packages p").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'b1' for key 'PRIMARY'"})
	mock.ExpectRollback()

	ctx := context.Background()
	err := store.Atomic(ctx, func(tx Store) error {
		if err := tx.Inventory().AdjustRoomCount(ctx, "Lagoon Resort", "Deluxe", -1); err != nil {
			return err
		}
		return tx.Bookings().Create(ctx, models.Booking{BookingID: "b1"})
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClassifyTransientErrors(t *testing.T) {
	for _, err := range []error{
		&mysql.MySQLError{Number: 1213, Message: "Deadlock found"},
		&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"},
		context.DeadlineExceeded,
		mysql.ErrInvalidConn,
	} {
		if got := classify(err); !errors.Is(got, ErrTransient) || !IsTransient(got) {
			t.Fatalf("%v should classify as transient, got %v", err, got)
		}
	}
	if IsTransient(errors.New("syntax error")) {
		t.Fatalf("plain errors are not transient")
	}
}

func TestBookingGetNotFound(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery("SELECT booking_id, user_name").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}))

	if _, err := store.Bookings().Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingSetStatusGuardsCurrentStatus(t *testing.T) {
	store, mock := newMock(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("cancelled", at, "b1", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.Bookings().SetStatus(context.Background(), "b1", models.BookingConfirmed, models.BookingCancelled, at)
	if err != nil || ok {
		t.Fatalf("expected no change, got ok=%v err=%v", ok, err)
	}
}

func TestBookingRenameHotel(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec("UPDATE bookings SET hotel_name = \\? WHERE hotel_name = \\?").
		WithArgs("Lagoon Resort & Spa", "Lagoon Resort").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := store.Bookings().RenameHotel(context.Background(), "Lagoon Resort", "Lagoon Resort & Spa")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 bookings moved, got n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDestinationListFiltersByCountry(t *testing.T) {
	store, mock := newMock(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"destination_id", "name", "country", "city", "description", "image", "highlights", "created_at", "updated_at"}
	mock.ExpectQuery("FROM destinations WHERE country = \\? ORDER BY name").
		WithArgs("Indonesia").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("d1", "Ubud", "Indonesia", "Bali", "", "", `["Temples","Rice terraces"]`, at, at))

	list, err := store.Destinations().List(context.Background(), " Indonesia ")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || len(list[0].Highlights) != 2 || list[0].Highlights[1] != "Rice terraces" {
		t.Fatalf("unexpected destinations %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDestinationCreateDuplicate(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec("INSERT INTO destinations").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := store.Destinations().Create(context.Background(), models.Destination{DestinationID: "d1", Name: "Ubud", Country: "Indonesia"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
