package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMySQLStore(db), mock
}

func TestAdjustRoomCountConditionalUpdate(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("UPDATE packages p").
		WithArgs(-3, "Lagoon Resort", "Deluxe", -3, -3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Inventory().AdjustRoomCount(context.Background(), " Lagoon Resort ", "Deluxe", -3); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjustRoomCountRejectedByPredicate(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("UPDATE packages p").
		WithArgs(-3, "Lagoon Resort", "Deluxe", -3, -3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT p.rooms_available, p.capacity").
		WithArgs("Lagoon Resort", "Deluxe").
		WillReturnRows(sqlmock.NewRows([]string{"rooms_available", "capacity"}).AddRow(2, 5))

	err := store.Inventory().AdjustRoomCount(context.Background(), "Lagoon Resort", "Deluxe", -3)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjustRoomCountMissingPackage(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("UPDATE packages p").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT p.rooms_available, p.capacity").
		WillReturnRows(sqlmock.NewRows([]string{"rooms_available", "capacity"}))

	err := store.Inventory().AdjustRoomCount(context.Background(), "Lagoon Resort", "Suite", 2)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
