package db

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrateCreatesOnlyMissingTables(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	for _, tbl := range schema {
		q := mock.ExpectQuery("information_schema\\.tables").WithArgs(tbl.name)
		if tbl.name == "hotels" {
			q.WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("hotels"))
			continue
		}
		q.WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + tbl.name).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNullHelpers(t *testing.T) {
	if NullIfEmpty("") != nil || NullIfEmpty("x") != "x" {
		t.Fatalf("NullIfEmpty misbehaves")
	}
}

func TestHistoryNoteHoldsLongWarnings(t *testing.T) {
	for _, tbl := range schema {
		if tbl.name != "booking_status_history" {
			continue
		}
		if !strings.Contains(tbl.ddl, "note TEXT NULL") {
			t.Fatalf("history note must be TEXT; cancel warnings name hotel and package")
		}
		return
	}
	t.Fatalf("booking_status_history missing from schema")
}
