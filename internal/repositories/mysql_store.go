package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQL error numbers the store reacts to.
const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// MySQLStore implements Store on database/sql with the MySQL driver.
type MySQLStore struct {
	DB *sql.DB
	q  Querier
	tx *sql.Tx
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db, q: db}
}

func (s *MySQLStore) querier() Querier {
	if s.q != nil {
		return s.q
	}
	return s.DB
}

func (s *MySQLStore) Inventory() InventoryRepository      { return InventoryRepo{Q: s.querier()} }
func (s *MySQLStore) Destinations() DestinationRepository { return DestinationRepo{Q: s.querier()} }
func (s *MySQLStore) Bookings() BookingRepository         { return BookingRepo{Q: s.querier()} }
func (s *MySQLStore) Reviews() ReviewRepository           { return ReviewRepo{Q: s.querier()} }
func (s *MySQLStore) Users() UserRepository               { return UserRepo{Q: s.querier()} }

func (s *MySQLStore) Ping(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("db not configured")
	}
	return classify(s.DB.PingContext(ctx))
}

// Atomic opens a transaction, runs fn and commits. Nested calls reuse the
// outer transaction.
func (s *MySQLStore) Atomic(ctx context.Context, fn func(Store) error) (err error) {
	if s.tx != nil {
		return fn(s)
	}
	if s.DB == nil {
		return errors.New("db not configured")
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&MySQLStore{DB: s.DB, q: tx, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	committed = true
	return nil
}

// classify maps driver errors onto the package sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case mysqlLockWaitTimeout, mysqlDeadlock:
			return fmt.Errorf("%w: %w", ErrTransient, err)
		}
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}

// IsTransient reports errors worth retrying: timeouts, dropped connections,
// deadlocks.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrTransient),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone):
		return true
	}
	return false
}
