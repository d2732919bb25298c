package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"travelbook/internal/domain/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvariant is returned by AdjustRoomCount when the delta would move
	// rooms_available outside [0, capacity].
	ErrInvariant = errors.New("room invariant violated")
	ErrTransient = errors.New("transient store failure")
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type InventoryRepository interface {
	CreateHotel(ctx context.Context, h models.Hotel) error
	GetHotel(ctx context.Context, hotelID string) (models.Hotel, error)
	GetHotelByName(ctx context.Context, name string) (models.Hotel, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	UpdateHotel(ctx context.Context, h models.Hotel) error
	DeleteHotel(ctx context.Context, hotelID string) error

	AddPackage(ctx context.Context, hotelID string, p models.Package) error
	GetPackage(ctx context.Context, hotelName, packageName string) (models.Package, error)
	// GetPackageForUpdate locks the package row until the transaction ends.
	GetPackageForUpdate(ctx context.Context, hotelID, packageName string) (models.Package, error)
	UpdatePackage(ctx context.Context, hotelID string, p models.Package) error
	RemovePackage(ctx context.Context, hotelID, packageName string) error

	// AdjustRoomCount applies delta to rooms_available as one conditional
	// write. Returns ErrNotFound or ErrInvariant without changing anything.
	AdjustRoomCount(ctx context.Context, hotelName, packageName string, delta int) error
}

type DestinationRepository interface {
	Create(ctx context.Context, d models.Destination) error
	Get(ctx context.Context, destinationID string) (models.Destination, error)
	// List returns destinations ordered by name, optionally only in country.
	List(ctx context.Context, country string) ([]models.Destination, error)
	Update(ctx context.Context, d models.Destination) error
	Delete(ctx context.Context, destinationID string) error
}

type BookingRepository interface {
	Create(ctx context.Context, b models.Booking) error
	Get(ctx context.Context, bookingID string) (models.Booking, error)
	// GetForUpdate locks the booking row until the transaction ends.
	GetForUpdate(ctx context.Context, bookingID string) (models.Booking, error)
	List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error)
	ListElapsed(ctx context.Context, before time.Time, limit int) ([]models.Booking, error)
	Update(ctx context.Context, b models.Booking) error
	// RenameHotel repoints every booking made under oldName to newName and
	// returns how many were moved.
	RenameHotel(ctx context.Context, oldName, newName string) (int, error)
	// SetStatus moves the booking from -> to and reports whether a row changed.
	SetStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, at time.Time) (bool, error)
	AppendHistory(ctx context.Context, c models.StatusChange) error
	History(ctx context.Context, bookingID string) ([]models.StatusChange, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r models.Review) error
	Get(ctx context.Context, reviewID string) (models.Review, error)
	// List filters by hotel and status; empty values match everything.
	List(ctx context.Context, hotelID string, status models.ReviewStatus) ([]models.Review, error)
	SetStatus(ctx context.Context, reviewID string, from, to models.ReviewStatus) (bool, error)
	// ApprovedStats returns the sum and number of approved ratings.
	ApprovedStats(ctx context.Context, hotelID string) (sum int, count int, err error)
}

type UserRepository interface {
	Create(ctx context.Context, u models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	// GetByLogin matches username or email.
	GetByLogin(ctx context.Context, login string) (models.User, error)
}

// Store groups the repositories behind one unit of work.
type Store interface {
	Inventory() InventoryRepository
	Destinations() DestinationRepository
	Bookings() BookingRepository
	Reviews() ReviewRepository
	Users() UserRepository
	// Atomic runs fn against a transactional Store. fn's error rolls back
	// every write made through the Store it receives.
	Atomic(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}
