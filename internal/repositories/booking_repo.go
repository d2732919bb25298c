package repositories

import (
	"context"
	"strings"
	"time"

	intdb "travelbook/internal/db"
	"travelbook/internal/domain/models"
)

// BookingRepo persists bookings and their status history in MySQL.
type BookingRepo struct {
	Q Querier
}

const bookingColumns = `booking_id, user_name, hotel_name, package_name, rooms, booking_from, booking_to,
	card_type, card_number, card_expiry, amount, status, created_at, updated_at`

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b      models.Booking
		status string
	)
	err := row.Scan(
		&b.BookingID,
		&b.UserName,
		&b.HotelName,
		&b.PackageName,
		&b.Rooms,
		&b.BookingFrom,
		&b.BookingTo,
		&b.Payment.CardType,
		&b.Payment.CardNumber,
		&b.Payment.CardExpiry,
		&b.Payment.Amount,
		&status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	b.Status = models.BookingStatus(status)
	return b, err
}

func (r BookingRepo) Create(ctx context.Context, b models.Booking) error {
	_, err := r.Q.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.BookingID, b.UserName, b.HotelName, b.PackageName, b.Rooms, b.BookingFrom, b.BookingTo,
		b.Payment.CardType, b.Payment.CardNumber, b.Payment.CardExpiry, b.Payment.Amount,
		string(b.Status), b.CreatedAt, b.UpdatedAt,
	)
	return classify(err)
}

func (r BookingRepo) Get(ctx context.Context, bookingID string) (models.Booking, error) {
	b, err := scanBooking(r.Q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id = ? LIMIT 1`, bookingID))
	if err != nil {
		return models.Booking{}, classify(err)
	}
	return b, nil
}

func (r BookingRepo) GetForUpdate(ctx context.Context, bookingID string) (models.Booking, error) {
	b, err := scanBooking(r.Q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id = ? FOR UPDATE`, bookingID))
	if err != nil {
		return models.Booking{}, classify(err)
	}
	return b, nil
}

func (r BookingRepo) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	where := []string{}
	args := []any{}
	if s := strings.TrimSpace(f.UserName); s != "" {
		where = append(where, "user_name = ?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(f.HotelName); s != "" {
		where = append(where, "hotel_name = ?")
		args = append(args, s)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, booking_id`
	return r.query(ctx, query, args...)
}

func (r BookingRepo) ListElapsed(ctx context.Context, before time.Time, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE status = ? AND booking_to < ?
		ORDER BY booking_to
		LIMIT ?
	`, string(models.BookingConfirmed), before, limit)
}

func (r BookingRepo) query(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.Q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, b)
	}
	return out, classify(rows.Err())
}

// Update rewrites the editable fields. Status, rooms and the hotel/package
// reference are not touched here.
func (r BookingRepo) Update(ctx context.Context, b models.Booking) error {
	res, err := r.Q.ExecContext(ctx, `
		UPDATE bookings
		SET user_name = ?, booking_from = ?, booking_to = ?,
		    card_type = ?, card_number = ?, card_expiry = ?, amount = ?, updated_at = ?
		WHERE booking_id = ?
	`,
		b.UserName, b.BookingFrom, b.BookingTo,
		b.Payment.CardType, b.Payment.CardNumber, b.Payment.CardExpiry, b.Payment.Amount, b.UpdatedAt,
		b.BookingID,
	)
	return affectedOne(res, err)
}

func (r BookingRepo) RenameHotel(ctx context.Context, oldName, newName string) (int, error) {
	res, err := r.Q.ExecContext(ctx, `UPDATE bookings SET hotel_name = ? WHERE hotel_name = ?`, newName, oldName)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}
	return int(n), nil
}

func (r BookingRepo) SetStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, at time.Time) (bool, error) {
	res, err := r.Q.ExecContext(ctx, `
		UPDATE bookings SET status = ?, updated_at = ?
		WHERE booking_id = ? AND status = ?
	`, string(to), at, bookingID, string(from))
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

func (r BookingRepo) AppendHistory(ctx context.Context, c models.StatusChange) error {
	_, err := r.Q.ExecContext(ctx, `
		INSERT INTO booking_status_history (booking_id, from_status, to_status, note, changed_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.BookingID, string(c.From), string(c.To), intdb.NullIfEmpty(c.Note), c.At)
	return classify(err)
}

func (r BookingRepo) History(ctx context.Context, bookingID string) ([]models.StatusChange, error) {
	rows, err := r.Q.QueryContext(ctx, `
		SELECT booking_id, from_status, to_status, COALESCE(note, ''), changed_at
		FROM booking_status_history
		WHERE booking_id = ?
		ORDER BY changed_at, id
	`, bookingID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []models.StatusChange{}
	for rows.Next() {
		var (
			c        models.StatusChange
			from, to string
		)
		if err := rows.Scan(&c.BookingID, &from, &to, &c.Note, &c.At); err != nil {
			return nil, classify(err)
		}
		c.From, c.To = models.BookingStatus(from), models.BookingStatus(to)
		out = append(out, c)
	}
	return out, classify(rows.Err())
}
