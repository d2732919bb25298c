package memory

import (
	"context"
	"sort"
	"time"

	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(ctx context.Context, b models.Booking) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.bookings[b.BookingID]; ok {
			return repositories.ErrDuplicate
		}
		st.bookings[b.BookingID] = b
		st.next("booking:" + b.BookingID)
		return nil
	})
}

func (r bookingRepo) Get(ctx context.Context, bookingID string) (models.Booking, error) {
	var out models.Booking
	err := r.s.read(ctx, func(st *state) error {
		b, ok := st.bookings[bookingID]
		if !ok {
			return repositories.ErrNotFound
		}
		out = b
		return nil
	})
	return out, err
}

func (r bookingRepo) GetForUpdate(ctx context.Context, bookingID string) (models.Booking, error) {
	return r.Get(ctx, bookingID)
}

func (r bookingRepo) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	out := []models.Booking{}
	err := r.s.read(ctx, func(st *state) error {
		ids := make([]string, 0, len(st.bookings))
		for id, b := range st.bookings {
			if f.UserName != "" && fold(b.UserName) != fold(f.UserName) {
				continue
			}
			if f.HotelName != "" && fold(b.HotelName) != fold(f.HotelName) {
				continue
			}
			if f.Status != "" && b.Status != f.Status {
				continue
			}
			ids = append(ids, id)
		}
		st.sortIDs("booking:", ids, true)
		for _, id := range ids {
			out = append(out, st.bookings[id])
		}
		return nil
	})
	return out, err
}

func (r bookingRepo) ListElapsed(ctx context.Context, before time.Time, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []models.Booking{}
	err := r.s.read(ctx, func(st *state) error {
		for _, b := range st.bookings {
			if b.Status == models.BookingConfirmed && b.BookingTo.Before(before) {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BookingTo.Before(out[j].BookingTo) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r bookingRepo) Update(ctx context.Context, b models.Booking) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.bookings[b.BookingID]
		if !ok {
			return repositories.ErrNotFound
		}
		cur.UserName = b.UserName
		cur.BookingFrom = b.BookingFrom
		cur.BookingTo = b.BookingTo
		cur.Payment = b.Payment
		cur.UpdatedAt = b.UpdatedAt
		st.bookings[b.BookingID] = cur
		return nil
	})
}

func (r bookingRepo) RenameHotel(ctx context.Context, oldName, newName string) (int, error) {
	n := 0
	err := r.s.write(ctx, func(st *state) error {
		for id, b := range st.bookings {
			if fold(b.HotelName) == fold(oldName) {
				b.HotelName = newName
				st.bookings[id] = b
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r bookingRepo) SetStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, at time.Time) (bool, error) {
	changed := false
	err := r.s.write(ctx, func(st *state) error {
		cur, ok := st.bookings[bookingID]
		if !ok || cur.Status != from {
			return nil
		}
		cur.Status = to
		cur.UpdatedAt = at
		st.bookings[bookingID] = cur
		changed = true
		return nil
	})
	return changed, err
}

func (r bookingRepo) AppendHistory(ctx context.Context, c models.StatusChange) error {
	return r.s.write(ctx, func(st *state) error {
		st.history[c.BookingID] = append(st.history[c.BookingID], c)
		return nil
	})
}

func (r bookingRepo) History(ctx context.Context, bookingID string) ([]models.StatusChange, error) {
	out := []models.StatusChange{}
	err := r.s.read(ctx, func(st *state) error {
		out = append(out, st.history[bookingID]...)
		return nil
	})
	return out, err
}
