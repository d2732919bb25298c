package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/events"
	"travelbook/internal/repositories"
	"travelbook/internal/utils"
	"travelbook/internal/validation"

	"github.com/google/uuid"
)

// BookingService moves rooms between package availability and bookings.
// Every mutation runs in one Store.Atomic unit so the counter change and the
// booking write commit or roll back together.
type BookingService struct {
	Store     repositories.Store
	Events    events.Publisher
	Timeout   time.Duration
	Clock     func() time.Time
	RequestID string
}

type CreateBookingInput struct {
	BookingID   string              `json:"booking_id" validate:"max=64"`
	UserName    string              `json:"user_name" validate:"required,max=120"`
	HotelName   string              `json:"hotel_name" validate:"required,max=160"`
	PackageName string              `json:"package_name" validate:"required,max=120"`
	Rooms       int                 `json:"rooms" validate:"gt=0"`
	BookingFrom time.Time           `json:"booking_from" validate:"required"`
	BookingTo   time.Time           `json:"booking_to" validate:"required"`
	Payment     models.PaymentInput `json:"payment"`
}

func (in *CreateBookingInput) normalize() {
	in.BookingID = strings.TrimSpace(in.BookingID)
	in.UserName = utils.NormalizeSpace(in.UserName)
	in.HotelName = utils.NormalizeSpace(in.HotelName)
	in.PackageName = utils.NormalizeSpace(in.PackageName)
}

func (s BookingService) now() time.Time { return clock(s.Clock) }

func (s BookingService) publisher() events.Publisher {
	if s.Events != nil {
		return s.Events
	}
	return events.Noop{}
}

func checkDateRange(from, to time.Time) error {
	if !to.After(from) {
		return domain.ValidationError{Field: "booking_to", Msg: "must be after booking_from"}
	}
	return nil
}

// checkPayment validates card fields and requires an expiry strictly after now.
func checkPayment(p models.PaymentInput, now time.Time) error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	if !p.CardExpiry.After(now) {
		return domain.ValidationError{Field: "payment.card_expiry", Msg: "card has expired"}
	}
	return nil
}

func (s BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (models.Booking, error) {
	in.normalize()
	if in.BookingID == "" {
		in.BookingID = uuid.NewString()
	}
	if err := validation.Struct(in); err != nil {
		return models.Booking{}, err
	}
	if err := checkDateRange(in.BookingFrom, in.BookingTo); err != nil {
		return models.Booking{}, err
	}
	now := s.now()
	if err := checkPayment(in.Payment, now); err != nil {
		return models.Booking{}, err
	}

	b := models.Booking{
		BookingID:   in.BookingID,
		UserName:    in.UserName,
		HotelName:   in.HotelName,
		PackageName: in.PackageName,
		Rooms:       in.Rooms,
		BookingFrom: in.BookingFrom.UTC(),
		BookingTo:   in.BookingTo.UTC(),
		Payment:     in.Payment.Snapshot(),
		Status:      models.BookingConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	// Cheap early answer for retries; the primary key is the real guard.
	if _, err := s.Store.Bookings().Get(ctx, b.BookingID); err == nil {
		return models.Booking{}, duplicateBooking(b.BookingID, nil)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.Booking{}, storeError("create booking", "booking", err)
	}

	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		hotel, err := tx.Inventory().GetHotelByName(ctx, b.HotelName)
		if err != nil {
			return storeError("create booking", "hotel", err)
		}
		pkg, ok := hotel.Package(b.PackageName)
		if !ok {
			return domain.NotFoundError{Resource: "package"}
		}
		b.HotelName, b.PackageName = hotel.Name, pkg.Name

		if err := tx.Inventory().AdjustRoomCount(ctx, hotel.Name, pkg.Name, -b.Rooms); err != nil {
			if errors.Is(err, repositories.ErrInvariant) {
				return domain.ConflictError{
					Resource: "package",
					Kind:     domain.ConflictInventory,
					Msg:      fmt.Sprintf("insufficient inventory: requested %d rooms of %s", b.Rooms, pkg.Name),
					Err:      err,
				}
			}
			return storeError("create booking", "package", err)
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return duplicateBooking(b.BookingID, err)
			}
			return storeError("create booking", "booking", err)
		}
		return tx.Bookings().AppendHistory(ctx, models.StatusChange{
			BookingID: b.BookingID,
			To:        models.BookingConfirmed,
			Note:      "created",
			At:        now,
		})
	})
	if err != nil {
		return models.Booking{}, storeError("create booking", "booking", err)
	}

	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%s hotel=%s package=%s rooms=%d", b.BookingID, b.HotelName, b.PackageName, b.Rooms))
	s.publish(ctx, events.FromBooking(events.BookingConfirmed, b, now))
	return b, nil
}

func duplicateBooking(id string, err error) error {
	return domain.ConflictError{
		Resource: "booking",
		Kind:     domain.ConflictDuplicate,
		Msg:      fmt.Sprintf("booking_id %q already exists", id),
		Err:      err,
	}
}

// CancelBooking is idempotent: cancelling a cancelled booking returns it
// unchanged. Rooms are returned to the package best effort; when that is not
// possible the cancellation still commits and the result carries a warning.
func (s BookingService) CancelBooking(ctx context.Context, bookingID string) (models.CancelResult, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return models.CancelResult{}, domain.ValidationError{Field: "booking_id", Msg: "is required"}
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		res     models.CancelResult
		changed bool
		now     = s.now()
	)
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		b, err := tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return storeError("cancel booking", "booking", err)
		}
		if b.Status == models.BookingCancelled {
			res.Booking = b
			return nil
		}
		if !b.Status.CanTransition(models.BookingCancelled) {
			return domain.ConflictError{Resource: "booking", Kind: domain.ConflictTransition, Msg: string(b.Status) + " bookings cannot be cancelled"}
		}

		ok, err := tx.Bookings().SetStatus(ctx, bookingID, models.BookingConfirmed, models.BookingCancelled, now)
		if err != nil {
			return storeError("cancel booking", "booking", err)
		}
		if !ok {
			return domain.ConflictError{Resource: "booking", Kind: domain.ConflictTransition, Msg: "booking changed concurrently"}
		}
		b.Status = models.BookingCancelled
		b.UpdatedAt = now

		note := "cancelled"
		if err := tx.Inventory().AdjustRoomCount(ctx, b.HotelName, b.PackageName, b.Rooms); err != nil {
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				res.Warning = fmt.Sprintf("package %s/%s no longer exists; %d rooms not restored", b.HotelName, b.PackageName, b.Rooms)
			case errors.Is(err, repositories.ErrInvariant):
				res.Warning = fmt.Sprintf("package %s/%s is at capacity; %d rooms not restored", b.HotelName, b.PackageName, b.Rooms)
			default:
				return storeError("cancel booking", "package", err)
			}
			note = "cancelled; " + res.Warning
		}
		if err := tx.Bookings().AppendHistory(ctx, models.StatusChange{
			BookingID: b.BookingID,
			From:      models.BookingConfirmed,
			To:        models.BookingCancelled,
			Note:      note,
			At:        now,
		}); err != nil {
			return err
		}
		res.Booking = b
		changed = true
		return nil
	})
	if err != nil {
		return models.CancelResult{}, storeError("cancel booking", "booking", err)
	}

	if !changed {
		utils.LogEvent(s.RequestID, "booking", "cancel", "booking_id="+bookingID+" already cancelled")
		return res, nil
	}
	if res.Warning != "" {
		utils.LogWarn(s.RequestID, "booking", "cancel_restore", errors.New(res.Warning))
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%s rooms=%d", bookingID, res.Booking.Rooms))
	ev := events.FromBooking(events.BookingCancelled, res.Booking, now)
	ev.Warning = res.Warning
	s.publish(ctx, ev)
	return res, nil
}

// UpdateBooking edits the user name, dates and payment snapshot. Inventory is
// never touched here.
func (s BookingService) UpdateBooking(ctx context.Context, bookingID string, u models.BookingUpdate) (models.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "is required"}
	}
	if u.Empty() {
		return models.Booking{}, domain.ValidationError{Msg: "no updatable fields provided"}
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	now := s.now()
	var out models.Booking
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		b, err := tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return storeError("update booking", "booking", err)
		}
		if b.Status == models.BookingCancelled {
			return domain.ConflictError{Resource: "booking", Kind: domain.ConflictTransition, Msg: "cancelled bookings cannot be modified"}
		}

		if u.UserName != nil {
			name := utils.NormalizeSpace(*u.UserName)
			if name == "" {
				return domain.ValidationError{Field: "user_name", Msg: "is required"}
			}
			b.UserName = name
		}
		if u.BookingFrom != nil || u.BookingTo != nil {
			if u.BookingFrom != nil {
				b.BookingFrom = u.BookingFrom.UTC()
			}
			if u.BookingTo != nil {
				b.BookingTo = u.BookingTo.UTC()
			}
			if err := checkDateRange(b.BookingFrom, b.BookingTo); err != nil {
				return err
			}
		}
		if u.Payment != nil {
			if err := checkPayment(*u.Payment, now); err != nil {
				return err
			}
			b.Payment = u.Payment.Snapshot()
		}
		b.UpdatedAt = now
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return storeError("update booking", "booking", err)
		}
		out = b
		return nil
	})
	if err != nil {
		return models.Booking{}, storeError("update booking", "booking", err)
	}
	utils.LogEvent(s.RequestID, "booking", "update", "booking_id="+bookingID)
	return out, nil
}

// CompleteBooking marks a confirmed booking completed. Rooms stay consumed.
func (s BookingService) CompleteBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "is required"}
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		out     models.Booking
		changed bool
		now     = s.now()
	)
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		b, err := tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			return storeError("complete booking", "booking", err)
		}
		if b.Status == models.BookingCompleted {
			out = b
			return nil
		}
		if !b.Status.CanTransition(models.BookingCompleted) {
			return domain.ConflictError{Resource: "booking", Kind: domain.ConflictTransition, Msg: string(b.Status) + " bookings cannot be completed"}
		}
		ok, err := tx.Bookings().SetStatus(ctx, bookingID, models.BookingConfirmed, models.BookingCompleted, now)
		if err != nil {
			return storeError("complete booking", "booking", err)
		}
		if !ok {
			return domain.ConflictError{Resource: "booking", Kind: domain.ConflictTransition, Msg: "booking changed concurrently"}
		}
		b.Status = models.BookingCompleted
		b.UpdatedAt = now
		out, changed = b, true
		return tx.Bookings().AppendHistory(ctx, models.StatusChange{
			BookingID: b.BookingID,
			From:      models.BookingConfirmed,
			To:        models.BookingCompleted,
			Note:      "completed",
			At:        now,
		})
	})
	if err != nil {
		return models.Booking{}, storeError("complete booking", "booking", err)
	}
	if changed {
		utils.LogEvent(s.RequestID, "booking", "complete", "booking_id="+bookingID)
		s.publish(ctx, events.FromBooking(events.BookingCompleted, out, now))
	}
	return out, nil
}

// CompleteElapsed completes confirmed bookings whose stay ended before now.
// It returns how many bookings were completed.
func (s BookingService) CompleteElapsed(ctx context.Context, now time.Time, batch int) (int, error) {
	lctx, cancel := withTimeout(ctx, s.Timeout)
	due, err := s.Store.Bookings().ListElapsed(lctx, now, batch)
	cancel()
	if err != nil {
		return 0, storeError("list elapsed bookings", "booking", err)
	}

	done := 0
	for _, b := range due {
		if _, err := s.CompleteBooking(ctx, b.BookingID); err != nil {
			if domain.IsConflict(err) || domain.IsNotFound(err) {
				continue
			}
			return done, err
		}
		done++
	}
	return done, nil
}

func (s BookingService) GetBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	b, err := s.Store.Bookings().Get(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return models.Booking{}, storeError("get booking", "booking", err)
	}
	return b, nil
}

// ListBookings returns bookings matching f, newest first.
func (s BookingService) ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.ValidationError{Field: "status", Msg: "must be confirmed, cancelled or completed"}
	}
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	out, err := s.Store.Bookings().List(ctx, f)
	if err != nil {
		return nil, storeError("list bookings", "booking", err)
	}
	return out, nil
}

func (s BookingService) ListByUser(ctx context.Context, userName string) ([]models.Booking, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, domain.ValidationError{Field: "user_name", Msg: "is required"}
	}
	return s.ListBookings(ctx, models.BookingFilter{UserName: userName})
}

func (s BookingService) ListByHotel(ctx context.Context, hotelName string) ([]models.Booking, error) {
	if strings.TrimSpace(hotelName) == "" {
		return nil, domain.ValidationError{Field: "hotel_name", Msg: "is required"}
	}
	return s.ListBookings(ctx, models.BookingFilter{HotelName: hotelName})
}

func (s BookingService) ListAll(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return s.ListBookings(ctx, models.BookingFilter{Status: status})
}

// History returns the status transitions of a booking, oldest first.
func (s BookingService) History(ctx context.Context, bookingID string) ([]models.StatusChange, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	bookingID = strings.TrimSpace(bookingID)
	if _, err := s.Store.Bookings().Get(ctx, bookingID); err != nil {
		return nil, storeError("booking history", "booking", err)
	}
	out, err := s.Store.Bookings().History(ctx, bookingID)
	if err != nil {
		return nil, storeError("booking history", "booking", err)
	}
	return out, nil
}

func (s BookingService) publish(ctx context.Context, e events.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.publisher().Publish(pctx, e); err != nil {
		utils.LogWarn(s.RequestID, "booking", "publish_"+e.Type, err)
	}
}
