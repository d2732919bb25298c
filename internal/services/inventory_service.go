package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
	"travelbook/internal/utils"
	"travelbook/internal/validation"

	"github.com/google/uuid"
)

// InventoryService is the administrator's view of hotels and packages.
// Room counters are only changed here through capacity edits.
type InventoryService struct {
	Store     repositories.Store
	Timeout   time.Duration
	Clock     func() time.Time
	RequestID string
}

func (s InventoryService) now() time.Time { return clock(s.Clock) }

func uniqueHotel(err error) error {
	return domain.ConflictError{Resource: "hotel", Kind: domain.ConflictUnique, Msg: "name, email or phone already in use", Err: err}
}

func normalizeHotel(h *models.Hotel) {
	h.HotelID = strings.TrimSpace(h.HotelID)
	h.Name = utils.NormalizeSpace(h.Name)
	h.Address = utils.NormalizeSpace(h.Address)
	h.City = utils.NormalizeSpace(h.City)
	h.Email = strings.ToLower(strings.TrimSpace(h.Email))
	h.Phone = strings.TrimSpace(h.Phone)
	h.Description = strings.TrimSpace(h.Description)
	h.Image = strings.TrimSpace(h.Image)
}

func normalizePackage(p *models.Package) {
	p.Name = utils.NormalizeSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Inclusions = utils.CleanList(p.Inclusions)
}

func (s InventoryService) CreateHotel(ctx context.Context, h models.Hotel) (models.Hotel, error) {
	normalizeHotel(&h)
	if h.HotelID == "" {
		h.HotelID = uuid.NewString()
	}
	seen := map[string]bool{}
	for i := range h.Packages {
		normalizePackage(&h.Packages[i])
		key := strings.ToLower(h.Packages[i].Name)
		if seen[key] {
			return models.Hotel{}, domain.ValidationError{Field: "packages", Msg: fmt.Sprintf("duplicate package %q", h.Packages[i].Name)}
		}
		seen[key] = true
	}
	if h.Packages == nil {
		h.Packages = []models.Package{}
	}
	if err := validation.Struct(h); err != nil {
		return models.Hotel{}, err
	}
	now := s.now()
	h.CreatedAt, h.UpdatedAt = now, now

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		return tx.Inventory().CreateHotel(ctx, h)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Hotel{}, uniqueHotel(err)
		}
		return models.Hotel{}, storeError("create hotel", "hotel", err)
	}
	utils.LogEvent(s.RequestID, "inventory", "create_hotel", "hotel_id="+h.HotelID)
	return h, nil
}

func (s InventoryService) GetHotel(ctx context.Context, hotelID string) (models.Hotel, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	h, err := s.Store.Inventory().GetHotel(ctx, strings.TrimSpace(hotelID))
	if err != nil {
		return models.Hotel{}, storeError("get hotel", "hotel", err)
	}
	return h, nil
}

// ListHotels returns all hotels, optionally only those in city.
func (s InventoryService) ListHotels(ctx context.Context, city string) ([]models.Hotel, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	all, err := s.Store.Inventory().ListHotels(ctx)
	if err != nil {
		return nil, storeError("list hotels", "hotel", err)
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return all, nil
	}
	out := []models.Hotel{}
	for _, h := range all {
		if strings.EqualFold(h.City, city) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s InventoryService) UpdateHotel(ctx context.Context, hotelID string, u models.HotelUpdate) (models.Hotel, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var out models.Hotel
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		h, err := tx.Inventory().GetHotel(ctx, strings.TrimSpace(hotelID))
		if err != nil {
			return storeError("update hotel", "hotel", err)
		}
		oldName := h.Name
		apply := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		apply(&h.Name, u.Name)
		apply(&h.Address, u.Address)
		apply(&h.City, u.City)
		apply(&h.Email, u.Email)
		apply(&h.Phone, u.Phone)
		apply(&h.Description, u.Description)
		apply(&h.Image, u.Image)
		if u.StarRating != nil {
			h.StarRating = *u.StarRating
		}
		normalizeHotel(&h)
		if err := validation.Struct(h); err != nil {
			return err
		}
		h.UpdatedAt = s.now()
		if err := tx.Inventory().UpdateHotel(ctx, h); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return uniqueHotel(err)
			}
			return storeError("update hotel", "hotel", err)
		}
		// Bookings reference the hotel by name.
		if h.Name != oldName {
			n, err := tx.Bookings().RenameHotel(ctx, oldName, h.Name)
			if err != nil {
				return storeError("update hotel", "booking", err)
			}
			if n > 0 {
				utils.LogEvent(s.RequestID, "inventory", "rename_hotel", fmt.Sprintf("hotel_id=%s bookings=%d", h.HotelID, n))
			}
		}
		out = h
		return nil
	})
	if err != nil {
		return models.Hotel{}, storeError("update hotel", "hotel", err)
	}
	utils.LogEvent(s.RequestID, "inventory", "update_hotel", "hotel_id="+out.HotelID)
	return out, nil
}

// DeleteHotel removes the hotel and its packages. Bookings are kept; a later
// cancel reports that rooms could not be restored.
func (s InventoryService) DeleteHotel(ctx context.Context, hotelID string) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		return tx.Inventory().DeleteHotel(ctx, strings.TrimSpace(hotelID))
	})
	if err != nil {
		return storeError("delete hotel", "hotel", err)
	}
	utils.LogEvent(s.RequestID, "inventory", "delete_hotel", "hotel_id="+hotelID)
	return nil
}

// AddPackage appends a package to the hotel's list. RoomsAvailable is taken
// as given and must lie in [0, capacity].
func (s InventoryService) AddPackage(ctx context.Context, hotelID string, p models.Package) (models.Package, error) {
	normalizePackage(&p)
	if err := validation.Struct(p); err != nil {
		return models.Package{}, err
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		return tx.Inventory().AddPackage(ctx, strings.TrimSpace(hotelID), p)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Package{}, domain.ConflictError{Resource: "package", Kind: domain.ConflictUnique, Msg: fmt.Sprintf("package %q already exists", p.Name), Err: err}
		}
		return models.Package{}, storeError("add package", "hotel", err)
	}
	utils.LogEvent(s.RequestID, "inventory", "add_package", fmt.Sprintf("hotel_id=%s package=%s capacity=%d", hotelID, p.Name, p.Capacity))
	return p, nil
}

// UpdatePackage edits a package under a row lock. A capacity change shifts
// rooms_available by the same delta and fails if rooms already held by
// bookings would no longer fit.
func (s InventoryService) UpdatePackage(ctx context.Context, hotelID, name string, u models.PackageUpdate) (models.Package, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var out models.Package
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		p, err := tx.Inventory().GetPackageForUpdate(ctx, strings.TrimSpace(hotelID), name)
		if err != nil {
			return storeError("update package", "package", err)
		}
		if u.Description != nil {
			p.Description = *u.Description
		}
		if u.Price != nil {
			p.Price = *u.Price
		}
		if u.Inclusions != nil {
			p.Inclusions = u.Inclusions
		}
		if u.ValidUntil != nil {
			p.ValidUntil = u.ValidUntil.UTC()
		}
		if u.Capacity != nil {
			if *u.Capacity < 1 {
				return domain.ValidationError{Field: "capacity", Msg: "must be at least 1"}
			}
			avail, err := domain.ResizeCapacity(p.RoomsAvailable, p.Capacity, *u.Capacity)
			if err != nil {
				return domain.ConflictError{Resource: "package", Kind: domain.ConflictInventory, Msg: "capacity below rooms already booked", Err: err}
			}
			p.Capacity, p.RoomsAvailable = *u.Capacity, avail
		}
		normalizePackage(&p)
		if err := validation.Struct(p); err != nil {
			return err
		}
		if err := tx.Inventory().UpdatePackage(ctx, strings.TrimSpace(hotelID), p); err != nil {
			return storeError("update package", "package", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return models.Package{}, storeError("update package", "package", err)
	}
	utils.LogEvent(s.RequestID, "inventory", "update_package", fmt.Sprintf("hotel_id=%s package=%s capacity=%d available=%d", hotelID, out.Name, out.Capacity, out.RoomsAvailable))
	return out, nil
}

func (s InventoryService) RemovePackage(ctx context.Context, hotelID, name string) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		return tx.Inventory().RemovePackage(ctx, strings.TrimSpace(hotelID), name)
	})
	if err != nil {
		return storeError("remove package", "package", err)
	}
	utils.LogEvent(s.RequestID, "inventory", "remove_package", fmt.Sprintf("hotel_id=%s package=%s", hotelID, name))
	return nil
}
