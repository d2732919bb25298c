package memory

import (
	"context"
	"fmt"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

type inventoryRepo struct{ s *Store }

func copyHotel(h *models.Hotel) models.Hotel {
	out := *h
	out.Packages = make([]models.Package, len(h.Packages))
	for i, p := range h.Packages {
		p.Inclusions = append([]string{}, p.Inclusions...)
		out.Packages[i] = p
	}
	return out
}

// uniqueClash reports whether another hotel already uses h's name, email or phone.
func (st *state) uniqueClash(h models.Hotel) bool {
	for id, other := range st.hotels {
		if id == h.HotelID {
			continue
		}
		if fold(other.Name) == fold(h.Name) || fold(other.Email) == fold(h.Email) || fold(other.Phone) == fold(h.Phone) {
			return true
		}
	}
	return false
}

func (st *state) hotelByName(name string) *models.Hotel {
	for _, h := range st.hotels {
		if fold(h.Name) == fold(name) {
			return h
		}
	}
	return nil
}

func packageIndex(h *models.Hotel, name string) int {
	for i, p := range h.Packages {
		if fold(p.Name) == fold(name) {
			return i
		}
	}
	return -1
}

func (r inventoryRepo) CreateHotel(ctx context.Context, h models.Hotel) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.hotels[h.HotelID]; ok || st.uniqueClash(h) {
			return repositories.ErrDuplicate
		}
		seen := map[string]bool{}
		for _, p := range h.Packages {
			if seen[fold(p.Name)] {
				return repositories.ErrDuplicate
			}
			seen[fold(p.Name)] = true
		}
		cp := copyHotel(&h)
		st.hotels[h.HotelID] = &cp
		st.next("hotel:" + h.HotelID)
		return nil
	})
}

func (r inventoryRepo) GetHotel(ctx context.Context, hotelID string) (models.Hotel, error) {
	var out models.Hotel
	err := r.s.read(ctx, func(st *state) error {
		h, ok := st.hotels[hotelID]
		if !ok {
			return repositories.ErrNotFound
		}
		out = copyHotel(h)
		return nil
	})
	return out, err
}

func (r inventoryRepo) GetHotelByName(ctx context.Context, name string) (models.Hotel, error) {
	var out models.Hotel
	err := r.s.read(ctx, func(st *state) error {
		h := st.hotelByName(name)
		if h == nil {
			return repositories.ErrNotFound
		}
		out = copyHotel(h)
		return nil
	})
	return out, err
}

func (r inventoryRepo) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	out := []models.Hotel{}
	err := r.s.read(ctx, func(st *state) error {
		ids := make([]string, 0, len(st.hotels))
		for id := range st.hotels {
			ids = append(ids, id)
		}
		st.sortIDs("hotel:", ids, false)
		for _, id := range ids {
			out = append(out, copyHotel(st.hotels[id]))
		}
		return nil
	})
	return out, err
}

func (r inventoryRepo) UpdateHotel(ctx context.Context, h models.Hotel) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.hotels[h.HotelID]
		if !ok {
			return repositories.ErrNotFound
		}
		if st.uniqueClash(h) {
			return repositories.ErrDuplicate
		}
		pkgs := cur.Packages
		*cur = h
		cur.Packages = pkgs
		return nil
	})
}

func (r inventoryRepo) DeleteHotel(ctx context.Context, hotelID string) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.hotels[hotelID]; !ok {
			return repositories.ErrNotFound
		}
		delete(st.hotels, hotelID)
		delete(st.order, "hotel:"+hotelID)
		return nil
	})
}

func (r inventoryRepo) AddPackage(ctx context.Context, hotelID string, p models.Package) error {
	return r.s.write(ctx, func(st *state) error {
		h, ok := st.hotels[hotelID]
		if !ok {
			return repositories.ErrNotFound
		}
		if packageIndex(h, p.Name) >= 0 {
			return repositories.ErrDuplicate
		}
		p.Inclusions = append([]string{}, p.Inclusions...)
		h.Packages = append(h.Packages, p)
		return nil
	})
}

func (r inventoryRepo) GetPackage(ctx context.Context, hotelName, packageName string) (models.Package, error) {
	var out models.Package
	err := r.s.read(ctx, func(st *state) error {
		h := st.hotelByName(hotelName)
		if h == nil {
			return repositories.ErrNotFound
		}
		i := packageIndex(h, packageName)
		if i < 0 {
			return repositories.ErrNotFound
		}
		out = h.Packages[i]
		out.Inclusions = append([]string{}, out.Inclusions...)
		return nil
	})
	return out, err
}

// GetPackageForUpdate needs no extra locking here: writers already hold the
// store lock for the whole transaction.
func (r inventoryRepo) GetPackageForUpdate(ctx context.Context, hotelID, packageName string) (models.Package, error) {
	var out models.Package
	err := r.s.read(ctx, func(st *state) error {
		h, ok := st.hotels[hotelID]
		if !ok {
			return repositories.ErrNotFound
		}
		i := packageIndex(h, packageName)
		if i < 0 {
			return repositories.ErrNotFound
		}
		out = h.Packages[i]
		out.Inclusions = append([]string{}, out.Inclusions...)
		return nil
	})
	return out, err
}

func (r inventoryRepo) UpdatePackage(ctx context.Context, hotelID string, p models.Package) error {
	return r.s.write(ctx, func(st *state) error {
		h, ok := st.hotels[hotelID]
		if !ok {
			return repositories.ErrNotFound
		}
		i := packageIndex(h, p.Name)
		if i < 0 {
			return repositories.ErrNotFound
		}
		if p.Capacity < 1 || !domain.CanAdjustRooms(p.RoomsAvailable, p.Capacity, 0) {
			return fmt.Errorf("%w: available=%d capacity=%d", repositories.ErrInvariant, p.RoomsAvailable, p.Capacity)
		}
		p.Name = h.Packages[i].Name
		p.Inclusions = append([]string{}, p.Inclusions...)
		h.Packages[i] = p
		return nil
	})
}

func (r inventoryRepo) RemovePackage(ctx context.Context, hotelID, packageName string) error {
	return r.s.write(ctx, func(st *state) error {
		h, ok := st.hotels[hotelID]
		if !ok {
			return repositories.ErrNotFound
		}
		i := packageIndex(h, packageName)
		if i < 0 {
			return repositories.ErrNotFound
		}
		h.Packages = append(h.Packages[:i], h.Packages[i+1:]...)
		return nil
	})
}

func (r inventoryRepo) AdjustRoomCount(ctx context.Context, hotelName, packageName string, delta int) error {
	return r.s.write(ctx, func(st *state) error {
		h := st.hotelByName(hotelName)
		if h == nil {
			return repositories.ErrNotFound
		}
		i := packageIndex(h, packageName)
		if i < 0 {
			return repositories.ErrNotFound
		}
		p := &h.Packages[i]
		next, err := domain.CheckRoomAdjust(p.RoomsAvailable, p.Capacity, delta)
		if err != nil {
			return fmt.Errorf("%w: %v", repositories.ErrInvariant, err)
		}
		p.RoomsAvailable = next
		return nil
	})
}
