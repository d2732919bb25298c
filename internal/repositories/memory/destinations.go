package memory

import (
	"context"
	"sort"

	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

type destinationRepo struct{ s *Store }

func copyDestination(d models.Destination) models.Destination {
	d.Highlights = append([]string{}, d.Highlights...)
	return d
}

// nameClash mirrors the unique (name, country) key.
func (st *state) nameClash(d models.Destination) bool {
	for id, other := range st.destinations {
		if id == d.DestinationID {
			continue
		}
		if fold(other.Name) == fold(d.Name) && fold(other.Country) == fold(d.Country) {
			return true
		}
	}
	return false
}

func (r destinationRepo) Create(ctx context.Context, d models.Destination) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.destinations[d.DestinationID]; ok || st.nameClash(d) {
			return repositories.ErrDuplicate
		}
		st.destinations[d.DestinationID] = copyDestination(d)
		return nil
	})
}

func (r destinationRepo) Get(ctx context.Context, destinationID string) (models.Destination, error) {
	var out models.Destination
	err := r.s.read(ctx, func(st *state) error {
		d, ok := st.destinations[destinationID]
		if !ok {
			return repositories.ErrNotFound
		}
		out = copyDestination(d)
		return nil
	})
	return out, err
}

func (r destinationRepo) List(ctx context.Context, country string) ([]models.Destination, error) {
	out := []models.Destination{}
	err := r.s.read(ctx, func(st *state) error {
		for _, d := range st.destinations {
			if country != "" && fold(d.Country) != fold(country) {
				continue
			}
			out = append(out, copyDestination(d))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if a, b := fold(out[i].Name), fold(out[j].Name); a != b {
			return a < b
		}
		return out[i].DestinationID < out[j].DestinationID
	})
	return out, err
}

func (r destinationRepo) Update(ctx context.Context, d models.Destination) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.destinations[d.DestinationID]
		if !ok {
			return repositories.ErrNotFound
		}
		if st.nameClash(d) {
			return repositories.ErrDuplicate
		}
		d.CreatedAt = cur.CreatedAt
		st.destinations[d.DestinationID] = copyDestination(d)
		return nil
	})
}

func (r destinationRepo) Delete(ctx context.Context, destinationID string) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.destinations[destinationID]; !ok {
			return repositories.ErrNotFound
		}
		delete(st.destinations, destinationID)
		return nil
	})
}
