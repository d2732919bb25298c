package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
	"travelbook/internal/utils"
	"travelbook/internal/validation"

	"github.com/google/uuid"
)

// DestinationService manages the destinations customers browse. Hotels are
// linked to a destination by city, so deleting one never touches inventory.
type DestinationService struct {
	Store     repositories.Store
	Timeout   time.Duration
	Clock     func() time.Time
	RequestID string
}

func uniqueDestination(err error) error {
	return domain.ConflictError{Resource: "destination", Kind: domain.ConflictUnique, Msg: "destination already exists in this country", Err: err}
}

func normalizeDestination(d *models.Destination) {
	d.DestinationID = strings.TrimSpace(d.DestinationID)
	d.Name = utils.NormalizeSpace(d.Name)
	d.Country = utils.NormalizeSpace(d.Country)
	d.City = utils.NormalizeSpace(d.City)
	d.Description = strings.TrimSpace(d.Description)
	d.Image = strings.TrimSpace(d.Image)
	d.Highlights = utils.CleanList(d.Highlights)
}

func (s DestinationService) CreateDestination(ctx context.Context, d models.Destination) (models.Destination, error) {
	normalizeDestination(&d)
	if d.DestinationID == "" {
		d.DestinationID = uuid.NewString()
	}
	if err := validation.Struct(d); err != nil {
		return models.Destination{}, err
	}
	now := clock(s.Clock)
	d.CreatedAt, d.UpdatedAt = now, now

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.Destinations().Create(ctx, d); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Destination{}, uniqueDestination(err)
		}
		return models.Destination{}, storeError("create destination", "destination", err)
	}
	utils.LogEvent(s.RequestID, "destination", "create", "destination_id="+d.DestinationID)
	return d, nil
}

func (s DestinationService) GetDestination(ctx context.Context, destinationID string) (models.Destination, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	d, err := s.Store.Destinations().Get(ctx, strings.TrimSpace(destinationID))
	if err != nil {
		return models.Destination{}, storeError("get destination", "destination", err)
	}
	return d, nil
}

func (s DestinationService) ListDestinations(ctx context.Context, country string) ([]models.Destination, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	out, err := s.Store.Destinations().List(ctx, utils.NormalizeSpace(country))
	if err != nil {
		return nil, storeError("list destinations", "destination", err)
	}
	return out, nil
}

func (s DestinationService) UpdateDestination(ctx context.Context, destinationID string, u models.DestinationUpdate) (models.Destination, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var out models.Destination
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		d, err := tx.Destinations().Get(ctx, strings.TrimSpace(destinationID))
		if err != nil {
			return storeError("update destination", "destination", err)
		}
		apply := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		apply(&d.Name, u.Name)
		apply(&d.Country, u.Country)
		apply(&d.City, u.City)
		apply(&d.Description, u.Description)
		apply(&d.Image, u.Image)
		if u.Highlights != nil {
			d.Highlights = u.Highlights
		}
		normalizeDestination(&d)
		if err := validation.Struct(d); err != nil {
			return err
		}
		d.UpdatedAt = clock(s.Clock)
		if err := tx.Destinations().Update(ctx, d); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return uniqueDestination(err)
			}
			return storeError("update destination", "destination", err)
		}
		out = d
		return nil
	})
	if err != nil {
		return models.Destination{}, storeError("update destination", "destination", err)
	}
	utils.LogEvent(s.RequestID, "destination", "update", "destination_id="+out.DestinationID)
	return out, nil
}

func (s DestinationService) DeleteDestination(ctx context.Context, destinationID string) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.Destinations().Delete(ctx, strings.TrimSpace(destinationID)); err != nil {
		return storeError("delete destination", "destination", err)
	}
	utils.LogEvent(s.RequestID, "destination", "delete", "destination_id="+destinationID)
	return nil
}

// DestinationHotels lists the hotels located in the destination's city.
func (s DestinationService) DestinationHotels(ctx context.Context, destinationID string) ([]models.Hotel, error) {
	d, err := s.GetDestination(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	return InventoryService{Store: s.Store, Timeout: s.Timeout, RequestID: s.RequestID}.ListHotels(ctx, d.HotelCity())
}
