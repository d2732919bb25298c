package services

import (
	"context"
	"errors"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/repositories"
)

// DefaultStoreTimeout bounds a service call's store work when no timeout is
// configured.
const DefaultStoreTimeout = 5 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

func isDomainError(err error) bool {
	return domain.IsNotFound(err) || domain.IsValidation(err) || domain.IsConflict(err) ||
		domain.IsTransient(err) || domain.IsInternal(err)
}

// storeError maps repository errors onto the domain taxonomy. Errors that are
// already domain errors pass through unchanged.
func storeError(op, resource string, err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainError(err):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return domain.NotFoundError{Resource: resource, Err: err}
	case errors.Is(err, repositories.ErrDuplicate):
		return domain.ConflictError{Resource: resource, Kind: domain.ConflictDuplicate, Msg: "already exists", Err: err}
	case errors.Is(err, repositories.ErrInvariant):
		return domain.ConflictError{Resource: resource, Kind: domain.ConflictInventory, Msg: "room count out of range", Err: err}
	case repositories.IsTransient(err), errors.Is(err, context.Canceled):
		return domain.TransientError{Op: op, Err: err}
	}
	return domain.InternalError{Msg: op + " failed", Err: err}
}

func clock(fn func() time.Time) time.Time {
	if fn != nil {
		return fn().UTC()
	}
	return time.Now().UTC()
}
