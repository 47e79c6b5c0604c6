// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"atlas/internal/domain/entity"
	"atlas/internal/errors"
)

// Domain-specific errors for the favorite store. "Not found" is a valid
// outcome, never to be conflated with a failed retrieval; the remaining two
// keep permission faults distinct from transient unavailability because they
// call for different user guidance.
var (
	// ErrFavoriteNotFound is returned when no record exists for a key.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrPermissionDenied is returned when the principal lacks rights on the store.
	ErrPermissionDenied = errors.New("favorite store permission denied")
	// ErrStoreUnavailable is returned on transient backend or network faults.
	ErrStoreUnavailable = errors.New("favorite store unavailable")
)

// FavoriteRepository defines the interface for favorite-store operations.
// All operations are scoped to a principal through the userID argument, and
// every implementation must honor the composite "{userID}_{countryCode}" key
// so existence checks stay point lookups.
type FavoriteRepository interface {
	// Exists reports whether a favorite record exists for the pair.
	// A missing record is (false, nil); only real retrieval failures error.
	Exists(ctx context.Context, userID, countryCode string) (bool, error)

	// Put persists a favorite record, overwriting any record under the same
	// key. Re-adding is idempotent at this layer.
	Put(ctx context.Context, favorite *entity.Favorite) error

	// Delete removes the record for the pair. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, userID, countryCode string) error

	// ListByUser retrieves all favorite records for the principal. Callers
	// must not rely on any particular ordering from the store.
	ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error)
}
