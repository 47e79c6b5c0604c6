package usecase

import (
	"context"

	"atlas/internal/domain/entity"
)

// FavoriteStatus reports whether a country is favorited by the principal and
// whether a toggle is currently in flight for the pair.
type FavoriteStatus struct {
	CountryCode string `json:"country_code"`
	IsFavorite  bool   `json:"is_favorite"`
	Pending     bool   `json:"pending"`
}

// FavoriteUsecase defines favorite management for a signed-in principal.
type FavoriteUsecase interface {
	// Status resolves the favorite state for a (principal, country) pair,
	// checking the store when the state is not yet known. A failed check
	// degrades to not-favorited rather than erroring.
	Status(ctx context.Context, userID, countryCode string) (*FavoriteStatus, error)

	// Toggle flips the favorite state for the pair: add when not favorited,
	// remove when favorited. At most one toggle per pair may be in flight;
	// a second activation fails with ErrToggleInFlight and performs no store
	// call. The state only flips once the store confirms.
	Toggle(ctx context.Context, userID, countryCode string) (*FavoriteStatus, error)

	// List returns the principal's favorites, newest first.
	List(ctx context.Context, userID string) ([]*entity.Favorite, error)

	// Remove deletes the favorite for the pair. Removing an absent favorite
	// succeeds.
	Remove(ctx context.Context, userID, countryCode string) error
}
