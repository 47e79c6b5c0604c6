package service

import (
	"context"

	"atlas/internal/domain/entity"
	"atlas/internal/errors"
)

// ErrCountryNotFound is returned when a country code is unrecognized.
var ErrCountryNotFound = errors.New("country not found")

// CountrySource abstracts the read-only countries data provider.
type CountrySource interface {
	// All retrieves every country known to the provider.
	All(ctx context.Context) ([]*entity.Country, error)

	// GetByCode resolves a single alpha-3 code, failing with
	// ErrCountryNotFound when the code is unrecognized.
	GetByCode(ctx context.Context, code string) (*entity.Country, error)

	// GetManyByCodes resolves a list of alpha-3 codes. Partial results are
	// acceptable: codes that fail to resolve are omitted, not treated as a
	// whole-request failure.
	GetManyByCodes(ctx context.Context, codes []string) ([]*entity.Country, error)
}
