package usecase

import (
	"context"

	"atlas/internal/domain/entity"
)

// BorderCountry is the display stub for one neighboring country on a detail
// page.
type BorderCountry struct {
	Code       string `json:"code"`
	CommonName string `json:"common_name"`
	FlagURL    string `json:"flag_url"`
}

// CountryDetail is a country together with its resolved border stubs.
type CountryDetail struct {
	*entity.Country
	BorderCountries []BorderCountry `json:"border_countries"`
}

// CountryUsecase defines the read-side operations over country data.
type CountryUsecase interface {
	// List returns countries filtered by an optional case-insensitive name
	// search and an optional exact region match.
	List(ctx context.Context, search, region string) ([]*entity.Country, error)

	// Detail returns one country with its border codes resolved to display
	// stubs. Border codes that fail to resolve are omitted.
	Detail(ctx context.Context, code string) (*CountryDetail, error)

	// ShareQR renders the QR code PNG for a country's public share link.
	ShareQR(ctx context.Context, code string) ([]byte, error)
}
