package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "atlas/internal/delivery/context"
	"atlas/internal/domain/entity"
	domainerrors "atlas/internal/domain/errors"
	"atlas/internal/domain/service"
	"atlas/internal/usecase"

	"github.com/pkg/errors"
)

// countryService implements the CountryUsecase interface.
type countryService struct {
	source service.CountrySource
	qr     service.QRCodeService
	logger *slog.Logger
}

// NewCountryService is the constructor for countryService.
func NewCountryService(
	source service.CountrySource,
	qr service.QRCodeService,
	logger *slog.Logger,
) usecase.CountryUsecase {
	return &countryService{
		source: source,
		qr:     qr,
		logger: logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *countryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns countries matching the optional search and region filters.
func (srv *countryService) List(ctx context.Context, search, region string) ([]*entity.Country, error) {
	all, err := srv.source.All(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to load countries", slog.Any("error", err))

		return nil, domainerrors.ErrServiceUnavailable.WrapMessage("failed to load countries")
	}

	search = strings.ToLower(strings.TrimSpace(search))
	region = strings.TrimSpace(region)

	filtered := make([]*entity.Country, 0, len(all))
	for _, country := range all {
		if search != "" && !strings.Contains(strings.ToLower(country.CommonName), search) {
			continue
		}
		if region != "" && !strings.EqualFold(country.Region, region) {
			continue
		}
		filtered = append(filtered, country)
	}

	return filtered, nil
}

// Detail returns one country with its border codes resolved to display stubs.
func (srv *countryService) Detail(ctx context.Context, code string) (*usecase.CountryDetail, error) {
	country, err := srv.source.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, service.ErrCountryNotFound) {
			return nil, domainerrors.ErrCountryNotFound
		}
		srv.log(ctx).Error("Failed to load country", slog.Any("error", err), slog.String("code", code))

		return nil, domainerrors.ErrServiceUnavailable.WrapMessage("failed to load country")
	}

	detail := &usecase.CountryDetail{Country: country}

	if len(country.Borders) > 0 {
		neighbors, err := srv.source.GetManyByCodes(ctx, country.Borders)
		if err != nil {
			// Border stubs are decoration on the detail page; the page still
			// renders without them.
			srv.log(ctx).Warn("Failed to resolve border countries",
				slog.String("code", code),
				slog.Any("error", err),
			)

			return detail, nil
		}

		detail.BorderCountries = make([]usecase.BorderCountry, 0, len(neighbors))
		for _, neighbor := range neighbors {
			detail.BorderCountries = append(detail.BorderCountries, usecase.BorderCountry{
				Code:       neighbor.Code,
				CommonName: neighbor.CommonName,
				FlagURL:    neighbor.FlagURL(),
			})
		}
	}

	return detail, nil
}

// ShareQR renders the QR code PNG for a country's public share link.
// The code is validated against the data source first so unknown codes get a
// 404 instead of a QR pointing nowhere.
func (srv *countryService) ShareQR(ctx context.Context, code string) ([]byte, error) {
	country, err := srv.source.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, service.ErrCountryNotFound) {
			return nil, domainerrors.ErrCountryNotFound
		}
		srv.log(ctx).Error("Failed to load country for QR", slog.Any("error", err), slog.String("code", code))

		return nil, domainerrors.ErrServiceUnavailable.WrapMessage("failed to load country")
	}

	png, err := srv.qr.GenerateCountryQR(country.Code)
	if err != nil {
		srv.log(ctx).Error("Failed to generate QR code", slog.Any("error", err), slog.String("code", code))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to generate QR code")
	}

	return png, nil
}
