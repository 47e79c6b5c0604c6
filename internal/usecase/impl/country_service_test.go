package impl

import (
	"context"
	"testing"

	"atlas/internal/domain/entity"
	domainerrors "atlas/internal/domain/errors"
	"atlas/internal/domain/service"
	"atlas/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countryServiceFixtures struct {
	service usecase.CountryUsecase
	source  *MockCountrySource
	qr      *MockQRCodeService
}

func createTestCountryService(t *testing.T) countryServiceFixtures {
	t.Helper()

	source := &MockCountrySource{}
	qr := &MockQRCodeService{}
	svc := NewCountryService(source, qr, newDiscardLogger())

	return countryServiceFixtures{
		service: svc,
		source:  source,
		qr:      qr,
	}
}

func sampleCountries() []*entity.Country {
	return []*entity.Country{
		{Code: "BEL", CommonName: "Belgium", Region: "Europe"},
		{Code: "BRA", CommonName: "Brazil", Region: "Americas"},
		{Code: "FRA", CommonName: "France", Region: "Europe"},
	}
}

func TestCountryService_List_NoFilters(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	fx.source.On("All", ctx).Return(sampleCountries(), nil).Once()

	countries, err := fx.service.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, countries, 3)
}

func TestCountryService_List_SearchIsCaseInsensitive(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	fx.source.On("All", ctx).Return(sampleCountries(), nil).Once()

	countries, err := fx.service.List(ctx, "bRaZ", "")
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "BRA", countries[0].Code)
}

func TestCountryService_List_RegionFilter(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	fx.source.On("All", ctx).Return(sampleCountries(), nil).Once()

	countries, err := fx.service.List(ctx, "", "Europe")
	require.NoError(t, err)
	assert.Len(t, countries, 2)
}

func TestCountryService_List_CombinedFilters(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	fx.source.On("All", ctx).Return(sampleCountries(), nil).Once()

	countries, err := fx.service.List(ctx, "bel", "Europe")
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "BEL", countries[0].Code)
}

func TestCountryService_Detail_ResolvesBorders(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	france := &entity.Country{
		Code:       "FRA",
		CommonName: "France",
		Borders:    []string{"BEL", "DEU"},
	}
	fx.source.On("GetByCode", ctx, "FRA").Return(france, nil).Once()
	fx.source.On("GetManyByCodes", ctx, []string{"BEL", "DEU"}).Return([]*entity.Country{
		{Code: "BEL", CommonName: "Belgium", FlagSVG: "https://flagcdn.com/be.svg"},
		{Code: "DEU", CommonName: "Germany", FlagSVG: "https://flagcdn.com/de.svg"},
	}, nil).Once()

	detail, err := fx.service.Detail(ctx, "FRA")
	require.NoError(t, err)
	require.Len(t, detail.BorderCountries, 2)
	assert.Equal(t, "Belgium", detail.BorderCountries[0].CommonName)
	assert.Equal(t, "https://flagcdn.com/be.svg", detail.BorderCountries[0].FlagURL)
}

func TestCountryService_Detail_BorderFailureStillRenders(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	france := &entity.Country{Code: "FRA", CommonName: "France", Borders: []string{"BEL"}}
	fx.source.On("GetByCode", ctx, "FRA").Return(france, nil).Once()
	fx.source.On("GetManyByCodes", ctx, []string{"BEL"}).
		Return(nil, errors.New("upstream down")).Once()

	detail, err := fx.service.Detail(ctx, "FRA")
	require.NoError(t, err)
	assert.Equal(t, "France", detail.CommonName)
	assert.Empty(t, detail.BorderCountries)
}

func TestCountryService_Detail_NotFound(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	fx.source.On("GetByCode", ctx, "XXX").Return(nil, service.ErrCountryNotFound).Once()

	_, err := fx.service.Detail(ctx, "XXX")
	assert.ErrorIs(t, err, domainerrors.ErrCountryNotFound)
}

func TestCountryService_ShareQR(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	fx.source.On("GetByCode", ctx, "FRA").
		Return(&entity.Country{Code: "FRA", CommonName: "France"}, nil).Once()
	fx.qr.On("GenerateCountryQR", "FRA").Return([]byte{0x89, 0x50}, nil).Once()

	png, err := fx.service.ShareQR(ctx, "FRA")
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestCountryService_ShareQR_UnknownCode(t *testing.T) {
	fx := createTestCountryService(t)
	ctx := context.Background()

	fx.source.On("GetByCode", ctx, "XXX").Return(nil, service.ErrCountryNotFound).Once()

	_, err := fx.service.ShareQR(ctx, "XXX")
	assert.ErrorIs(t, err, domainerrors.ErrCountryNotFound)
}
