package impl

import (
	"context"
	"log/slog"

	"atlas/internal/domain/entity"
	"atlas/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// MockFavoriteRepository is a testify mock of repository.FavoriteRepository.
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, countryCode string) (bool, error) {
	args := m.Called(ctx, userID, countryCode)

	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Put(ctx context.Context, favorite *entity.Favorite) error {
	args := m.Called(ctx, favorite)

	return args.Error(0)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, countryCode string) error {
	args := m.Called(ctx, userID, countryCode)

	return args.Error(0)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Favorite), args.Error(1)
}

// MockCountrySource is a testify mock of service.CountrySource.
type MockCountrySource struct {
	mock.Mock
}

func (m *MockCountrySource) All(ctx context.Context) ([]*entity.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Country), args.Error(1)
}

func (m *MockCountrySource) GetByCode(ctx context.Context, code string) (*entity.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Country), args.Error(1)
}

func (m *MockCountrySource) GetManyByCodes(ctx context.Context, codes []string) ([]*entity.Country, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Country), args.Error(1)
}

// MockEventPublisher is a testify mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishFavoriteEvent(ctx context.Context, event *service.FavoriteEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// MockIdentityProvider is a testify mock of service.IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, input *service.SignUpInput) (*entity.Principal, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Principal), args.Error(1)
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (*entity.Principal, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Principal), args.Error(1)
}

func (m *MockIdentityProvider) Revoke(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)

	return args.Error(0)
}

// MockQRCodeService is a testify mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

func (m *MockQRCodeService) GenerateCountryQR(countryCode string) ([]byte, error) {
	args := m.Called(countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

// MockTokenService is a testify mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateTokens(uid string) (string, string, error) {
	args := m.Called(uid)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateToken(tokenString, secret string) (*jwt.Token, error) {
	args := m.Called(tokenString, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*jwt.Token), args.Error(1)
}
