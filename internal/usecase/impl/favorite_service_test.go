package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"atlas/internal/domain/entity"
	domainerrors "atlas/internal/domain/errors"
	"atlas/internal/domain/repository"
	"atlas/internal/domain/service"
	"atlas/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type favoriteServiceFixtures struct {
	service   usecase.FavoriteUsecase
	repo      *MockFavoriteRepository
	source    *MockCountrySource
	publisher *MockEventPublisher
}

func createTestFavoriteService(t *testing.T) favoriteServiceFixtures {
	t.Helper()

	repo := &MockFavoriteRepository{}
	source := &MockCountrySource{}
	publisher := &MockEventPublisher{}
	svc := NewFavoriteService(repo, source, publisher, newDiscardLogger())

	return favoriteServiceFixtures{
		service:   svc,
		repo:      repo,
		source:    source,
		publisher: publisher,
	}
}

func franceCountry() *entity.Country {
	return &entity.Country{
		Code:       "FRA",
		CommonName: "France",
		Capitals:   []string{"Paris"},
		Region:     "Europe",
		FlagPNG:    "https://flagcdn.com/w320/fr.png",
		FlagSVG:    "https://flagcdn.com/fr.svg",
	}
}

func TestFavoriteService_Status_UnknownChecksStore(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(true, nil).Once()

	status, err := fx.service.Status(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.True(t, status.IsFavorite)
	assert.False(t, status.Pending)

	// Second status call is served from the tracker.
	status, err = fx.service.Status(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.True(t, status.IsFavorite)

	fx.repo.AssertExpectations(t)
}

func TestFavoriteService_Status_CheckFailureDegradesToNotFavorited(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").
		Return(false, repository.ErrStoreUnavailable).Twice()

	status, err := fx.service.Status(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.False(t, status.IsFavorite)

	// Failure is not cached; the next status call checks again.
	_, err = fx.service.Status(ctx, "uid-1", "FRA")
	require.NoError(t, err)

	fx.repo.AssertExpectations(t)
}

func TestFavoriteService_Toggle_AddCapturesSnapshot(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(false, nil).Once()
	fx.source.On("GetByCode", ctx, "FRA").Return(franceCountry(), nil).Once()
	fx.repo.On("Put", ctx, mock.MatchedBy(func(favorite *entity.Favorite) bool {
		return favorite.Key == "uid-1_FRA" &&
			favorite.UserID == "uid-1" &&
			favorite.CountryCode == "FRA" &&
			favorite.CountryName == "France" &&
			favorite.FlagURL == "https://flagcdn.com/fr.svg" &&
			favorite.Region == "Europe" &&
			favorite.Capital == "Paris" &&
			!favorite.CreatedAt.IsZero()
	})).Return(nil).Once()
	fx.publisher.On("PublishFavoriteEvent", ctx, mock.MatchedBy(func(event *service.FavoriteEvent) bool {
		return event.Action == service.FavoriteActionAdded && event.CountryCode == "FRA"
	})).Return(nil).Once()

	status, err := fx.service.Toggle(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.True(t, status.IsFavorite)
	assert.False(t, status.Pending)

	fx.repo.AssertExpectations(t)
	fx.source.AssertExpectations(t)
	fx.publisher.AssertExpectations(t)
}

func TestFavoriteService_Toggle_RemoveWhenFavorited(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(true, nil).Once()
	fx.repo.On("Delete", ctx, "uid-1", "FRA").Return(nil).Once()
	fx.publisher.On("PublishFavoriteEvent", ctx, mock.MatchedBy(func(event *service.FavoriteEvent) bool {
		return event.Action == service.FavoriteActionRemoved
	})).Return(nil).Once()

	status, err := fx.service.Toggle(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.False(t, status.IsFavorite)

	fx.repo.AssertExpectations(t)
}

func TestFavoriteService_Toggle_ConfirmedOnlyFlip(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(false, nil).Once()
	fx.source.On("GetByCode", ctx, "FRA").Return(franceCountry(), nil).Once()
	fx.repo.On("Put", ctx, mock.Anything).Return(repository.ErrStoreUnavailable).Once()

	_, err := fx.service.Toggle(ctx, "uid-1", "FRA")
	require.Error(t, err)

	// The failed toggle must not have flipped the tracked state.
	status, err := fx.service.Status(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.False(t, status.IsFavorite)
	assert.False(t, status.Pending)

	fx.repo.AssertExpectations(t)
}

func TestFavoriteService_Toggle_SecondActivationRejected(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	release := make(chan struct{})
	entered := make(chan struct{})

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(true, nil).Once()
	fx.repo.On("Delete", ctx, "uid-1", "FRA").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()
	fx.publisher.On("PublishFavoriteEvent", ctx, mock.Anything).Return(nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := fx.service.Toggle(ctx, "uid-1", "FRA")
		assert.NoError(t, err)
	}()

	<-entered

	// While the first toggle is mid-flight the pair reports pending and a
	// second activation fails without touching the store.
	status, err := fx.service.Status(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.True(t, status.Pending)

	_, err = fx.service.Toggle(ctx, "uid-1", "FRA")
	assert.ErrorIs(t, err, domainerrors.ErrToggleInFlight)

	close(release)
	wg.Wait()

	fx.repo.AssertExpectations(t)
}

func TestFavoriteService_Toggle_DistinctPairsIndependent(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(true, nil).Once()
	fx.repo.On("Exists", ctx, "uid-1", "JPN").Return(true, nil).Once()
	fx.repo.On("Delete", ctx, "uid-1", mock.Anything).Return(nil).Twice()
	fx.publisher.On("PublishFavoriteEvent", ctx, mock.Anything).Return(nil).Twice()

	_, err := fx.service.Toggle(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	_, err = fx.service.Toggle(ctx, "uid-1", "JPN")
	require.NoError(t, err)

	fx.repo.AssertExpectations(t)
}

func TestFavoriteService_Toggle_UnknownCountry(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "XXX").Return(false, nil).Once()
	fx.source.On("GetByCode", ctx, "XXX").Return(nil, service.ErrCountryNotFound).Once()

	_, err := fx.service.Toggle(ctx, "uid-1", "XXX")
	assert.ErrorIs(t, err, domainerrors.ErrCountryNotFound)
}

func TestFavoriteService_Toggle_PermissionDenied(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(true, nil).Once()
	fx.repo.On("Delete", ctx, "uid-1", "FRA").Return(repository.ErrPermissionDenied).Once()

	_, err := fx.service.Toggle(ctx, "uid-1", "FRA")
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestFavoriteService_Toggle_EventFailureDoesNotFailToggle(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Exists", ctx, "uid-1", "FRA").Return(true, nil).Once()
	fx.repo.On("Delete", ctx, "uid-1", "FRA").Return(nil).Once()
	fx.publisher.On("PublishFavoriteEvent", ctx, mock.Anything).
		Return(errors.New("broker down")).Once()

	status, err := fx.service.Toggle(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.False(t, status.IsFavorite)
}

func TestFavoriteService_List_NewestFirst(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	now := time.Now()
	fx.repo.On("ListByUser", ctx, "uid-1").Return([]*entity.Favorite{
		{CountryCode: "FRA", CreatedAt: now.Add(-2 * time.Hour)},
		{CountryCode: "JPN", CreatedAt: now},
		{CountryCode: "BRA", CreatedAt: now.Add(-1 * time.Hour)},
	}, nil).Once()

	favorites, err := fx.service.List(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, favorites, 3)
	assert.Equal(t, "JPN", favorites[0].CountryCode)
	assert.Equal(t, "BRA", favorites[1].CountryCode)
	assert.Equal(t, "FRA", favorites[2].CountryCode)
}

func TestFavoriteService_Remove_Idempotent(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("Delete", ctx, "uid-1", "FRA").Return(nil).Twice()
	fx.publisher.On("PublishFavoriteEvent", ctx, mock.Anything).Return(nil).Twice()

	require.NoError(t, fx.service.Remove(ctx, "uid-1", "FRA"))
	require.NoError(t, fx.service.Remove(ctx, "uid-1", "FRA"))

	// The tracker now knows the pair is not favorited; no store check needed.
	status, err := fx.service.Status(ctx, "uid-1", "FRA")
	require.NoError(t, err)
	assert.False(t, status.IsFavorite)

	fx.repo.AssertExpectations(t)
}

func TestFavoriteService_List_StoreUnavailable(t *testing.T) {
	fx := createTestFavoriteService(t)
	ctx := context.Background()

	fx.repo.On("ListByUser", ctx, "uid-1").
		Return(nil, repository.ErrStoreUnavailable).Once()

	_, err := fx.service.List(ctx, "uid-1")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SERVICE_UNAVAILABLE", appErr.ErrorCode())
}
