package impl

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	deliverycontext "atlas/internal/delivery/context"
	"atlas/internal/domain/entity"
	domainerrors "atlas/internal/domain/errors"
	"atlas/internal/domain/repository"
	"atlas/internal/domain/service"
	"atlas/internal/usecase"

	"github.com/pkg/errors"
)

// pairState tracks the favorite lifecycle of one (user, country) pair.
// favorited is only meaningful when known; it flips exclusively after the
// store confirms a mutation.
type pairState struct {
	known     bool
	favorited bool
	pending   bool
}

// favoriteService implements the FavoriteUsecase interface. It keeps an
// in-memory state tracker per pair so that at most one toggle is in flight
// for any pair and flips never run ahead of store confirmation.
type favoriteService struct {
	repo      repository.FavoriteRepository
	source    service.CountrySource
	publisher service.EventPublisher
	logger    *slog.Logger

	mu     sync.Mutex
	states map[string]*pairState
}

// NewFavoriteService is the constructor for favoriteService.
func NewFavoriteService(
	repo repository.FavoriteRepository,
	source service.CountrySource,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.FavoriteUsecase {
	return &favoriteService{
		repo:      repo,
		source:    source,
		publisher: publisher,
		logger:    logger,
		states:    make(map[string]*pairState),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *favoriteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *favoriteService) state(key string) *pairState {
	if state, ok := srv.states[key]; ok {
		return state
	}
	state := &pairState{}
	srv.states[key] = state

	return state
}

// Status resolves the favorite state for a pair, consulting the store when
// the state is not yet known. A failed check degrades to not-favorited: the
// page must still render, and the toggle path re-checks before mutating.
func (srv *favoriteService) Status(ctx context.Context, userID, countryCode string) (*usecase.FavoriteStatus, error) {
	key := entity.FavoriteKey(userID, countryCode)

	srv.mu.Lock()
	state := srv.state(key)
	if state.known || state.pending {
		status := &usecase.FavoriteStatus{
			CountryCode: countryCode,
			IsFavorite:  state.favorited,
			Pending:     state.pending,
		}
		srv.mu.Unlock()

		return status, nil
	}
	srv.mu.Unlock()

	exists, err := srv.repo.Exists(ctx, userID, countryCode)
	if err != nil {
		srv.log(ctx).Warn("Favorite status check failed, treating as not favorited",
			slog.String("country_code", countryCode),
			slog.Any("error", err),
		)

		return &usecase.FavoriteStatus{CountryCode: countryCode}, nil
	}

	srv.mu.Lock()
	state = srv.state(key)
	// A toggle may have started while we were checking; its confirmed
	// outcome wins over our read.
	if !state.pending && !state.known {
		state.known = true
		state.favorited = exists
	}
	status := &usecase.FavoriteStatus{
		CountryCode: countryCode,
		IsFavorite:  state.favorited,
		Pending:     state.pending,
	}
	srv.mu.Unlock()

	return status, nil
}

// Toggle flips the favorite state for the pair. The pending flag is claimed
// under the lock before any store traffic, so a second activation for the
// same pair fails fast with no store call.
func (srv *favoriteService) Toggle(ctx context.Context, userID, countryCode string) (*usecase.FavoriteStatus, error) {
	key := entity.FavoriteKey(userID, countryCode)

	srv.mu.Lock()
	state := srv.state(key)
	if state.pending {
		srv.mu.Unlock()

		return nil, domainerrors.ErrToggleInFlight
	}
	state.pending = true
	known, favorited := state.known, state.favorited
	srv.mu.Unlock()

	defer func() {
		srv.mu.Lock()
		state.pending = false
		srv.mu.Unlock()
	}()

	// Unlike the passive status check, a toggle must know the real state
	// before mutating, so a failed read here is an error.
	if !known {
		exists, err := srv.repo.Exists(ctx, userID, countryCode)
		if err != nil {
			return nil, srv.mapStoreError(ctx, err, "failed to check favorite state")
		}
		favorited = exists
	}

	if favorited {
		return srv.confirmRemove(ctx, state, userID, countryCode)
	}

	return srv.confirmAdd(ctx, state, userID, countryCode)
}

func (srv *favoriteService) confirmAdd(ctx context.Context, state *pairState, userID, countryCode string) (*usecase.FavoriteStatus, error) {
	country, err := srv.source.GetByCode(ctx, countryCode)
	if err != nil {
		if errors.Is(err, service.ErrCountryNotFound) {
			return nil, domainerrors.ErrCountryNotFound
		}

		return nil, domainerrors.ErrServiceUnavailable.WrapMessage("failed to load country snapshot")
	}

	favorite := &entity.Favorite{
		Key:         entity.FavoriteKey(userID, countryCode),
		UserID:      userID,
		CountryCode: country.Code,
		CountryName: country.CommonName,
		FlagURL:     country.FlagURL(),
		Region:      country.Region,
		Capital:     country.PrimaryCapital(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := srv.repo.Put(ctx, favorite); err != nil {
		return nil, srv.mapStoreError(ctx, err, "failed to add favorite")
	}

	srv.mu.Lock()
	state.known = true
	state.favorited = true
	srv.mu.Unlock()

	srv.log(ctx).Info("Favorite added",
		slog.String("uid", userID),
		slog.String("country_code", country.Code),
	)
	srv.publishEvent(ctx, userID, country.Code, country.CommonName, service.FavoriteActionAdded)

	return &usecase.FavoriteStatus{CountryCode: countryCode, IsFavorite: true}, nil
}

func (srv *favoriteService) confirmRemove(ctx context.Context, state *pairState, userID, countryCode string) (*usecase.FavoriteStatus, error) {
	if err := srv.repo.Delete(ctx, userID, countryCode); err != nil {
		return nil, srv.mapStoreError(ctx, err, "failed to remove favorite")
	}

	srv.mu.Lock()
	state.known = true
	state.favorited = false
	srv.mu.Unlock()

	srv.log(ctx).Info("Favorite removed",
		slog.String("uid", userID),
		slog.String("country_code", countryCode),
	)
	srv.publishEvent(ctx, userID, countryCode, "", service.FavoriteActionRemoved)

	return &usecase.FavoriteStatus{CountryCode: countryCode, IsFavorite: false}, nil
}

// List returns the principal's favorites, newest first. Ordering lives here
// rather than in the stores so both backends present the same contract.
func (srv *favoriteService) List(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	favorites, err := srv.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, srv.mapStoreError(ctx, err, "failed to list favorites")
	}

	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
	})

	return favorites, nil
}

// Remove deletes the favorite for the pair; removing an absent favorite
// succeeds. It shares the pending slot with Toggle so list-page removals and
// detail-page toggles cannot race each other.
func (srv *favoriteService) Remove(ctx context.Context, userID, countryCode string) error {
	key := entity.FavoriteKey(userID, countryCode)

	srv.mu.Lock()
	state := srv.state(key)
	if state.pending {
		srv.mu.Unlock()

		return domainerrors.ErrToggleInFlight
	}
	state.pending = true
	srv.mu.Unlock()

	defer func() {
		srv.mu.Lock()
		state.pending = false
		srv.mu.Unlock()
	}()

	if _, err := srv.confirmRemove(ctx, state, userID, countryCode); err != nil {
		return err
	}

	return nil
}

func (srv *favoriteService) mapStoreError(ctx context.Context, err error, message string) error {
	srv.log(ctx).Error(message, slog.Any("error", err))

	if errors.Is(err, repository.ErrPermissionDenied) {
		return domainerrors.ErrPermissionDenied
	}

	return domainerrors.ErrServiceUnavailable.WrapMessage(message)
}

// publishEvent emits a favorite mutation event. Publishing is best effort;
// the favorite itself is already confirmed by the store.
func (srv *favoriteService) publishEvent(ctx context.Context, userID, countryCode, countryName, action string) {
	event := &service.FavoriteEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		UserID:      userID,
		CountryCode: countryCode,
		CountryName: countryName,
		Action:      action,
		OccurredAt:  time.Now().UTC(),
	}

	if err := srv.publisher.PublishFavoriteEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish favorite event",
			slog.String("action", action),
			slog.String("country_code", countryCode),
			slog.Any("error", err),
		)
	}
}
