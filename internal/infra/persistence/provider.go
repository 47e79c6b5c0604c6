// Package persistence selects the favorite store backend from configuration.
package persistence

import (
	"log/slog"

	"atlas/config"
	"atlas/internal/domain/constants"
	"atlas/internal/domain/repository"
	"atlas/internal/infra/persistence/firestore"
	"atlas/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the favorite repository, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewFavoriteRepository creates the favorite store named by
// favorites.provider. Firestore is the default; PostgreSQL is the
// self-hosted alternative and reuses the same composite-key contract.
func NewFavoriteRepository(params Params) (repository.FavoriteRepository, error) {
	provider := constants.FavoriteStoreFirestore
	if params.Config.Favorites != nil && params.Config.Favorites.Provider != "" {
		provider = params.Config.Favorites.Provider
	}

	switch provider {
	case constants.FavoriteStoreFirestore:
		params.Logger.Info("Using Firestore favorite store",
			slog.String("collection", params.Config.Favorites.Collection),
		)

		return firestore.NewFavoriteRepository(params.Lc, params.Config, params.Logger)

	case constants.FavoriteStorePostgres:
		if params.Config.Postgres == nil {
			return nil, errors.New("postgres configuration is required for the postgres favorite store")
		}
		params.Logger.Info("Using PostgreSQL favorite store")

		db, err := postgres.New(params.Lc, params.Config, params.Logger)
		if err != nil {
			return nil, err
		}

		return postgres.NewFavoriteRepository(db), nil

	default:
		return nil, errors.Errorf("unknown favorites provider: %s", provider)
	}
}
