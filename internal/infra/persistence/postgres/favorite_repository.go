package postgres

import (
	"context"

	"atlas/internal/domain/entity"
	"atlas/internal/domain/repository"
	"atlas/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// favoriteRepository implements repository.FavoriteRepository on PostgreSQL.
type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository is the constructor for favoriteRepository.
func NewFavoriteRepository(db *gorm.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Exists reports whether a favorite row exists for the pair.
func (repo *favoriteRepository) Exists(ctx context.Context, userID, countryCode string) (bool, error) {
	err := repo.db.WithContext(ctx).
		Select("key").
		Where("key = ?", entity.FavoriteKey(userID, countryCode)).
		First(&model.FavoriteModel{}).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, errors.Wrap(repository.ErrStoreUnavailable, err.Error())
	}

	return true, nil
}

// Put persists a favorite row, replacing any row under the same key.
func (repo *favoriteRepository) Put(ctx context.Context, favorite *entity.Favorite) error {
	favoriteM := model.FromFavoriteDomain(favorite)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(favoriteM).Error

	if err != nil {
		return errors.Wrap(repository.ErrStoreUnavailable, err.Error())
	}

	return nil
}

// Delete removes the row for the pair; a missing row is not an error.
func (repo *favoriteRepository) Delete(ctx context.Context, userID, countryCode string) error {
	err := repo.db.WithContext(ctx).
		Where("key = ?", entity.FavoriteKey(userID, countryCode)).
		Delete(&model.FavoriteModel{}).Error

	if err != nil {
		return errors.Wrap(repository.ErrStoreUnavailable, err.Error())
	}

	return nil
}

// ListByUser retrieves every favorite row for the principal, newest first.
func (repo *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	var favoriteModels []*model.FavoriteModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favoriteModels).Error

	if err != nil {
		return nil, errors.Wrap(repository.ErrStoreUnavailable, err.Error())
	}

	favorites := make([]*entity.Favorite, 0, len(favoriteModels))
	for _, favoriteM := range favoriteModels {
		favorites = append(favorites, model.ToFavoriteDomain(favoriteM))
	}

	return favorites, nil
}
