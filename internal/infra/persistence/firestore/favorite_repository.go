// Package firestore contains the document-store implementation of the
// favorite persistence layer.
package firestore

import (
	"context"
	"log/slog"
	"time"

	"atlas/config"
	"atlas/internal/domain/entity"
	"atlas/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// favoriteDoc is the Firestore document shape for one favorite. Field names
// are part of the stored data contract and must not change.
type favoriteDoc struct {
	UserID      string    `firestore:"userId"`
	CountryCode string    `firestore:"countryCode"`
	CountryName string    `firestore:"countryName"`
	FlagURL     string    `firestore:"flagUrl"`
	Region      string    `firestore:"region"`
	Capital     string    `firestore:"capital"`
	AddedAt     time.Time `firestore:"addedAt"`
}

// favoriteRepository implements repository.FavoriteRepository on Firestore,
// one document per (user, country) pair keyed by the composite favorite key.
type favoriteRepository struct {
	client     *firestore.Client
	collection string
	logger     *slog.Logger
}

// NewFavoriteRepository creates the Firestore favorite store.
func NewFavoriteRepository(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (repository.FavoriteRepository, error) {
	if cfg.Firebase == nil || cfg.Firebase.ProjectID == "" {
		return nil, errors.New("firebase project ID is required for the firestore favorite store")
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}

	client, err := firestore.NewClient(context.Background(), cfg.Firebase.ProjectID, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Firestore client")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return &favoriteRepository{
		client:     client,
		collection: cfg.Favorites.Collection,
		logger:     logger,
	}, nil
}

func (repo *favoriteRepository) doc(userID, countryCode string) *firestore.DocumentRef {
	return repo.client.Collection(repo.collection).Doc(entity.FavoriteKey(userID, countryCode))
}

// Exists reports whether a favorite document exists for the pair.
func (repo *favoriteRepository) Exists(ctx context.Context, userID, countryCode string) (bool, error) {
	_, err := repo.doc(userID, countryCode).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}

		return false, mapFirestoreError(err)
	}

	return true, nil
}

// Put writes the favorite document, overwriting any previous one.
func (repo *favoriteRepository) Put(ctx context.Context, favorite *entity.Favorite) error {
	doc := favoriteDoc{
		UserID:      favorite.UserID,
		CountryCode: favorite.CountryCode,
		CountryName: favorite.CountryName,
		FlagURL:     favorite.FlagURL,
		Region:      favorite.Region,
		Capital:     favorite.Capital,
		AddedAt:     favorite.CreatedAt,
	}

	if _, err := repo.doc(favorite.UserID, favorite.CountryCode).Set(ctx, doc); err != nil {
		return mapFirestoreError(err)
	}

	return nil
}

// Delete removes the favorite document; deleting an absent document succeeds.
func (repo *favoriteRepository) Delete(ctx context.Context, userID, countryCode string) error {
	if _, err := repo.doc(userID, countryCode).Delete(ctx); err != nil {
		return mapFirestoreError(err)
	}

	return nil
}

// ListByUser retrieves every favorite document owned by the principal.
// Ordering is left to the caller: combining the userId filter with a server
// side order would require a composite index on the collection.
func (repo *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	iter := repo.client.Collection(repo.collection).
		Where("userId", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	var favorites []*entity.Favorite
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapFirestoreError(err)
		}

		var doc favoriteDoc
		if err := snapshot.DataTo(&doc); err != nil {
			repo.logger.Warn("Skipping malformed favorite document",
				slog.String("doc", snapshot.Ref.ID),
				slog.Any("error", err),
			)

			continue
		}

		favorites = append(favorites, &entity.Favorite{
			Key:         snapshot.Ref.ID,
			UserID:      doc.UserID,
			CountryCode: doc.CountryCode,
			CountryName: doc.CountryName,
			FlagURL:     doc.FlagURL,
			Region:      doc.Region,
			Capital:     doc.Capital,
			CreatedAt:   doc.AddedAt,
		})
	}

	return favorites, nil
}

func mapFirestoreError(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return repository.ErrFavoriteNotFound
	case codes.PermissionDenied, codes.Unauthenticated:
		return repository.ErrPermissionDenied
	default:
		return errors.Wrap(repository.ErrStoreUnavailable, err.Error())
	}
}
