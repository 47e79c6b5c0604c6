// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider types.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Favorite store provider types.
const (
	FavoriteStoreFirestore = "firestore"
	FavoriteStorePostgres  = "postgres"
)
