// Package entity contains the core business objects of the project.
package entity

import (
	"time"
)

// Favorite represents one user's bookmark of one country, together with a
// display snapshot captured at the moment the bookmark was created.
// Favorites are never updated in place; toggling is delete-or-create.
type Favorite struct {
	Key         string    `json:"key"`          // Composite identity "{userID}_{countryCode}".
	UserID      string    `json:"user_id"`      // The owning principal's UID.
	CountryCode string    `json:"country_code"` // ISO 3166-1 alpha-3 code.
	CountryName string    `json:"country_name"` // Common name as displayed when bookmarked.
	FlagURL     string    `json:"flag_url"`     // Flag image as displayed when bookmarked.
	Region      string    `json:"region"`
	Capital     string    `json:"capital,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FavoriteKey builds the deterministic composite key for a (user, country)
// pair. The format is a cross-component contract: it lets existence checks be
// direct point lookups instead of queries.
func FavoriteKey(userID, countryCode string) string {
	return userID + "_" + countryCode
}
