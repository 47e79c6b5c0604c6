// Package model holds the GORM-specific table structs for the persistence layer.
package model

import (
	"time"

	"atlas/internal/domain/entity"
)

// FavoriteModel is the GORM-specific struct for the 'favorites' table.
// Key mirrors the document identity used by the Firestore backend so the two
// stores stay interchangeable.
type FavoriteModel struct {
	Key         string `gorm:"type:varchar(255);primaryKey"`
	UserID      string `gorm:"type:varchar(128);not null;index:idx_favorites_on_user"`
	CountryCode string `gorm:"type:varchar(3);not null"`
	CountryName string `gorm:"type:varchar(255);not null"`
	FlagURL     string `gorm:"type:text"`
	Region      string `gorm:"type:varchar(100)"`
	Capital     string `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (FavoriteModel) TableName() string {
	return "favorites"
}

// ToFavoriteDomain converts a GORM FavoriteModel to a domain Favorite entity.
func ToFavoriteDomain(data *FavoriteModel) *entity.Favorite {
	if data == nil {
		return nil
	}

	return &entity.Favorite{
		Key:         data.Key,
		UserID:      data.UserID,
		CountryCode: data.CountryCode,
		CountryName: data.CountryName,
		FlagURL:     data.FlagURL,
		Region:      data.Region,
		Capital:     data.Capital,
		CreatedAt:   data.CreatedAt,
	}
}

// FromFavoriteDomain converts a domain Favorite entity to a GORM FavoriteModel.
func FromFavoriteDomain(data *entity.Favorite) *FavoriteModel {
	if data == nil {
		return nil
	}

	return &FavoriteModel{
		Key:         data.Key,
		UserID:      data.UserID,
		CountryCode: data.CountryCode,
		CountryName: data.CountryName,
		FlagURL:     data.FlagURL,
		Region:      data.Region,
		Capital:     data.Capital,
		CreatedAt:   data.CreatedAt,
	}
}
