package service

import (
	"context"
	"time"
)

// Favorite event actions.
const (
	FavoriteActionAdded   = "favorite_added"
	FavoriteActionRemoved = "favorite_removed"
)

// FavoriteEvent describes a confirmed favorite mutation, published for
// downstream consumers (analytics, recommendations).
type FavoriteEvent struct {
	RequestID   string    `json:"request_id,omitempty"` // For distributed tracing
	UserID      string    `json:"user_id"`
	CountryCode string    `json:"country_code"`
	CountryName string    `json:"country_name,omitempty"`
	Action      string    `json:"action"` // FavoriteActionAdded or FavoriteActionRemoved
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishFavoriteEvent publishes a favorite mutation event.
	PublishFavoriteEvent(ctx context.Context, event *FavoriteEvent) error

	// Close releases publisher resources.
	Close() error
}
