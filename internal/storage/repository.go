package storage

import (
	"context"

	"github.com/terra-clan/nebula-guide/internal/models"
)

// Repository defines the interface for tracking event persistence
type Repository interface {
	// Events
	RecordEvent(ctx context.Context, ev *models.TrackingEvent) error
	ListEvents(ctx context.Context, filters EventFilters) ([]*models.TrackingEvent, error)
	CountEvents(ctx context.Context, kind string) (int64, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// EventFilters defines filters for listing tracking events
type EventFilters struct {
	Kind   string
	Limit  int
	Offset int
}
