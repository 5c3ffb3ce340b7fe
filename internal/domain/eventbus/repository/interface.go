package repository

import (
	"context"
	"time"
)

// EventRepository persists bot events.
type EventRepository interface {
	Store(ctx context.Context, event Event) error

	// CountByType returns how many events of each type were stored.
	CountByType(ctx context.Context) (map[string]int64, error)
}

// Event is one persisted bot event. Data is serialized as JSON.
type Event struct {
	ID        string
	EventType string
	UserID    string
	Data      any
	CreatedAt time.Time
}
