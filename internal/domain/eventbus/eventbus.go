// Package eventbus fans out domain events (language switches, shared
// locations, identifications, health checks) to in-process subscribers.
package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published on every topic.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Data      any       `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent stamps a fresh id and time on data.
func NewEvent(topic, userID string, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      topic,
		UserID:    userID,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}
