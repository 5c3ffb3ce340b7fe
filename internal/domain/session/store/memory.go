package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"plantid-bot-go/internal/domain/session/model"
)

type memoryStore struct {
	items map[string]model.Session
	mutex sync.RWMutex
}

// NewMemory builds an in-memory session store.
func NewMemory() Store {
	return &memoryStore{
		items: make(map[string]model.Session),
	}
}

func (s *memoryStore) Get(_ context.Context, userID string) (model.Session, bool, error) {
	s.mutex.RLock()
	sess, ok := s.items[userID]
	s.mutex.RUnlock()
	if !ok {
		return model.Session{}, false, nil
	}
	return clone(sess), true, nil
}

func (s *memoryStore) Save(_ context.Context, sess model.Session) error {
	if sess.UserID == "" {
		return fmt.Errorf("user id required")
	}
	now := time.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if prev, ok := s.items[sess.UserID]; ok {
		sess.CreatedAt = prev.CreatedAt
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now
	s.items[sess.UserID] = clone(sess)
	return nil
}

func (s *memoryStore) Stats(_ context.Context) (map[string]any, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	located := 0
	for _, sess := range s.items {
		if sess.Geoposition != nil {
			located++
		}
	}
	return map[string]any{
		"type":    "memory",
		"total":   len(s.items),
		"located": located,
	}, nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}

// clone detaches the geoposition pointer from the stored copy.
func clone(sess model.Session) model.Session {
	if sess.Geoposition != nil {
		pos := *sess.Geoposition
		sess.Geoposition = &pos
	}
	return sess
}
