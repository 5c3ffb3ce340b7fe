package store

import (
	"context"

	"plantid-bot-go/internal/domain/session/model"
)

// Store persists per-user sessions. Sessions never expire.
type Store interface {
	// Get returns the stored session and whether it exists.
	Get(ctx context.Context, userID string) (model.Session, bool, error)
	Save(ctx context.Context, session model.Session) error
	Stats(ctx context.Context) (map[string]any, error)
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	Redis  *RedisConfig
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
