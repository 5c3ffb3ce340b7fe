// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/logging"
	"plantid-bot-go/internal/platform/storage"
)

var dbSeq atomic.Int64

// SetupTestConfig returns defaults rooted in a temp dir with every
// outbound integration switched off.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Server.IP = "127.0.0.1"
	cfg.Log.Level = "debug"
	cfg.Log.Dir = filepath.Join(dir, "logs")
	cfg.Log.File = "test.log"
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	cfg.Session.Driver = "memory"
	cfg.Translation.Provider = "none"
	cfg.Treatment.Enabled = false
	cfg.Events.Workers = 1
	return cfg
}

// SetupTestLogger writes to a temp file and discards console output.
func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	cfg := SetupTestConfig(t)
	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
		Console:  io.Discard,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

// MemoryDB opens a migrated in-memory sqlite database private to the test.
func MemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.OpenAndMigrate(storage.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:test-%d?mode=memory&cache=shared", dbSeq.Add(1)),
	})
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close(db) })
	return db
}
