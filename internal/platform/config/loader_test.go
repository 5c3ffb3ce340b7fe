package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"plantid-bot-go/internal/platform/errors"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
server:
  ip: "127.0.0.1"
  port: 9090
log:
  log_level: "debug"
  log_dir: "/tmp/logs"
  log_file: "test.log"
bot:
  default_language: "ru"
  max_message_length: 1000
  request_timeout: 5s
session:
  driver: memory
`
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	res, err := NewLoader().WithDotEnv(false).WithPath(configFile).WithEnv(envMap(nil)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg := res.Config

	if res.Path != configFile {
		t.Errorf("expected path %s, got %s", configFile, res.Path)
	}
	if cfg.Server.IP != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Bot.MaxMessageLength != 1000 {
		t.Errorf("expected max length 1000, got %d", cfg.Bot.MaxMessageLength)
	}
	if cfg.Bot.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Bot.RequestTimeout)
	}
	// untouched sections keep defaults
	if cfg.Bot.MinConfidence != 0.05 {
		t.Errorf("expected default min confidence, got %v", cfg.Bot.MinConfidence)
	}
	if len(cfg.PlantID.Details) == 0 {
		t.Error("expected default detail list")
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	res, err := NewLoader().
		WithDotEnv(false).
		WithPath(filepath.Join(t.TempDir(), "absent.yaml")).
		WithEnv(envMap(map[string]string{
			"PLANTID_API_KEY": "secret",
			"SERVER_PORT":     "7000",
			"SESSION_STORE":   "memory",
		})).
		Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Path != "" {
		t.Errorf("expected empty path for missing file, got %q", res.Path)
	}
	if res.Config.PlantID.APIKey != "secret" {
		t.Errorf("env override not applied: %q", res.Config.PlantID.APIKey)
	}
	if res.Config.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", res.Config.Server.Port)
	}
	if res.Config.Session.Driver != "memory" {
		t.Errorf("expected memory driver, got %s", res.Config.Session.Driver)
	}
}

func TestLoader_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader().WithDotEnv(false).WithPath(configFile).WithEnv(envMap(nil)).Load()
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestLoader_Validate(t *testing.T) {
	loader := NewLoader()

	mutate := func(fn func(*Config)) *Config {
		cfg := DefaultConfig()
		fn(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "defaults", config: DefaultConfig(), wantErr: false},
		{name: "invalid server port", config: mutate(func(c *Config) { c.Server.Port = 70000 }), wantErr: true},
		{name: "zero message length", config: mutate(func(c *Config) { c.Bot.MaxMessageLength = 0 }), wantErr: true},
		{name: "confidence out of range", config: mutate(func(c *Config) { c.Bot.MinConfidence = 1 }), wantErr: true},
		{name: "unknown session driver", config: mutate(func(c *Config) { c.Session.Driver = "mongo" }), wantErr: true},
		{name: "redis without addr", config: mutate(func(c *Config) { c.Session.Driver = "redis" }), wantErr: true},
		{name: "postgres without dsn", config: mutate(func(c *Config) { c.Session.Driver = "postgres" }), wantErr: true},
		{name: "unknown translator", config: mutate(func(c *Config) { c.Translation.Provider = "deepl" }), wantErr: true},
		{name: "translation disabled", config: mutate(func(c *Config) { c.Translation.Provider = "none" }), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.validate(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
