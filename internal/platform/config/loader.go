package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"plantid-bot-go/internal/platform/errors"
)

// DefaultPath is read when PLANTBOT_CONFIG is not set.
const DefaultPath = "config.yaml"

// Loader reads configuration from .env, a yaml file and the environment.
type Loader struct {
	useDotEnv bool
	path      string
	getenv    func(string) string
}

// NewLoader creates a loader with .env support enabled.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		getenv:    os.Getenv,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath pins the yaml file location.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// WithEnv overrides environment lookup (useful for tests).
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	if getenv != nil {
		l.getenv = getenv
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load merges defaults, the yaml file (if present) and env overrides.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		// a missing .env is normal outside development
		_ = godotenv.Load()
	}

	path := l.path
	if path == "" {
		path = l.getenv("PLANTBOT_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "config.load", "parse "+path, err)
		}
	case os.IsNotExist(err):
		path = ""
	default:
		return nil, errors.Wrap(errors.KindConfig, "config.load", "read "+path, err)
	}

	l.applyEnv(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: path}, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(l.getenv(key)); v != "" {
			*dst = v
		}
	}
	set("PLANTID_API_KEY", &cfg.PlantID.APIKey)
	set("TREATMENT_API_KEY", &cfg.Treatment.APIKey)
	set("TRANSLATE_API_KEY", &cfg.Translation.APIKey)
	set("SESSION_STORE", &cfg.Session.Driver)
	set("REDIS_ADDR", &cfg.Session.Redis.Addr)
	set("POSTGRES_DSN", &cfg.Session.Postgres.DSN)
	set("LOG_LEVEL", &cfg.Log.Level)
	set("SERVER_TOKEN", &cfg.Server.Token)

	if v := l.getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "config.validate", fmt.Sprintf("invalid server port %d", cfg.Server.Port))
	}
	if cfg.Bot.MaxMessageLength <= 0 {
		return errors.New(errors.KindConfig, "config.validate", "bot.max_message_length must be positive")
	}
	if cfg.Bot.MinConfidence < 0 || cfg.Bot.MinConfidence >= 1 {
		return errors.New(errors.KindConfig, "config.validate", "bot.min_confidence must be in [0,1)")
	}
	if cfg.Bot.DefaultLanguage == "" {
		return errors.New(errors.KindConfig, "config.validate", "bot.default_language is required")
	}
	switch cfg.Session.Driver {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return errors.New(errors.KindConfig, "config.validate", "unsupported session driver: "+cfg.Session.Driver)
	}
	if cfg.Session.Driver == "redis" && cfg.Session.Redis.Addr == "" {
		return errors.New(errors.KindConfig, "config.validate", "session.redis.addr is required for redis driver")
	}
	if cfg.Session.Driver == "postgres" && cfg.Session.Postgres.DSN == "" {
		return errors.New(errors.KindConfig, "config.validate", "session.postgres.dsn is required for postgres driver")
	}
	switch cfg.Translation.Provider {
	case "google", "llm", "none", "":
	default:
		return errors.New(errors.KindConfig, "config.validate", "unsupported translation provider: "+cfg.Translation.Provider)
	}
	return nil
}
