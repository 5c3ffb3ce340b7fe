package config

import (
	"time"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Bot         BotConfig         `yaml:"bot"`
	PlantID     PlantIDConfig     `yaml:"plant_id"`
	Translation TranslationConfig `yaml:"translation"`
	Treatment   TreatmentConfig   `yaml:"treatment"`
	Session     SessionConfig     `yaml:"session"`
	Storage     StorageConfig     `yaml:"storage"`
	Gallery     GalleryConfig     `yaml:"gallery"`
	Image       ImageConfig       `yaml:"image"`
	Events      EventsConfig      `yaml:"events"`
}

type ServerConfig struct {
	IP    string `yaml:"ip"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// BotConfig tunes the conversation.
type BotConfig struct {
	DefaultLanguage  string        `yaml:"default_language"`
	LiteralLanguage  string        `yaml:"literal_language"`
	Languages        []string      `yaml:"languages"`
	MaxMessageLength int           `yaml:"max_message_length"`
	MinConfidence    float64       `yaml:"min_confidence"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
}

type PlantIDConfig struct {
	BaseURL       string        `yaml:"base_url"`
	APIKey        string        `yaml:"api_key"`
	Details       []string      `yaml:"details"`
	HealthDetails []string      `yaml:"health_details"`
	Timeout       time.Duration `yaml:"timeout"`
}

type TranslationConfig struct {
	Provider string        `yaml:"provider"`
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

type TreatmentConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Type        string        `yaml:"type"`
	ModelName   string        `yaml:"model_name"`
	BaseURL     string        `yaml:"url"`
	APIKey      string        `yaml:"api_key"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Driver   string         `yaml:"driver"`
	Redis    RedisConfig    `yaml:"redis,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	DBFile  string `yaml:"db_file"`
}

type GalleryConfig struct {
	MaxImages   int           `yaml:"max_images"`
	MaxBytes    int64         `yaml:"max_bytes"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

// ImageConfig bounds what uploaded photos may be.
type ImageConfig struct {
	MaxFileSize    int64    `yaml:"max_file_size"`
	MaxWidth       int      `yaml:"max_width"`
	MaxHeight      int      `yaml:"max_height"`
	AllowedFormats []string `yaml:"allowed_formats"`
}

type EventsConfig struct {
	Workers int  `yaml:"workers"`
	Persist bool `yaml:"persist"`
}
