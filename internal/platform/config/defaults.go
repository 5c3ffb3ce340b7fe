package config

import "time"

// DefaultPlantDetails is the detail list requested from the identification API.
var DefaultPlantDetails = []string{
	"common_names",
	"url",
	"description",
	"taxonomy",
	"synonyms",
	"edible_parts",
	"propagation_methods",
	"watering",
	"best_watering",
	"best_light_condition",
	"best_soil_type",
	"common_uses",
	"toxicity",
	"cultural_significance",
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "plantbot.log",
		},
		Bot: BotConfig{
			DefaultLanguage:  "ru",
			LiteralLanguage:  "ru",
			Languages:        []string{"ru", "en"},
			MaxMessageLength: 4096,
			MinConfidence:    0.05,
			RequestTimeout:   60 * time.Second,
		},
		PlantID: PlantIDConfig{
			BaseURL:       "https://plant.id/api/v3",
			Details:       append([]string(nil), DefaultPlantDetails...),
			HealthDetails: []string{"local_name", "description", "treatment"},
			Timeout:       30 * time.Second,
		},
		Translation: TranslationConfig{
			Provider: "google",
			BaseURL:  "https://translate.googleapis.com",
			Timeout:  10 * time.Second,
		},
		Treatment: TreatmentConfig{
			Enabled:     true,
			Type:        "openai",
			ModelName:   "mistralai/mistral-7b-instruct:free",
			BaseURL:     "https://openrouter.ai/api/v1",
			Temperature: 0.7,
			MaxTokens:   1200,
			Timeout:     60 * time.Second,
		},
		Session: SessionConfig{
			Driver: "sqlite",
			Redis: RedisConfig{
				Prefix: "plantbot:session:",
			},
		},
		Storage: StorageConfig{
			DataDir: "./data",
			DBFile:  "plantbot.db",
		},
		Gallery: GalleryConfig{
			MaxImages:   5,
			MaxBytes:    5 * 1024 * 1024,
			Timeout:     15 * time.Second,
			Concurrency: 3,
		},
		Image: ImageConfig{
			MaxFileSize:    10 * 1024 * 1024,
			MaxWidth:       8192,
			MaxHeight:      8192,
			AllowedFormats: []string{"jpeg", "jpg", "png", "webp", "gif"},
		},
		Events: EventsConfig{
			Workers: 4,
			Persist: true,
		},
	}
}
