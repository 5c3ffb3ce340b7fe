package translation

import (
	"plantid-bot-go/internal/domain/llm"
	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
)

// NewProvider builds the configured provider. "none" yields nil, which
// makes the cache pass text through untouched.
func NewProvider(cfg config.TranslationConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "google":
		return NewGoogleProvider(cfg.BaseURL, cfg.Timeout), nil
	case "llm":
		if cfg.Model == "" {
			return nil, errors.New(errors.KindConfig, "translation.new_provider", "translation.model is required for llm provider")
		}
		return NewLLMProvider(llm.NewOpenAIAdapter(cfg.APIKey, cfg.BaseURL), cfg.Model), nil
	case "none":
		return nil, nil
	default:
		return nil, errors.New(errors.KindConfig, "translation.new_provider", "unsupported provider: "+cfg.Provider)
	}
}
