// Package treatment asks a chat-completion model for disease care advice.
package treatment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plantid-bot-go/internal/domain/llm"
	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/logging"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1200

	openRouterReferer = "http://flower-disease-checker.local"
	openRouterTitle   = "Flower Disease Checker"
)

// ErrNoDiseases is returned when there is nothing to advise on.
var ErrNoDiseases = errors.New(errors.KindDomain, "treatment.advise", "disease list must not be empty")

// Advisor produces pre-localized treatment advice.
type Advisor struct {
	gen         llm.Generator
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      logging.Interface
}

// NewAdvisor wraps an existing generator.
func NewAdvisor(gen llm.Generator, cfg config.TreatmentConfig, logger logging.Interface) *Advisor {
	if logger == nil {
		logger = logging.Nop{}
	}
	a := &Advisor{
		gen:         gen,
		model:       cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
	if a.temperature <= 0 {
		a.temperature = defaultTemperature
	}
	if a.maxTokens <= 0 {
		a.maxTokens = defaultMaxTokens
	}
	return a
}

// New builds an advisor over an OpenAI-compatible endpoint. The
// "openrouter" type adds the attribution headers OpenRouter expects.
func New(cfg config.TreatmentConfig, logger logging.Interface) (*Advisor, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.ModelName == "" {
		return nil, errors.New(errors.KindConfig, "treatment.new", "treatment.model_name is required")
	}
	var opts []llm.Option
	switch cfg.Type {
	case "", "openai", "deepseek":
	case "openrouter":
		opts = append(opts, llm.WithHeaders(map[string]string{
			"HTTP-Referer": openRouterReferer,
			"X-Title":      openRouterTitle,
		}))
	default:
		return nil, errors.New(errors.KindConfig, "treatment.new", "unsupported treatment type: "+cfg.Type)
	}
	return NewAdvisor(llm.NewOpenAIAdapter(cfg.APIKey, cfg.BaseURL, opts...), cfg, logger), nil
}

// Advise returns structured advice for diseases of flower, written in lang.
func (a *Advisor) Advise(ctx context.Context, flower string, diseases []string, lang string) (string, error) {
	if len(diseases) == 0 {
		return "", ErrNoDiseases
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	started := time.Now()
	res, err := a.gen.Generate(ctx, llm.GenerateRequest{
		Model:       a.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: Prompt(flower, diseases, lang)}},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return "", errors.Wrap(errors.KindUpstream, "treatment.advise", "completion failed", err)
	}
	if strings.TrimSpace(res.Content) == "" {
		return "", errors.New(errors.KindUpstream, "treatment.advise", "empty completion")
	}
	a.logger.Debug("treatment advice for %s ready in %s (%d tokens)", flower, time.Since(started), res.Usage.TotalTokens)
	return res.Content, nil
}

// Prompt renders the gardener prompt; diseases are numbered in the given order.
func Prompt(flower string, diseases []string, lang string) string {
	var list strings.Builder
	for i, d := range diseases {
		if i > 0 {
			list.WriteString("\n")
		}
		fmt.Fprintf(&list, "%d. %s", i+1, d)
	}

	if lang == "ru" {
		return fmt.Sprintf("Ты опытный садовод. Пользователь подозревает, что у растения '%s' есть одна или несколько проблем. "+
			"Наиболее вероятные заболевания в порядке убывания вероятности:\n%s\n\n"+
			"Для каждого заболевания подробно опиши:\n"+
			"- Характерные симптомы\n"+
			"- Основные причины возникновения\n"+
			"- Пошаговые рекомендации по лечению и восстановлению растения\n\n"+
			"Ответ должен быть структурированным, понятным для начинающих цветоводов и на русском языке.", flower, list.String())
	}
	return fmt.Sprintf("You are an experienced gardener. A user suspects their plant '%s' has one or more issues. "+
		"The most likely diseases in descending order of probability:\n%s\n\n"+
		"For each disease, please describe:\n"+
		"- Key symptoms\n"+
		"- Main causes\n"+
		"- Step-by-step treatment and recovery advice\n\n"+
		"Provide a well-structured, beginner-friendly response in %s.", flower, list.String(), lang)
}
