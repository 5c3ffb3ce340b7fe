package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"plantid-bot-go/internal/platform/errors"
)

type openaiAdapter struct {
	client *openai.Client
}

// Option tweaks the adapter's client configuration.
type Option func(*openai.ClientConfig)

// WithHeaders adds static headers to every request, e.g. the
// HTTP-Referer and X-Title pair OpenRouter asks for.
func WithHeaders(headers map[string]string) Option {
	return func(cfg *openai.ClientConfig) {
		base := cfg.HTTPClient
		var rt http.RoundTripper = http.DefaultTransport
		if hc, ok := base.(*http.Client); ok && hc.Transport != nil {
			rt = hc.Transport
		}
		cfg.HTTPClient = &http.Client{Transport: headerTransport{base: rt, headers: headers}}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *openai.ClientConfig) {
		cfg.HTTPClient = hc
	}
}

// NewOpenAIAdapter works with any OpenAI-compatible endpoint (OpenAI,
// DeepSeek, OpenRouter).
func NewOpenAIAdapter(apiKey, baseURL string, opts ...Option) Generator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &openaiAdapter{
		client: openai.NewClientWithConfig(config),
	}
}

func (o *openaiAdapter) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, errors.Wrap(errors.KindUpstream, "openai.generate", "API call failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.KindUpstream, "openai.generate", "no response choices")
	}

	choice := resp.Choices[0]
	return &GenerateResult{
		Content:      strings.TrimSpace(choice.Message.Content),
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}
