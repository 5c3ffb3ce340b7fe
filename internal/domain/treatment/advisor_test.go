package treatment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantid-bot-go/internal/domain/llm"
	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
)

type fakeGenerator struct {
	last llm.GenerateRequest
	out  string
	err  error
}

func (f *fakeGenerator) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResult, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResult{Content: f.out}, nil
}

func TestPrompt(t *testing.T) {
	ru := Prompt("Фикус", []string{"Гниль", "Тля"}, "ru")
	assert.Contains(t, ru, "у растения 'Фикус'")
	assert.Contains(t, ru, "1. Гниль\n2. Тля")
	assert.Contains(t, ru, "на русском языке")

	en := Prompt("Ficus", []string{"Rot"}, "en")
	assert.Contains(t, en, "their plant 'Ficus'")
	assert.Contains(t, en, "1. Rot\n\n")
	assert.True(t, strings.HasSuffix(en, "response in en."))
}

func TestAdvise(t *testing.T) {
	gen := &fakeGenerator{out: "Поливайте реже."}
	a := NewAdvisor(gen, config.DefaultConfig().Treatment, nil)

	out, err := a.Advise(context.Background(), "Фикус", []string{"Гниль"}, "ru")
	require.NoError(t, err)
	assert.Equal(t, "Поливайте реже.", out)
	assert.Equal(t, "mistralai/mistral-7b-instruct:free", gen.last.Model)
	assert.Equal(t, 0.7, gen.last.Temperature)
	assert.Equal(t, 1200, gen.last.MaxTokens)
	require.Len(t, gen.last.Messages, 1)
	assert.Equal(t, llm.RoleUser, gen.last.Messages[0].Role)
}

func TestAdvise_Errors(t *testing.T) {
	a := NewAdvisor(&fakeGenerator{}, config.TreatmentConfig{}, nil)
	_, err := a.Advise(context.Background(), "x", nil, "ru")
	assert.ErrorIs(t, err, ErrNoDiseases)

	_, err = a.Advise(context.Background(), "x", []string{"y"}, "ru")
	assert.True(t, errors.IsKind(err, errors.KindUpstream), "empty completion is an upstream fault")

	failing := NewAdvisor(&fakeGenerator{err: fmt.Errorf("boom")}, config.TreatmentConfig{}, nil)
	_, err = failing.Advise(context.Background(), "x", []string{"y"}, "ru")
	assert.True(t, errors.IsKind(err, errors.KindUpstream))
}

func TestNew_OpenRouterHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, openRouterReferer, r.Header.Get("HTTP-Referer"))
		assert.Equal(t, openRouterTitle, r.Header.Get("X-Title"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1200), body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  advice  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := config.DefaultConfig().Treatment
	cfg.Type = "openrouter"
	cfg.BaseURL = srv.URL
	cfg.APIKey = "key"
	cfg.Timeout = 2 * time.Second

	a, err := New(cfg, nil)
	require.NoError(t, err)
	out, err := a.Advise(context.Background(), "Ficus", []string{"Rot"}, "en")
	require.NoError(t, err)
	assert.Equal(t, "advice", out)
}

func TestNew_Config(t *testing.T) {
	a, err := New(config.TreatmentConfig{Enabled: false}, nil)
	assert.NoError(t, err)
	assert.Nil(t, a)

	_, err = New(config.TreatmentConfig{Enabled: true, ModelName: "m", Type: "bard"}, nil)
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	_, err = New(config.TreatmentConfig{Enabled: true}, nil)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}
