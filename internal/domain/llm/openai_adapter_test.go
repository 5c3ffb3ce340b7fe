package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"plantid-bot-go/internal/platform/errors"
)

func TestOpenAIAdapter_Generate(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var title string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		title = r.Header.Get("X-Title")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Water less.  "},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`))
	}))
	defer srv.Close()

	gen := NewOpenAIAdapter("key", srv.URL+"/", WithHeaders(map[string]string{"X-Title": "Flower Disease Checker"}))
	res, err := gen.Generate(context.Background(), GenerateRequest{
		Model:       "test-model",
		Messages:    []Message{{Role: RoleUser, Content: "help"}},
		Temperature: 0.7,
		MaxTokens:   1200,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Content != "Water less." {
		t.Errorf("content = %q", res.Content)
	}
	if res.Usage.TotalTokens != 5 {
		t.Errorf("usage = %+v", res.Usage)
	}
	if got.Model != "test-model" || got.MaxTokens != 1200 || len(got.Messages) != 1 {
		t.Errorf("unexpected request: %+v", got)
	}
	if title != "Flower Disease Checker" {
		t.Errorf("X-Title header = %q", title)
	}
}

func TestOpenAIAdapter_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer empty" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"1","choices":[]}`))
			return
		}
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"insufficient credits"}}`))
	}))
	defer srv.Close()

	req := GenerateRequest{Model: "m", Messages: []Message{{Role: RoleUser, Content: "x"}}}

	_, err := NewOpenAIAdapter("key", srv.URL).Generate(context.Background(), req)
	if !errors.IsKind(err, errors.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	_, err = NewOpenAIAdapter("empty", srv.URL).Generate(context.Background(), req)
	if !errors.IsKind(err, errors.KindUpstream) {
		t.Fatalf("expected upstream error for empty choices, got %v", err)
	}
}
