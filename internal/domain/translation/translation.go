// Package translation memoizes machine translation of report strings.
package translation

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"plantid-bot-go/internal/platform/logging"
)

// AutoDetect lets the provider guess the source language.
const AutoDetect = "auto"

// Provider is an external, fallible translation capability.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, text, source, target string) (string, error)

func (f ProviderFunc) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

type cacheKey struct {
	text   string
	source string
	target string
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries  int   `json:"entries"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Failures int64 `json:"failures"`
}

// Cache wraps a Provider with a process-lifetime memo table. It never
// evicts and never fails: provider errors fall back to the input text.
type Cache struct {
	provider Provider
	literal  string
	timeout  time.Duration
	logger   logging.Interface

	mu      sync.RWMutex
	entries map[cacheKey]string

	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLiteralLanguage sets the language the literal report strings are
// written in; translating into it is skipped.
func WithLiteralLanguage(lang string) Option {
	return func(c *Cache) { c.literal = lang }
}

// WithTimeout bounds every provider call.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

func WithLogger(l logging.Interface) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates a cache around provider. A nil provider makes every
// lookup return its input.
func NewCache(provider Provider, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		literal:  "ru",
		timeout:  10 * time.Second,
		logger:   logging.Nop{},
		entries:  make(map[cacheKey]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate translates text into target with source auto-detection.
func (c *Cache) Translate(ctx context.Context, text, target string) string {
	return c.TranslateFrom(ctx, text, AutoDetect, target)
}

// TranslateFrom is Translate with an explicit source language.
func (c *Cache) TranslateFrom(ctx context.Context, text, source, target string) string {
	if c == nil || target == c.literal {
		return text
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}

	key := cacheKey{text: trimmed, source: source, target: target}
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return cached
	}
	c.misses.Add(1)

	if c.provider == nil {
		return text
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	translated, err := c.provider.Translate(callCtx, trimmed, source, target)
	if err == nil && strings.TrimSpace(translated) == "" {
		err = errEmptyTranslation
	}
	if err != nil {
		c.failures.Add(1)
		c.logger.Warn("translate %q to %s failed: %v", preview(trimmed), target, err)
		return text
	}

	c.mu.Lock()
	c.entries[key] = translated
	c.mu.Unlock()
	return translated
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Entries:  n,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 30 {
		return string(r[:30]) + "..."
	}
	return s
}
