// Package httpclient builds the resty clients used for every outbound REST call.
package httpclient

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"plantid-bot-go/internal/platform/errors"
)

const maxErrorBody = 512

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures a client.
type Option func(*resty.Client)

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *resty.Client) {
		if value != "" {
			c.SetHeader(key, value)
		}
	}
}

// WithUserAgent overrides the default agent string.
func WithUserAgent(ua string) Option {
	return WithHeader("User-Agent", ua)
}

// WithResponseBodyLimit makes requests fail with resty.ErrResponseBodyTooLarge
// once a body exceeds n bytes. Zero or less leaves bodies unbounded.
func WithResponseBodyLimit(n int64) Option {
	return func(c *resty.Client) {
		if n > 0 {
			c.SetResponseBodyLimit(int(n))
		}
	}
}

// New creates a resty client with a base URL and a per-request timeout.
// Retries stay disabled: upstream faults are reported, not replayed.
func New(baseURL string, timeout time.Duration, opts ...Option) *resty.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "plantid-bot-go/1.0")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check turns a transport error or a non-2xx response into an upstream error.
func Check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return errors.Wrap(errors.KindUpstream, op, "request failed", err)
	}
	if resp.IsSuccess() {
		return nil
	}
	body := resp.String()
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return errors.Wrap(errors.KindUpstream, op, "unexpected status", &APIError{StatusCode: resp.StatusCode(), Body: body})
}
