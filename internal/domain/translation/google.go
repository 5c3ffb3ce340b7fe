package translation

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/httpclient"
)

var errEmptyTranslation = errors.New(errors.KindTranslation, "translate", "empty translation")

// GoogleProvider calls the public gtx endpoint of Google Translate.
type GoogleProvider struct {
	client *resty.Client
}

func NewGoogleProvider(baseURL string, timeout time.Duration) *GoogleProvider {
	if baseURL == "" {
		baseURL = "https://translate.googleapis.com"
	}
	return &GoogleProvider{client: httpclient.New(baseURL, timeout)}
}

func (p *GoogleProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = AutoDetect
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     source,
			"tl":     target,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err := httpclient.Check("translate.google", resp, err); err != nil {
		return "", errors.Wrap(errors.KindTranslation, "translate.google", "provider call failed", err)
	}
	return parseGTX(resp.Body())
}

// parseGTX concatenates the translated segments of a gtx response:
// [[["segment","source",...],...],null,"en",...]
func parseGTX(body []byte) (string, error) {
	var raw []any
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return "", errors.Wrap(errors.KindTranslation, "translate.google", "malformed response", err)
	}
	if len(raw) == 0 {
		return "", errEmptyTranslation
	}
	segments, ok := raw[0].([]any)
	if !ok {
		return "", errEmptyTranslation
	}
	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", errEmptyTranslation
	}
	return b.String(), nil
}
