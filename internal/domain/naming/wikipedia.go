// Package naming resolves latin plant names to local ones via Wikipedia.
package naming

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"plantid-bot-go/internal/platform/httpclient"
	"plantid-bot-go/internal/platform/logging"
)

const (
	// DefaultBaseURL is expanded per language.
	DefaultBaseURL = "https://{lang}.wikipedia.org"

	msgNotFound       = "Не нашёл русского названия"
	msgDisambiguation = "Неоднозначность: "

	maxOptions = 5
)

type summaryPage struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

type linksReply struct {
	Query struct {
		Pages map[string]struct {
			Links []struct {
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL overrides the host template; "{lang}" is replaced by the language.
func WithBaseURL(tmpl string) Option {
	return func(r *Resolver) {
		if tmpl != "" {
			r.baseURL = tmpl
		}
	}
}

func WithLogger(l logging.Interface) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver looks up page titles and caches them per (language, name).
type Resolver struct {
	http    *resty.Client
	baseURL string
	logger  logging.Interface

	mu    sync.RWMutex
	cache map[string]string
}

func NewResolver(timeout time.Duration, opts ...Option) *Resolver {
	r := &Resolver{
		http:    httpclient.New("", timeout),
		baseURL: DefaultBaseURL,
		logger:  logging.Nop{},
		cache:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LocalName returns the Wikipedia title for latin in lang. Transport
// failures yield "" so callers can fall back to the latin name.
func (r *Resolver) LocalName(ctx context.Context, latin, lang string) string {
	latin = strings.TrimSpace(latin)
	if latin == "" {
		return ""
	}
	if lang == "" {
		lang = "ru"
	}
	key := lang + "\x00" + latin

	r.mu.RLock()
	name, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return name
	}

	name, cacheable := r.lookup(ctx, latin, lang)
	if cacheable {
		r.mu.Lock()
		r.cache[key] = name
		r.mu.Unlock()
	}
	return name
}

func (r *Resolver) lookup(ctx context.Context, latin, lang string) (string, bool) {
	base := r.host(lang)
	resp, err := r.http.R().
		SetContext(ctx).
		Get(base + "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(latin, " ", "_")))
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return msgNotFound, true
	}
	if err := httpclient.Check("naming.summary", resp, err); err != nil {
		r.logger.Warn("wikipedia lookup for %q failed: %v", latin, err)
		return "", false
	}

	var page summaryPage
	if err := sonic.Unmarshal(resp.Body(), &page); err != nil {
		r.logger.Warn("wikipedia summary for %q is malformed: %v", latin, err)
		return "", false
	}
	if page.Type == "disambiguation" {
		return msgDisambiguation + strings.Join(r.options(ctx, base, page.Title), ", "), true
	}
	if page.Title == "" {
		return msgNotFound, true
	}
	return page.Title, true
}

// options lists the first links of a disambiguation page.
func (r *Resolver) options(ctx context.Context, base, title string) []string {
	resp, err := r.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":      "query",
			"format":      "json",
			"prop":        "links",
			"plnamespace": "0",
			"pllimit":     "5",
			"titles":      title,
		}).
		Get(base + "/w/api.php")
	if err := httpclient.Check("naming.options", resp, err); err != nil {
		r.logger.Warn("wikipedia options for %q failed: %v", title, err)
		return []string{title}
	}
	var reply linksReply
	if err := sonic.Unmarshal(resp.Body(), &reply); err != nil {
		return []string{title}
	}
	var out []string
	for _, p := range reply.Query.Pages {
		for _, l := range p.Links {
			if len(out) == maxOptions {
				break
			}
			out = append(out, l.Title)
		}
	}
	if len(out) == 0 {
		return []string{title}
	}
	return out
}

func (r *Resolver) host(lang string) string {
	return strings.TrimRight(strings.ReplaceAll(r.baseURL, "{lang}", lang), "/")
}
