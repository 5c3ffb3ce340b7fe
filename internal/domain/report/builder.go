// Package report renders plant.id payloads into localized, lightly marked-up
// chat messages.
package report

import (
	"context"

	"plantid-bot-go/internal/platform/logging"
)

// DefaultMinConfidence is the probability below which a suggestion counts
// as "could not identify".
const DefaultMinConfidence = 0.05

// Builder assembles detail, health and summary reports.
type Builder struct {
	tr            Translator
	literal       string
	minConfidence float64
	logger        logging.Interface
}

type Option func(*Builder)

func WithLiteralLanguage(lang string) Option {
	return func(b *Builder) {
		if lang != "" {
			b.literal = lang
		}
	}
}

func WithMinConfidence(p float64) Option {
	return func(b *Builder) { b.minConfidence = p }
}

func WithLogger(l logging.Interface) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder. tr may be nil, in which case every string
// is emitted in the literal language.
func NewBuilder(tr Translator, opts ...Option) *Builder {
	b := &Builder{
		tr:            tr,
		literal:       "ru",
		minConfidence: DefaultMinConfidence,
		logger:        logging.Nop{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) localizer(ctx context.Context, lang string) localizer {
	return localizer{ctx: ctx, tr: b.tr, lang: lang, literal: b.literal}
}

// CouldNotIdentify is the localized low-confidence reply.
func (b *Builder) CouldNotIdentify(ctx context.Context, lang string) string {
	return b.localizer(ctx, lang).T(msgCouldNotIdentify)
}
