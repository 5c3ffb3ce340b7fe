// Package bot turns user updates into replies: it owns the intent routing
// between sessions, the plant.id client and the report builders.
package bot

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/language"

	"plantid-bot-go/internal/domain/eventbus"
	"plantid-bot-go/internal/domain/gallery"
	"plantid-bot-go/internal/domain/image"
	"plantid-bot-go/internal/domain/plant"
	"plantid-bot-go/internal/domain/plantid"
	"plantid-bot-go/internal/domain/report"
	"plantid-bot-go/internal/domain/session"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/logging"
)

// Intent names what the user asked for.
type Intent string

const (
	IntentStart    Intent = "start"
	IntentHelp     Intent = "help"
	IntentLanguage Intent = "language"
	IntentPhoto    Intent = "photo"
	IntentDetails  Intent = "details"
	IntentSimilar  Intent = "similar"
	IntentHealth   Intent = "health"
	IntentLocation Intent = "location"
)

// Update is one inbound user action.
type Update struct {
	UserID    string
	Intent    Intent
	Text      string
	Photo     string // base64 encoded
	Latitude  *float64
	Longitude *float64
}

// Reply is what the transport sends back. Messages is never empty.
type Reply struct {
	Messages []string
	Photos   []gallery.Photo
	Keyboard Keyboard
}

// Identifier is the plant.id capability the bot uses.
type Identifier interface {
	Identify(ctx context.Context, req plantid.Request) (*plant.Identification, error)
	Details(ctx context.Context, token, lang string) (*plant.Identification, error)
	AssessHealth(ctx context.Context, req plantid.Request) (*plant.HealthAssessment, error)
}

// Advisor writes treatment advice for a list of diseases.
type Advisor interface {
	Advise(ctx context.Context, flower string, diseases []string, lang string) (string, error)
}

// Gallery downloads and captions similar images.
type Gallery interface {
	Build(ctx context.Context, images []plant.SimilarImage, plantName, commonName string) []gallery.Photo
}

// ImageProcessor validates an uploaded photo.
type ImageProcessor interface {
	ProcessBase64(ctx context.Context, payload string) (*image.Upload, error)
}

// Publisher emits domain events.
type Publisher interface {
	Emit(ev eventbus.Event) bool
}

// Config carries the collaborators of a Service. Advisor, Names and
// Events are optional.
type Config struct {
	Sessions   *session.Service
	PlantID    Identifier
	Reports    *report.Builder
	Translator report.Translator
	Names      report.NameResolver
	Advisor    Advisor
	Gallery    Gallery
	Images     ImageProcessor
	Events     Publisher
	Logger     logging.Interface

	Languages        []string
	MaxMessageLength int
	RequestTimeout   time.Duration
}

// Service routes updates to intent handlers.
type Service struct {
	sessions   *session.Service
	plantID    Identifier
	reports    *report.Builder
	translator report.Translator
	names      report.NameResolver
	advisor    Advisor
	gallery    Gallery
	images     ImageProcessor
	events     Publisher
	logger     logging.Interface

	languages []string
	matcher   language.Matcher
	maxLength int
	timeout   time.Duration
}

// NewService validates cfg and builds a Service.
func NewService(cfg Config) (*Service, error) {
	switch {
	case cfg.Sessions == nil:
		return nil, errors.New(errors.KindConfig, "bot.new", "session service is required")
	case cfg.PlantID == nil:
		return nil, errors.New(errors.KindConfig, "bot.new", "plant.id client is required")
	case cfg.Reports == nil:
		return nil, errors.New(errors.KindConfig, "bot.new", "report builder is required")
	case cfg.Gallery == nil:
		return nil, errors.New(errors.KindConfig, "bot.new", "gallery is required")
	case cfg.Images == nil:
		return nil, errors.New(errors.KindConfig, "bot.new", "image processor is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop{}
	}

	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"ru", "en"}
	}
	tags := make([]language.Tag, 0, len(langs))
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, errors.Wrap(errors.KindConfig, "bot.new", "invalid language "+l, err)
		}
		tags = append(tags, tag)
	}

	maxLength := cfg.MaxMessageLength
	if maxLength <= 0 {
		maxLength = report.DefaultMaxMessageLength
	}

	return &Service{
		sessions:   cfg.Sessions,
		plantID:    cfg.PlantID,
		reports:    cfg.Reports,
		translator: cfg.Translator,
		names:      cfg.Names,
		advisor:    cfg.Advisor,
		gallery:    cfg.Gallery,
		images:     cfg.Images,
		events:     cfg.Events,
		logger:     cfg.Logger,
		languages:  langs,
		matcher:    language.NewMatcher(tags),
		maxLength:  maxLength,
		timeout:    cfg.RequestTimeout,
	}, nil
}

// Handle processes one update. It always answers with at least one message.
func (s *Service) Handle(ctx context.Context, u Update) (reply Reply) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	lang, err := s.sessions.Language(ctx, u.UserID)
	if err != nil {
		s.logger.Warn("load session %s failed, using default language: %v", u.UserID, err)
		lang = session.DefaultLanguage
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("update %s/%s panicked: %v", u.UserID, u.Intent, r)
			reply = Reply{Keyboard: KeyboardMain}
		}
		reply = s.finish(ctx, reply, lang)
	}()

	intent := u.Intent
	if intent == "" {
		switch {
		case u.Photo != "":
			intent = IntentPhoto
		case u.Latitude != nil || u.Longitude != nil:
			intent = IntentLocation
		default:
			intent, _ = IntentForText(u.Text)
		}
	}
	s.logger.Debug("update from %s: intent=%s", u.UserID, intent)

	switch intent {
	case IntentStart:
		return s.text(ctx, lang, KeyboardMain, msgWelcome)
	case IntentHelp:
		return s.text(ctx, lang, KeyboardMain, msgHelp)
	case IntentLanguage:
		return s.handleLanguage(ctx, u, lang)
	case IntentPhoto:
		return s.handlePhoto(ctx, u, lang)
	case IntentDetails:
		return s.handleDetails(ctx, u, lang)
	case IntentSimilar:
		return s.handleSimilar(ctx, u, lang)
	case IntentHealth:
		return s.handleHealth(ctx, u, lang)
	case IntentLocation:
		return s.handleLocation(ctx, u, lang)
	default:
		return s.text(ctx, lang, KeyboardMain, msgUnknownCommand+"\n\n"+msgHelp)
	}
}

// finish chunks long messages and guarantees a non-empty reply.
func (s *Service) finish(ctx context.Context, r Reply, lang string) Reply {
	var chunks []string
	for _, m := range r.Messages {
		if strings.TrimSpace(m) == "" {
			continue
		}
		chunks = append(chunks, report.SplitForTransport(m, s.maxLength)...)
	}
	if len(chunks) == 0 {
		chunks = []string{s.t(ctx, msgNoInfo, lang)}
	}
	r.Messages = chunks
	return r
}

// t localizes a literal bot string.
func (s *Service) t(ctx context.Context, text, lang string) string {
	if s.translator == nil {
		return text
	}
	return s.translator.Translate(ctx, text, lang)
}

func (s *Service) text(ctx context.Context, lang string, kb Keyboard, literal string) Reply {
	return Reply{Messages: []string{s.t(ctx, literal, lang)}, Keyboard: kb}
}

func (s *Service) emit(topic, userID string, data any) {
	if s.events == nil {
		return
	}
	if !s.events.Emit(eventbus.NewEvent(topic, userID, data)) {
		s.logger.Warn("event %s for %s was dropped", topic, userID)
	}
}
