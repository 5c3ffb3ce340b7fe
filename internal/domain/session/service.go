package session

import (
	"context"
	"strings"

	"plantid-bot-go/internal/domain/session/model"
	"plantid-bot-go/internal/domain/session/store"
	"plantid-bot-go/internal/platform/errors"
)

type (
	// Session re-exports the persisted entity for callers.
	Session = model.Session
	// Geoposition re-exports the location value.
	Geoposition = model.Geoposition
	// Logger re-exports the logging interface used across the domain.
	Logger = model.Logger
)

// DefaultLanguage is assigned to users that never picked one.
const DefaultLanguage = "ru"

// Options encapsulates the dependencies required to construct a Service.
type Options struct {
	Store           store.Store
	Logger          Logger
	DefaultLanguage string
}

// Service reads and updates per-user session state.
type Service struct {
	store    store.Store
	logger   Logger
	language string
}

// NewService wires a Service using the supplied options.
func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New(errors.KindConfig, "session.new", "session service requires a store")
	}
	if opts.Logger == nil {
		return nil, errors.New(errors.KindConfig, "session.new", "session service requires a logger")
	}
	lang := strings.TrimSpace(opts.DefaultLanguage)
	if lang == "" {
		lang = DefaultLanguage
	}
	return &Service{store: opts.Store, logger: opts.Logger, language: lang}, nil
}

// Get returns the session for userID, or a fresh one carrying the default
// language when none is stored yet.
func (s *Service) Get(ctx context.Context, userID string) (Session, error) {
	sess, ok, err := s.store.Get(ctx, userID)
	if err != nil {
		return Session{}, errors.Wrap(errors.KindStorage, "session.get", "load session "+userID, err)
	}
	if !ok {
		return Session{UserID: userID, Language: s.language}, nil
	}
	if sess.Language == "" {
		sess.Language = s.language
	}
	return sess, nil
}

// Language returns the user's report language.
func (s *Service) Language(ctx context.Context, userID string) (string, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return s.language, err
	}
	return sess.Language, nil
}

func (s *Service) SetLanguage(ctx context.Context, userID, lang string) error {
	return s.update(ctx, "session.set_language", userID, func(sess *Session) {
		sess.Language = lang
	})
}

// SetIdentification stores the token and plant of the latest identification.
func (s *Service) SetIdentification(ctx context.Context, userID, token, plantName string) error {
	return s.update(ctx, "session.set_identification", userID, func(sess *Session) {
		sess.IdentificationToken = token
		sess.LastPlant = plantName
	})
}

// SetLastImage keeps the base64 encoded photo for a later health check.
func (s *Service) SetLastImage(ctx context.Context, userID, imageBase64 string) error {
	return s.update(ctx, "session.set_last_image", userID, func(sess *Session) {
		sess.LastImage = imageBase64
	})
}

func (s *Service) SetGeoposition(ctx context.Context, userID string, pos Geoposition) error {
	return s.update(ctx, "session.set_geoposition", userID, func(sess *Session) {
		p := pos
		sess.Geoposition = &p
	})
}

// Stats proxies the store statistics.
func (s *Service) Stats(ctx context.Context) (map[string]any, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "session.stats", "collect store stats", err)
	}
	return stats, nil
}

// Close releases the underlying store.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

func (s *Service) update(ctx context.Context, op, userID string, mutate func(*Session)) error {
	if userID == "" {
		return errors.New(errors.KindDomain, op, "user id must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	mutate(&sess)
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Error("persist session %s failed: %v", userID, err)
		return errors.Wrap(errors.KindStorage, op, "persist session "+userID, err)
	}
	return nil
}
