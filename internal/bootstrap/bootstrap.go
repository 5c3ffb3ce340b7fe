package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"plantid-bot-go/internal/app/bot"
	"plantid-bot-go/internal/domain/eventbus"
	eventinfra "plantid-bot-go/internal/domain/eventbus/infrastructure"
	eventrepo "plantid-bot-go/internal/domain/eventbus/repository"
	"plantid-bot-go/internal/domain/gallery"
	"plantid-bot-go/internal/domain/image"
	"plantid-bot-go/internal/domain/naming"
	"plantid-bot-go/internal/domain/plantid"
	"plantid-bot-go/internal/domain/report"
	"plantid-bot-go/internal/domain/session"
	sessionstore "plantid-bot-go/internal/domain/session/store"
	"plantid-bot-go/internal/domain/translation"
	"plantid-bot-go/internal/domain/treatment"
	platformconfig "plantid-bot-go/internal/platform/config"
	platformerrors "plantid-bot-go/internal/platform/errors"
	platformlogging "plantid-bot-go/internal/platform/logging"
	platformstorage "plantid-bot-go/internal/platform/storage"
	httptransport "plantid-bot-go/internal/transport/http"
)

const (
	shutdownTimeout     = 15 * time.Second
	httpShutdownTimeout = 10 * time.Second
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	configPath  string
	config      *platformconfig.Config
	logProvider *platformlogging.Logger
	logger      platformlogging.Interface
	db          *gorm.DB
	sessions    *session.Service
	events      *eventbus.AsyncEventBus
	eventRepo   eventrepo.EventRepository
	translator  *translation.Cache
	bot         *bot.Service
}

// Run loads configuration, builds the dependency graph, serves HTTP and
// shuts down gracefully once ctx is cancelled or a signal arrives.
// configPath may be empty, in which case PLANTBOT_CONFIG or config.yaml is read.
func Run(ctx context.Context, configPath string) error {
	state := &appState{configPath: configPath}
	defer state.close()

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		if state.logger != nil {
			state.logger.Error("bootstrap failed: %v", err)
		}
		return err
	}
	logBootstrapGraph(steps, state.logger)

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(signalCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	return waitForShutdown(groupCtx, cancel, state.logger, group)
}

func logBootstrapGraph(steps []initStep, logger platformlogging.Interface) {
	if logger == nil {
		return
	}
	logger.Info("init graph:")
	for _, step := range steps {
		if len(step.DependsOn) == 0 {
			logger.Info("  %s (%s)", step.ID, step.Title)
			continue
		}
		logger.Info("  %s (%s) <- %v", step.ID, step.Title, step.DependsOn)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}
	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := ctx.Err(); err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap, step.ID, "bootstrap cancelled", err)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph lists the init steps in execution order.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:init-database",
			Title:     "Initialise database",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   initDatabaseStep,
		},
		{
			ID:        "session:init-store",
			Title:     "Initialise session store",
			DependsOn: []string{"storage:init-database"},
			Kind:      platformerrors.KindStorage,
			Execute:   initSessionStep,
		},
		{
			ID:        "events:init-bus",
			Title:     "Initialise event bus",
			DependsOn: []string{"storage:init-database"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initEventsStep,
		},
		{
			ID:        "translation:init-cache",
			Title:     "Initialise translation cache",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindConfig,
			Execute:   initTranslationStep,
		},
		{
			ID:        "bot:init-service",
			Title:     "Initialise bot service",
			DependsOn: []string{"session:init-store", "events:init-bus", "translation:init-cache"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initBotStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	res, err := platformconfig.NewLoader().WithPath(state.configPath).Load()
	if err != nil {
		return err
	}
	state.config = res.Config
	state.configPath = res.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "logging:init-provider", "config not loaded")
	}

	logProvider, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialize logging provider", err)
	}

	state.logProvider = logProvider
	state.logger = logProvider.Tagged("Bootstrap")

	source := state.configPath
	if source == "" {
		source = "defaults"
	}
	state.logger.Info("logging ready [%s], config from %s", state.config.Log.Level, source)
	return nil
}

// needsDatabase reports whether sessions or event persistence use SQL.
func needsDatabase(cfg *platformconfig.Config) bool {
	switch cfg.Session.Driver {
	case sessionstore.DriverSQLite, sessionstore.DriverPostgres:
		return true
	}
	return cfg.Events.Persist
}

func initDatabaseStep(_ context.Context, state *appState) error {
	cfg := state.config
	if !needsDatabase(cfg) {
		state.logger.Info("database not required, skipping")
		return nil
	}

	opts := platformstorage.Options{
		Driver:  sessionstore.DriverSQLite,
		DataDir: cfg.Storage.DataDir,
		DBFile:  cfg.Storage.DBFile,
	}
	if cfg.Session.Driver == sessionstore.DriverPostgres {
		opts = platformstorage.Options{Driver: sessionstore.DriverPostgres, DSN: cfg.Session.Postgres.DSN}
	}

	db, err := platformstorage.OpenAndMigrate(opts)
	if err != nil {
		return err
	}
	state.db = db
	state.logger.Info("database ready (%s)", opts.Driver)
	return nil
}

func initSessionStep(_ context.Context, state *appState) error {
	cfg := state.config.Session
	st, err := sessionstore.New(sessionstore.Config{
		Driver: cfg.Driver,
		Redis: &sessionstore.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
	}, sessionstore.Dependencies{DB: state.db})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "session:init-store", "failed to create session store", err)
	}

	sessions, err := session.NewService(session.Options{
		Store:           st,
		Logger:          state.logProvider.Tagged("Session"),
		DefaultLanguage: state.config.Bot.DefaultLanguage,
	})
	if err != nil {
		_ = st.Close(context.Background())
		return err
	}
	state.sessions = sessions
	state.logger.Info("session store ready (%s)", cfg.Driver)
	return nil
}

func initEventsStep(_ context.Context, state *appState) error {
	cfg := state.config.Events
	bus := eventbus.NewAsyncEventBus(cfg.Workers, state.logProvider.Tagged("Events"))

	if cfg.Persist && state.db != nil {
		repo := eventinfra.NewEventRepository(state.db)
		persister := eventinfra.NewPersister(repo, state.logProvider.Tagged("Events"))
		if err := persister.Attach(bus); err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap, "events:init-bus", "failed to attach event persister", err)
		}
		state.eventRepo = repo
	}

	bus.Start()
	state.events = bus
	return nil
}

func initTranslationStep(_ context.Context, state *appState) error {
	cfg := state.config
	provider, err := translation.NewProvider(cfg.Translation)
	if err != nil {
		return err
	}
	if provider == nil {
		state.logger.Warn("translation disabled, replies stay in %s", cfg.Bot.LiteralLanguage)
	}
	state.translator = translation.NewCache(provider,
		translation.WithLiteralLanguage(cfg.Bot.LiteralLanguage),
		translation.WithTimeout(cfg.Translation.Timeout),
		translation.WithLogger(state.logProvider.Tagged("Translate")),
	)
	return nil
}

func initBotStep(_ context.Context, state *appState) error {
	cfg := state.config
	lp := state.logProvider

	advisor, err := treatment.New(cfg.Treatment, lp.Tagged("Treatment"))
	if err != nil {
		return err
	}

	service, err := bot.NewService(bot.Config{
		Sessions: state.sessions,
		PlantID:  plantid.New(cfg.PlantID, lp.Tagged("PlantID")),
		Reports: report.NewBuilder(state.translator,
			report.WithLiteralLanguage(cfg.Bot.LiteralLanguage),
			report.WithMinConfidence(cfg.Bot.MinConfidence),
			report.WithLogger(lp.Tagged("Bot")),
		),
		Translator:       state.translator,
		Names:            naming.NewResolver(cfg.Translation.Timeout, naming.WithLogger(lp.Tagged("Bot"))),
		Advisor:          optionalAdvisor(advisor),
		Gallery:          gallery.NewDownloader(cfg.Gallery, lp.Tagged("Gallery")),
		Images:           image.NewPipeline(cfg.Image, lp.Tagged("Bot")),
		Events:           state.events,
		Logger:           lp.Tagged("Bot"),
		Languages:        cfg.Bot.Languages,
		MaxMessageLength: cfg.Bot.MaxMessageLength,
		RequestTimeout:   cfg.Bot.RequestTimeout,
	})
	if err != nil {
		return err
	}
	state.bot = service
	return nil
}

// optionalAdvisor keeps a disabled advisor a nil interface.
func optionalAdvisor(a *treatment.Advisor) bot.Advisor {
	if a == nil {
		return nil
	}
	return a
}

// buildRouter wires the HTTP handlers onto a fresh gin engine.
func buildRouter(state *appState) (*httptransport.Router, error) {
	cfg := state.config
	router := httptransport.Build(httptransport.Options{
		Logger: state.logProvider.Tagged("HTTP"),
		Debug:  cfg.Log.Level == "debug",
		Token:  cfg.Server.Token,
	})

	router.Engine.NoRoute(func(c *gin.Context) {
		httptransport.RespondError(c, http.StatusNotFound, "api not found", gin.H{})
	})

	botHandler, err := httptransport.NewBotHandler(state.bot, state.logProvider.Tagged("HTTP"), cfg.Image.MaxFileSize)
	if err != nil {
		return nil, err
	}
	botHandler.RegisterRoutes(router)

	httptransport.NewStatusHandler(httptransport.StatusSources{
		Sessions:    state.sessions,
		Translation: state.translator,
		Events:      state.events,
		EventCounts: state.eventRepo,
	}, state.logProvider.Tagged("HTTP")).RegisterRoutes(router)

	return router, nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	router, err := buildRouter(state)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "http:build-router", "failed to build router", err)
	}

	cfg := state.config.Server
	httpServer := &http.Server{
		Addr:              cfg.IP + ":" + strconv.Itoa(cfg.Port),
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger := state.logProvider.Tagged("HTTP")

	g.Go(func() error {
		logger.Info("listening on http://%s", httpServer.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("http shutdown failed: %v", err)
			} else {
				logger.Info("http server stopped")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger platformlogging.Interface,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.Info("shutting down: %v", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown finished with error: %v", err)
			return err
		}
		logger.Info("all services stopped")
	case <-time.After(shutdownTimeout):
		logger.Error("shutdown timed out")
		return platformerrors.New(platformerrors.KindBootstrap, "bootstrap.shutdown", "shutdown timed out")
	}
	return nil
}

// close releases whatever the init steps managed to create, newest first.
func (s *appState) close() {
	if s.events != nil {
		s.events.Stop()
	}
	if s.sessions != nil {
		if err := s.sessions.Close(context.Background()); err != nil && s.logger != nil {
			s.logger.Warn("session store close failed: %v", err)
		}
	}
	if s.db != nil {
		if err := platformstorage.Close(s.db); err != nil && s.logger != nil {
			s.logger.Warn("database close failed: %v", err)
		}
	}
	if s.logProvider != nil {
		_ = s.logProvider.Close()
	}
}
