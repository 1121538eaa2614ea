package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kode4food/flowdesk"
	"github.com/kode4food/flowdesk/internal/config"
	"github.com/kode4food/flowdesk/internal/i18n"
	"github.com/kode4food/flowdesk/internal/mock"
	"github.com/kode4food/flowdesk/internal/mock/fixtures"
	"github.com/kode4food/flowdesk/internal/server"
	"github.com/kode4food/flowdesk/internal/settings"
	"github.com/kode4food/flowdesk/pkg/log"
)

type flowdeskMock struct {
	cfg        *config.Config
	settings   *settings.Store
	locale     *i18n.Store
	router     *mock.Router
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var (
	ErrOpenSettings  = errors.New("failed to open settings store")
	ErrLoadCatalogs  = errors.New("failed to load locale catalogs")
	ErrLocaleOverlay = errors.New("failed to apply locale overlay")
)

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &flowdeskMock{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *flowdeskMock) run() error {
	ctx := context.Background()
	if err := s.initialize(ctx); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *flowdeskMock) initialize(ctx context.Context) error {
	if err := s.initializeLocale(ctx); err != nil {
		return err
	}
	if err := s.initializeSettings(ctx); err != nil {
		return err
	}
	return s.initializeRouter()
}

func (s *flowdeskMock) setupLogging() {
	level, ok := log.ParseLevel(s.cfg.LogLevel)
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(flowdesk.Name, env, flowdesk.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("Flowdesk mock starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("bypass_policy", s.cfg.BypassPolicy),
		slog.Duration("response_delay", s.cfg.ResponseDelay),
		slog.String("settings_backend", s.cfg.Settings.Backend),
		slog.String("settings_redis_addr", s.cfg.Settings.Addr),
		slog.Int("settings_redis_db", s.cfg.Settings.DB),
		slog.String("default_language", s.cfg.DefaultLanguage),
		slog.String("locale_bucket_url", s.cfg.LocaleBucketURL),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort))
}

func (s *flowdeskMock) initializeLocale(ctx context.Context) error {
	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadCatalogs, err)
	}
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadCatalogs, err)
	}
	s.locale = i18n.NewStore(catalog, s.cfg.DefaultLanguage)

	if s.cfg.LocaleBucketURL == "" {
		return nil
	}
	n, err := i18n.OverlayFromURL(
		ctx, s.locale, s.cfg.LocaleBucketURL, s.cfg.LocalePrefix,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocaleOverlay, err)
	}
	slog.Info("Locale overlays loaded",
		slog.Int("files", n),
		slog.Any("languages", s.locale.Languages()))
	return nil
}

func (s *flowdeskMock) initializeSettings(ctx context.Context) error {
	store, err := settings.Open(ctx, s.cfg.Settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenSettings, err)
	}
	s.settings = store
	return nil
}

func (s *flowdeskMock) initializeRouter() error {
	policy, err := mock.ParseBypassPolicy(s.cfg.BypassPolicy)
	if err != nil {
		return err
	}
	s.router = fixtures.NewRouter(mock.Config{
		Policy: policy,
		Delay:  s.cfg.ResponseDelay,
	})
	return nil
}

func (s *flowdeskMock) startServer() {
	s.apiServer = server.NewServer(s.router, s.settings, s.locale)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *flowdeskMock) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()

	if err := s.settings.Close(); err != nil {
		slog.Error("Settings shutdown failed", log.Error(err))
	}

	slog.Info("Server exited")
}
