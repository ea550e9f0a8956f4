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

	app "github.com/0STG0T/t1-solution-2"
	"github.com/0STG0T/t1-solution-2/internal/config"
	"github.com/0STG0T/t1-solution-2/internal/export"
	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/internal/relay"
	"github.com/0STG0T/t1-solution-2/internal/server"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

type kwin struct {
	cfg        *config.Config
	registry   *flow.Registry
	chat       relay.Backend
	exporter   *export.BlobExporter
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var (
	ErrCreateRegistry    = errors.New("failed to create editor registry")
	ErrCreateChatBackend = errors.New("failed to create chat backend")
	ErrCreateExporter    = errors.New("failed to create flow exporter")
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

	s := &kwin{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *kwin) run() error {
	if err := s.initialize(context.Background()); err != nil {
		s.release()
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *kwin) setupLogging() {
	level, _ := log.ParseLevel(s.cfg.LogLevel)

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("Flow editor starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort),
		slog.String("id_scheme", string(s.cfg.IDScheme)),
		slog.Int("editor_cache_size", s.cfg.EditorCacheSize),
		slog.String("chat_backend", string(s.cfg.ChatBackend)),
		slog.Bool("export_enabled", s.cfg.ExportEnabled()))
}

func (s *kwin) initialize(ctx context.Context) error {
	var err error

	s.registry, err = flow.NewRegistry(s.cfg.FlowOptions())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateRegistry, err)
	}

	s.chat, err = newChatBackend(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateChatBackend, err)
	}

	if s.cfg.ExportEnabled() {
		s.exporter, err = export.NewBlobExporter(
			ctx, s.cfg.ExportBucketURL, s.cfg.ExportPrefix,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCreateExporter, err)
		}
	}
	return nil
}

func newChatBackend(
	ctx context.Context, cfg *config.Config,
) (relay.Backend, error) {
	switch cfg.ChatBackend {
	case config.ChatBackendRedis:
		b, err := relay.NewRedisBackend(ctx, cfg.ChatRedis)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return relay.EchoBackend{}, nil
	}
}

func (s *kwin) startServer() {
	// a typed nil exporter would defeat the server's disabled check
	var exp server.Exporter
	if s.exporter != nil {
		exp = s.exporter
	}
	s.apiServer = server.NewServer(s.registry, s.chat, exp)
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

func (s *kwin) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()
	s.release()

	slog.Info("Server exited")
}

func (s *kwin) release() {
	if s.registry != nil {
		s.registry.CloseAll()
	}
	if s.chat != nil {
		if err := s.chat.Close(); err != nil {
			slog.Error("Chat backend shutdown failed", log.Error(err))
		}
	}
	if s.exporter != nil {
		if err := s.exporter.Close(); err != nil {
			slog.Error("Exporter shutdown failed", log.Error(err))
		}
	}
}
