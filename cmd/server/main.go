package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/infrastructure/logger"
	"github.com/janhq/jan-crm/internal/infrastructure/notifier"
	"github.com/janhq/jan-crm/internal/infrastructure/observability"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/handlers"
)

// @title Jan CRM
// @version 1.0
// @description WhatsApp-first CRM for small businesses: contacts, conversations, follow-ups and templates.
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	remote, closeBackend, err := newBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.BackendMode).Msg("initialize backend")
	}
	defer closeBackend()

	flash, closeFlash, err := newFlashStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("flash_store", cfg.FlashStore).Msg("initialize flash store")
	}
	defer closeFlash()

	views, err := newViewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize view cache")
	}

	n := notifier.New(flash, newHub(cfg, log), log)
	workspace := handlers.NewWorkspace(backendConnector(remote), views, n, newGuard(cfg, log), log)
	httpServer := httpserver.New(cfg, log, newHandlerProvider(workspace, cfg), backendReadiness(remote))
	app := NewApplication(httpServer, log)

	log.Info().
		Str("backend", cfg.BackendMode).
		Str("flash_store", cfg.FlashStore).
		Msg("starting jan-crm")
	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
