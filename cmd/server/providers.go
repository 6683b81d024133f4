package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/application/guard"
	"github.com/janhq/jan-crm/internal/bootstrap"
	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/notifier"
	"github.com/janhq/jan-crm/internal/infrastructure/viewstate"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/handlers"
)

func newBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*bootstrap.Backend, func(), error) {
	b, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}

func backendConnector(b *bootstrap.Backend) backend.Connector { return b.Connector }

func backendReadiness(b *bootstrap.Backend) httpserver.ReadinessCheck { return b.Ready }

func newFlashStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (notifier.FlashStore, func(), error) {
	var (
		flash notifier.FlashStore
		err   error
	)
	if cfg.FlashStore == config.FlashRedis {
		flash, err = notifier.NewRedisFlash(ctx, cfg.RedisURL, cfg.FlashCapacity, cfg.SessionTTL)
	} else {
		flash, err = notifier.NewMemoryFlash(cfg.ViewCacheSize, cfg.FlashCapacity)
	}
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closer, ok := flash.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error().Err(err).Msg("close flash store")
			}
		}
	}
	return flash, cleanup, nil
}

func newViewStore(cfg *config.Config) (*viewstate.Store, error) {
	return viewstate.New(cfg.ViewCacheSize)
}

func newHub(cfg *config.Config, log zerolog.Logger) *notifier.Hub {
	return notifier.NewHub(cfg.AllowedOrigins, log)
}

func newGuard(cfg *config.Config, log zerolog.Logger) *guard.Guard {
	return guard.New(cfg.AuthRoute, log)
}

func newHandlerProvider(ws *handlers.Workspace, cfg *config.Config) *handlers.Provider {
	return handlers.NewProvider(ws, handlers.CookieConfig{Name: cfg.SessionCookie, Secure: cfg.CookieSecure})
}
