//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/infrastructure/notifier"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/handlers"
)

var backendSet = wire.NewSet(
	newBackend,
	backendConnector,
	backendReadiness,
)

var notificationSet = wire.NewSet(
	newFlashStore,
	newHub,
	notifier.New,
)

var pageSet = wire.NewSet(
	newViewStore,
	newGuard,
	handlers.NewWorkspace,
	newHandlerProvider,
)

// BuildApplication assembles the CRM service with Wire.
func BuildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	wire.Build(
		backendSet,
		notificationSet,
		pageSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}
