// Package guard gates page activation on an existing session.
package guard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Navigator changes the current route.
type Navigator interface {
	Redirect(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Redirect(path string) { f(path) }

// Guard checks the session once per page activation.
type Guard struct {
	authRoute string
	log       zerolog.Logger
}

// New creates a guard that sends signed-out visitors to authRoute.
func New(authRoute string, log zerolog.Logger) *Guard {
	if authRoute == "" {
		authRoute = "/auth"
	}
	return &Guard{authRoute: authRoute, log: log.With().Str("component", "session-guard").Logger()}
}

// AuthRoute returns the redirect target for signed-out visitors.
func (g *Guard) AuthRoute() string { return g.authRoute }

// Activate asks auth for the current session. Without one it redirects to the
// auth route and returns false; otherwise it runs onAuthorized exactly once.
// A failed lookup counts as signed out.
func (g *Guard) Activate(ctx context.Context, auth backend.Auth, nav Navigator, onAuthorized func(context.Context)) bool {
	session, err := auth.GetSession(ctx)
	if err != nil {
		platformerrors.LogError(g.log, err)
		session = nil
	}
	if session == nil {
		nav.Redirect(g.authRoute)
		return false
	}
	if onAuthorized != nil {
		onAuthorized(ctx)
	}
	return true
}
