package pages

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/application/guard"
	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// LandingRoute is where a signed-out visitor lands after signing out.
const LandingRoute = "/"

// Shell is the navigation frame around every page.
type Shell struct {
	auth backend.Auth
	sink notify.Sink
	log  zerolog.Logger
}

// NewShell builds the shell.
func NewShell(deps Deps) *Shell {
	deps = deps.withDefaults()
	return &Shell{auth: deps.Client, sink: deps.Sink, log: deps.Log.With().Str("component", "shell").Logger()}
}

// SignOut ends the session and navigates to the landing page. On failure the
// visitor stays where they are.
func (s *Shell) SignOut(ctx context.Context, nav guard.Navigator) bool {
	if err := s.auth.SignOut(ctx); err != nil {
		platformerrors.LogError(s.log, err)
		s.sink.Notify(ctx, notify.Failure("Failed to log out"))
		return false
	}
	nav.Redirect(LandingRoute)
	return true
}
