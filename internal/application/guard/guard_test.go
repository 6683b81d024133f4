package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/domain/backend"
)

type fakeAuth struct {
	session *backend.Session
	err     error
	calls   int
}

func (f *fakeAuth) GetSession(context.Context) (*backend.Session, error) {
	f.calls++
	return f.session, f.err
}

func (f *fakeAuth) GetUser(context.Context) (*backend.User, error) { return nil, nil }
func (f *fakeAuth) SignOut(context.Context) error                  { return nil }

func TestActivate(t *testing.T) {
	tests := []struct {
		name         string
		auth         *fakeAuth
		wantOK       bool
		wantRedirect string
		wantFetches  int
	}{
		{
			name:        "signed in",
			auth:        &fakeAuth{session: &backend.Session{User: backend.User{ID: "u1"}}},
			wantOK:      true,
			wantFetches: 1,
		},
		{
			name:         "no session",
			auth:         &fakeAuth{},
			wantRedirect: "/auth",
		},
		{
			name:         "lookup error",
			auth:         &fakeAuth{err: errors.New("auth down")},
			wantRedirect: "/auth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New("", zerolog.Nop())
			var redirected string
			fetches := 0

			ok := g.Activate(context.Background(), tt.auth, NavigatorFunc(func(p string) { redirected = p }), func(context.Context) { fetches++ })

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRedirect, redirected)
			assert.Equal(t, tt.wantFetches, fetches)
			require.Equal(t, 1, tt.auth.calls, "one session check per activation")
		})
	}
}

func TestCustomAuthRoute(t *testing.T) {
	g := New("/login", zerolog.Nop())
	var redirected string
	g.Activate(context.Background(), &fakeAuth{}, NavigatorFunc(func(p string) { redirected = p }), nil)
	assert.Equal(t, "/login", redirected)
	assert.Equal(t, "/login", g.AuthRoute())
}
