package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/application/guard"
	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/infrastructure/notifier"
	"github.com/janhq/jan-crm/internal/infrastructure/viewstate"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/responses"
)

// Workspace binds each request to its visitor: a backend client for the
// session token, the session's notification sink and its cached pages.
type Workspace struct {
	conn     backend.Connector
	views    *viewstate.Store
	notifier *notifier.Notifier
	guard    *guard.Guard
	log      zerolog.Logger
	now      func() time.Time
}

// NewWorkspace creates a workspace.
func NewWorkspace(conn backend.Connector, views *viewstate.Store, n *notifier.Notifier, g *guard.Guard, log zerolog.Logger) *Workspace {
	return &Workspace{conn: conn, views: views, notifier: n, guard: g, log: log, now: time.Now}
}

type visitor struct {
	key    string
	client backend.Client
	sink   notify.Sink
}

func (w *Workspace) visitor(c *gin.Context) visitor {
	token := middlewares.TokenFromContext(c)
	key := viewstate.SessionKey(token)
	v := visitor{key: key, client: w.conn.Connect(token), sink: notify.Discard}
	if key != "" {
		v.sink = w.notifier.For(key)
	}
	return v
}

func (w *Workspace) deps(v visitor) pages.Deps {
	return pages.Deps{Client: v.client, Sink: v.sink, Log: w.log, Now: w.now}
}

// page returns the visitor's cached page, building it on first use. Anonymous
// visitors get a fresh, uncached page.
func page[T any](w *Workspace, v visitor, name pages.Name, build func(pages.Deps) T) (T, bool) {
	if v.key == "" {
		return build(w.deps(v)), true
	}
	return viewstate.Page(w.views, v.key, string(name), func() T { return build(w.deps(v)) })
}

type redirector struct {
	to string
}

func (r *redirector) Redirect(path string) { r.to = path }

// admit runs the session guard. Without a session it answers 303 See Other to
// the auth route.
func (w *Workspace) admit(c *gin.Context, v visitor) bool {
	nav := &redirector{}
	if w.guard.Activate(c.Request.Context(), v.client, nav, nil) {
		return true
	}
	c.Redirect(http.StatusSeeOther, nav.to)
	c.Abort()
	return false
}

// enter admits the visitor and only then returns its cached page, so signed-out
// requests never occupy the view cache. The page is fetched when refresh is
// set or when this call built it, so mutations act on a loaded collection.
func enter[T pages.Page](w *Workspace, c *gin.Context, v visitor, name pages.Name, build func(pages.Deps) T, refresh bool) (T, bool) {
	if !w.admit(c, v) {
		var zero T
		return zero, false
	}
	p, created := page(w, v, name, build)
	if created || refresh {
		p.Fetch(c.Request.Context())
	}
	return p, true
}

func (w *Workspace) drain(c *gin.Context, v visitor) []notify.Notification {
	var out []notify.Notification
	if v.key != "" {
		out = w.notifier.Drain(c.Request.Context(), v.key)
	}
	if out == nil {
		out = []notify.Notification{}
	}
	return out
}

// forget drops everything held for the visitor's session.
func (w *Workspace) forget(c *gin.Context, v visitor) {
	if v.key == "" {
		return
	}
	w.views.Forget(v.key)
	w.notifier.Forget(c.Request.Context(), v.key)
}

func (w *Workspace) respond(c *gin.Context, v visitor, view any) {
	responses.Page(c, http.StatusOK, nil, view, w.drain(c, v))
}
