package pages

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/jan-crm/internal/domain/dashboard"
	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/infrastructure/repository/dashboardrepo"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Dashboard shows headline counts.
type Dashboard struct {
	counter dashboard.Counter
	sink    notify.Sink
	log     zerolog.Logger

	mu      sync.Mutex
	stats   dashboard.Stats
	loading bool
}

// NewDashboard builds the dashboard page.
func NewDashboard(deps Deps) *Dashboard {
	deps = deps.withDefaults()
	return &Dashboard{
		counter: dashboardrepo.New(deps.Client),
		sink:    deps.Sink,
		log:     deps.Log.With().Str("component", "dashboard-page").Logger(),
		loading: true,
	}
}

// Fetch runs the four counts in parallel. A failed count shows as zero and
// the failure is reported once.
func (p *Dashboard) Fetch(ctx context.Context) bool {
	var stats dashboard.Stats
	var (
		failMu sync.Mutex
		failed bool
	)
	count := func(dst *int64, fn func(context.Context) (int64, error)) func() error {
		return func() error {
			n, err := fn(ctx)
			if err != nil {
				platformerrors.LogError(p.log, err)
				failMu.Lock()
				failed = true
				failMu.Unlock()
				return nil
			}
			*dst = n
			return nil
		}
	}

	var g errgroup.Group
	g.Go(count(&stats.Contacts, p.counter.Contacts))
	g.Go(count(&stats.Conversations, p.counter.Conversations))
	g.Go(count(&stats.PendingReminders, p.counter.PendingReminders))
	g.Go(count(&stats.Templates, p.counter.Templates))
	_ = g.Wait()

	p.mu.Lock()
	p.stats = stats
	p.loading = false
	p.mu.Unlock()

	if failed {
		p.sink.Notify(ctx, notify.Failure("Failed to fetch dashboard stats"))
	}
	return !failed
}

// DashboardView is the rendered state of the page.
type DashboardView struct {
	Loading bool            `json:"loading"`
	Stats   dashboard.Stats `json:"stats"`
}

// View renders the latest counts.
func (p *Dashboard) View() DashboardView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return DashboardView{Loading: p.loading, Stats: p.stats}
}
