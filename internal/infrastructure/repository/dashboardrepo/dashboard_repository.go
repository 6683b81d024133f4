package dashboardrepo

import (
	"context"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/dashboard"
	"github.com/janhq/jan-crm/internal/domain/reminder"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Counter implements dashboard.Counter with exact remote counts.
type Counter struct {
	store backend.Store
}

var _ dashboard.Counter = (*Counter)(nil)

// New creates a counter bound to a backend store.
func New(store backend.Store) *Counter {
	return &Counter{store: store}
}

func (c *Counter) Contacts(ctx context.Context) (int64, error) {
	return c.count(ctx, backend.TableContacts)
}

func (c *Counter) Conversations(ctx context.Context) (int64, error) {
	return c.count(ctx, backend.TableConversations)
}

// PendingReminders counts reminders that are not yet completed.
func (c *Counter) PendingReminders(ctx context.Context) (int64, error) {
	return c.count(ctx, backend.TableReminders, backend.Eq("status", reminder.StatusPending.String()))
}

func (c *Counter) Templates(ctx context.Context) (int64, error) {
	return c.count(ctx, backend.TableTemplates)
}

func (c *Counter) count(ctx context.Context, table backend.Table, filters ...backend.Filter) (int64, error) {
	n, err := c.store.Count(ctx, table, filters...)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "count "+string(table))
	}
	return n, nil
}
