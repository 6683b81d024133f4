package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/infrastructure/metrics"
)

// Notifier routes notifications to the flash store and the live hub.
type Notifier struct {
	flash FlashStore
	hub   *Hub
	log   zerolog.Logger
}

// New creates a Notifier. hub may be nil when live delivery is disabled.
func New(flash FlashStore, hub *Hub, log zerolog.Logger) *Notifier {
	return &Notifier{flash: flash, hub: hub, log: log.With().Str("component", "notifier").Logger()}
}

// For returns the sink of session key. Delivery errors are logged, never
// returned to the caller.
func (n *Notifier) For(key string) notify.Sink {
	return notify.SinkFunc(func(ctx context.Context, note notify.Notification) {
		metrics.NotificationsTotal.WithLabelValues(note.Severity.String()).Inc()
		if n.hub != nil {
			n.hub.Publish(key, note)
		}
		if err := n.flash.Push(ctx, key, note); err != nil {
			n.log.Error().Err(err).Str("title", note.Title).Msg("store flash notification")
		}
	})
}

// Drain returns and forgets the pending notifications of key. A store failure
// yields no notifications.
func (n *Notifier) Drain(ctx context.Context, key string) []notify.Notification {
	out, err := n.flash.Drain(ctx, key)
	if err != nil {
		n.log.Error().Err(err).Msg("drain flash notifications")
		return nil
	}
	return out
}

// Hub returns the live hub, or nil.
func (n *Notifier) Hub() *Hub {
	return n.hub
}

// Forget drops everything held for key and disconnects its live clients.
func (n *Notifier) Forget(ctx context.Context, key string) {
	_ = n.Drain(ctx, key)
	if n.hub != nil {
		n.hub.Disconnect(key)
	}
}
