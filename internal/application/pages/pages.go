// Package pages composes the session guard and list controllers into the
// screens of the CRM.
package pages

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/notify"
)

// Name identifies a page.
type Name string

const (
	NameDashboard     Name = "dashboard"
	NameContacts      Name = "contacts"
	NameConversations Name = "conversations"
	NameFollowUps     Name = "follow-ups"
	NameTemplates     Name = "templates"
)

// Deps are the handles every page is built from. Client is bound to the
// visitor's session.
type Deps struct {
	Client backend.Client
	Sink   notify.Sink
	Log    zerolog.Logger
	Now    func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Sink == nil {
		d.Sink = notify.Discard
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Page is a screen whose data is loaded on activation.
type Page interface {
	Fetch(ctx context.Context) bool
}
