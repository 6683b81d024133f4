package pages

import (
	"context"
	"time"

	"github.com/janhq/jan-crm/internal/application/listctl"
	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/domain/reminder"
	"github.com/janhq/jan-crm/internal/infrastructure/repository/reminderrepo"
)

// Reminders is the follow-ups page.
type Reminders struct {
	*listctl.Controller[reminder.Reminder, reminder.Form]
	repo reminder.Repository
	now  func() time.Time
}

// NewReminders builds the follow-ups page.
func NewReminders(deps Deps) *Reminders {
	deps = deps.withDefaults()
	repo := reminderrepo.New(deps.Client)
	return &Reminders{
		Controller: listctl.New(listctl.Config[reminder.Reminder, reminder.Form]{
			Labels:  listctl.Labels{Singular: "reminder", Plural: "reminders"},
			Repo:    repo,
			Auth:    deps.Client,
			Sink:    deps.Sink,
			NewForm: reminder.NewForm,
			FormOf:  reminder.FormOf,
			Log:     deps.Log,
		}),
		repo: repo,
		now:  deps.Now,
	}
}

// Complete marks reminder id as completed; nothing else about it changes.
func (p *Reminders) Complete(ctx context.Context, id string) listctl.Result {
	return p.Run(ctx, func(ctx context.Context) error {
		return p.repo.Complete(ctx, id)
	}, "Reminder marked as completed", "Failed to update reminder")
}

// ReminderRow is a reminder with its badges.
type ReminderRow struct {
	reminder.Reminder
	Badge         display.Badge `json:"badge"`
	PriorityBadge display.Badge `json:"priority_badge"`
	Overdue       bool          `json:"overdue"`
}

// RemindersView is the rendered state of the page.
type RemindersView struct {
	Loading   bool                         `json:"loading"`
	Search    string                       `json:"search"`
	Total     int                          `json:"total"`
	Pending   []ReminderRow                `json:"pending"`
	Completed []ReminderRow                `json:"completed"`
	Dialog    listctl.State[reminder.Form] `json:"dialog"`
}

// View renders the filtered reminders split into pending and completed.
func (p *Reminders) View() RemindersView {
	now := p.now()
	pending, completed := reminder.Split(p.Visible())
	return RemindersView{
		Loading:   p.Loading(),
		Search:    p.SearchTerm(),
		Total:     p.Len(),
		Pending:   reminderRows(pending, now),
		Completed: reminderRows(completed, now),
		Dialog:    p.DialogState(),
	}
}

func reminderRows(items []reminder.Reminder, now time.Time) []ReminderRow {
	rows := make([]ReminderRow, 0, len(items))
	for _, r := range items {
		rows = append(rows, ReminderRow{
			Reminder:      r,
			Badge:         r.DisplayBadge(now),
			PriorityBadge: r.Priority.Badge(),
			Overdue:       r.Overdue(now),
		})
	}
	return rows
}
