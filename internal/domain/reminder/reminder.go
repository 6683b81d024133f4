package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/domain/forms"
	"github.com/janhq/jan-crm/internal/domain/textmatch"
)

// ContactRef is the embedded contact a reminder is about.
type ContactRef struct {
	Name string `json:"name"`
}

// Reminder is a dated follow-up task.
type Reminder struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	DueDate     time.Time   `json:"due_date"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	ContactID   *string     `json:"contact_id"`
	CreatedAt   time.Time   `json:"created_at"`
	Contact     *ContactRef `json:"contact"`
}

// Key returns the reminder id.
func (r Reminder) Key() string { return r.ID }

// Overdue reports whether a pending reminder is past its due date at now.
func (r Reminder) Overdue(now time.Time) bool {
	return r.Status == StatusPending && r.DueDate.Before(now)
}

// DisplayBadge is the status badge, switched to overdue when applicable.
func (r Reminder) DisplayBadge(now time.Time) display.Badge {
	if r.Overdue(now) {
		return OverdueBadge
	}
	return r.Status.Badge()
}

// Matches reports whether term occurs in the title or description.
func (r Reminder) Matches(term string) bool {
	return textmatch.AnyContains(term, r.Title, textmatch.Deref(r.Description))
}

// Split partitions reminders into pending and completed, keeping order.
func Split(items []Reminder) (pending, completed []Reminder) {
	pending, completed = []Reminder{}, []Reminder{}
	for _, r := range items {
		if r.Status == StatusCompleted {
			completed = append(completed, r)
		} else {
			pending = append(pending, r)
		}
	}
	return pending, completed
}

// Form is the editable draft of a reminder.
type Form struct {
	Title       string    `json:"title" validate:"notblank,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Priority    Priority  `json:"priority" validate:"enum"`
	ContactID   string    `json:"contact_id"`
}

// NewForm returns an empty draft with medium priority.
func NewForm() Form {
	return Form{Priority: PriorityMedium}
}

// FormOf loads an existing reminder into a draft.
func FormOf(r Reminder) Form {
	return Form{
		Title:       r.Title,
		Description: textmatch.Deref(r.Description),
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		ContactID:   textmatch.Deref(r.ContactID),
	}
}

// Normalized trims the surrounding whitespace of the title.
func (f Form) Normalized() Form {
	f.Title = strings.TrimSpace(f.Title)
	return f
}

// Validate checks the normalized draft.
func (f Form) Validate(ctx context.Context) error {
	return forms.Validate(ctx, f.Normalized())
}

// Repository persists reminders for the signed-in user.
type Repository interface {
	List(ctx context.Context) ([]Reminder, error)
	Create(ctx context.Context, userID string, form Form) error
	Update(ctx context.Context, id string, form Form) error
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
