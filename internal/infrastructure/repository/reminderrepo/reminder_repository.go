package reminderrepo

import (
	"context"
	"time"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/reminder"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Repository implements reminder.Repository over the reminders table.
type Repository struct {
	store backend.Store
}

var _ reminder.Repository = (*Repository)(nil)

// New creates a reminder repository bound to a backend store.
func New(store backend.Store) *Repository {
	return &Repository{store: store}
}

type insertRow struct {
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	Priority    reminder.Priority `json:"priority"`
	Status      reminder.Status   `json:"status"`
	ContactID   *string           `json:"contact_id"`
}

type updateRow struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	Priority    reminder.Priority `json:"priority"`
	ContactID   *string           `json:"contact_id"`
}

type statusRow struct {
	Status reminder.Status `json:"status"`
}

// List returns reminders with their contact name, soonest due first.
func (r *Repository) List(ctx context.Context) ([]reminder.Reminder, error) {
	raw, err := r.store.Select(ctx, backend.TableReminders, backend.Query{
		Embed: &backend.Embed{
			Alias:      "contact",
			Table:      backend.TableContacts,
			ForeignKey: "contact_id",
			Columns:    []string{"name"},
		},
		Order: &backend.Order{Column: "due_date", Ascending: true},
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "select reminders")
	}
	items, err := backend.Decode[reminder.Reminder](raw)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "decode reminders", err, "c4e2a9d3-1f7b-4d0a-b6e5-3a9f8c2d1e31")
	}
	return items, nil
}

// Create inserts a pending reminder owned by userID.
func (r *Repository) Create(ctx context.Context, userID string, form reminder.Form) error {
	form = form.Normalized()
	row := insertRow{
		UserID:      userID,
		Title:       form.Title,
		Description: form.Description,
		DueDate:     form.DueDate.UTC(),
		Priority:    form.Priority,
		Status:      reminder.StatusPending,
		ContactID:   optional(form.ContactID),
	}
	if err := r.store.Insert(ctx, backend.TableReminders, row); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "insert reminder")
	}
	return nil
}

// Update overwrites the editable fields of reminder id, leaving its status alone.
func (r *Repository) Update(ctx context.Context, id string, form reminder.Form) error {
	form = form.Normalized()
	patch := updateRow{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     form.DueDate.UTC(),
		Priority:    form.Priority,
		ContactID:   optional(form.ContactID),
	}
	if err := r.store.Update(ctx, backend.TableReminders, patch, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "update reminder")
	}
	return nil
}

// Complete marks reminder id as completed; no other column is written.
func (r *Repository) Complete(ctx context.Context, id string) error {
	if err := r.store.Update(ctx, backend.TableReminders, statusRow{Status: reminder.StatusCompleted}, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "complete reminder")
	}
	return nil
}

// Delete removes reminder id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, backend.TableReminders, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "delete reminder")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
