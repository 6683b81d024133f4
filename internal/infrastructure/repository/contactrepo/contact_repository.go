package contactrepo

import (
	"context"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/contact"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Repository implements contact.Repository over the remote contacts table.
type Repository struct {
	store backend.Store
}

var _ contact.Repository = (*Repository)(nil)

// New creates a contact repository bound to a backend store.
func New(store backend.Store) *Repository {
	return &Repository{store: store}
}

type insertRow struct {
	UserID  string         `json:"user_id"`
	Name    string         `json:"name"`
	Phone   string         `json:"phone"`
	Email   string         `json:"email"`
	Company string         `json:"company"`
	Notes   string         `json:"notes"`
	Tags    []string       `json:"tags"`
	Status  contact.Status `json:"status"`
}

type updateRow struct {
	Name    string         `json:"name"`
	Phone   string         `json:"phone"`
	Email   string         `json:"email"`
	Company string         `json:"company"`
	Notes   string         `json:"notes"`
	Status  contact.Status `json:"status"`
}

// List returns every contact, newest first.
func (r *Repository) List(ctx context.Context) ([]contact.Contact, error) {
	raw, err := r.store.Select(ctx, backend.TableContacts, backend.Query{
		Order: &backend.Order{Column: "created_at"},
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "select contacts")
	}
	items, err := backend.Decode[contact.Contact](raw)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "decode contacts", err, "8d1c1f8e-54a2-4b0e-9a53-6c1b1d0f7a11")
	}
	return items, nil
}

// Create inserts a contact owned by userID with an empty tag list.
func (r *Repository) Create(ctx context.Context, userID string, form contact.Form) error {
	form = form.Normalized()
	row := insertRow{
		UserID:  userID,
		Name:    form.Name,
		Phone:   form.Phone,
		Email:   form.Email,
		Company: form.Company,
		Notes:   form.Notes,
		Tags:    []string{},
		Status:  form.Status,
	}
	if err := r.store.Insert(ctx, backend.TableContacts, row); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "insert contact")
	}
	return nil
}

// Update overwrites the editable fields of contact id.
func (r *Repository) Update(ctx context.Context, id string, form contact.Form) error {
	form = form.Normalized()
	patch := updateRow{
		Name:    form.Name,
		Phone:   form.Phone,
		Email:   form.Email,
		Company: form.Company,
		Notes:   form.Notes,
		Status:  form.Status,
	}
	if err := r.store.Update(ctx, backend.TableContacts, patch, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "update contact")
	}
	return nil
}

// Delete removes contact id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, backend.TableContacts, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "delete contact")
	}
	return nil
}
