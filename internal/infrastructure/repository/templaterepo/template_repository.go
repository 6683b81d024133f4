package templaterepo

import (
	"context"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/template"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Repository implements template.Repository over the templates table.
type Repository struct {
	store backend.Store
}

var _ template.Repository = (*Repository)(nil)

// New creates a template repository bound to a backend store.
func New(store backend.Store) *Repository {
	return &Repository{store: store}
}

type insertRow struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type updateRow struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// List returns every template, newest first.
func (r *Repository) List(ctx context.Context) ([]template.Template, error) {
	raw, err := r.store.Select(ctx, backend.TableTemplates, backend.Query{
		Order: &backend.Order{Column: "created_at"},
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "select templates")
	}
	items, err := backend.Decode[template.Template](raw)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "decode templates", err, "e1a7b3c9-6d2f-4e18-a0c4-5b9d7f3e2a41")
	}
	return items, nil
}

// Create inserts a template owned by userID.
func (r *Repository) Create(ctx context.Context, userID string, form template.Form) error {
	form = form.Normalized()
	row := insertRow{UserID: userID, Name: form.Name, Content: form.Content, Category: form.Category}
	if err := r.store.Insert(ctx, backend.TableTemplates, row); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "insert template")
	}
	return nil
}

// Update overwrites template id.
func (r *Repository) Update(ctx context.Context, id string, form template.Form) error {
	form = form.Normalized()
	patch := updateRow{Name: form.Name, Content: form.Content, Category: form.Category}
	if err := r.store.Update(ctx, backend.TableTemplates, patch, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "update template")
	}
	return nil
}

// Delete removes template id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, backend.TableTemplates, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "delete template")
	}
	return nil
}
