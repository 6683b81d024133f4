package contact

import (
	"context"
	"strings"
	"time"

	"github.com/janhq/jan-crm/internal/domain/forms"
	"github.com/janhq/jan-crm/internal/domain/textmatch"
)

// Contact is a person tracked by the signed-in user.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Company   *string   `json:"company"`
	Notes     *string   `json:"notes"`
	Tags      []string  `json:"tags"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the contact id.
func (c Contact) Key() string { return c.ID }

// Matches reports whether term occurs in the name, email or company.
func (c Contact) Matches(term string) bool {
	return textmatch.AnyContains(term, c.Name, textmatch.Deref(c.Email), textmatch.Deref(c.Company))
}

// Form is the editable draft of a contact.
type Form struct {
	Name    string `json:"name" validate:"notblank,max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email,max=320"`
	Company string `json:"company" validate:"max=200"`
	Notes   string `json:"notes" validate:"max=5000"`
	Status  Status `json:"status" validate:"enum"`
}

// NewForm returns an empty draft; new contacts start as leads.
func NewForm() Form {
	return Form{Status: StatusLead}
}

// FormOf loads an existing contact into a draft.
func FormOf(c Contact) Form {
	return Form{
		Name:    c.Name,
		Phone:   textmatch.Deref(c.Phone),
		Email:   textmatch.Deref(c.Email),
		Company: textmatch.Deref(c.Company),
		Notes:   textmatch.Deref(c.Notes),
		Status:  c.Status,
	}
}

// Normalized trims the surrounding whitespace of name and email.
func (f Form) Normalized() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

// Validate checks the normalized draft.
func (f Form) Validate(ctx context.Context) error {
	return forms.Validate(ctx, f.Normalized())
}

// Repository persists contacts for the signed-in user.
type Repository interface {
	List(ctx context.Context) ([]Contact, error)
	Create(ctx context.Context, userID string, form Form) error
	Update(ctx context.Context, id string, form Form) error
	Delete(ctx context.Context, id string) error
}
