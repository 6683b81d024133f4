package template

import (
	"context"
	"strings"
	"time"

	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/domain/forms"
	"github.com/janhq/jan-crm/internal/domain/textmatch"
)

// DefaultCategory is applied to drafts that do not name one.
const DefaultCategory = "general"

// Placeholder is substituted by whoever sends the template; it is stored verbatim here.
const Placeholder = "{{name}}"

// Template is a reusable message body.
type Template struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the template id.
func (t Template) Key() string { return t.ID }

// Matches reports whether term occurs in the name or content.
func (t Template) Matches(term string) bool {
	return textmatch.AnyContains(term, t.Name, t.Content)
}

// HasPlaceholder reports whether the content addresses the recipient by name.
func (t Template) HasPlaceholder() bool {
	return strings.Contains(t.Content, Placeholder)
}

// Kind classifies a free-form category for display.
type Kind int

const (
	KindGeneral Kind = iota
	KindGreeting
	KindFollowup
	KindClosing
	KindCustom
	kindCount
)

var kindNames = [...]string{
	KindGeneral:  "general",
	KindGreeting: "greeting",
	KindFollowup: "followup",
	KindClosing:  "closing",
	KindCustom:   "custom",
}

var kindTones = [...]display.Tone{
	KindGeneral:  display.ToneMuted,
	KindGreeting: display.ToneSuccess,
	KindFollowup: display.ToneInfo,
	KindClosing:  display.ToneWarning,
	KindCustom:   display.ToneMuted,
}

const (
	_ = uint(len(kindNames) - int(kindCount))
	_ = uint(int(kindCount) - len(kindNames))
	_ = uint(len(kindTones) - int(kindCount))
	_ = uint(int(kindCount) - len(kindTones))
)

// KindOf maps a category to its display kind; unrecognised categories are KindCustom.
func KindOf(category string) Kind {
	normalized := strings.ToLower(strings.TrimSpace(category))
	for k := KindGeneral; k < KindCustom; k++ {
		if kindNames[k] == normalized {
			return k
		}
	}
	return KindCustom
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "custom"
	}
	return kindNames[k]
}

// Tone returns the badge color family for k.
func (k Kind) Tone() display.Tone {
	if k < 0 || k >= kindCount {
		return display.ToneMuted
	}
	return kindTones[k]
}

// Form is the editable draft of a template.
type Form struct {
	Name     string `json:"name" validate:"notblank,max=200"`
	Content  string `json:"content" validate:"notblank,max=10000"`
	Category string `json:"category" validate:"max=100"`
}

// NewForm returns an empty draft in the general category.
func NewForm() Form {
	return Form{Category: DefaultCategory}
}

// FormOf loads an existing template into a draft.
func FormOf(t Template) Form {
	return Form{Name: t.Name, Content: t.Content, Category: t.Category}
}

// Normalized fills in the default category.
func (f Form) Normalized() Form {
	if strings.TrimSpace(f.Category) == "" {
		f.Category = DefaultCategory
	}
	return f
}

// Validate checks the draft.
func (f Form) Validate(ctx context.Context) error {
	return forms.Validate(ctx, f)
}

// Repository persists templates for the signed-in user.
type Repository interface {
	List(ctx context.Context) ([]Template, error)
	Create(ctx context.Context, userID string, form Form) error
	Update(ctx context.Context, id string, form Form) error
	Delete(ctx context.Context, id string) error
}
