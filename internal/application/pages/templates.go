package pages

import (
	"context"

	"github.com/janhq/jan-crm/internal/application/listctl"
	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/domain/template"
	"github.com/janhq/jan-crm/internal/infrastructure/repository/templaterepo"
)

// Templates is the message template page.
type Templates struct {
	*listctl.Controller[template.Template, template.Form]
	sink notify.Sink
}

// NewTemplates builds the templates page.
func NewTemplates(deps Deps) *Templates {
	deps = deps.withDefaults()
	return &Templates{
		Controller: listctl.New(listctl.Config[template.Template, template.Form]{
			Labels:  listctl.Labels{Singular: "template", Plural: "templates"},
			Repo:    templaterepo.New(deps.Client),
			Auth:    deps.Client,
			Sink:    deps.Sink,
			NewForm: template.NewForm,
			FormOf:  template.FormOf,
			Log:     deps.Log,
		}),
		sink: deps.Sink,
	}
}

// Copy returns the content of template id for the clipboard.
func (p *Templates) Copy(ctx context.Context, id string) (string, bool) {
	t, ok := p.Find(id)
	if !ok {
		return "", false
	}
	p.sink.Notify(ctx, notify.Notification{Title: "Copied!", Description: "Template copied to clipboard"})
	return t.Content, true
}

// TemplateRow is a template with its category styling.
type TemplateRow struct {
	template.Template
	Kind           string       `json:"kind"`
	Tone           display.Tone `json:"tone"`
	HasPlaceholder bool         `json:"has_placeholder"`
}

// TemplatesView is the rendered state of the page.
type TemplatesView struct {
	Loading bool                         `json:"loading"`
	Search  string                       `json:"search"`
	Total   int                          `json:"total"`
	Items   []TemplateRow                `json:"items"`
	Dialog  listctl.State[template.Form] `json:"dialog"`
}

// View renders the filtered templates.
func (p *Templates) View() TemplatesView {
	visible := p.Visible()
	rows := make([]TemplateRow, 0, len(visible))
	for _, t := range visible {
		kind := template.KindOf(t.Category)
		rows = append(rows, TemplateRow{
			Template:       t,
			Kind:           kind.String(),
			Tone:           kind.Tone(),
			HasPlaceholder: t.HasPlaceholder(),
		})
	}
	return TemplatesView{
		Loading: p.Loading(),
		Search:  p.SearchTerm(),
		Total:   p.Len(),
		Items:   rows,
		Dialog:  p.DialogState(),
	}
}
