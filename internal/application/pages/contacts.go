package pages

import (
	"github.com/janhq/jan-crm/internal/application/listctl"
	"github.com/janhq/jan-crm/internal/domain/contact"
	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/infrastructure/repository/contactrepo"
)

// Contacts is the contact list page.
type Contacts struct {
	*listctl.Controller[contact.Contact, contact.Form]
}

// NewContacts builds the contacts page.
func NewContacts(deps Deps) *Contacts {
	deps = deps.withDefaults()
	return &Contacts{
		Controller: listctl.New(listctl.Config[contact.Contact, contact.Form]{
			Labels:  listctl.Labels{Singular: "contact", Plural: "contacts"},
			Repo:    contactrepo.New(deps.Client),
			Auth:    deps.Client,
			Sink:    deps.Sink,
			NewForm: contact.NewForm,
			FormOf:  contact.FormOf,
			Log:     deps.Log,
		}),
	}
}

// ContactRow is a contact with its status badge.
type ContactRow struct {
	contact.Contact
	Badge display.Badge `json:"badge"`
}

// ContactsView is the rendered state of the page.
type ContactsView struct {
	Loading bool                        `json:"loading"`
	Search  string                      `json:"search"`
	Total   int                         `json:"total"`
	Items   []ContactRow                `json:"items"`
	Dialog  listctl.State[contact.Form] `json:"dialog"`
}

// View renders the filtered contacts.
func (p *Contacts) View() ContactsView {
	visible := p.Visible()
	rows := make([]ContactRow, 0, len(visible))
	for _, c := range visible {
		rows = append(rows, ContactRow{Contact: c, Badge: c.Status.Badge()})
	}
	return ContactsView{
		Loading: p.Loading(),
		Search:  p.SearchTerm(),
		Total:   p.Len(),
		Items:   rows,
		Dialog:  p.DialogState(),
	}
}
