package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/domain/contact"
)

// ContactsHandler serves the contacts page.
type ContactsHandler struct {
	res resource[contact.Form, *pages.Contacts]
}

// NewContactsHandler wires the contacts page routes.
func NewContactsHandler(ws *Workspace) *ContactsHandler {
	return &ContactsHandler{res: resource[contact.Form, *pages.Contacts]{
		ws:    ws,
		name:  pages.NameContacts,
		build: pages.NewContacts,
		view:  func(p *pages.Contacts) any { return p.View() },
	}}
}

// List godoc
// @Summary      Contacts page
// @Description  Runs the session guard, re-fetches contacts and returns the filtered view.
// @Tags         contacts
// @Produce      json
// @Param        search  query     string  false  "Filter by name, email or company"
// @Success      200     {object}  responses.PageResponse
// @Failure      303     "No session; redirects to the auth route"
// @Router       /contacts [get]
func (h *ContactsHandler) List(c *gin.Context) { h.res.list(c) }

// Create godoc
// @Summary      Create a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body  body      contact.Form  true  "Contact draft"
// @Success      200   {object}  responses.PageResponse
// @Failure      422   {object}  responses.PageResponse
// @Failure      502   {object}  responses.PageResponse
// @Router       /contacts [post]
func (h *ContactsHandler) Create(c *gin.Context) { h.res.create(c) }

// Update godoc
// @Summary      Update a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Contact ID"
// @Param        body  body      contact.Form  true  "Fields to change"
// @Success      200   {object}  responses.PageResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /contacts/{id} [put]
func (h *ContactsHandler) Update(c *gin.Context) { h.res.update(c) }

// Delete godoc
// @Summary      Delete a contact
// @Tags         contacts
// @Produce      json
// @Param        id  path      string  true  "Contact ID"
// @Success      200 {object}  responses.PageResponse
// @Router       /contacts/{id} [delete]
func (h *ContactsHandler) Delete(c *gin.Context) { h.res.remove(c) }
