package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/domain/template"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// TemplatesHandler serves the message templates page.
type TemplatesHandler struct {
	res resource[template.Form, *pages.Templates]
}

// NewTemplatesHandler wires the templates page routes.
func NewTemplatesHandler(ws *Workspace) *TemplatesHandler {
	return &TemplatesHandler{res: resource[template.Form, *pages.Templates]{
		ws:    ws,
		name:  pages.NameTemplates,
		build: pages.NewTemplates,
		view:  func(p *pages.Templates) any { return p.View() },
	}}
}

// CopyResponse carries template content for the clipboard.
type CopyResponse struct {
	Content string `json:"content"`
	responses.PageResponse
}

// List godoc
// @Summary      Templates page
// @Tags         templates
// @Produce      json
// @Param        search  query     string  false  "Filter by name, content or category"
// @Success      200     {object}  responses.PageResponse
// @Router       /templates [get]
func (h *TemplatesHandler) List(c *gin.Context) { h.res.list(c) }

// Create godoc
// @Summary      Create a template
// @Description  A blank category becomes "general".
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        body  body      template.Form  true  "Template draft"
// @Success      200   {object}  responses.PageResponse
// @Router       /templates [post]
func (h *TemplatesHandler) Create(c *gin.Context) { h.res.create(c) }

// Update godoc
// @Summary      Update a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Template ID"
// @Param        body  body      template.Form  true  "Fields to change"
// @Success      200   {object}  responses.PageResponse
// @Router       /templates/{id} [put]
func (h *TemplatesHandler) Update(c *gin.Context) { h.res.update(c) }

// Delete godoc
// @Summary      Delete a template
// @Tags         templates
// @Produce      json
// @Param        id  path      string  true  "Template ID"
// @Success      200 {object}  responses.PageResponse
// @Router       /templates/{id} [delete]
func (h *TemplatesHandler) Delete(c *gin.Context) { h.res.remove(c) }

// Copy godoc
// @Summary      Copy a template
// @Description  Returns the template content verbatim; placeholders are not expanded.
// @Tags         templates
// @Produce      json
// @Param        id  path      string  true  "Template ID"
// @Success      200 {object}  CopyResponse
// @Failure      404 {object}  responses.ErrorResponse
// @Router       /templates/{id}/copy [post]
func (h *TemplatesHandler) Copy(c *gin.Context) {
	v, p, ok := h.res.open(c, false)
	if !ok {
		return
	}
	content, found := p.Copy(c.Request.Context(), c.Param("id"))
	if !found {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "template not found", "5f0c2d7e-8a41-4b39-9e16-3c7d2a9b1e04")
		return
	}
	c.JSON(http.StatusOK, CopyResponse{
		Content:      content,
		PageResponse: responses.PageResponse{View: p.View(), Notifications: h.res.ws.drain(c, v)},
	})
}
