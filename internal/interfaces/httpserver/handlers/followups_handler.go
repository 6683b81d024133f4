package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/domain/reminder"
)

// FollowUpsHandler serves the reminders page.
type FollowUpsHandler struct {
	res resource[reminder.Form, *pages.Reminders]
}

// NewFollowUpsHandler wires the follow-ups page routes.
func NewFollowUpsHandler(ws *Workspace) *FollowUpsHandler {
	return &FollowUpsHandler{res: resource[reminder.Form, *pages.Reminders]{
		ws:    ws,
		name:  pages.NameFollowUps,
		build: pages.NewReminders,
		view:  func(p *pages.Reminders) any { return p.View() },
	}}
}

// List godoc
// @Summary      Follow-ups page
// @Description  Reminders split into pending and completed; overdue pending reminders are flagged.
// @Tags         follow-ups
// @Produce      json
// @Param        search  query     string  false  "Filter by title or description"
// @Success      200     {object}  responses.PageResponse
// @Router       /follow-ups [get]
func (h *FollowUpsHandler) List(c *gin.Context) { h.res.list(c) }

// Create godoc
// @Summary      Create a reminder
// @Description  New reminders are always pending.
// @Tags         follow-ups
// @Accept       json
// @Produce      json
// @Param        body  body      reminder.Form  true  "Reminder draft"
// @Success      200   {object}  responses.PageResponse
// @Router       /follow-ups [post]
func (h *FollowUpsHandler) Create(c *gin.Context) { h.res.create(c) }

// Update godoc
// @Summary      Update a reminder
// @Description  Status is not editable here; use complete.
// @Tags         follow-ups
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Reminder ID"
// @Param        body  body      reminder.Form  true  "Fields to change"
// @Success      200   {object}  responses.PageResponse
// @Router       /follow-ups/{id} [put]
func (h *FollowUpsHandler) Update(c *gin.Context) { h.res.update(c) }

// Delete godoc
// @Summary      Delete a reminder
// @Tags         follow-ups
// @Produce      json
// @Param        id  path      string  true  "Reminder ID"
// @Success      200 {object}  responses.PageResponse
// @Router       /follow-ups/{id} [delete]
func (h *FollowUpsHandler) Delete(c *gin.Context) { h.res.remove(c) }

// Complete godoc
// @Summary      Mark a reminder completed
// @Tags         follow-ups
// @Produce      json
// @Param        id  path      string  true  "Reminder ID"
// @Success      200 {object}  responses.PageResponse
// @Failure      502 {object}  responses.PageResponse
// @Router       /follow-ups/{id}/complete [post]
func (h *FollowUpsHandler) Complete(c *gin.Context) {
	v, p, ok := h.res.open(c, false)
	if !ok {
		return
	}
	h.res.finish(c, v, p, p.Complete(c.Request.Context(), c.Param("id")))
}

