package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/pages"
)

// DashboardHandler serves the dashboard.
type DashboardHandler struct {
	ws *Workspace
}

// NewDashboardHandler wires the dashboard route.
func NewDashboardHandler(ws *Workspace) *DashboardHandler {
	return &DashboardHandler{ws: ws}
}

// Get godoc
// @Summary      Dashboard
// @Description  Counts of contacts, conversations, pending reminders and templates.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  responses.PageResponse
// @Failure      303  "No session; redirects to the auth route"
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	v := h.ws.visitor(c)
	p, ok := enter(h.ws, c, v, pages.NameDashboard, pages.NewDashboard, true)
	if !ok {
		return
	}
	h.ws.respond(c, v, p.View())
}
