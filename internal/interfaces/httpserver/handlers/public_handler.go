package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// PublicHandler serves the landing page and notification delivery.
type PublicHandler struct {
	ws *Workspace
}

// NewPublicHandler wires the public routes.
func NewPublicHandler(ws *Workspace) *PublicHandler {
	return &PublicHandler{ws: ws}
}

// Landing godoc
// @Summary      Landing page
// @Tags         public
// @Produce      json
// @Success      200  {object}  pages.LandingView
// @Router       / [get]
func (h *PublicHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, pages.Landing(h.ws.guard.AuthRoute()))
}

// Notifications godoc
// @Summary      Pending notifications
// @Description  Returns and clears the notifications not yet delivered with a page response.
// @Tags         notifications
// @Produce      json
// @Success      200  {array}  notify.Notification
// @Router       /notifications [get]
func (h *PublicHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.ws.drain(c, h.ws.visitor(c)))
}

// Live godoc
// @Summary      Live notifications
// @Description  Upgrades to a websocket that receives each notification of the session as JSON.
// @Tags         notifications
// @Success      101  "Switching protocols"
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /ws/notifications [get]
func (h *PublicHandler) Live(c *gin.Context) {
	v := h.ws.visitor(c)
	hub := h.ws.notifier.Hub()
	if hub == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "live notifications are disabled", "7c1e4a92-3d5b-4f08-b6a7-2e9d1c8f4a03")
		return
	}
	session, err := v.client.GetSession(c.Request.Context())
	if err != nil || session == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "sign in required", "7c1e4a92-3d5b-4f08-b6a7-2e9d1c8f4a04")
		return
	}
	if err := hub.Serve(c.Writer, c.Request, v.key); err != nil {
		h.ws.log.Debug().Err(err).Msg("websocket upgrade failed")
	}
}
