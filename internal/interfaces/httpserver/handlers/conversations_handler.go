package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// ConversationsHandler serves the inbox page.
type ConversationsHandler struct {
	ws *Workspace
}

// NewConversationsHandler wires the inbox routes.
func NewConversationsHandler(ws *Workspace) *ConversationsHandler {
	return &ConversationsHandler{ws: ws}
}

// SendMessageRequest is the body of a send.
type SendMessageRequest struct {
	Content string `json:"content" example:"Thanks, talk soon!"`
}

func (h *ConversationsHandler) open(c *gin.Context) (visitor, *pages.Conversations, bool) {
	v := h.ws.visitor(c)
	p, ok := enter(h.ws, c, v, pages.NameConversations, pages.NewConversations, false)
	return v, p, ok
}

// List godoc
// @Summary      Conversations page
// @Description  Conversations with their contact, most recently active first, plus the open thread.
// @Tags         conversations
// @Produce      json
// @Param        search  query     string  false  "Filter by contact name"
// @Success      200     {object}  responses.PageResponse
// @Router       /conversations [get]
func (h *ConversationsHandler) List(c *gin.Context) {
	v := h.ws.visitor(c)
	p, ok := enter(h.ws, c, v, pages.NameConversations, pages.NewConversations, true)
	if !ok {
		return
	}
	if term, ok := c.GetQuery("search"); ok {
		p.SetSearch(term)
	}
	h.ws.respond(c, v, p.View())
}

// Select godoc
// @Summary      Open a conversation
// @Description  Selects the conversation and loads its messages, oldest first.
// @Tags         conversations
// @Produce      json
// @Param        id  path      string  true  "Conversation ID"
// @Success      200 {object}  responses.PageResponse
// @Failure      404 {object}  responses.ErrorResponse
// @Router       /conversations/{id}/messages [get]
func (h *ConversationsHandler) Select(c *gin.Context) {
	v, p, ok := h.open(c)
	if !ok {
		return
	}
	if !p.SelectConversation(c.Request.Context(), c.Param("id")) {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "conversation not found", "5f0c2d7e-8a41-4b39-9e16-3c7d2a9b1e05")
		return
	}
	h.ws.respond(c, v, p.View())
}

// Send godoc
// @Summary      Send a message
// @Description  Sends to the conversation, selecting it first when needed. Blank content is ignored.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Conversation ID"
// @Param        body  body      SendMessageRequest  true  "Message"
// @Success      200   {object}  responses.PageResponse
// @Failure      502   {object}  responses.PageResponse
// @Router       /conversations/{id}/messages [post]
func (h *ConversationsHandler) Send(c *gin.Context) {
	v, p, ok := h.open(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "5f0c2d7e-8a41-4b39-9e16-3c7d2a9b1e06")
		return
	}
	id := c.Param("id")
	if sel, selected := p.Selected(); !selected || sel.ID != id {
		if !p.SelectConversation(c.Request.Context(), id) {
			responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "conversation not found", "5f0c2d7e-8a41-4b39-9e16-3c7d2a9b1e07")
			return
		}
	}
	p.SetCompose(req.Content)
	result := p.SendMessage(c.Request.Context())
	responses.Page(c, responses.ResultStatus(result), &result, p.View(), h.ws.drain(c, v))
}
