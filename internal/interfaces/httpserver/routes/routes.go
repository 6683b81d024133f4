// Package routes registers the HTTP shell's routes.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/interfaces/httpserver/handlers"
)

// Provider registers every page, auth and notification route.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider builds the route registrar.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{handlers: handlerProvider}
}

// Register attaches all routes to engine.
func (p *Provider) Register(engine gin.IRouter) {
	h := p.handlers

	engine.GET("/", h.Public.Landing)
	engine.GET("/notifications", h.Public.Notifications)
	engine.GET("/ws/notifications", h.Public.Live)

	registerAuthRoutes(engine.Group("/auth"), h.Auth)
	engine.GET("/dashboard", h.Dashboard.Get)
	registerContactRoutes(engine.Group("/contacts"), h.Contacts)
	registerConversationRoutes(engine.Group("/conversations"), h.Conversations)
	registerFollowUpRoutes(engine.Group("/follow-ups"), h.FollowUps)
	registerTemplateRoutes(engine.Group("/templates"), h.Templates)
}

func registerAuthRoutes(router gin.IRoutes, h *handlers.AuthHandler) {
	router.GET("", h.Page)
	router.POST("/sign-in", h.SignIn)
	router.POST("/sign-up", h.SignUp)
	router.POST("/sign-out", h.SignOut)
}

func registerContactRoutes(router gin.IRoutes, h *handlers.ContactsHandler) {
	router.GET("", h.List)
	router.POST("", h.Create)
	router.PUT("/:id", h.Update)
	router.DELETE("/:id", h.Delete)
}

func registerConversationRoutes(router gin.IRoutes, h *handlers.ConversationsHandler) {
	router.GET("", h.List)
	router.GET("/:id/messages", h.Select)
	router.POST("/:id/messages", h.Send)
}

func registerFollowUpRoutes(router gin.IRoutes, h *handlers.FollowUpsHandler) {
	router.GET("", h.List)
	router.POST("", h.Create)
	router.PUT("/:id", h.Update)
	router.POST("/:id/complete", h.Complete)
	router.DELETE("/:id", h.Delete)
}

func registerTemplateRoutes(router gin.IRoutes, h *handlers.TemplatesHandler) {
	router.GET("", h.List)
	router.POST("", h.Create)
	router.PUT("/:id", h.Update)
	router.DELETE("/:id", h.Delete)
	router.POST("/:id/copy", h.Copy)
}
