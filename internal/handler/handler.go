package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/set-night/chatd/internal/ai"
	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/service"
)

// Handler holds all dependencies needed by the REST endpoints.
type Handler struct {
	chat      *service.ChatService
	responder ai.Responder
	cfg       *config.Config
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Chat      *service.ChatService
	Responder ai.Responder
	Cfg       *config.Config
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		chat:      deps.Chat,
		responder: deps.Responder,
		cfg:       deps.Cfg,
	}
}

// Register attaches all routes to the router.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/conversations", h.CreateConversation)
	api.GET("/conversations", h.ListConversations)
	api.GET("/conversations/:id", h.GetConversation)
	api.DELETE("/conversations/:id", h.DeleteConversation)
	api.POST("/conversations/:id/archive", h.ArchiveConversation)
	api.POST("/conversations/:id/messages", h.SendMessage)
	api.GET("/conversations/:id/messages", h.ListMessages)
	api.GET("/models", h.ListModels)

	r.GET("/health", h.Health)
}
