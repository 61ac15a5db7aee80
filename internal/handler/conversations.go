package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/set-night/chatd/internal/domain"
)

type createConversationRequest struct {
	OwnerID     string   `json:"owner_id" binding:"required"`
	Title       string   `json:"title"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
}

func (h *Handler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	conv, err := h.chat.CreateConversation(c.Request.Context(), req.OwnerID, req.Title, req.Model, req.Temperature)
	if err != nil {
		slog.Error("create conversation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conv)
}

func (h *Handler) ListConversations(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	if query := c.Query("q"); query != "" {
		conversations, err := h.chat.SearchConversations(c.Request.Context(), ownerID, query)
		if err != nil {
			slog.Error("search conversations", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search conversations"})
			return
		}
		c.JSON(http.StatusOK, conversations)
		return
	}

	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "true"))

	conversations, err := h.chat.ListConversations(c.Request.Context(), ownerID, activeOnly)
	if err != nil {
		slog.Error("list conversations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.chat.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
			return
		}
		if errors.Is(err, domain.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		slog.Error("get conversation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get conversation"})
		return
	}

	c.JSON(http.StatusOK, conv)
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	ok, err := h.chat.DeleteConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete conversation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete conversation"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ArchiveConversation(c *gin.Context) {
	conv, err := h.chat.ArchiveConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
			return
		}
		if errors.Is(err, domain.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		slog.Error("archive conversation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive conversation"})
		return
	}

	c.JSON(http.StatusOK, conv)
}
