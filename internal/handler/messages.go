package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/set-night/chatd/internal/domain"
)

type sendMessageRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), c.Param("id"), req.Text, req.Model)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message text is required"})
		case errors.Is(err, domain.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		case errors.Is(err, domain.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		case errors.Is(err, domain.ErrUpstream):
			c.JSON(http.StatusBadGateway, gin.H{"error": "ai service failed"})
		default:
			slog.Error("send message", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		}
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.chat.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
			return
		}
		if errors.Is(err, domain.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		slog.Error("list messages", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
