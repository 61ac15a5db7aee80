package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 5 * time.Second

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"ai_available": h.responder.IsAvailable(ctx),
	})
}

func (h *Handler) ListModels(c *gin.Context) {
	models, err := h.responder.ListModels(c.Request.Context())
	if err != nil {
		slog.Error("list models", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list models"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"models":  models,
		"default": h.cfg.DefaultModel,
	})
}
