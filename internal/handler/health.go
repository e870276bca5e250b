package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redaktor-ai/textserver/internal/ai"
	"go.uber.org/zap"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger.Named("health_handler"),
	}
}

// Handle processes GET /health requests.
func (h *HealthHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadyHandler handles readiness check requests. The generative service
// is probed but never gates readiness: analysis degrades locally when
// the service is down, so the server stays ready.
type ReadyHandler struct {
	client ai.Client
	logger *zap.Logger
}

// NewReadyHandler creates a new ReadyHandler.
func NewReadyHandler(client ai.Client, logger *zap.Logger) *ReadyHandler {
	return &ReadyHandler{
		client: client,
		logger: logger.Named("ready_handler"),
	}
}

// Handle processes GET /ready requests.
func (h *ReadyHandler) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	aiStatus := "ok"
	if err := h.client.HealthCheck(ctx); err != nil {
		aiStatus = "degraded"
		h.logger.Warn("generative service unreachable", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"ai":     aiStatus,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
