package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/prompt"
	"github.com/redaktor-ai/textserver/internal/store"
	"go.uber.org/zap"
)

// AdminHandler serves the admin dataset endpoints.
type AdminHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(st *store.Store, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		store:  st,
		logger: logger.Named("admin_handler"),
	}
}

// HandleGet processes GET /api/v1/admin/data requests.
func (h *AdminHandler) HandleGet(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetData())
}

// HandlePut processes PUT /api/v1/admin/data requests. The full dataset
// is replaced in one write; templates missing required placeholders are
// rejected before anything is persisted.
func (h *AdminHandler) HandlePut(c *gin.Context) {
	var data domain.AdminData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	for _, p := range data.SystemPrompts {
		if v := prompt.ValidateTemplate(p.Content); !v.Valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":             false,
				"error":               "System prompt is missing required placeholders",
				"promptId":            p.ID,
				"missingPlaceholders": v.MissingPlaceholders,
			})
			return
		}
	}

	if err := h.store.ReplaceData(data); err != nil {
		h.logger.Error("failed to persist admin data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to persist admin data",
		})
		return
	}
	c.JSON(http.StatusOK, h.store.GetData())
}

// HandleActivatePrompt processes POST /api/v1/admin/prompts/:id/activate
// requests.
func (h *AdminHandler) HandleActivatePrompt(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.SetActivePrompt(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "activePromptId": id})
}
