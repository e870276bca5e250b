// Package handler contains HTTP handlers for the API.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redaktor-ai/textserver/internal/ai"
	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/service"
	"go.uber.org/zap"
)

// AnalyzeHandler handles text analysis requests.
type AnalyzeHandler struct {
	analyzer *service.Analyzer
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(analyzer *service.Analyzer, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		logger:   logger.Named("analyze_handler"),
	}
}

// analyzeResponse is the analysis result plus optional diagnostics.
type analyzeResponse struct {
	domain.AnalysisResult
	Diagnostics *ai.Diagnostics `json:"diagnostics,omitempty"`
}

// Handle processes POST /api/v1/analyze requests.
func (h *AnalyzeHandler) Handle(c *gin.Context) {
	startTime := time.Now()
	logger := h.logger.With(zap.String("request_id", c.GetString("request_id")))

	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	result, diag, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsInvalidRequest(err) {
			status = http.StatusBadRequest
		}
		logger.Warn("analysis rejected", zap.Error(err))
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	logger.Info("analysis handled",
		zap.Int("score", result.ReadabilityScore),
		zap.Duration("duration", time.Since(startTime)),
	)
	c.JSON(http.StatusOK, analyzeResponse{AnalysisResult: *result, Diagnostics: diag})
}

// textRequest is the shared payload for summarize/suggestions/keywords.
type textRequest struct {
	Text     string          `json:"text" binding:"required"`
	Language domain.Language `json:"language"`
	Count    int             `json:"count"`
}

func (r *textRequest) language() domain.Language {
	if r.Language == "" {
		return domain.LanguageLatvian
	}
	return r.Language
}

// HandleSummarize processes POST /api/v1/summarize requests.
func (h *AnalyzeHandler) HandleSummarize(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}

	summary, err := h.analyzer.Summarize(c.Request.Context(), req.Text, req.language())
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsInvalidRequest(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// HandleSuggestions processes POST /api/v1/suggestions requests.
func (h *AnalyzeHandler) HandleSuggestions(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}

	suggestions, err := h.analyzer.Suggest(c.Request.Context(), req.Text, req.language())
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsInvalidRequest(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// HandleKeywords processes POST /api/v1/keywords requests.
func (h *AnalyzeHandler) HandleKeywords(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}

	count := req.Count
	if count <= 0 {
		count = 10
	}
	keywords, err := h.analyzer.Keywords(req.Text, count)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}
