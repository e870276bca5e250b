package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redaktor-ai/textserver/internal/ai"
	"github.com/redaktor-ai/textserver/internal/config"
	"github.com/redaktor-ai/textserver/internal/service"
	"github.com/redaktor-ai/textserver/internal/store"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AI: config.AIConfig{MockMode: true},
		Processing: config.ProcessingConfig{
			MaxTextSize:           10000,
			LongSentenceThreshold: 25,
			RepetitionMinWordLen:  4,
			ExcerptBudget:         300,
		},
	}

	st, err := store.New(filepath.Join(t.TempDir(), "admin-data.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	analyzer := service.NewAnalyzer(ai.NewMockClient(), st, cfg, zap.NewNop())
	analyzeHandler := NewAnalyzeHandler(analyzer, zap.NewNop())
	adminHandler := NewAdminHandler(st, zap.NewNop())
	healthHandler := NewHealthHandler(zap.NewNop())

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/health", healthHandler.Handle)
	v1 := router.Group("/api/v1")
	v1.POST("/analyze", analyzeHandler.Handle)
	v1.POST("/summarize", analyzeHandler.HandleSummarize)
	v1.POST("/suggestions", analyzeHandler.HandleSuggestions)
	v1.POST("/keywords", analyzeHandler.HandleKeywords)
	v1.GET("/admin/data", adminHandler.HandleGet)
	v1.PUT("/admin/data", adminHandler.HandlePut)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{"text": "Šis ir teikums. Šis ir vēl viens teikums.", "settings": {"language": "lv", "category": "news", "style": "neutral"}}`
	w := doJSON(router, http.MethodPost, "/api/v1/analyze", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		ReadabilityScore int             `json:"readability_score"`
		Issues           []any           `json:"issues"`
		Summary          string          `json:"summary"`
		Metrics          map[string]any  `json:"metrics"`
		Diagnostics      json.RawMessage `json:"diagnostics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if resp.Issues == nil {
		t.Error("issues must serialize as [], not null")
	}
	if resp.Summary == "" {
		t.Error("summary missing")
	}
	if resp.Diagnostics != nil {
		t.Error("diagnostics present without debug flag")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestAnalyzeEndpointDebug(t *testing.T) {
	router := newTestRouter(t)

	body := `{"text": "Teksts.", "settings": {"language": "lv", "category": "news", "style": "neutral"}, "debug": true}`
	w := doJSON(router, http.MethodPost, "/api/v1/analyze", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"diagnostics"`) {
		t.Error("diagnostics missing in debug mode")
	}
}

func TestAnalyzeEndpointRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "plain text"},
		{"missing text", `{"settings": {"language": "lv", "category": "news", "style": "neutral"}}`},
		{"invalid language", `{"text": "Teksts.", "settings": {"language": "de", "category": "news", "style": "neutral"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doJSON(router, http.MethodPost, "/api/v1/analyze", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestSummarizeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/summarize", `{"text": "Pirmais teikums. Otrais teikums.", "language": "lv"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "summary") {
		t.Error("summary field missing")
	}
}

func TestKeywordsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/keywords", `{"text": "Rīga Rīga koki", "count": 5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "rīga") {
		t.Errorf("keywords missing: %s", w.Body.String())
	}
}

func TestAdminRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/admin/data", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"activePromptId":"default"`) {
		t.Errorf("default prompt missing: %s", w.Body.String())
	}

	update := `{
		"guidelines": [{"name": "Īsi teikumi", "content": "Raksti īsus teikumus.", "priority": 8}],
		"knowledgeBase": [],
		"systemPrompts": [{"id": "default", "content": "{language} {category} {style}\n{guidelines}\n{text}", "version": 1}],
		"activePromptId": "default"
	}`
	if w := doJSON(router, http.MethodPut, "/api/v1/admin/data", update); w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodGet, "/api/v1/admin/data", "")
	if !strings.Contains(w.Body.String(), "Īsi teikumi") {
		t.Errorf("guideline not persisted: %s", w.Body.String())
	}
}

func TestAdminRejectsInvalidTemplate(t *testing.T) {
	router := newTestRouter(t)

	update := `{"systemPrompts": [{"id": "broken", "content": "nav vietturu", "version": 1}], "activePromptId": "broken"}`
	w := doJSON(router, http.MethodPut, "/api/v1/admin/data", update)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missingPlaceholders") {
		t.Errorf("missing placeholder list absent: %s", w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{
		Enabled:     true,
		MaxRequests: 2,
		Window:      time.Minute,
	})

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests must pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request inside the window must be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients must not be affected")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{MaxRequests: 1, Window: time.Minute})

	now := time.Now()
	rl.now = func() time.Time { return now }
	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request must pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request must be rejected")
	}

	rl.now = func() time.Time { return now.Add(2 * time.Minute) }
	if !rl.Allow("1.2.3.4") {
		t.Error("request after the window must pass again")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(config.RateLimitConfig{MaxRequests: 1, Window: time.Minute})
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
}
