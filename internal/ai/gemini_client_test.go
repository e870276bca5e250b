package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redaktor-ai/textserver/internal/config"
	"github.com/redaktor-ai/textserver/internal/domain"
	"go.uber.org/zap"
)

func testAIConfig(baseURL string) *config.AIConfig {
	return &config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Models:         []string{"model-a", "model-b"},
		AttemptTimeout: 500 * time.Millisecond,
		MaxRetries:     1,
		BackoffBase:    time.Millisecond,
		MaxTokens:      2048,
	}
}

func geminiJSON(text string) string {
	resp := geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Role: "model", Parts: []geminiPart{{Text: text}}}},
		},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func testInput() AnalyzeInput {
	return AnalyzeInput{
		Prompt:   "analizē",
		Text:     "Teksts ir labs. Tas strādā labi.",
		Language: domain.LanguageLatvian,
	}
}

func TestGeminiClientAnalyzeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiJSON(`{"readability_score": 80, "issues": [], "summary": "Labs teksts.", "metrics": {"wordCount": 6}}`)))
	}))
	defer server.Close()

	client := NewGeminiClient(testAIConfig(server.URL), nil, zap.NewNop())
	resp := client.Analyze(context.Background(), testInput())

	if resp.Degraded {
		t.Error("Degraded should be false on success")
	}
	if resp.ReadabilityScore != 80 {
		t.Errorf("ReadabilityScore = %d, want 80", resp.ReadabilityScore)
	}
	if resp.Summary != "Labs teksts." {
		t.Errorf("Summary = %q", resp.Summary)
	}
	if resp.Metrics.WordCount != 6 {
		t.Errorf("Metrics.WordCount = %d, want 6", resp.Metrics.WordCount)
	}
}

func TestGeminiClientRetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(geminiJSON(`{"readability_score": 70, "issues": [], "summary": "Otrais mēģinājums.", "metrics": {}}`)))
	}))
	defer server.Close()

	client := NewGeminiClient(testAIConfig(server.URL), nil, zap.NewNop())
	resp := client.Analyze(context.Background(), testInput())

	if resp.Degraded {
		t.Fatal("expected recovery on the second attempt")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
	if resp.ReadabilityScore != 70 {
		t.Errorf("ReadabilityScore = %d, want 70", resp.ReadabilityScore)
	}
}

func TestGeminiClientExhaustionFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGeminiClient(testAIConfig(server.URL), nil, zap.NewNop())

	start := time.Now()
	resp := client.Analyze(context.Background(), testInput())
	elapsed := time.Since(start)

	if !resp.Degraded {
		t.Fatal("Degraded should be true after exhaustion")
	}
	if resp.Issues == nil || len(resp.Issues) != 0 {
		t.Errorf("Issues = %v, want empty non-nil slice", resp.Issues)
	}
	if resp.Summary == "" {
		t.Error("fallback summary must not be empty")
	}
	if resp.ReadabilityScore != resp.Metrics.ReadabilityScore {
		t.Errorf("score mismatch: %d vs %d", resp.ReadabilityScore, resp.Metrics.ReadabilityScore)
	}
	// 2 models x 2 attempts with millisecond backoff must finish fast.
	if elapsed > 5*time.Second {
		t.Errorf("exhaustion took %v, want bounded time", elapsed)
	}
}

func TestGeminiClientUnparseableResponseFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiJSON("Atvainojiet, šodien nevaru.")))
	}))
	defer server.Close()

	client := NewGeminiClient(testAIConfig(server.URL), nil, zap.NewNop())
	resp := client.Analyze(context.Background(), testInput())

	if !resp.Degraded {
		t.Error("unparseable responses must exhaust into the fallback")
	}
}

func TestGeminiClientDebugDiagnostics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiJSON(`{"readability_score": 65, "issues": [], "summary": "Ok.", "metrics": {}}`)))
	}))
	defer server.Close()

	client := NewGeminiClient(testAIConfig(server.URL), nil, zap.NewNop())
	in := testInput()
	in.Debug = true
	resp := client.Analyze(context.Background(), in)

	if resp.Diagnostics == nil {
		t.Fatal("Diagnostics missing in debug mode")
	}
	if resp.Diagnostics.ModelCount != 2 {
		t.Errorf("ModelCount = %d, want 2", resp.Diagnostics.ModelCount)
	}
	if len(resp.Diagnostics.Attempts) != 1 {
		t.Errorf("Attempts = %d, want 1", len(resp.Diagnostics.Attempts))
	}

	in.Debug = false
	if resp := client.Analyze(context.Background(), in); resp.Diagnostics != nil {
		t.Error("Diagnostics must be nil without debug")
	}
}

func TestGeminiClientSummarizeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewGeminiClient(testAIConfig(server.URL), nil, zap.NewNop())
	if _, err := client.Summarize(context.Background(), "Teksts.", domain.LanguageLatvian); err == nil {
		t.Error("Summarize must surface an error on exhaustion")
	}
}

func TestGeminiClientSuggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiJSON("1. Pirmais ieteikums.\n2. Otrais ieteikums.\nKomentārs bez numura.")))
	}))
	defer server.Close()

	client := NewGeminiClient(testAIConfig(server.URL), nil, zap.NewNop())
	got, err := client.Suggest(context.Background(), "Teksts.", domain.LanguageLatvian)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	want := []string{"Pirmais ieteikums.", "Otrais ieteikums."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest() = %q, want %q", got, want)
	}
}

func TestParseNumberedList(t *testing.T) {
	text := "Ievads.\n1. Viens\n2. Divi\n3. Trīs\n4. Četri\n5. Pieci\n6. Seši"
	got := parseNumberedList(text, 5)
	if len(got) != 5 {
		t.Errorf("parseNumberedList() = %d entries, want cap of 5", len(got))
	}
	if got[0] != "Viens" {
		t.Errorf("first entry = %q, want Viens", got[0])
	}

	if got := parseNumberedList("bez numuriem", 5); len(got) != 0 {
		t.Errorf("expected no entries, got %q", got)
	}
}

func TestIsDeadline(t *testing.T) {
	deadline := domain.WrapError("http_request", fmt.Errorf("do request: %w", context.DeadlineExceeded), true)
	if !isDeadline(deadline) {
		t.Error("expected wrapped deadline error to be recognized")
	}
	if isDeadline(domain.WrapError("api_status_503", domain.ErrAIUnavailable, true)) {
		t.Error("non-deadline error reported as deadline")
	}
	if isDeadline(nil) {
		t.Error("nil error reported as deadline")
	}
}
