// Package ai provides the generative-service client interface and
// implementations.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/redaktor-ai/textserver/internal/config"
	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/prompt"
	"go.uber.org/zap"
)

// Attempt outcomes reported to the observer.
const (
	OutcomeSuccess = "success"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// GeminiClient implements the Client interface against Google's Gemini
// REST API. Attempts iterate an ordered model-variant list sequentially;
// each attempt races a single HTTP call against a context deadline.
type GeminiClient struct {
	cfg        *config.AIConfig
	httpClient *http.Client
	variants   []ModelVariant
	observer   AttemptObserver
	logger     *zap.Logger
}

// ModelVariant is one configuration of the generative service, tried in
// fallback order.
type ModelVariant struct {
	// ID is the model identifier, e.g. "gemini-2.0-flash".
	ID string

	// Temperature controls output randomness.
	Temperature float64

	// MaxOutputTokens caps the response length.
	MaxOutputTokens int
}

// Gemini API request/response structures

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiClient creates a new Gemini client. The observer may be nil.
func NewGeminiClient(cfg *config.AIConfig, observer AttemptObserver, logger *zap.Logger) *GeminiClient {
	if observer == nil {
		observer = nopObserver{}
	}

	variants := make([]ModelVariant, 0, len(cfg.Models))
	for _, id := range cfg.Models {
		variants = append(variants, ModelVariant{
			ID:              id,
			Temperature:     0.7,
			MaxOutputTokens: cfg.MaxTokens,
		})
	}

	return &GeminiClient{
		cfg: cfg,
		// Per-attempt deadlines come from the request context, so the
		// transport itself carries no timeout.
		httpClient: &http.Client{},
		variants:   variants,
		observer:   observer,
		logger:     logger.Named("gemini_client"),
	}
}

// Analyze runs the attempt matrix for a full analysis. Responses are
// normalized; parse failures count as attempt failures. When the matrix
// is exhausted a locally synthesized result is returned, so the caller
// never sees a failure.
func (c *GeminiClient) Analyze(ctx context.Context, in AnalyzeInput) *AnalysisResponse {
	start := time.Now()
	var diag *Diagnostics
	if in.Debug {
		diag = &Diagnostics{
			PromptExcerpt: truncate(in.Prompt, 200),
			ModelCount:    len(c.variants),
		}
	}

	gc := geminiGenerationConfig{Temperature: 0.7, MaxOutputTokens: c.cfg.MaxTokens}
	result, ok := runMatrix(ctx, c, in.Prompt, gc, diag, func(text string) (*AnalysisResponse, error) {
		doc, err := parseDocument(text)
		if err != nil {
			return nil, err
		}
		return Normalize(doc), nil
	})

	if !ok {
		c.observer.ObserveFallback()
		c.logger.Warn("all models exhausted, synthesizing local fallback",
			zap.Int("models", len(c.variants)),
			zap.Duration("elapsed", time.Since(start)),
		)
		result = synthesizeFallback(in)
	}

	if diag != nil {
		diag.Degraded = result.Degraded
		diag.TotalDurationMS = time.Since(start).Milliseconds()
		result.Diagnostics = diag
	}
	return result
}

// Summarize requests a plain-text bullet summary using the same
// attempt/timeout matrix. Unlike Analyze, exhaustion surfaces an error;
// the service layer substitutes the placeholder text.
func (c *GeminiClient) Summarize(ctx context.Context, text string, lang domain.Language) (string, error) {
	gc := geminiGenerationConfig{Temperature: 0.7, MaxOutputTokens: 1024}
	result, ok := runMatrix(ctx, c, prompt.SummarizePrompt(text, lang), gc, nil, func(out string) (string, error) {
		trimmed := strings.TrimSpace(out)
		if trimmed == "" {
			return "", domain.WrapError("empty_summary", domain.ErrInvalidAIResponse, true)
		}
		return trimmed, nil
	})
	if !ok {
		return "", domain.WrapError("summarize", domain.ErrAIUnavailable, false)
	}
	return result, nil
}

// Suggest requests improvement suggestions and parses the numbered-list
// response, capped at five entries.
func (c *GeminiClient) Suggest(ctx context.Context, text string, lang domain.Language) ([]string, error) {
	gc := geminiGenerationConfig{Temperature: 0.8, MaxOutputTokens: 1024}
	result, ok := runMatrix(ctx, c, prompt.SuggestionsPrompt(text, lang), gc, nil, func(out string) ([]string, error) {
		suggestions := parseNumberedList(out, 5)
		if len(suggestions) == 0 {
			return nil, domain.WrapError("empty_suggestions", domain.ErrInvalidAIResponse, true)
		}
		return suggestions, nil
	})
	if !ok {
		return nil, domain.WrapError("suggest", domain.ErrAIUnavailable, false)
	}
	return result, nil
}

// HealthCheck verifies the Gemini API is reachable.
func (c *GeminiClient) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1beta/models?key=%s", strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError("health_check", domain.ErrAIUnavailable, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.WrapError("health_check", domain.ErrAIUnavailable, true)
	}
	return nil
}

// runMatrix iterates the client's model variants sequentially, retrying
// each up to MaxRetries additional times with backoff BackoffBase×attempt.
// process turns raw response text into the final value; its errors count
// as attempt failures. The second return value reports whether any
// attempt succeeded.
func runMatrix[T any](ctx context.Context, c *GeminiClient, prompt string, gc geminiGenerationConfig, diag *Diagnostics, process func(string) (T, error)) (T, bool) {
	var zero T

	for _, variant := range c.variants {
		for attempt := 1; attempt <= c.cfg.MaxRetries+1; attempt++ {
			if attempt > 1 {
				backoff := time.Duration(attempt-1) * c.cfg.BackoffBase
				select {
				case <-ctx.Done():
					return zero, false
				case <-time.After(backoff):
				}
			}

			attemptStart := time.Now()
			text, err := c.generate(ctx, variant.ID, prompt, gc)
			if err == nil {
				var result T
				result, err = process(text)
				if err == nil {
					c.observer.ObserveAttempt(variant.ID, OutcomeSuccess)
					recordAttempt(diag, variant.ID, attempt, attemptStart, true, false, "")
					return result, true
				}
			}

			timedOut := ctx.Err() == nil && isDeadline(err)
			outcome := OutcomeError
			if timedOut {
				outcome = OutcomeTimeout
			}
			c.observer.ObserveAttempt(variant.ID, outcome)
			recordAttempt(diag, variant.ID, attempt, attemptStart, false, timedOut, err.Error())

			c.logger.Warn("generation attempt failed",
				zap.String("model", variant.ID),
				zap.Int("attempt", attempt),
				zap.Bool("timed_out", timedOut),
				zap.Error(err),
			)

			if ctx.Err() != nil {
				return zero, false
			}
		}
	}
	return zero, false
}

// generate performs a single generateContent call against one model,
// bounded by the per-attempt timeout.
func (c *GeminiClient) generate(ctx context.Context, model, prompt string, gc geminiGenerationConfig) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
	defer cancel()

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: gc,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.WrapError("marshal_request", err, false)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", domain.WrapError("build_request", err, false)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError("http_request", err, true)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", domain.WrapError("read_response", err, true)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", domain.WrapError(
			fmt.Sprintf("api_status_%d", resp.StatusCode),
			fmt.Errorf("%w: %s", domain.ErrAIUnavailable, truncate(string(body), 200)),
			retryable,
		)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", domain.WrapError("unmarshal_response", domain.ErrInvalidAIResponse, true)
	}
	if apiResp.Error != nil {
		return "", domain.WrapError("api_error", fmt.Errorf("%w: %s", domain.ErrAIUnavailable, apiResp.Error.Message), true)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.WrapError("empty_candidates", domain.ErrInvalidAIResponse, true)
	}

	var sb strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func recordAttempt(diag *Diagnostics, model string, attempt int, start time.Time, success, timedOut bool, errMsg string) {
	if diag == nil {
		return
	}
	diag.Attempts = append(diag.Attempts, AttemptRecord{
		Model:      model,
		Attempt:    attempt,
		DurationMS: time.Since(start).Milliseconds(),
		Success:    success,
		TimedOut:   timedOut,
		Error:      errMsg,
	})
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

var numberedLine = regexp.MustCompile(`^\d+\.\s*(.+)$`)

// parseNumberedList extracts entries from a "1. ..." style response,
// capped at max entries.
func parseNumberedList(text string, max int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := numberedLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		entry := strings.TrimSpace(m[1])
		if entry == "" {
			continue
		}
		out = append(out, entry)
		if len(out) >= max {
			break
		}
	}
	return out
}
