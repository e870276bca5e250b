// Package ai provides the generative-service client interface and
// implementations.
package ai

import (
	"context"

	"github.com/redaktor-ai/textserver/internal/domain"
)

// AnalyzeInput carries everything one analysis call needs. Text and
// Language are required alongside the assembled prompt so the client can
// synthesize a local fallback when the service is exhausted.
type AnalyzeInput struct {
	// Prompt is the fully assembled instruction string.
	Prompt string

	// Text is the original user text.
	Text string

	// Language is the analysis language.
	Language domain.Language

	// Debug attaches a diagnostics record to the response.
	Debug bool
}

// AnalysisResponse is the strict, normalized shape of a generative
// analysis. Every field is defaulted during normalization; a response is
// always structurally valid.
type AnalysisResponse struct {
	// ReadabilityScore is the service-reported score, clamped to [0,100].
	ReadabilityScore int `json:"readability_score"`

	// Issues are the sanitized issues; malformed elements are dropped.
	Issues []domain.Issue `json:"issues"`

	// Summary is the bullet-formatted summary.
	Summary string `json:"summary"`

	// Metrics are the service-reported metrics. Zero fields mean the
	// service did not report that measure; the merger never lets them
	// overwrite local values.
	Metrics domain.TextMetrics `json:"metrics"`

	// Degraded is true when every model/attempt failed and the response
	// was synthesized locally.
	Degraded bool `json:"-"`

	// Diagnostics is attached only in debug mode.
	Diagnostics *Diagnostics `json:"-"`
}

// AttemptRecord captures one attempt for diagnostics.
type AttemptRecord struct {
	Model      string `json:"model"`
	Attempt    int    `json:"attempt"`
	DurationMS int64  `json:"durationMs"`
	Success    bool   `json:"success"`
	TimedOut   bool   `json:"timedOut,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Diagnostics records how a response was obtained. It never alters the
// primary result fields.
type Diagnostics struct {
	Attempts        []AttemptRecord `json:"attempts"`
	PromptExcerpt   string          `json:"promptExcerpt"`
	ModelCount      int             `json:"modelCount"`
	MockMode        bool            `json:"mockMode"`
	Degraded        bool            `json:"degraded"`
	TotalDurationMS int64           `json:"totalDurationMs"`
}

// Client defines the interface for generative-service interactions.
// This interface allows for easy mocking and swapping of providers.
type Client interface {
	// Analyze sends the assembled prompt to the service and returns a
	// normalized analysis. It never fails: when every model and attempt
	// is exhausted it returns a locally synthesized result with
	// Degraded set.
	Analyze(ctx context.Context, in AnalyzeInput) *AnalysisResponse

	// Summarize requests a plain-text bullet summary of the text.
	Summarize(ctx context.Context, text string, lang domain.Language) (string, error)

	// Suggest requests improvement suggestions, parsed from a numbered
	// list and capped at five.
	Suggest(ctx context.Context, text string, lang domain.Language) ([]string, error)

	// HealthCheck verifies the service is reachable.
	HealthCheck(ctx context.Context) error
}

// AttemptObserver receives attempt outcomes for metrics collection.
// Implementations must be safe for concurrent use.
type AttemptObserver interface {
	// ObserveAttempt records one attempt against a model.
	ObserveAttempt(model, outcome string)

	// ObserveFallback records an exhausted matrix that degraded to the
	// local fallback.
	ObserveFallback()
}

// nopObserver is used when no observer is wired.
type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, string) {}
func (nopObserver) ObserveFallback()              {}
