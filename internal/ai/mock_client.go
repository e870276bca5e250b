package ai

import (
	"context"

	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/readability"
	"github.com/redaktor-ai/textserver/internal/textproc"
)

// MockClient returns deterministic analyses built from local processing.
// It is used in development and tests via AI_MOCK_MODE.
type MockClient struct {
	// FailAnalyze forces Analyze to return the degraded fallback.
	FailAnalyze bool
}

// NewMockClient creates a mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Analyze computes metrics locally and flags long sentences as issues.
func (m *MockClient) Analyze(_ context.Context, in AnalyzeInput) *AnalysisResponse {
	if m.FailAnalyze {
		resp := synthesizeFallback(in)
		if in.Debug {
			resp.Diagnostics = &Diagnostics{MockMode: true, Degraded: true}
		}
		return resp
	}

	metrics := readability.Compute(in.Text, in.Language, readability.Options{})

	issues := []domain.Issue{}
	for _, s := range readability.FindLongSentences(in.Text, in.Language, readability.DefaultLongSentenceThreshold) {
		issues = append(issues, domain.Issue{
			Type:       "length",
			Severity:   domain.SeverityMedium,
			Sentence:   s,
			Suggestion: "Sadaliet šo teikumu īsākos teikumos.",
			Position:   domain.Position{Start: 0, End: len([]rune(s))},
		})
	}

	resp := &AnalysisResponse{
		ReadabilityScore: metrics.ReadabilityScore,
		Issues:           issues,
		Summary:          fallbackSummary(in, metrics.ReadabilityScore),
		Metrics:          metrics,
	}
	if in.Debug {
		resp.Diagnostics = &Diagnostics{MockMode: true, ModelCount: 1}
	}
	return resp
}

// Summarize returns the opening sentences as bullets.
func (m *MockClient) Summarize(_ context.Context, text string, lang domain.Language) (string, error) {
	sentences := textproc.Sentences(text, lang)
	if len(sentences) == 0 {
		return summaryPlaceholder, nil
	}
	n := len(sentences)
	if n > 3 {
		n = 3
	}
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += "\n"
		}
		out += "• " + truncate(sentences[i], 200)
	}
	return out, nil
}

// Suggest returns fixed editorial suggestions.
func (m *MockClient) Suggest(_ context.Context, _ string, _ domain.Language) ([]string, error) {
	return []string{
		"Izmantojiet īsākus teikumus.",
		"Izvairieties no pasīvās balss.",
		"Lietojiet konkrētus vārdus neskaidru vietā.",
	}, nil
}

// HealthCheck always succeeds.
func (m *MockClient) HealthCheck(_ context.Context) error {
	return nil
}
