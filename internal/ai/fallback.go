package ai

import (
	"fmt"
	"strings"

	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/readability"
	"github.com/redaktor-ai/textserver/internal/textproc"
)

// synthesizeFallback builds a complete analysis from local processing
// when the generative service is exhausted. Issues are empty rather than
// guessed; the summary comes from the opening sentences.
func synthesizeFallback(in AnalyzeInput) *AnalysisResponse {
	metrics := readability.Compute(in.Text, in.Language, readability.Options{})

	return &AnalysisResponse{
		ReadabilityScore: metrics.ReadabilityScore,
		Issues:           []domain.Issue{},
		Summary:          fallbackSummary(in, metrics.ReadabilityScore),
		Metrics:          metrics,
		Degraded:         true,
	}
}

func fallbackSummary(in AnalyzeInput, score int) string {
	sentences := textproc.Sentences(in.Text, in.Language)
	if len(sentences) == 0 {
		return summaryPlaceholder
	}

	n := len(sentences)
	if n > 3 {
		n = 3
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("• " + truncate(sentences[i], 200))
	}
	sb.WriteString(fmt.Sprintf("\n• Lasāmība: %s (%d)", readability.Level(score), score))
	return sb.String()
}
