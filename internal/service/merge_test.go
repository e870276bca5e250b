package service

import (
	"testing"

	"github.com/redaktor-ai/textserver/internal/ai"
	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/stretchr/testify/assert"
)

func localMetrics() domain.TextMetrics {
	return domain.TextMetrics{
		WordCount:           100,
		SentenceCount:       8,
		ParagraphCount:      3,
		AvgWordsPerSentence: 12.5,
		ReadabilityScore:    62,
		ComplexSentences:    2,
		PassiveVoiceCount:   1,
		WordRepetitionScore: 88,
	}
}

func TestMergeServiceOverridesScore(t *testing.T) {
	svc := &ai.AnalysisResponse{
		ReadabilityScore: 75,
		Issues:           []domain.Issue{{Type: "style", Severity: domain.SeverityLow, Sentence: "A.", Suggestion: "B."}},
		Summary:          "• Kopsavilkums",
	}

	got := Merge(localMetrics(), svc)

	assert.Equal(t, 75, got.ReadabilityScore)
	assert.Equal(t, 75, got.Metrics.ReadabilityScore, "metric score mirrors the top-level score")
	assert.Equal(t, "• Kopsavilkums", got.Summary)
	assert.Len(t, got.Issues, 1)
}

func TestMergeZeroFieldsKeepLocalValues(t *testing.T) {
	svc := &ai.AnalysisResponse{
		ReadabilityScore: 70,
		Metrics:          domain.TextMetrics{WordCount: 0, SentenceCount: 9},
	}

	got := Merge(localMetrics(), svc)

	assert.Equal(t, 100, got.Metrics.WordCount, "zero service field must not clobber local value")
	assert.Equal(t, 9, got.Metrics.SentenceCount, "non-zero service field wins")
	assert.Equal(t, 12.5, got.Metrics.AvgWordsPerSentence)
	assert.Equal(t, 88, got.Metrics.WordRepetitionScore)
}

func TestMergeNilService(t *testing.T) {
	got := Merge(localMetrics(), nil)

	assert.Equal(t, 62, got.ReadabilityScore)
	assert.NotNil(t, got.Issues)
	assert.Empty(t, got.Issues)
	assert.Empty(t, got.Summary)
}

func TestMergeNilIssues(t *testing.T) {
	got := Merge(localMetrics(), &ai.AnalysisResponse{ReadabilityScore: 50})
	assert.NotNil(t, got.Issues, "issues must serialize as [], not null")
}
