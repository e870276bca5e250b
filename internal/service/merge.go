package service

import (
	"github.com/redaktor-ai/textserver/internal/ai"
	"github.com/redaktor-ai/textserver/internal/domain"
)

// Merge combines locally computed metrics with a normalized service
// response. Local metrics are the baseline; service metric fields only
// overwrite them when non-zero, because a zero field means the service
// did not report that measure. The top-level score always comes from the
// service and is mirrored into Metrics.ReadabilityScore so the two never
// disagree.
func Merge(local domain.TextMetrics, svc *ai.AnalysisResponse) domain.AnalysisResult {
	if svc == nil {
		return domain.AnalysisResult{
			Metrics:          local,
			Issues:           []domain.Issue{},
			Summary:          "",
			ReadabilityScore: local.ReadabilityScore,
		}
	}

	merged := local
	overlayMetrics(&merged, svc.Metrics)
	merged.ReadabilityScore = svc.ReadabilityScore

	issues := svc.Issues
	if issues == nil {
		issues = []domain.Issue{}
	}

	return domain.AnalysisResult{
		Metrics:          merged,
		Issues:           issues,
		Summary:          svc.Summary,
		ReadabilityScore: svc.ReadabilityScore,
	}
}

func overlayMetrics(dst *domain.TextMetrics, src domain.TextMetrics) {
	if src.WordCount > 0 {
		dst.WordCount = src.WordCount
	}
	if src.SentenceCount > 0 {
		dst.SentenceCount = src.SentenceCount
	}
	if src.ParagraphCount > 0 {
		dst.ParagraphCount = src.ParagraphCount
	}
	if src.AvgWordsPerSentence > 0 {
		dst.AvgWordsPerSentence = src.AvgWordsPerSentence
	}
	if src.ComplexSentences > 0 {
		dst.ComplexSentences = src.ComplexSentences
	}
	if src.PassiveVoiceCount > 0 {
		dst.PassiveVoiceCount = src.PassiveVoiceCount
	}
	if src.PassiveVoicePercentage > 0 {
		dst.PassiveVoicePercentage = src.PassiveVoicePercentage
	}
	if src.LongSentencesCount > 0 {
		dst.LongSentencesCount = src.LongSentencesCount
	}
	if src.LongSentencesPercentage > 0 {
		dst.LongSentencesPercentage = src.LongSentencesPercentage
	}
	if src.AvgParagraphLength > 0 {
		dst.AvgParagraphLength = src.AvgParagraphLength
	}
	if src.WordRepetitionScore > 0 {
		dst.WordRepetitionScore = src.WordRepetitionScore
	}
}
