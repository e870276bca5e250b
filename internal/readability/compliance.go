package readability

import (
	"math"

	"github.com/redaktor-ai/textserver/internal/domain"
)

// AssessCompliance maps structural metrics to guideline-compliance tiers
// and an overall weighted score. Deterministic and side-effect free; the
// golden-value tests are pinned to this function.
//
// Ideal sentence length is 15-20 words; passive voice should stay under
// 5% for an excellent grade; clarity follows readability thresholds.
// Overall = 0.3*sentenceLength + 0.3*activeVoice + 0.4*readability.
func AssessCompliance(avgWordsPerSentence float64, passiveVoicePct, readabilityScore, longSentencesPct int) domain.GuidelineCompliance {
	var sentenceLength domain.ComplianceTier
	var sentenceLengthScore int
	switch {
	case avgWordsPerSentence >= 15 && avgWordsPerSentence <= 20:
		sentenceLength, sentenceLengthScore = domain.TierExcellent, 100
	case avgWordsPerSentence >= 12 && avgWordsPerSentence <= 25:
		sentenceLength, sentenceLengthScore = domain.TierGood, 80
	case avgWordsPerSentence >= 10 && avgWordsPerSentence <= 30:
		sentenceLength, sentenceLengthScore = domain.TierFair, 60
	default:
		sentenceLength, sentenceLengthScore = domain.TierPoor, 40
	}

	// Demote when long sentences dominate, floored at 40.
	if longSentencesPct > 30 {
		sentenceLengthScore -= 20
		if sentenceLengthScore < 40 {
			sentenceLengthScore = 40
		}
		if sentenceLengthScore <= 50 {
			sentenceLength = domain.TierPoor
		}
	}

	var activeVoice domain.ComplianceTier
	var activeVoiceScore int
	switch {
	case passiveVoicePct <= 5:
		activeVoice, activeVoiceScore = domain.TierExcellent, 100
	case passiveVoicePct <= 15:
		activeVoice, activeVoiceScore = domain.TierGood, 80
	case passiveVoicePct <= 30:
		activeVoice, activeVoiceScore = domain.TierFair, 60
	default:
		activeVoice, activeVoiceScore = domain.TierPoor, 40
	}

	var clarity domain.ComplianceTier
	switch {
	case readabilityScore >= 70:
		clarity = domain.TierExcellent
	case readabilityScore >= 60:
		clarity = domain.TierGood
	case readabilityScore >= 50:
		clarity = domain.TierFair
	default:
		clarity = domain.TierPoor
	}

	overall := int(math.Round(
		float64(sentenceLengthScore)*0.3 +
			float64(activeVoiceScore)*0.3 +
			float64(readabilityScore)*0.4))

	return domain.GuidelineCompliance{
		SentenceLength: sentenceLength,
		ActiveVoice:    activeVoice,
		Clarity:        clarity,
		Overall:        overall,
	}
}

// Level maps a readability score to the editorial seven-tier label used
// in summaries and the UI.
func Level(score int) string {
	switch {
	case score >= 90:
		return "Ļoti viegli"
	case score >= 80:
		return "Viegli"
	case score >= 70:
		return "Samērā viegli"
	case score >= 60:
		return "Vidējs"
	case score >= 50:
		return "Samērā grūti"
	case score >= 30:
		return "Grūti"
	default:
		return "Ļoti grūti"
	}
}
