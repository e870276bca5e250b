package ai

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/redaktor-ai/textserver/internal/domain"
)

// Normalization defaults.
const (
	defaultReadabilityScore = 50
	defaultIssueType        = "style"

	// summaryPlaceholder is used when the service supplied nothing usable.
	summaryPlaceholder = "Kopsavilkums nav pieejams"
)

// Normalize maps the untyped service document onto the strict
// AnalysisResponse shape. It is total: every missing or malformed field
// gets a safe default, and malformed issue elements are dropped rather
// than invalidating the response.
func Normalize(doc map[string]any) *AnalysisResponse {
	score := normalizeScore(doc["readability_score"])

	return &AnalysisResponse{
		ReadabilityScore: score,
		Issues:           normalizeIssues(doc["issues"]),
		Summary:          normalizeSummary(doc["summary"]),
		Metrics:          normalizeMetrics(doc["metrics"], score),
	}
}

// normalizeScore coerces the top-level score to an integer clamped to
// [0,100], defaulting when missing or invalid.
func normalizeScore(v any) int {
	n, ok := coerceNumber(v)
	if !ok {
		return defaultReadabilityScore
	}
	return clampInt(int(math.Round(n)), 0, 100)
}

// normalizeIssues validates each element: sentence and suggestion must
// be non-empty after trimming or the issue is dropped. Type and severity
// default when not usable strings; positions are coerced with end
// floored at start.
func normalizeIssues(v any) []domain.Issue {
	items, ok := v.([]any)
	if !ok {
		return []domain.Issue{}
	}

	issues := make([]domain.Issue, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		sentence := strings.TrimSpace(coerceString(obj["sentence"]))
		suggestion := strings.TrimSpace(coerceString(obj["suggestion"]))
		if sentence == "" || suggestion == "" {
			continue
		}

		issueType := defaultIssueType
		if t, ok := obj["type"].(string); ok && strings.TrimSpace(t) != "" {
			issueType = strings.TrimSpace(t)
		}

		severity := domain.SeverityMedium
		if s, ok := obj["severity"].(string); ok {
			if sv := domain.IssueSeverity(strings.ToLower(strings.TrimSpace(s))); sv.IsValid() {
				severity = sv
			}
		}

		issues = append(issues, domain.Issue{
			Type:       issueType,
			Severity:   severity,
			Sentence:   sentence,
			Suggestion: suggestion,
			Position:   normalizePosition(obj["position"], sentence),
		})
	}
	return issues
}

// normalizePosition coerces character offsets, defaulting start to 0 and
// end to the sentence length, with end never before start.
func normalizePosition(v any, sentence string) domain.Position {
	start, end := 0, utf8.RuneCountInString(sentence)

	if obj, ok := v.(map[string]any); ok {
		if n, ok := coerceNumber(obj["start"]); ok {
			start = int(math.Round(n))
		}
		if n, ok := coerceNumber(obj["end"]); ok {
			end = int(math.Round(n))
		}
	}

	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return domain.Position{Start: start, End: end}
}

// normalizeSummary accepts a non-empty string as-is, bullets and joins
// array elements, and falls back to a fixed placeholder otherwise.
func normalizeSummary(v any) string {
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) != "" {
			return s
		}
	case []any:
		var lines []string
		for _, item := range s {
			line := strings.TrimSpace(coerceString(item))
			if line != "" {
				lines = append(lines, "• "+line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}
	return summaryPlaceholder
}

// normalizeMetrics coerces each numeric field independently with a zero
// fallback, except readabilityScore which falls back to the normalized
// top-level score. Bounded fields are clamped.
func normalizeMetrics(v any, topScore int) domain.TextMetrics {
	obj, _ := v.(map[string]any)

	score := topScore
	if n, ok := coerceNumber(obj["readabilityScore"]); ok {
		score = clampInt(int(math.Round(n)), 0, 100)
	}

	avgWPS := coerceFloatField(obj, "avgWordsPerSentence")
	if avgWPS < 0 {
		avgWPS = 0
	}

	return domain.TextMetrics{
		WordCount:           coerceCountField(obj, "wordCount"),
		SentenceCount:       coerceCountField(obj, "sentenceCount"),
		ParagraphCount:      coerceCountField(obj, "paragraphCount"),
		AvgWordsPerSentence: avgWPS,
		ReadabilityScore:    score,
		ComplexSentences:    coerceCountField(obj, "complexSentences"),
	}
}

// coerceNumber accepts JSON numbers and numeric strings.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceCountField reads a non-negative integer field, zero fallback.
func coerceCountField(obj map[string]any, key string) int {
	n, ok := coerceNumber(obj[key])
	if !ok || n < 0 {
		return 0
	}
	return int(math.Round(n))
}

// coerceFloatField reads a float field, zero fallback.
func coerceFloatField(obj map[string]any, key string) float64 {
	n, ok := coerceNumber(obj[key])
	if !ok {
		return 0
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
