package ai

import (
	"encoding/json"

	"github.com/redaktor-ai/textserver/internal/domain"
)

// errNoJSON marks a response with no parseable JSON payload. Parsing
// failures are retried like any other service error.
var errNoJSON = domain.WrapError("extract_json", domain.ErrInvalidAIResponse, true)

// extractJSON attempts to extract a JSON object from content that might
// include markdown fences or prose around it. It returns the first
// balanced {...} substring that parses, or "".
func extractJSON(content string) string {
	// Try to parse the entire content as JSON first
	if isValidJSON(content) {
		return content
	}

	// Find opening brace
	start := -1
	for i, c := range content {
		if c == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	// Find matching closing brace
	depth := 0
	end := -1
	for i := start; i < len(content); i++ {
		if content[i] == '{' {
			depth++
		} else if content[i] == '}' {
			depth--
			if depth == 0 {
				end = i + 1
				break
			}
		}
	}
	if end == -1 {
		return ""
	}

	extracted := content[start:end]
	if isValidJSON(extracted) {
		return extracted
	}
	return ""
}

func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}

// parseDocument parses the service output into an untyped document.
// Strict parse first, then the balanced-brace extraction fallback.
func parseDocument(content string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err == nil {
		return doc, nil
	}

	extracted := extractJSON(content)
	if extracted == "" {
		return nil, errNoJSON
	}
	if err := json.Unmarshal([]byte(extracted), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
