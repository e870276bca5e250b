package ai

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain json",
			content: `{"readability_score": 70}`,
			want:    `{"readability_score": 70}`,
		},
		{
			name:    "markdown fenced",
			content: "```json\n{\"readability_score\": 70}\n```",
			want:    `{"readability_score": 70}`,
		},
		{
			name:    "prose around the object",
			content: "Šeit ir analīze: {\"summary\": \"teksts\"} Ceru, ka palīdz!",
			want:    `{"summary": "teksts"}`,
		},
		{
			name:    "nested objects",
			content: `prefix {"metrics": {"wordCount": 5}} suffix`,
			want:    `{"metrics": {"wordCount": 5}}`,
		},
		{
			name:    "no json at all",
			content: "Atvainojiet, nevaru analizēt.",
			want:    "",
		},
		{
			name:    "unbalanced braces",
			content: `{"summary": "teksts"`,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.content); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := parseDocument("```json\n{\"readability_score\": 55}\n```")
	if err != nil {
		t.Fatalf("parseDocument() error = %v", err)
	}
	if doc["readability_score"] != float64(55) {
		t.Errorf("readability_score = %v, want 55", doc["readability_score"])
	}

	if _, err := parseDocument("nekāda JSON šeit nav"); err == nil {
		t.Error("parseDocument() should fail on content without JSON")
	}
}
