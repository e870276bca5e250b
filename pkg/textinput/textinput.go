// Package textinput normalizes caller-supplied prose before processing.
package textinput

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cleaner handles input preprocessing and size enforcement.
type Cleaner struct {
	maxSize int
}

// New creates a Cleaner. maxSize is the character limit; zero disables
// the limit.
func New(maxSize int) *Cleaner {
	return &Cleaner{maxSize: maxSize}
}

// Stats describes what cleaning changed.
type Stats struct {
	// OriginalChars is the rune count before cleaning.
	OriginalChars int

	// CleanChars is the rune count after cleaning.
	CleanChars int

	// ControlCharsRemoved counts stripped control characters.
	ControlCharsRemoved int

	// Truncated is true when the size limit cut the text.
	Truncated bool
}

// Clean trims the text, strips control characters other than newlines
// and tabs, normalizes Windows line endings and collapses runs of
// horizontal whitespace. Truncation happens at a rune boundary.
func (c *Cleaner) Clean(text string) (string, Stats) {
	stats := Stats{OriginalChars: utf8.RuneCountInString(text)}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			sb.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == utf8.RuneError {
			stats.ControlCharsRemoved++
			continue
		}
		sb.WriteRune(r)
	}
	text = collapseSpaces(sb.String())
	text = strings.TrimSpace(text)

	if c.maxSize > 0 {
		runes := []rune(text)
		if len(runes) > c.maxSize {
			text = strings.TrimSpace(string(runes[:c.maxSize]))
			stats.Truncated = true
		}
	}

	stats.CleanChars = utf8.RuneCountInString(text)
	return text, stats
}

// collapseSpaces reduces runs of spaces and tabs to a single space
// without touching newlines, so paragraph structure survives.
func collapseSpaces(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	inRun := false
	for _, r := range text {
		if r == ' ' || r == '\t' {
			inRun = true
			continue
		}
		if inRun {
			sb.WriteByte(' ')
			inRun = false
		}
		sb.WriteRune(r)
	}
	if inRun {
		sb.WriteByte(' ')
	}
	return sb.String()
}
