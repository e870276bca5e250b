// Package textproc provides locale-aware text segmentation: words,
// sentences and paragraphs. All functions are pure, deterministic and
// total; they never fail and keep no state.
package textproc

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/redaktor-ai/textserver/internal/domain"
)

// Uppercase letter sets used as sentence-start lookahead per language.
const (
	latvianUpper  = "ĀČĒĢĪĶĻŅŠŪŽ"
	cyrillicUpper = "АБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ"
)

var paragraphSplit = regexp.MustCompile(`\n\n+`)

// nonWordChars strips everything outside the word alphabet used for
// keyword and repetition counting (ASCII word chars, Latvian diacritics,
// Cyrillic).
var nonWordChars = regexp.MustCompile(`[^a-zA-Z0-9_āčēģīķļņšūžа-яёА-ЯЁ\s]`)

// Words splits text on whitespace runs and drops empty tokens.
func Words(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// CountWords returns the number of whitespace-separated words.
func CountWords(text string) int {
	return len(Words(text))
}

// isSentenceStart reports whether r belongs to the uppercase alphabet of
// the target language.
func isSentenceStart(r rune, lang domain.Language) bool {
	if r >= 'A' && r <= 'Z' {
		return true
	}
	switch lang {
	case domain.LanguageLatvian:
		return strings.ContainsRune(latvianUpper, r)
	case domain.LanguageRussian:
		return strings.ContainsRune(cyrillicUpper, r)
	default:
		return false
	}
}

// Sentences splits text into sentences. A boundary is a run of ".!?"
// followed by whitespace and an uppercase letter of the target alphabet,
// or the end of the string. The delimiter run is consumed; results are
// trimmed and empty pieces dropped.
//
// Known boundary behavior: text with no terminal punctuation yields one
// sentence, and a punctuation run followed only by trailing whitespace is
// not treated as a boundary (punctuation stays with the sentence). This
// mirrors the lookahead delimiter exactly and is not corrected.
func Sentences(text string, lang domain.Language) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var out []string
	var cur strings.Builder

	i := 0
	for i < len(runes) {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			cur.WriteRune(r)
			i++
			continue
		}

		// Collect the full punctuation run.
		j := i
		for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
			j++
		}

		// Lookahead: whitespace then an uppercase letter, or end of string.
		boundary := j == len(runes)
		if !boundary {
			k := j
			for k < len(runes) && unicode.IsSpace(runes[k]) {
				k++
			}
			boundary = k > j && k < len(runes) && isSentenceStart(runes[k], lang)
		}

		if boundary {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		} else {
			cur.WriteString(string(runes[i:j]))
		}
		i = j
	}

	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// Paragraphs splits text on two or more consecutive newlines, trims each
// piece and drops empties.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphSplit.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AvgWordsPerSentence returns the average word count per sentence,
// rounded to one decimal. Zero when the text has no sentences.
func AvgWordsPerSentence(text string, lang domain.Language) float64 {
	sentences := Sentences(text, lang)
	if len(sentences) == 0 {
		return 0
	}
	avg := float64(CountWords(text)) / float64(len(sentences))
	return math.Round(avg*10) / 10
}

// Keywords extracts up to n keywords by word frequency. Words are
// case-folded, stripped of punctuation and must be longer than three
// characters.
func Keywords(text string, n int) []string {
	cleaned := nonWordChars.ReplaceAllString(strings.ToLower(text), "")

	freq := make(map[string]int)
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) > 3 {
			freq[w]++
		}
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
