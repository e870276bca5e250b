// Package readability derives quantitative measures from prose: a
// localized Flesch-family readability score, syllable estimation,
// passive-voice and long-sentence heuristics, a word-repetition score and
// guideline-compliance assessment. Everything here is deterministic and
// side-effect free.
//
// The Russian formula coefficients and the per-language detection
// patterns are kept as-is for behavioral parity, not linguistic
// correctness.
package readability

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/textproc"
)

// Tuning constants. Defaults match the editorial guidelines; override
// via Options.
const (
	// DefaultLongSentenceThreshold is the word count above which a
	// sentence counts as long/complex.
	DefaultLongSentenceThreshold = 25

	// DefaultRepetitionMinWordLen is the minimum word length (exclusive)
	// counted by the repetition score.
	DefaultRepetitionMinWordLen = 4
)

// Options tunes the metrics computation.
type Options struct {
	// LongSentenceThreshold overrides DefaultLongSentenceThreshold when
	// positive.
	LongSentenceThreshold int

	// RepetitionMinWordLen overrides DefaultRepetitionMinWordLen when
	// positive.
	RepetitionMinWordLen int
}

func (o Options) longThreshold() int {
	if o.LongSentenceThreshold > 0 {
		return o.LongSentenceThreshold
	}
	return DefaultLongSentenceThreshold
}

func (o Options) repetitionMinLen() int {
	if o.RepetitionMinWordLen > 0 {
		return o.RepetitionMinWordLen
	}
	return DefaultRepetitionMinWordLen
}

// wordCleaner strips punctuation from a single lowercased word before
// syllable counting.
var wordCleaner = regexp.MustCompile(`[^a-z0-9_āčēģīķļņšūžа-яё]`)

var (
	latvianVowels = "aāeēiīouū"
	russianVowels = "аеёиоуыэюя"

	englishVowelClusters = regexp.MustCompile(`[aeiouy]+`)
)

// Syllables estimates the total syllable count of the text using a
// per-word vowel heuristic with language-specific vowel sets. English
// counts vowel clusters with a silent trailing "e" adjustment and a floor
// of one syllable per word.
func Syllables(text string, lang domain.Language) int {
	total := 0
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := wordCleaner.ReplaceAllString(raw, "")
		if word == "" {
			continue
		}

		switch lang {
		case domain.LanguageLatvian:
			for _, r := range word {
				if strings.ContainsRune(latvianVowels, r) {
					total++
				}
			}
		case domain.LanguageRussian:
			for _, r := range word {
				if strings.ContainsRune(russianVowels, r) {
					total++
				}
			}
		default:
			n := len(englishVowelClusters.FindAllString(word, -1))
			if strings.HasSuffix(word, "e") {
				n--
			}
			if n <= 0 {
				n = 1
			}
			total += n
		}
	}
	return total
}

// Score computes the localized Flesch-Reading-Ease score, rounded and
// clamped to [0,100]. Degenerate input (no words or no sentences)
// yields 0, not an error.
func Score(text string, lang domain.Language) int {
	sentences := textproc.Sentences(text, lang)
	words := textproc.CountWords(text)
	if len(sentences) == 0 || words == 0 {
		return 0
	}

	avgWPS := float64(words) / float64(len(sentences))
	avgSPW := float64(Syllables(text, lang)) / float64(words)

	var score float64
	switch lang {
	case domain.LanguageRussian:
		score = 206.835 - 1.3*avgWPS - 60.1*avgSPW
	default: // lv and en share coefficients
		score = 206.835 - 1.015*avgWPS - 84.6*avgSPW
	}

	return clamp(int(math.Round(score)), 0, 100)
}

// FindLongSentences returns the sentences whose word count exceeds
// threshold.
func FindLongSentences(text string, lang domain.Language, threshold int) []string {
	var out []string
	for _, s := range textproc.Sentences(text, lang) {
		if textproc.CountWords(s) > threshold {
			out = append(out, s)
		}
	}
	return out
}

// RepetitionScore scales the ratio of unique words to total words
// (case-folded, punctuation-stripped, longer than minLen characters) to
// 0-100. Higher means less repetitive; empty input is vacuously 100.
func RepetitionScore(text string, minLen int) int {
	var words []string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		w := wordCleaner.ReplaceAllString(raw, "")
		if utf8.RuneCountInString(w) > minLen {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 100
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(words))
	return int(math.Round(ratio * 100))
}

// Compute orchestrates the full metrics computation for one text.
func Compute(text string, lang domain.Language, opts Options) domain.TextMetrics {
	wordCount := textproc.CountWords(text)
	sentenceCount := len(textproc.Sentences(text, lang))
	paragraphCount := len(textproc.Paragraphs(text))

	threshold := opts.longThreshold()
	score := Score(text, lang)

	passive := DetectPassiveVoice(text, lang)
	long := FindLongSentences(text, lang, threshold)

	passivePct := 0
	longPct := 0
	if sentenceCount > 0 {
		passivePct = int(math.Round(float64(len(passive)) / float64(sentenceCount) * 100))
		longPct = int(math.Round(float64(len(long)) / float64(sentenceCount) * 100))
	}

	avgParagraphLength := 0.0
	if paragraphCount > 0 {
		avgParagraphLength = math.Round(float64(sentenceCount)/float64(paragraphCount)*10) / 10
	}

	avgWPS := textproc.AvgWordsPerSentence(text, lang)
	repetition := RepetitionScore(text, opts.repetitionMinLen())
	compliance := AssessCompliance(avgWPS, passivePct, score, longPct)

	return domain.TextMetrics{
		WordCount:               wordCount,
		SentenceCount:           sentenceCount,
		ParagraphCount:          paragraphCount,
		AvgWordsPerSentence:     avgWPS,
		ReadabilityScore:        score,
		ComplexSentences:        len(long),
		PassiveVoiceCount:       len(passive),
		PassiveVoicePercentage:  passivePct,
		LongSentencesCount:      len(long),
		LongSentencesPercentage: longPct,
		AvgParagraphLength:      avgParagraphLength,
		WordRepetitionScore:     repetition,
		GuidelineCompliance:     &compliance,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
