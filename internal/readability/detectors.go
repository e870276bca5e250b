package readability

import (
	"regexp"
	"strings"

	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/textproc"
)

// Passive-voice detection is heuristic, sentence-level regex matching,
// not a grammatical parse. False positives and negatives are expected.
//
// Latvian matches the tiek/tika/tiks/top verb family; Russian matches
// reflexive verbs and был/была + participle forms; English matches
// auxiliary + -ed/-en participles. Cyrillic patterns use explicit letter
// classes because RE2 word boundaries only apply to ASCII.
var passivePatterns = map[domain.Language][]*regexp.Regexp{
	domain.LanguageLatvian: {
		regexp.MustCompile(`(?i)\btiek\s+[a-zāčēģīķļņšūž]+`),
		regexp.MustCompile(`(?i)\btika\s+[a-zāčēģīķļņšūž]+`),
		regexp.MustCompile(`(?i)\btiks\s+[a-zāčēģīķļņšūž]+`),
		regexp.MustCompile(`(?i)\btop\s+[a-zāčēģīķļņšūž]+`),
		regexp.MustCompile(`(?i)\btika\s+[a-zāčēģīķļņšūž]+(t[sa]|t[īi]|šan[as])`),
		regexp.MustCompile(`(?i)\btiek\s+[a-zāčēģīķļņšūž]+(t[sa]|t[īi]|šan[as])`),
	},
	domain.LanguageRussian: {
		regexp.MustCompile(`(?i)(^|[^а-яё])[а-яё]+(ся|сь)($|[^а-яё])`),
		regexp.MustCompile(`(?i)(^|[^а-яё])(был|была|было|были|будет|будут)\s+[а-яё]+(н|т|м)[а-яё]*($|[^а-яё])`),
	},
	domain.LanguageEnglish: {
		regexp.MustCompile(`(?i)\b(is|are|was|were|been|being)\s+\w+ed\b`),
		regexp.MustCompile(`(?i)\b(is|are|was|were|been|being)\s+(being\s+)?\w+en\b`),
		regexp.MustCompile(`(?i)\bgets?\s+\w+ed\b`),
	},
}

// vaguePattern pairs a regex with the index of the capture group holding
// the matched word. Latvian and Russian patterns need boundary helper
// groups since `\b` is ASCII-only, so the word sits in group 2 there.
type vaguePattern struct {
	re    *regexp.Regexp
	group int
}

// Vague or weak wording that editorial guidelines ask to avoid.
var vaguePatterns = map[domain.Language][]vaguePattern{
	domain.LanguageLatvian: {
		{regexp.MustCompile(`(?i)(^|[^a-zāčēģīķļņšūž])(daudz|daži|vairāki|zināmā mērā|savā ziņā|varētu būt|iespējams|šķiet)($|[^a-zāčēģīķļņšūž])`), 2},
		{regexp.MustCompile(`(?i)(^|[^a-zāčēģīķļņšūž])(lieta|lietas|process|procesi|jautājums|jautājumi)($|[^a-zāčēģīķļņšūž])`), 2},
	},
	domain.LanguageRussian: {
		{regexp.MustCompile(`(?i)(^|[^а-яё])(много|несколько|некоторые|возможно|вероятно|кажется|может быть)($|[^а-яё])`), 2},
		{regexp.MustCompile(`(?i)(^|[^а-яё])(вещь|вещи|процесс|процессы|вопрос|вопросы)($|[^а-яё])`), 2},
	},
	domain.LanguageEnglish: {
		{regexp.MustCompile(`(?i)\b(very|really|quite|some|many|few|thing|things|stuff|probably|maybe)\b`), 1},
	},
}

// DetectPassiveVoice returns the sentences matching any passive-voice
// pattern for the language. Unknown languages fall back to the English
// patterns.
func DetectPassiveVoice(text string, lang domain.Language) []string {
	patterns, ok := passivePatterns[lang]
	if !ok {
		patterns = passivePatterns[domain.LanguageEnglish]
	}

	var out []string
	for _, sentence := range textproc.Sentences(text, lang) {
		for _, p := range patterns {
			if p.MatchString(sentence) {
				out = append(out, sentence)
				break
			}
		}
	}
	return out
}

// DetectVagueWords returns the distinct vague words found in the text,
// lowercased, in order of first appearance.
func DetectVagueWords(text string, lang domain.Language) []string {
	patterns, ok := vaguePatterns[lang]
	if !ok {
		patterns = vaguePatterns[domain.LanguageEnglish]
	}

	seen := make(map[string]struct{})
	var out []string
	for _, p := range patterns {
		for _, groups := range p.re.FindAllStringSubmatch(text, -1) {
			if p.group >= len(groups) {
				continue
			}
			word := strings.ToLower(strings.TrimSpace(groups[p.group]))
			if word == "" {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			out = append(out, word)
		}
	}
	return out
}
