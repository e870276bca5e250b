// Package prompt assembles the analysis instruction string sent to the
// generative service. It merges the user text, the request settings,
// prioritized editorial guidelines and relevant knowledge-base excerpts
// into a versioned template with placeholder substitution.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/redaktor-ai/textserver/internal/domain"
)

// Placeholders every template must contain exactly once each.
var requiredPlaceholders = []string{
	"{language}",
	"{category}",
	"{style}",
	"{guidelines}",
	"{text}",
}

// DefaultExcerptBudget caps knowledge-base excerpt length in characters.
const DefaultExcerptBudget = 300

// Human-readable localized labels substituted for the enum values.
var (
	languageNames = map[domain.Language]string{
		domain.LanguageLatvian: "latviešu",
		domain.LanguageRussian: "krievu",
		domain.LanguageEnglish: "angļu",
	}
	categoryNames = map[domain.Category]string{
		domain.CategoryNews:     "Ziņas",
		domain.CategorySports:   "Sports",
		domain.CategoryCulture:  "Kultūra",
		domain.CategoryBusiness: "Bizness",
		domain.CategoryOpinion:  "Viedoklis",
	}
	styleNames = map[domain.Style]string{
		domain.StyleFormal:   "Formāls",
		domain.StyleInformal: "Neformāls",
		domain.StyleNeutral:  "Neitrāls",
	}
)

// LanguageName returns the localized label for a language, falling back
// to Latvian for unknown values.
func LanguageName(lang domain.Language) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return languageNames[domain.LanguageLatvian]
}

// Builder assembles analysis prompts from admin data.
type Builder struct {
	excerptBudget int
}

// NewBuilder creates a prompt builder. excerptBudget caps knowledge-base
// excerpts; non-positive values use DefaultExcerptBudget.
func NewBuilder(excerptBudget int) *Builder {
	if excerptBudget <= 0 {
		excerptBudget = DefaultExcerptBudget
	}
	return &Builder{excerptBudget: excerptBudget}
}

// Build substitutes every placeholder in template exactly once and
// returns the assembled prompt. Guidelines are rendered in priority
// order (descending, stable on ties); knowledge-base articles are
// filtered to those matching the settings language and category and
// appended as truncated excerpts.
func (b *Builder) Build(text string, settings domain.TextSettings, guidelines []domain.Guideline, articles []domain.KnowledgeBaseArticle, template string) string {
	block := b.guidelineBlock(guidelines) + b.knowledgeBlock(settings, articles)

	prompt := template
	prompt = strings.Replace(prompt, "{language}", LanguageName(settings.Language), 1)
	prompt = strings.Replace(prompt, "{category}", categoryNames[settings.Category], 1)
	prompt = strings.Replace(prompt, "{style}", styleNames[settings.Style], 1)
	prompt = strings.Replace(prompt, "{guidelines}", block, 1)
	prompt = strings.Replace(prompt, "{text}", text, 1)
	return prompt
}

// guidelineBlock renders the guidelines as a numbered block, sorted by
// priority descending. The sort is stable so ties keep their original
// relative order.
func (b *Builder) guidelineBlock(guidelines []domain.Guideline) string {
	sorted := make([]domain.Guideline, len(guidelines))
	copy(sorted, guidelines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	parts := make([]string, 0, len(sorted))
	for i, g := range sorted {
		parts = append(parts, fmt.Sprintf("%d. %s:\n%s", i+1, g.Name, g.Content))
	}
	return strings.Join(parts, "\n\n")
}

// knowledgeBlock renders excerpts of the articles matching the settings
// language and category. Empty when nothing matches.
func (b *Builder) knowledgeBlock(settings domain.TextSettings, articles []domain.KnowledgeBaseArticle) string {
	var matched []domain.KnowledgeBaseArticle
	for _, a := range articles {
		if a.Language == settings.Language && a.Category == settings.Category {
			matched = append(matched, a)
		}
	}
	if len(matched) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nLABU RAKSTU PIEMĒRI:\n")
	for _, a := range matched {
		sb.WriteString("- ")
		sb.WriteString(a.Title)
		sb.WriteString(":\n")
		sb.WriteString(truncate(a.Content, b.excerptBudget))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ValidationResult reports whether a template carries every required
// placeholder.
type ValidationResult struct {
	Valid               bool     `json:"valid"`
	MissingPlaceholders []string `json:"missingPlaceholders,omitempty"`
}

// ValidateTemplate checks that all five required placeholders are
// present. This must pass before a template is accepted into the admin
// store.
func ValidateTemplate(template string) ValidationResult {
	var missing []string
	for _, p := range requiredPlaceholders {
		if !strings.Contains(template, p) {
			missing = append(missing, p)
		}
	}
	return ValidationResult{
		Valid:               len(missing) == 0,
		MissingPlaceholders: missing,
	}
}

// truncate limits s to max runes, appending an ellipsis marker when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// DefaultTemplate is the seeded analysis prompt template, used when the
// admin store has never been written.
const DefaultTemplate = `Tu esi profesionāls teksta redaktors {language} valodā.
Analizē šo tekstu pēc šādiem kritērijiem:

VADLĪNIJAS:
{guidelines}

KATEGORIJA: {category}
STILS: {style}

TEKSTS:
{text}

Atgriezies JSON formātā ar šādu struktūru:
{
  "readability_score": 0-100,
  "issues": [{"type": "readability|grammar|style|complexity", "severity": "low|medium|high", "sentence": "problēmatiskais teikums", "suggestion": "ieteikums uzlabojumam", "position": {"start": 0, "end": 0}}],
  "summary": "• Bullet point 1\n• Bullet point 2\n• Bullet point 3",
  "metrics": {"wordCount": 0, "sentenceCount": 0, "paragraphCount": 0, "avgWordsPerSentence": 0, "readabilityScore": 0, "complexSentences": 0}
}`

// SummarizePrompt builds the single-shot summarization prompt.
func SummarizePrompt(text string, lang domain.Language) string {
	return fmt.Sprintf(`Izveido īsu, strukturētu kopsavilkumu %s valodā šim tekstam.
Izmanto bullet points formātu.

TEKSTS:
%s

Atbildi tikai ar kopsavilkumu, bez papildu komentāriem.`, LanguageName(lang), text)
}

// SuggestionsPrompt builds the single-shot improvement-suggestions
// prompt. The response is expected as a numbered list.
func SuggestionsPrompt(text string, lang domain.Language) string {
	return fmt.Sprintf(`Sniedz 5 konkrētus ieteikumus, kā uzlabot šo tekstu %s valodā.
Koncentrējies uz lasāmību, skaidrību un stilu.

TEKSTS:
%s

Atbildi ar numurētu sarakstu, katrs ieteikums jaunā rindā.`, LanguageName(lang), text)
}
