// Package domain contains the core domain models and types.
// These models represent the business logic contracts and are independent
// of any infrastructure concerns.
package domain

import "time"

// Language identifies the language of the analyzed text.
type Language string

const (
	LanguageLatvian Language = "lv"
	LanguageRussian Language = "ru"
	LanguageEnglish Language = "en"
)

// IsValid checks if the language value is one of the supported languages.
func (l Language) IsValid() bool {
	switch l {
	case LanguageLatvian, LanguageRussian, LanguageEnglish:
		return true
	default:
		return false
	}
}

// Category identifies the editorial category of the text.
type Category string

const (
	CategoryNews     Category = "news"
	CategorySports   Category = "sports"
	CategoryCulture  Category = "culture"
	CategoryBusiness Category = "business"
	CategoryOpinion  Category = "opinion"
)

// IsValid checks if the category value is one of the allowed values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNews, CategorySports, CategoryCulture, CategoryBusiness, CategoryOpinion:
		return true
	default:
		return false
	}
}

// Style identifies the expected writing style.
type Style string

const (
	StyleFormal   Style = "formal"
	StyleInformal Style = "informal"
	StyleNeutral  Style = "neutral"
)

// IsValid checks if the style value is one of the allowed values.
func (s Style) IsValid() bool {
	switch s {
	case StyleFormal, StyleInformal, StyleNeutral:
		return true
	default:
		return false
	}
}

// TextSettings describes the analysis context for one request.
// Immutable for the lifetime of the request.
type TextSettings struct {
	Language Language `json:"language"`
	Category Category `json:"category"`
	Style    Style    `json:"style"`
}

// Validate checks that every setting carries an allowed value.
func (s TextSettings) Validate() error {
	if !s.Language.IsValid() {
		return ErrInvalidLanguage
	}
	if !s.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !s.Style.IsValid() {
		return ErrInvalidStyle
	}
	return nil
}

// ComplianceTier grades one aspect of guideline compliance.
type ComplianceTier string

const (
	TierExcellent ComplianceTier = "excellent"
	TierGood      ComplianceTier = "good"
	TierFair      ComplianceTier = "fair"
	TierPoor      ComplianceTier = "poor"
)

// GuidelineCompliance maps structural metrics to qualitative tiers and a
// weighted overall score. It is a pure function of the metrics and has no
// identity of its own.
type GuidelineCompliance struct {
	SentenceLength ComplianceTier `json:"sentenceLength"`
	ActiveVoice    ComplianceTier `json:"activeVoice"`
	Clarity        ComplianceTier `json:"clarity"`
	Overall        int            `json:"overall"`
}

// TextMetrics holds the quantitative measures derived from a text.
// Recomputed per analysis, never persisted on its own.
type TextMetrics struct {
	WordCount           int     `json:"wordCount"`
	SentenceCount       int     `json:"sentenceCount"`
	ParagraphCount      int     `json:"paragraphCount"`
	AvgWordsPerSentence float64 `json:"avgWordsPerSentence"`
	ReadabilityScore    int     `json:"readabilityScore"`
	ComplexSentences    int     `json:"complexSentences"`

	PassiveVoiceCount       int     `json:"passiveVoiceCount,omitempty"`
	PassiveVoicePercentage  int     `json:"passiveVoicePercentage,omitempty"`
	LongSentencesCount      int     `json:"longSentencesCount,omitempty"`
	LongSentencesPercentage int     `json:"longSentencesPercentage,omitempty"`
	AvgParagraphLength      float64 `json:"avgParagraphLength,omitempty"`
	WordRepetitionScore     int     `json:"wordRepetitionScore,omitempty"`

	GuidelineCompliance *GuidelineCompliance `json:"guidelineCompliance,omitempty"`
}

// IssueSeverity indicates the impact level of a detected issue.
type IssueSeverity string

const (
	SeverityLow    IssueSeverity = "low"
	SeverityMedium IssueSeverity = "medium"
	SeverityHigh   IssueSeverity = "high"
)

// IsValid checks if the severity value is one of the allowed values.
func (s IssueSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// Position locates an issue as character offsets into the original text.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Issue is one problem the generative service found in the text.
type Issue struct {
	// Type is a free-text category such as readability, grammar,
	// style or complexity.
	Type string `json:"type"`

	// Severity indicates the impact level.
	Severity IssueSeverity `json:"severity"`

	// Sentence is the excerpt the issue refers to.
	Sentence string `json:"sentence"`

	// Suggestion is the proposed correction.
	Suggestion string `json:"suggestion"`

	// Position locates the issue in the original text.
	Position Position `json:"position"`

	// Accepted is user-controlled and defaults to false.
	Accepted bool `json:"accepted"`
}

// AnalysisResult is the final analysis object returned to the caller.
// Invariant: ReadabilityScore and Metrics.ReadabilityScore agree; the
// result merger is the single source of truth for resolving them.
type AnalysisResult struct {
	Metrics          TextMetrics `json:"metrics"`
	Issues           []Issue     `json:"issues"`
	Summary          string      `json:"summary"`
	ReadabilityScore int         `json:"readability_score"`
}

// AnalyzeRequest is the caller-facing payload for a full analysis.
// Prompt is optional: when empty the server assembles it from the admin
// store; when set it is used verbatim (client-assembled prompts).
type AnalyzeRequest struct {
	Text     string       `json:"text" binding:"required"`
	Settings TextSettings `json:"settings"`
	Prompt   string       `json:"prompt"`
	Debug    bool         `json:"debug"`
}

// Guideline is a prioritized style rule owned by the editorial admin.
// The core only reads guidelines, sorted by priority descending, during
// prompt assembly.
type Guideline struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Priority  int       `json:"priority"` // 1-10, higher first
	CreatedAt time.Time `json:"createdAt"`
}

// KnowledgeBaseArticle is a reference "good example" text, filtered by
// (language, category) during prompt assembly.
type KnowledgeBaseArticle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Language  Language  `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// SystemPrompt is one version of the analysis prompt template. The
// template must contain the {language} {category} {style} {guidelines}
// {text} placeholders.
type SystemPrompt struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}

// AdminData is the persisted admin dataset, stored as a single JSON
// document and consumed by the core as a read model.
type AdminData struct {
	Guidelines     []Guideline            `json:"guidelines"`
	KnowledgeBase  []KnowledgeBaseArticle `json:"knowledgeBase"`
	SystemPrompts  []SystemPrompt         `json:"systemPrompts"`
	ActivePromptID string                 `json:"activePromptId"`
}
