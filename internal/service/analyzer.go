// Package service implements the analysis business logic, connecting
// local text processing, prompt assembly and the generative client.
package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/redaktor-ai/textserver/internal/ai"
	"github.com/redaktor-ai/textserver/internal/config"
	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/prompt"
	"github.com/redaktor-ai/textserver/internal/readability"
	"github.com/redaktor-ai/textserver/internal/store"
	"github.com/redaktor-ai/textserver/internal/textproc"
	"github.com/redaktor-ai/textserver/pkg/textinput"
	"go.uber.org/zap"
)

// SummaryPlaceholder is returned when summarization is unavailable.
const SummaryPlaceholder = "Kopsavilkums nav pieejams"

// AnalysisObserver receives end to end analysis durations, retries
// included.
type AnalysisObserver interface {
	ObserveAnalysis(d time.Duration)
}

// Analyzer orchestrates a full text analysis.
type Analyzer struct {
	client   ai.Client
	store    *store.Store
	builder  *prompt.Builder
	cleaner  *textinput.Cleaner
	cfg      *config.Config
	observer AnalysisObserver
	logger   *zap.Logger
}

// NewAnalyzer creates the analysis service.
func NewAnalyzer(client ai.Client, st *store.Store, cfg *config.Config, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		client:  client,
		store:   st,
		builder: prompt.NewBuilder(cfg.Processing.ExcerptBudget),
		cleaner: textinput.New(0),
		cfg:     cfg,
		logger:  logger.Named("analyzer"),
	}
}

// SetObserver wires an optional duration observer.
func (a *Analyzer) SetObserver(o AnalysisObserver) {
	a.observer = o
}

// Analyze validates the request, computes local metrics, assembles the
// prompt when the caller did not supply one, calls the generative
// service and merges the results. Generative failures degrade to local
// results; validation failures are the only errors.
func (a *Analyzer) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalysisResult, *ai.Diagnostics, error) {
	start := time.Now()

	text, stats := a.cleaner.Clean(req.Text)
	if text == "" {
		return nil, nil, domain.ErrEmptyText
	}
	if utf8.RuneCountInString(text) > a.cfg.Processing.MaxTextSize {
		return nil, nil, domain.ErrTextTooLarge
	}
	if err := req.Settings.Validate(); err != nil {
		return nil, nil, err
	}

	opts := readability.Options{
		LongSentenceThreshold: a.cfg.Processing.LongSentenceThreshold,
		RepetitionMinWordLen:  a.cfg.Processing.RepetitionMinWordLen,
	}
	local := readability.Compute(text, req.Settings.Language, opts)

	assembled := req.Prompt
	if assembled == "" {
		template, err := a.store.GetActivePromptTemplate()
		if err != nil {
			return nil, nil, err
		}
		assembled = a.builder.Build(text, req.Settings, a.store.GetGuidelines(), a.store.GetKnowledgeBase(), template)
	}

	resp := a.client.Analyze(ctx, ai.AnalyzeInput{
		Prompt:   assembled,
		Text:     text,
		Language: req.Settings.Language,
		Debug:    req.Debug,
	})

	result := Merge(local, resp)

	if a.observer != nil {
		a.observer.ObserveAnalysis(time.Since(start))
	}
	a.logger.Info("analysis complete",
		zap.String("language", string(req.Settings.Language)),
		zap.Int("chars", stats.CleanChars),
		zap.Int("words", result.Metrics.WordCount),
		zap.Int("score", result.ReadabilityScore),
		zap.Int("issues", len(result.Issues)),
		zap.Bool("degraded", resp.Degraded),
		zap.Duration("duration", time.Since(start)),
	)
	return &result, resp.Diagnostics, nil
}

// Summarize returns a bullet summary of the text, substituting the
// placeholder when the generative service is unavailable.
func (a *Analyzer) Summarize(ctx context.Context, text string, lang domain.Language) (string, error) {
	text, _ = a.cleaner.Clean(text)
	if text == "" {
		return "", domain.ErrEmptyText
	}
	if utf8.RuneCountInString(text) > a.cfg.Processing.MaxTextSize {
		return "", domain.ErrTextTooLarge
	}
	if !lang.IsValid() {
		return "", domain.ErrInvalidLanguage
	}

	summary, err := a.client.Summarize(ctx, text, lang)
	if err != nil {
		a.logger.Warn("summarize degraded to placeholder", zap.Error(err))
		return SummaryPlaceholder, nil
	}
	return summary, nil
}

// Suggest returns improvement suggestions, at most five. An unavailable
// generative service yields an empty list rather than an error.
func (a *Analyzer) Suggest(ctx context.Context, text string, lang domain.Language) ([]string, error) {
	text, _ = a.cleaner.Clean(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	if utf8.RuneCountInString(text) > a.cfg.Processing.MaxTextSize {
		return nil, domain.ErrTextTooLarge
	}
	if !lang.IsValid() {
		return nil, domain.ErrInvalidLanguage
	}

	suggestions, err := a.client.Suggest(ctx, text, lang)
	if err != nil {
		a.logger.Warn("suggestions unavailable", zap.Error(err))
		return []string{}, nil
	}
	return suggestions, nil
}

// Keywords extracts the most frequent content words from the text.
func (a *Analyzer) Keywords(text string, n int) ([]string, error) {
	text, _ = a.cleaner.Clean(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	return textproc.Keywords(text, n), nil
}
