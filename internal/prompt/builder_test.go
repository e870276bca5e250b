package prompt

import (
	"reflect"
	"strings"
	"testing"

	"github.com/redaktor-ai/textserver/internal/domain"
)

var testSettings = domain.TextSettings{
	Language: domain.LanguageLatvian,
	Category: domain.CategoryNews,
	Style:    domain.StyleFormal,
}

func TestBuildReplacesAllPlaceholders(t *testing.T) {
	b := NewBuilder(0)
	got := b.Build("Testa teksts.", testSettings, nil, nil, DefaultTemplate)

	for _, p := range requiredPlaceholders {
		if strings.Contains(got, p) {
			t.Errorf("assembled prompt still contains placeholder %s", p)
		}
	}
	if !strings.Contains(got, "Testa teksts.") {
		t.Error("assembled prompt does not contain the text")
	}
	if !strings.Contains(got, "latviešu") {
		t.Error("assembled prompt does not contain the localized language name")
	}
	if !strings.Contains(got, "Ziņas") {
		t.Error("assembled prompt does not contain the localized category")
	}
	if !strings.Contains(got, "Formāls") {
		t.Error("assembled prompt does not contain the localized style")
	}
}

func TestBuildGuidelineOrdering(t *testing.T) {
	guidelines := []domain.Guideline{
		{Name: "Zemāka", Content: "Saturs A", Priority: 3},
		{Name: "Augstāka", Content: "Saturs B", Priority: 9},
		{Name: "Vidēja", Content: "Saturs C", Priority: 3},
	}

	b := NewBuilder(0)
	got := b.Build("Teksts.", testSettings, guidelines, nil, "{language}{category}{style}\n{guidelines}\n{text}")

	wantBlock := "1. Augstāka:\nSaturs B\n\n2. Zemāka:\nSaturs A\n\n3. Vidēja:\nSaturs C"
	if !strings.Contains(got, wantBlock) {
		t.Errorf("guideline block wrong:\n%s\nwant to contain:\n%s", got, wantBlock)
	}
}

func TestBuildKnowledgeFiltering(t *testing.T) {
	articles := []domain.KnowledgeBaseArticle{
		{Title: "Atbilstošs", Content: "Labs piemērs.", Language: domain.LanguageLatvian, Category: domain.CategoryNews},
		{Title: "Cita valoda", Content: "Не тот язык.", Language: domain.LanguageRussian, Category: domain.CategoryNews},
		{Title: "Cita kategorija", Content: "Sporta teksts.", Language: domain.LanguageLatvian, Category: domain.CategorySports},
	}

	b := NewBuilder(0)
	got := b.Build("Teksts.", testSettings, nil, articles, "{language}{category}{style}{guidelines}{text}")

	if !strings.Contains(got, "LABU RAKSTU PIEMĒRI:") {
		t.Error("knowledge header missing")
	}
	if !strings.Contains(got, "Atbilstošs") {
		t.Error("matching article missing")
	}
	if strings.Contains(got, "Cita valoda") || strings.Contains(got, "Cita kategorija") {
		t.Error("non-matching article leaked into the prompt")
	}
}

func TestBuildKnowledgeExcerptTruncated(t *testing.T) {
	long := strings.Repeat("a", 500)
	articles := []domain.KnowledgeBaseArticle{
		{Title: "Garš", Content: long, Language: domain.LanguageLatvian, Category: domain.CategoryNews},
	}

	b := NewBuilder(300)
	got := b.Build("Teksts.", testSettings, nil, articles, "{language}{category}{style}{guidelines}{text}")

	if strings.Contains(got, long) {
		t.Error("article content was not truncated")
	}
	if !strings.Contains(got, strings.Repeat("a", 300)+"...") {
		t.Error("truncated excerpt missing ellipsis marker")
	}
}

func TestBuildNoKnowledgeMatches(t *testing.T) {
	b := NewBuilder(0)
	got := b.Build("Teksts.", testSettings, nil, nil, "{language}{category}{style}{guidelines}{text}")
	if strings.Contains(got, "LABU RAKSTU PIEMĒRI") {
		t.Error("knowledge header present without any articles")
	}
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		valid       bool
		wantMissing []string
	}{
		{
			name:     "complete template",
			template: DefaultTemplate,
			valid:    true,
		},
		{
			name:        "missing two placeholders",
			template:    "{language} {category} {text}",
			valid:       false,
			wantMissing: []string{"{style}", "{guidelines}"},
		},
		{
			name:        "empty template",
			template:    "",
			valid:       false,
			wantMissing: []string{"{language}", "{category}", "{style}", "{guidelines}", "{text}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTemplate(tt.template)
			if got.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.valid)
			}
			if !tt.valid && !reflect.DeepEqual(got.MissingPlaceholders, tt.wantMissing) {
				t.Errorf("MissingPlaceholders = %v, want %v", got.MissingPlaceholders, tt.wantMissing)
			}
		})
	}
}

func TestLanguageNameFallback(t *testing.T) {
	if got := LanguageName("de"); got != "latviešu" {
		t.Errorf("LanguageName(unknown) = %q, want latviešu", got)
	}
}
