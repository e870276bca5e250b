package readability

import (
	"testing"

	"github.com/redaktor-ai/textserver/internal/domain"
)

func TestAssessCompliance(t *testing.T) {
	tests := []struct {
		name        string
		avgWPS      float64
		passivePct  int
		readability int
		longPct     int
		want        domain.GuidelineCompliance
	}{
		{
			name:   "all excellent",
			avgWPS: 17, passivePct: 3, readability: 75, longPct: 5,
			want: domain.GuidelineCompliance{
				SentenceLength: domain.TierExcellent,
				ActiveVoice:    domain.TierExcellent,
				Clarity:        domain.TierExcellent,
				Overall:        90, // 100*0.3 + 100*0.3 + 75*0.4
			},
		},
		{
			name:   "good tier boundaries",
			avgWPS: 22, passivePct: 10, readability: 65, longPct: 10,
			want: domain.GuidelineCompliance{
				SentenceLength: domain.TierGood,
				ActiveVoice:    domain.TierGood,
				Clarity:        domain.TierGood,
				Overall:        74, // 80*0.3 + 80*0.3 + 65*0.4
			},
		},
		{
			name:   "long sentence overload lowers score but not the tier",
			avgWPS: 17, passivePct: 3, readability: 75, longPct: 40,
			want: domain.GuidelineCompliance{
				SentenceLength: domain.TierExcellent, // score 80 after demotion, above the poor cutoff
				ActiveVoice:    domain.TierExcellent,
				Clarity:        domain.TierExcellent,
				Overall:        84, // 80*0.3 + 100*0.3 + 75*0.4
			},
		},
		{
			name:   "everything poor with demotion floor",
			avgWPS: 40, passivePct: 50, readability: 30, longPct: 60,
			want: domain.GuidelineCompliance{
				SentenceLength: domain.TierPoor,
				ActiveVoice:    domain.TierPoor,
				Clarity:        domain.TierPoor,
				Overall:        36, // 40*0.3 + 40*0.3 + 30*0.4, demotion floored at 40
			},
		},
		{
			name:   "fair band",
			avgWPS: 28, passivePct: 25, readability: 55, longPct: 20,
			want: domain.GuidelineCompliance{
				SentenceLength: domain.TierFair,
				ActiveVoice:    domain.TierFair,
				Clarity:        domain.TierFair,
				Overall:        58, // 60*0.3 + 60*0.3 + 55*0.4
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessCompliance(tt.avgWPS, tt.passivePct, tt.readability, tt.longPct)
			if got != tt.want {
				t.Errorf("AssessCompliance() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "Ļoti viegli"},
		{85, "Viegli"},
		{75, "Samērā viegli"},
		{65, "Vidējs"},
		{55, "Samērā grūti"},
		{40, "Grūti"},
		{10, "Ļoti grūti"},
	}
	for _, tt := range tests {
		if got := Level(tt.score); got != tt.want {
			t.Errorf("Level(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
