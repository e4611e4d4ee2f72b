package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
)

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher(refdata.DefaultSnapshot())

	tests := []struct {
		name     string
		text     string
		material string
		want     []string
	}{
		{
			name:     "material-specific rule",
			text:     "aluminum window frame",
			material: "aluminum",
			want:     []string{"7610.10"},
		},
		{
			name: "material-agnostic rule",
			text: "power transformer 25kva",
			want: []string{"8504.21.00"},
		},
		{
			name:     "no rule for term",
			text:     "ss bolt",
			material: "ss",
			want:     nil,
		},
		{
			name:     "leather wallet ordered candidates",
			text:     "leather wallet",
			material: "leather",
			want:     []string{"4202.31", "4202.32"},
		},
		{
			name:     "wrong material falls through",
			text:     "plastic wallet",
			material: "pvc",
			want:     nil,
		},
		{
			name: "multi-word term",
			text: "rooftop solar panel kit",
			want: []string{"8541.43"},
		},
		{
			name:     "no whole-word hit inside larger token",
			text:     "doorstop",
			material: "aluminum",
			want:     nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.text, tt.material)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcher_TieBreaks(t *testing.T) {
	snap := refdata.DefaultSnapshot()
	snap.Rules = []model.MappingRule{
		{Key: model.RuleKey{Term: "panel"}, Candidates: []string{"7610.90"}},
		{Key: model.RuleKey{Term: "solar panel"}, Candidates: []string{"8541.43"}},
		{Key: model.RuleKey{Term: "cover"}, Candidates: []string{"7326.90"}},
		{Key: model.RuleKey{Term: "frame"}, Candidates: []string{"4414.00"}},
		{Key: model.RuleKey{Term: "frame", Material: "aluminum"}, Candidates: []string{"7610.10"}},
	}
	snap.Chapters["73"] = model.ChapterContext{CodePrefix: "73", Description: "Articles of iron or steel"}
	snap.Chapters["44"] = model.ChapterContext{CodePrefix: "44", Description: "Wood and articles of wood"}
	m := NewMatcher(snap)

	t.Run("longest term wins", func(t *testing.T) {
		got := m.Match("solar panel mounting", "")
		assert.Equal(t, []string{"8541.43"}, got)
	})

	t.Run("specific material beats agnostic on same term", func(t *testing.T) {
		got := m.Match("window frame", "aluminum")
		assert.Equal(t, []string{"7610.10"}, got)
	})

	t.Run("agnostic rule when material absent", func(t *testing.T) {
		got := m.Match("picture frame", "")
		assert.Equal(t, []string{"4414.00"}, got)
	})

	t.Run("length tie prefers material-specific rule", func(t *testing.T) {
		// "cover" and "frame" are the same length; only "frame" has a
		// material-specific rule for aluminum.
		got := m.Match("cover frame", "aluminum")
		assert.Equal(t, []string{"7610.10"}, got)
	})
}
