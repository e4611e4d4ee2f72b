package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgspencer2618/TariffPilot/internal/refdata"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := New(refdata.DefaultSnapshot())

	tests := []struct {
		name         string
		raw          string
		hint         string
		wantText     string
		wantMaterial string
	}{
		{
			name:         "stainless steel abbreviated",
			raw:          "Stainless Steel bolt",
			wantText:     "ss bolt",
			wantMaterial: "ss",
		},
		{
			name:         "british spelling normalized",
			raw:          "aluminium window frame",
			wantText:     "aluminum window frame",
			wantMaterial: "aluminum",
		},
		{
			name:         "bare aluminum untouched",
			raw:          "aluminum window frame",
			wantText:     "aluminum window frame",
			wantMaterial: "aluminum",
		},
		{
			name:         "long phrase wins over embedded pattern",
			raw:          "polyvinyl chloride pipe",
			wantText:     "pvc pipe",
			wantMaterial: "pvc",
		},
		{
			name:         "spaced pvc variant",
			raw:          "poly vinyl chloride sheet",
			wantText:     "pvc sheet",
			wantMaterial: "pvc",
		},
		{
			name:         "whitespace collapsed",
			raw:          "  carbon   steel   pipe ",
			wantText:     "cs pipe",
			wantMaterial: "cs",
		},
		{
			name:         "no substitutions pass through",
			raw:          "ceramic mug",
			wantText:     "ceramic mug",
			wantMaterial: "",
		},
		{
			name:         "material hint wins over extraction",
			raw:          "leather trimmed wallet",
			hint:         "cotton",
			wantText:     "leather trimmed wallet",
			wantMaterial: "cotton",
		},
		{
			name:         "material hint itself normalized",
			raw:          "window frame",
			hint:         "Aluminium",
			wantText:     "window frame",
			wantMaterial: "aluminum",
		},
		{
			name:         "unknown hint kept verbatim",
			raw:          "garden gnome",
			hint:         "Terracotta",
			wantText:     "garden gnome",
			wantMaterial: "terracotta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.raw, tt.hint)
			assert.Equal(t, tt.wantText, got.CanonicalText)
			assert.Equal(t, tt.wantMaterial, got.Material)
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := New(refdata.DefaultSnapshot())

	inputs := []string{
		"stainless steel bolt",
		"aluminium door and polyvinyl chloride gasket",
		"leather wallet",
		"plain text with no patterns at all",
	}

	for _, raw := range inputs {
		once := n.Normalize(raw, "")
		twice := n.Normalize(once.CanonicalText, "")
		assert.Equal(t, once.CanonicalText, twice.CanonicalText,
			"normalizing %q twice must be stable", raw)
	}
}

func TestNormalizer_NoPartialTokenCorruption(t *testing.T) {
	n := New(refdata.DefaultSnapshot())

	// "ss" appears inside other words; whole-phrase matching must not fire.
	got := n.Normalize("glass vessel assembly", "")
	assert.Equal(t, "glass vessel assembly", got.CanonicalText)
}
