package refdata

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	snap, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, snap.Version)
	assert.InDelta(t, 0.50, snap.Thresholds.Semantic, 1e-9)
	assert.InDelta(t, 0.80, snap.Thresholds.VeryHigh, 1e-9)
	assert.Equal(t, 5, snap.Limits.RetrievalTopK)
	assert.NoError(t, snap.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	yaml := `
refdata:
  version: "canada-2026.2"
  thresholds:
    semantic: 0.55
    high: 0.72
    very_high: 0.85
  category_minimums:
    "42": 0.92
  rules:
    - term: insulator
      material: porcelain
      candidates: ["8546.20"]
limits:
  retrieval_top_k: 10
  cache_ttl: 10m
`
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))

	snap, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "canada-2026.2", snap.Version)
	assert.InDelta(t, 0.55, snap.Thresholds.Semantic, 1e-9)
	assert.InDelta(t, 0.85, snap.Thresholds.VeryHigh, 1e-9)
	assert.Equal(t, map[string]float64{"42": 0.92}, snap.CategoryMinimums)
	assert.Equal(t, 10, snap.Limits.RetrievalTopK)
	assert.Equal(t, 10*time.Minute, snap.Limits.CacheTTL)

	require.Len(t, snap.Rules, 1)
	assert.Equal(t, "insulator", snap.Rules[0].Key.Term)
	assert.Equal(t, "porcelain", snap.Rules[0].Key.Material)
	assert.Equal(t, []string{"8546.20"}, snap.Rules[0].Candidates)
}
