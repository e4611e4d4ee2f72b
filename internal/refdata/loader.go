package refdata

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

// fileRule is the configuration shape of a mapping rule.
type fileRule struct {
	Term       string   `mapstructure:"term"`
	Material   string   `mapstructure:"material"`
	Candidates []string `mapstructure:"candidates"`
}

// fileReplacement is the configuration shape of a normalization rewrite.
type fileReplacement struct {
	Pattern   string `mapstructure:"pattern"`
	Canonical string `mapstructure:"canonical"`
}

// Load builds a Snapshot from configuration, starting from the compiled-in
// defaults and overriding whatever the operator supplied. The returned
// snapshot is not yet validated; callers install it through NewStore or
// Store.Replace, which reject inconsistent data.
func Load(v *viper.Viper) (*Snapshot, error) {
	snap := DefaultSnapshot()

	if v.IsSet("refdata.version") {
		snap.Version = v.GetString("refdata.version")
	}

	if v.IsSet("refdata.thresholds.semantic") {
		snap.Thresholds.Semantic = v.GetFloat64("refdata.thresholds.semantic")
	}
	if v.IsSet("refdata.thresholds.high") {
		snap.Thresholds.High = v.GetFloat64("refdata.thresholds.high")
	}
	if v.IsSet("refdata.thresholds.very_high") {
		snap.Thresholds.VeryHigh = v.GetFloat64("refdata.thresholds.very_high")
	}
	if v.IsSet("refdata.thresholds.feedback_similarity") {
		snap.Thresholds.FeedbackSimilarity = v.GetFloat64("refdata.thresholds.feedback_similarity")
	}

	if v.IsSet("refdata.category_minimums") {
		minimums := make(map[string]float64)
		if err := v.UnmarshalKey("refdata.category_minimums", &minimums); err != nil {
			return nil, fmt.Errorf("failed to parse category minimums: %w", err)
		}
		snap.CategoryMinimums = minimums
	}

	if v.IsSet("refdata.rules") {
		var raw []fileRule
		if err := v.UnmarshalKey("refdata.rules", &raw); err != nil {
			return nil, fmt.Errorf("failed to parse mapping rules: %w", err)
		}
		rules := make([]model.MappingRule, 0, len(raw))
		for _, r := range raw {
			rules = append(rules, model.MappingRule{
				Key:        model.RuleKey{Term: r.Term, Material: r.Material},
				Candidates: r.Candidates,
			})
		}
		snap.Rules = rules
	}

	if v.IsSet("refdata.replacements") {
		var raw []fileReplacement
		if err := v.UnmarshalKey("refdata.replacements", &raw); err != nil {
			return nil, fmt.Errorf("failed to parse replacements: %w", err)
		}
		replacements := make([]Replacement, 0, len(raw))
		for _, r := range raw {
			replacements = append(replacements, Replacement{Pattern: r.Pattern, Canonical: r.Canonical})
		}
		snap.Replacements = replacements
	}

	if v.IsSet("refdata.materials") {
		snap.Materials = v.GetStringSlice("refdata.materials")
	}

	if v.IsSet("refdata.chapters") {
		descriptions := v.GetStringMapString("refdata.chapters")
		chapters := make(map[string]model.ChapterContext, len(descriptions))
		for prefix, desc := range descriptions {
			chapters[prefix] = model.ChapterContext{CodePrefix: prefix, Description: desc}
		}
		snap.Chapters = chapters
	}

	if v.IsSet("refdata.subchapters") {
		descriptions := v.GetStringMapString("refdata.subchapters")
		subchapters := make(map[string]model.SubchapterContext, len(descriptions))
		for prefix, desc := range descriptions {
			subchapters[prefix] = model.SubchapterContext{CodePrefix: prefix, Description: desc}
		}
		snap.Subchapters = subchapters
	}

	if v.IsSet("limits.retrieval_top_k") {
		snap.Limits.RetrievalTopK = v.GetInt("limits.retrieval_top_k")
	}
	if v.IsSet("limits.feedback_top_k") {
		snap.Limits.FeedbackTopK = v.GetInt("limits.feedback_top_k")
	}
	if v.IsSet("limits.batch_workers") {
		snap.Limits.BatchWorkers = v.GetInt("limits.batch_workers")
	}
	if v.IsSet("limits.max_retries") {
		snap.Limits.MaxRetries = v.GetInt("limits.max_retries")
	}
	if v.IsSet("limits.base_delay") {
		snap.Limits.BaseDelay = v.GetDuration("limits.base_delay")
	}
	if v.IsSet("limits.cache_ttl") {
		snap.Limits.CacheTTL = v.GetDuration("limits.cache_ttl")
	}
	if v.IsSet("limits.query_timeout") {
		snap.Limits.QueryTimeout = v.GetDuration("limits.query_timeout")
	}

	return snap, nil
}
