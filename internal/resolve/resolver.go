// Package resolve turns a ranked candidate list into the final
// classification decision. It is pure: same candidates, same snapshot, same
// result — it never calls external services.
package resolve

import (
	"fmt"
	"sort"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
)

// Resolve applies the confidence ladder, and any category-specific minimum,
// to the top candidate. Candidates are deduplicated (best rank wins) and the
// output ranking is sorted by non-increasing score.
func Resolve(snap *refdata.Snapshot, stage model.Stage, candidates []model.SemanticCandidate) model.ClassificationResult {
	ranked := rank(candidates)

	rationale := model.Rationale{
		Stage:         stage,
		ConfigVersion: snap.Version,
	}

	if len(ranked) == 0 {
		rationale.Stage = model.StageEscalated
		rationale.Notes = append(rationale.Notes, "no candidates produced; human review required")
		return model.ClassificationResult{
			RankedCodes: ranked,
			Decision:    model.DecisionEscalate,
			Rationale:   rationale,
		}
	}

	top := ranked[0]
	decision := ladder(snap.Thresholds, top.Score, &rationale)

	chapter := model.Chapter(top.Code)
	if minimum, ok := snap.CategoryMinimum(chapter); ok && top.Score < minimum {
		downgraded := downgrade(decision)
		if downgraded != decision {
			rationale.Notes = append(rationale.Notes, fmt.Sprintf(
				"chapter %s requires score >= %.2f (got %.2f); downgraded %s to %s",
				chapter, minimum, top.Score, decision, downgraded))
			decision = downgraded
		}
	}

	return model.ClassificationResult{
		RankedCodes: ranked,
		Decision:    decision,
		Rationale:   rationale,
	}
}

// ladder maps the top score onto a decision tier.
func ladder(t refdata.Thresholds, score float64, rationale *model.Rationale) model.Decision {
	switch {
	case score >= t.VeryHigh:
		return model.DecisionAutoAccept
	case score >= t.High:
		return model.DecisionSuggest
	case score >= t.Semantic:
		rationale.LowConfidence = true
		rationale.Notes = append(rationale.Notes, fmt.Sprintf(
			"top score %.2f below high-confidence threshold %.2f", score, t.High))
		return model.DecisionSuggest
	default:
		rationale.Notes = append(rationale.Notes, fmt.Sprintf(
			"top score %.2f below semantic threshold %.2f", score, t.Semantic))
		return model.DecisionEscalate
	}
}

// downgrade steps a decision down exactly one tier.
func downgrade(d model.Decision) model.Decision {
	switch d {
	case model.DecisionAutoAccept:
		return model.DecisionSuggest
	case model.DecisionSuggest:
		return model.DecisionEscalate
	default:
		return model.DecisionEscalate
	}
}

// rank deduplicates candidates (best-scored appearance wins) and sorts by
// non-increasing score.
func rank(candidates []model.SemanticCandidate) []model.RankedCode {
	seen := make(map[string]int, len(candidates))
	ranked := make([]model.RankedCode, 0, len(candidates))
	for _, c := range candidates {
		key := model.Digits(c.HTSCode)
		if idx, ok := seen[key]; ok {
			if c.Similarity > ranked[idx].Score {
				ranked[idx].Score = c.Similarity
			}
			continue
		}
		seen[key] = len(ranked)
		ranked = append(ranked, model.RankedCode{Code: c.HTSCode, Score: c.Similarity})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
