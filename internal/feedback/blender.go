// Package feedback folds previously human-corrected classifications back
// into the candidate ranking.
package feedback

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
	"github.com/sgspencer2618/TariffPilot/internal/service"
)

// ErrUnavailable indicates the feedback store could not be reached. The
// condition is recoverable: blending is skipped and candidates pass through
// unchanged.
var ErrUnavailable = errors.New("feedback store unavailable")

// Blender adjusts or overrides semantic candidates using prior corrections.
type Blender struct {
	store service.FeedbackStore
}

// NewBlender creates a Blender over a feedback store.
func NewBlender(store service.FeedbackStore) *Blender {
	return &Blender{store: store}
}

// Blend queries the feedback store for corrections similar to the current
// normalized text and applies the best qualifying one:
//
//   - agreement with the current top candidate boosts its score;
//   - a disagreeing correction whose recorded confidence beats the current
//     top score is promoted to rank 1, the old top demoted but retained;
//   - a correction can also rescue an empty candidate list.
//
// Store failures degrade gracefully: the input passes through unmodified and
// the event is logged, never surfaced as a pipeline failure. The returned
// bool reports whether feedback changed the ranking.
func (b *Blender) Blend(ctx context.Context, snap *refdata.Snapshot, normalizedText string, candidates []model.SemanticCandidate) ([]model.SemanticCandidate, bool) {
	records, err := b.store.Similar(ctx, normalizedText, snap.Limits.FeedbackTopK)
	if err != nil {
		slog.Warn("Feedback lookup failed, continuing without blending",
			"error", err,
			"query", normalizedText)
		return candidates, false
	}

	best, ok := b.bestRecord(snap, records)
	if !ok {
		return candidates, false
	}

	if len(candidates) == 0 {
		return []model.SemanticCandidate{{
			HTSCode:       best.CorrectedCode,
			Similarity:    best.Confidence,
			SourceChapter: model.Chapter(best.CorrectedCode),
		}}, true
	}

	top := candidates[0]
	if model.Digits(best.CorrectedCode) == model.Digits(top.HTSCode) {
		// Agreement: reinforce the existing top candidate.
		if best.Confidence > top.Similarity {
			blended := make([]model.SemanticCandidate, len(candidates))
			copy(blended, candidates)
			blended[0].Similarity = capScore(best.Confidence)
			return blended, true
		}
		return candidates, false
	}

	if best.Confidence > top.Similarity {
		// Override: corrected code takes rank 1, prior candidates are
		// demoted but never dropped.
		blended := make([]model.SemanticCandidate, 0, len(candidates)+1)
		blended = append(blended, model.SemanticCandidate{
			HTSCode:       best.CorrectedCode,
			Similarity:    capScore(best.Confidence),
			SourceChapter: model.Chapter(best.CorrectedCode),
		})
		for _, c := range candidates {
			if model.Digits(c.HTSCode) == model.Digits(best.CorrectedCode) {
				continue
			}
			blended = append(blended, c)
		}
		return blended, true
	}

	return candidates, false
}

// bestRecord picks the highest-similarity record above the feedback
// threshold whose corrected code is structurally valid.
func (b *Blender) bestRecord(snap *refdata.Snapshot, records []model.FeedbackRecord) (model.FeedbackRecord, bool) {
	var best model.FeedbackRecord
	found := false
	for _, rec := range records {
		if rec.Similarity < snap.Thresholds.FeedbackSimilarity {
			continue
		}
		if err := model.ValidateCode(rec.CorrectedCode, snap.Chapters); err != nil {
			slog.Warn("Ignoring feedback record with malformed code",
				"code", rec.CorrectedCode,
				"error", err)
			continue
		}
		if !found || rec.Similarity > best.Similarity ||
			(rec.Similarity == best.Similarity && rec.Confidence > best.Confidence) {
			best = rec
			found = true
		}
	}
	return best, found
}

func capScore(s float64) float64 {
	if s > 1 {
		return 1
	}
	return s
}
