// Package pipeline orchestrates the classification stages: normalize, rule
// match, semantic retrieval, feedback blending, and confidence resolution.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/normalize"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
	"github.com/sgspencer2618/TariffPilot/internal/resolve"
	"github.com/sgspencer2618/TariffPilot/internal/retrieval"
	"github.com/sgspencer2618/TariffPilot/internal/rules"
)

// stageSet binds one reference data snapshot to the stages derived from it.
// Queries load a stageSet once at start and run to completion against it,
// so a concurrent reload never changes a query mid-flight.
type stageSet struct {
	snap       *refdata.Snapshot
	normalizer *normalize.Normalizer
	matcher    *rules.Matcher
}

// Pipeline is the caller-facing classification engine. It is safe for
// concurrent use across queries; the result cache is the only shared
// mutable state.
type Pipeline struct {
	stages    atomic.Pointer[stageSet]
	retriever SemanticRetriever
	blender   FeedbackBlender
	cache     *resultCache
}

// New creates a pipeline over a validated initial snapshot.
func New(snap *refdata.Snapshot, retriever SemanticRetriever, blender FeedbackBlender) (*Pipeline, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		retriever: retriever,
		blender:   blender,
		cache:     newResultCache(snap.Limits.CacheTTL),
	}
	p.stages.Store(buildStages(snap))
	return p, nil
}

func buildStages(snap *refdata.Snapshot) *stageSet {
	return &stageSet{
		snap:       snap,
		normalizer: normalize.New(snap),
		matcher:    rules.NewMatcher(snap),
	}
}

// ActiveVersion reports which reference data version queries currently bind to.
func (p *Pipeline) ActiveVersion() string {
	return p.stages.Load().snap.Version
}

// Refresh validates next and swaps it in for new queries. In-flight queries
// finish against the snapshot they started with. On validation failure the
// previous snapshot remains active and the error goes to the operator.
func (p *Pipeline) Refresh(next *refdata.Snapshot) error {
	if err := next.Validate(); err != nil {
		return err
	}
	p.stages.Store(buildStages(next))
	p.cache.clear()
	slog.Info("Reference data reloaded", "version", next.Version)
	return nil
}

// Classify runs one query through every stage and always produces a
// ClassificationResult; degraded retrieval yields an ESCALATE result rather
// than an error. The only error return is a query rejected at ingestion.
func (p *Pipeline) Classify(ctx context.Context, query model.ProductQuery) (model.ClassificationResult, error) {
	if _, err := model.ParseGoodsType(string(query.GoodsType)); err != nil {
		return model.ClassificationResult{}, err
	}

	st := p.stages.Load()
	snap := st.snap

	normalized := st.normalizer.Normalize(query.Description, query.MaterialHint)

	if cached, ok := p.cache.get(normalized.CanonicalText); ok {
		slog.Debug("Cache hit", "canonical_text", normalized.CanonicalText)
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, snap.Limits.QueryTimeout)
	defer cancel()

	scope := st.matcher.Match(normalized.CanonicalText, normalized.Material)
	stage := model.StageSemantic
	if len(scope) > 0 {
		stage = model.StageRule
		slog.Debug("Rule match narrowed search",
			"canonical_text", normalized.CanonicalText,
			"material", normalized.Material,
			"scope", scope)
	}

	candidates, err := p.retriever.Retrieve(ctx, snap, normalized.CanonicalText, scope)
	if err != nil {
		return p.escalateUnavailable(snap, normalized, err), nil
	}

	blended, applied := p.blender.Blend(ctx, snap, normalized.CanonicalText, candidates)
	if applied {
		stage = model.StageFeedback
	}

	result := resolve.Resolve(snap, stage, blended)
	p.cache.set(normalized.CanonicalText, result)
	return result, nil
}

// escalateUnavailable builds the ESCALATE result for a query whose
// retrieval could not complete. A fabricated score would be worse than no
// answer, so the ranking stays empty and the rationale names the condition.
func (p *Pipeline) escalateUnavailable(snap *refdata.Snapshot, normalized model.NormalizedQuery, err error) model.ClassificationResult {
	note := "retrieval unavailable; human review required"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		note = "query deadline exceeded before retrieval completed; human review required"
	case errors.Is(err, retrieval.ErrUnavailable):
		note = "semantic retrieval unavailable; human review required"
	}
	slog.Error("Semantic retrieval failed",
		"canonical_text", normalized.CanonicalText,
		"error", err)

	return model.ClassificationResult{
		Decision: model.DecisionEscalate,
		Rationale: model.Rationale{
			Stage:         model.StageEscalated,
			ConfigVersion: snap.Version,
			Notes:         []string{note, fmt.Sprintf("cause: %v", err)},
		},
	}
}

// ClassifyBatch classifies queries with a bounded worker pool, preserving
// input order in the output regardless of completion order. One query's
// failure never aborts its siblings: a rejected query becomes an ESCALATE
// result carrying the rejection note.
func (p *Pipeline) ClassifyBatch(ctx context.Context, queries []model.ProductQuery) []model.ClassificationResult {
	results := make([]model.ClassificationResult, len(queries))

	workers := p.stages.Load().snap.Limits.BatchWorkers
	if workers <= 0 {
		workers = 1
	}

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for i, query := range queries {
		g.Go(func() error {
			result, err := p.Classify(ctx, query)
			if err != nil {
				result = model.ClassificationResult{
					Decision: model.DecisionEscalate,
					Rationale: model.Rationale{
						Stage:         model.StageEscalated,
						ConfigVersion: p.ActiveVersion(),
						Notes:         []string{fmt.Sprintf("query rejected: %v", err)},
					},
				}
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// CacheSize reports the number of live cache entries. Used by tests and
// operational tooling.
func (p *Pipeline) CacheSize() int {
	return p.cache.size()
}

// Close releases pipeline resources.
func (p *Pipeline) Close() {
	p.cache.Close()
}
