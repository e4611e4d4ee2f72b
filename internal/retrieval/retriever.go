// Package retrieval implements semantic lookup of tariff entries: embed the
// normalized description, search the vector index, and post-process the hits.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/sgspencer2618/TariffPilot/internal/common"
	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
	"github.com/sgspencer2618/TariffPilot/internal/service"
)

// ErrUnavailable indicates the embedding or index call exhausted its
// retries. Callers must distinguish this from an empty (but successful)
// search.
var ErrUnavailable = errors.New("retrieval unavailable")

// Config holds retriever tuning.
type Config struct {
	MaxRetries        int
	BaseDelay         time.Duration
	RequestsPerSecond float64
}

// Retriever performs scoped semantic search over tariff-entry embeddings.
type Retriever struct {
	embedder  service.Embedder
	index     service.VectorIndex
	limiter   *rate.Limiter
	retryOpts service.RetryOptions
}

// New creates a Retriever around an embedding provider and a vector index.
func New(embedder service.Embedder, index service.VectorIndex, cfg Config) *Retriever {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}

	return &Retriever{
		embedder: embedder,
		index:    index,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		retryOpts: service.RetryOptions{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: cfg.BaseDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Retrieve embeds normalized text and searches the index, restricted to the
// given code prefixes when scope is non-empty. Results are validated,
// deduplicated, sorted by descending similarity, and truncated to the
// snapshot's top-k. Exhausted retries surface ErrUnavailable; they are never
// silently reported as "no match".
func (r *Retriever) Retrieve(ctx context.Context, snap *refdata.Snapshot, normalizedText string, scope []string) ([]model.SemanticCandidate, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
	}

	var vector []float32
	err := common.WithRetry(ctx, func() error {
		var embedErr error
		vector, embedErr = r.embedder.Embed(ctx, normalizedText)
		return embedErr
	}, r.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding failed: %v", ErrUnavailable, err)
	}

	topK := snap.Limits.RetrievalTopK
	var matches []service.IndexMatch
	err = common.WithRetry(ctx, func() error {
		var searchErr error
		matches, searchErr = r.index.Search(ctx, vector, topK, scope)
		return searchErr
	}, r.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: index search failed: %v", ErrUnavailable, err)
	}

	candidates := make([]model.SemanticCandidate, 0, len(matches))
	for _, match := range matches {
		if len(scope) > 0 && !inScope(match.Code, scope) {
			// The index should already honor the filter; drop anything
			// that slipped past it so scope enforcement holds end to end.
			slog.Warn("Dropping out-of-scope index hit", "code", match.Code)
			continue
		}
		if err := model.ValidateCode(match.Code, snap.Chapters); err != nil {
			slog.Warn("Dropping malformed candidate", "code", match.Code, "error", err)
			continue
		}
		candidates = append(candidates, model.SemanticCandidate{
			HTSCode:       match.Code,
			Similarity:    clampScore(match.Score),
			SourceChapter: model.Chapter(match.Code),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

func inScope(code string, scope []string) bool {
	for _, prefix := range scope {
		if model.HasCodePrefix(code, prefix) {
			return true
		}
	}
	return false
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
