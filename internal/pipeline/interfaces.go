package pipeline

import (
	"context"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
)

// SemanticRetriever defines the contract for scoped vector search.
type SemanticRetriever interface {
	Retrieve(ctx context.Context, snap *refdata.Snapshot, normalizedText string, scope []string) ([]model.SemanticCandidate, error)
}

// FeedbackBlender defines the contract for folding prior corrections into a
// candidate ranking. The bool reports whether feedback changed the ranking.
type FeedbackBlender interface {
	Blend(ctx context.Context, snap *refdata.Snapshot, normalizedText string, candidates []model.SemanticCandidate) ([]model.SemanticCandidate, bool)
}
