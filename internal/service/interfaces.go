// Package service defines the contracts for the engine's external collaborators.
package service

import (
	"context"
	"time"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

// Embedder computes a fixed-length vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IndexMatch is a single hit returned by a vector index search.
type IndexMatch struct {
	Code  string
	Score float64
}

// VectorIndex searches tariff-entry embeddings. When prefixes is non-empty
// the index must restrict results to codes beginning with one of them.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, topK int, prefixes []string) ([]IndexMatch, error)
}

// FeedbackStore reads prior corrections. Similar returns records whose
// fingerprint resembles the given text, best first, with Similarity set on
// each record. Writes happen through Record, used by the correction
// workflow and maintenance tooling.
type FeedbackStore interface {
	Similar(ctx context.Context, text string, topK int) ([]model.FeedbackRecord, error)
	Record(ctx context.Context, rec model.FeedbackRecord) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
