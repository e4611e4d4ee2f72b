// Package refdata holds the engine's static reference data: the mapping
// table, tariff chapter contexts, and all numeric thresholds. Data is loaded
// into an immutable Snapshot and swapped atomically on reload; in-flight
// queries keep the snapshot they started with.
package refdata

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

// ErrInvalidConfig indicates a snapshot that failed self-consistency checks.
// A rejected snapshot never becomes active; the previous one keeps serving.
var ErrInvalidConfig = errors.New("invalid reference data")

// Replacement rewrites one raw phrase into a canonical token.
type Replacement struct {
	Pattern   string
	Canonical string
}

// Thresholds is the confidence ladder plus the feedback gate. All values are
// similarity scores in (0, 1].
type Thresholds struct {
	Semantic           float64
	High               float64
	VeryHigh           float64
	FeedbackSimilarity float64
}

// Limits bounds the engine's external calls and batching.
type Limits struct {
	RetrievalTopK int
	FeedbackTopK  int
	BatchWorkers  int
	MaxRetries    int
	BaseDelay     time.Duration
	CacheTTL      time.Duration
	QueryTimeout  time.Duration
}

// Snapshot is one immutable version of the reference data. Fields must not
// be mutated after the snapshot is published.
type Snapshot struct {
	Version          string
	Replacements     []Replacement
	Materials        []string
	Rules            []model.MappingRule
	Chapters         map[string]model.ChapterContext
	Subchapters      map[string]model.SubchapterContext
	Thresholds       Thresholds
	CategoryMinimums map[string]float64
	Limits           Limits
}

// Validate runs the self-consistency checks required before a snapshot may
// become active.
func (s *Snapshot) Validate() error {
	t := s.Thresholds
	if !(t.Semantic > 0 && t.Semantic < t.High && t.High < t.VeryHigh && t.VeryHigh <= 1) {
		return fmt.Errorf("%w: threshold ladder must satisfy 0 < semantic < high < very_high <= 1, got %.2f/%.2f/%.2f",
			ErrInvalidConfig, t.Semantic, t.High, t.VeryHigh)
	}
	if t.FeedbackSimilarity <= 0 || t.FeedbackSimilarity > 1 {
		return fmt.Errorf("%w: feedback similarity threshold %.2f out of (0,1]", ErrInvalidConfig, t.FeedbackSimilarity)
	}
	for chapter, minimum := range s.CategoryMinimums {
		if minimum <= 0 || minimum > 1 {
			return fmt.Errorf("%w: category minimum for chapter %s is %.2f, want (0,1]", ErrInvalidConfig, chapter, minimum)
		}
		if _, ok := s.Chapters[chapter]; !ok {
			return fmt.Errorf("%w: category minimum references unknown chapter %s", ErrInvalidConfig, chapter)
		}
	}
	seen := make(map[model.RuleKey]bool, len(s.Rules))
	for _, rule := range s.Rules {
		if rule.Key.Term == "" {
			return fmt.Errorf("%w: mapping rule with empty product term", ErrInvalidConfig)
		}
		if seen[rule.Key] {
			return fmt.Errorf("%w: duplicate mapping rule key %+v", ErrInvalidConfig, rule.Key)
		}
		seen[rule.Key] = true
		if len(rule.Candidates) == 0 {
			return fmt.Errorf("%w: mapping rule %+v has no candidates", ErrInvalidConfig, rule.Key)
		}
		for _, candidate := range rule.Candidates {
			if err := model.ValidateCode(candidate, s.Chapters); err != nil {
				return fmt.Errorf("%w: rule %+v: %v", ErrInvalidConfig, rule.Key, err)
			}
		}
	}
	return nil
}

// CategoryMinimum returns the category-specific AUTO_ACCEPT floor for a
// chapter, if one is configured.
func (s *Snapshot) CategoryMinimum(chapter string) (float64, bool) {
	minimum, ok := s.CategoryMinimums[chapter]
	return minimum, ok
}

// Store is the atomic holder for the active snapshot. Queries bind to a
// snapshot at start via Current and run to completion against it; Replace
// swaps in a validated successor without touching the old value.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store with a validated initial snapshot.
func NewStore(initial *Snapshot) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	s := &Store{}
	s.current.Store(initial)
	return s, nil
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace validates next and makes it the active snapshot. On validation
// failure the previous snapshot remains active and the error is returned to
// the operator.
func (s *Store) Replace(next *Snapshot) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current.Store(next)
	return nil
}
