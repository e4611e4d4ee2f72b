package feedback

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStore_RecordAndSimilar(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	records := []model.FeedbackRecord{
		{Fingerprint: "leather wallet brown", CorrectedCode: "4202.31.00.00", Confidence: 0.9},
		{Fingerprint: "aluminum window frame", CorrectedCode: "7610.10.00.20", Confidence: 0.8},
		{Fingerprint: "cotton t-shirt printed", CorrectedCode: "6109.10.00.40", Confidence: 0.7},
	}
	for _, rec := range records {
		require.NoError(t, store.Record(ctx, rec))
	}

	got, err := store.Similar(ctx, "brown leather wallet", 2)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	// Exact token overlap ranks the wallet record first.
	assert.Equal(t, "4202.31.00.00", got[0].CorrectedCode)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-9)
	assert.LessOrEqual(t, len(got), 2)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Similarity, got[i].Similarity)
	}
}

func TestSQLiteStore_SimilarEmptyStore(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Similar(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_RecordValidation(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(context.Background(), model.FeedbackRecord{CorrectedCode: "4202.31"})
	assert.Error(t, err)

	err = store.Record(context.Background(), model.FeedbackRecord{Fingerprint: "wallet"})
	assert.Error(t, err)
}

func TestSQLiteStore_PruneOlderThan(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := model.FeedbackRecord{
		Fingerprint:   "ancient correction",
		CorrectedCode: "8504.21.00.00",
		Confidence:    0.9,
		CreatedAt:     time.Now().UTC().Add(-60 * 24 * time.Hour),
	}
	fresh := model.FeedbackRecord{
		Fingerprint:   "recent correction",
		CorrectedCode: "7610.10.00.20",
		Confidence:    0.8,
	}
	require.NoError(t, store.Record(ctx, old))
	require.NoError(t, store.Record(ctx, fresh))

	removed, err := store.PruneOlderThan(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent correction", remaining[0].Fingerprint)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "leather wallet", b: "leather wallet", want: 1.0},
		{name: "disjoint", a: "leather wallet", b: "steel bolt", want: 0.0},
		{name: "partial overlap", a: "leather wallet", b: "leather handbag", want: 1.0 / 3.0},
		{name: "order insensitive", a: "wallet leather", b: "leather wallet", want: 1.0},
		{name: "empty", a: "", b: "leather", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccard(tokenSet(tt.a), tokenSet(tt.b))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
