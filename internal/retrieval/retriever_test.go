package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgspencer2618/TariffPilot/internal/refdata"
	"github.com/sgspencer2618/TariffPilot/internal/service"
)

// mockEmbedder is a hand-written service.Embedder.
type mockEmbedder struct {
	vector   []float32
	err      error
	failures int
	calls    int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.err != nil && (m.failures == 0 || m.calls <= m.failures) {
		return nil, m.err
	}
	return m.vector, nil
}

// mockIndex is a hand-written service.VectorIndex recording the filter it
// was called with.
type mockIndex struct {
	matches   []service.IndexMatch
	err       error
	gotTopK   int
	gotScope  []string
	callCount int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, topK int, prefixes []string) ([]service.IndexMatch, error) {
	m.callCount++
	m.gotTopK = topK
	m.gotScope = prefixes
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func fastConfig() Config {
	return Config{
		MaxRetries:        2,
		BaseDelay:         time.Millisecond,
		RequestsPerSecond: 1000,
	}
}

func TestRetriever_Retrieve(t *testing.T) {
	ctx := context.Background()
	snap := refdata.DefaultSnapshot()

	t.Run("returns sorted candidates", func(t *testing.T) {
		index := &mockIndex{matches: []service.IndexMatch{
			{Code: "7610100020", Score: 0.71},
			{Code: "7610100010", Score: 0.88},
		}}
		r := New(&mockEmbedder{vector: []float32{0.1, 0.2}}, index, fastConfig())

		got, err := r.Retrieve(ctx, snap, "aluminum window frame", nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "7610100010", got[0].HTSCode)
		assert.InDelta(t, 0.88, got[0].Similarity, 1e-9)
		assert.Equal(t, "76", got[0].SourceChapter)
		assert.Equal(t, snap.Limits.RetrievalTopK, index.gotTopK)
	})

	t.Run("scope passed to index and enforced on results", func(t *testing.T) {
		index := &mockIndex{matches: []service.IndexMatch{
			{Code: "7610100020", Score: 0.80},
			{Code: "8504210020", Score: 0.95}, // outside scope, must be dropped
		}}
		r := New(&mockEmbedder{vector: []float32{0.1}}, index, fastConfig())

		got, err := r.Retrieve(ctx, snap, "aluminum window frame", []string{"7610.10"})
		require.NoError(t, err)
		assert.Equal(t, []string{"7610.10"}, index.gotScope)
		require.Len(t, got, 1)
		assert.Equal(t, "7610100020", got[0].HTSCode)
	})

	t.Run("malformed codes dropped", func(t *testing.T) {
		index := &mockIndex{matches: []service.IndexMatch{
			{Code: "7610100020", Score: 0.80},
			{Code: "991234", Score: 0.90},      // unknown chapter
			{Code: "761", Score: 0.85},         // wrong digit count
		}}
		r := New(&mockEmbedder{vector: []float32{0.1}}, index, fastConfig())

		got, err := r.Retrieve(ctx, snap, "aluminum window frame", nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "7610100020", got[0].HTSCode)
	})

	t.Run("scores clamped into unit interval", func(t *testing.T) {
		index := &mockIndex{matches: []service.IndexMatch{
			{Code: "7610100020", Score: 1.2},
			{Code: "7610100010", Score: -0.1},
		}}
		r := New(&mockEmbedder{vector: []float32{0.1}}, index, fastConfig())

		got, err := r.Retrieve(ctx, snap, "aluminum window frame", nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.InDelta(t, 1.0, got[0].Similarity, 1e-9)
		assert.InDelta(t, 0.0, got[1].Similarity, 1e-9)
	})

	t.Run("fewer than topK tolerated", func(t *testing.T) {
		index := &mockIndex{matches: []service.IndexMatch{{Code: "7610100020", Score: 0.7}}}
		r := New(&mockEmbedder{vector: []float32{0.1}}, index, fastConfig())

		got, err := r.Retrieve(ctx, snap, "aluminum window frame", nil)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("embedder recovers after transient failure", func(t *testing.T) {
		embedder := &mockEmbedder{vector: []float32{0.1}, err: errors.New("transient"), failures: 1}
		index := &mockIndex{matches: []service.IndexMatch{{Code: "7610100020", Score: 0.7}}}
		r := New(embedder, index, fastConfig())

		got, err := r.Retrieve(ctx, snap, "aluminum window frame", nil)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, 2, embedder.calls)
	})

	t.Run("exhausted embedder retries surface ErrUnavailable", func(t *testing.T) {
		embedder := &mockEmbedder{err: errors.New("endpoint down")}
		r := New(embedder, &mockIndex{}, fastConfig())

		_, err := r.Retrieve(ctx, snap, "aluminum window frame", nil)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 2, embedder.calls)
	})

	t.Run("exhausted index retries surface ErrUnavailable", func(t *testing.T) {
		index := &mockIndex{err: errors.New("index down")}
		r := New(&mockEmbedder{vector: []float32{0.1}}, index, fastConfig())

		_, err := r.Retrieve(ctx, snap, "aluminum window frame", nil)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 2, index.callCount)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		embedder := &mockEmbedder{err: errors.New("down")}
		r := New(embedder, &mockIndex{}, fastConfig())

		_, err := r.Retrieve(cancelCtx, snap, "aluminum window frame", nil)
		assert.Error(t, err)
	})
}

func TestPrefixExpr(t *testing.T) {
	assert.Equal(t, "", prefixExpr(nil))
	assert.Equal(t, `code like "761010%"`, prefixExpr([]string{"7610.10"}))
	assert.Equal(t, `code like "420231%" or code like "420232%"`,
		prefixExpr([]string{"4202.31", "4202.32"}))
}
