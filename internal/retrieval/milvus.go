package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/sgspencer2618/TariffPilot/internal/model"
	"github.com/sgspencer2618/TariffPilot/internal/service"
)

const (
	codeField      = "code"
	embeddingField = "embedding"
)

// MilvusIndex implements service.VectorIndex against a Milvus collection of
// tariff-entry embeddings. Scope narrowing uses a boolean filter expression
// over the code field, so prefix restriction happens index-side.
type MilvusIndex struct {
	client     client.Client
	collection string
}

// MilvusConfig holds connection settings for the vector index.
type MilvusConfig struct {
	Endpoint   string
	Collection string
}

// NewMilvusIndex connects to Milvus and loads the tariff collection.
func NewMilvusIndex(ctx context.Context, cfg MilvusConfig) (*MilvusIndex, error) {
	if cfg.Collection == "" {
		cfg.Collection = "hts_codes"
	}

	c, err := client.NewGrpcClient(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", cfg.Endpoint, err)
	}

	return &MilvusIndex{
		client:     c,
		collection: cfg.Collection,
	}, nil
}

// Search runs a cosine-similarity search, restricted to codes beginning with
// one of the given prefixes when prefixes is non-empty.
func (m *MilvusIndex) Search(ctx context.Context, vector []float32, topK int, prefixes []string) ([]service.IndexMatch, error) {
	sp, err := entity.NewIndexFlatSearchParam()
	if err != nil {
		return nil, fmt.Errorf("failed to build search params: %w", err)
	}

	results, err := m.client.Search(
		ctx,
		m.collection,
		nil,
		prefixExpr(prefixes),
		[]string{codeField},
		[]entity.Vector{entity.FloatVector(vector)},
		embeddingField,
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	var matches []service.IndexMatch
	for _, result := range results {
		column, ok := result.Fields.GetColumn(codeField).(*entity.ColumnVarChar)
		if !ok {
			return nil, fmt.Errorf("milvus result missing %s column", codeField)
		}
		for i := 0; i < result.ResultCount; i++ {
			code, valueErr := column.ValueByIdx(i)
			if valueErr != nil {
				return nil, fmt.Errorf("failed to read code at %d: %w", i, valueErr)
			}
			matches = append(matches, service.IndexMatch{
				Code:  code,
				Score: float64(result.Scores[i]),
			})
		}
	}
	return matches, nil
}

// prefixExpr builds the boolean filter restricting results to the scope
// prefixes, or "" for an unrestricted search.
func prefixExpr(prefixes []string) string {
	if len(prefixes) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		clauses = append(clauses, fmt.Sprintf("%s like %s", codeField, strconv.Quote(model.Digits(prefix)+"%")))
	}
	return strings.Join(clauses, " or ")
}

// Close releases the Milvus connection.
func (m *MilvusIndex) Close() error {
	return m.client.Close()
}
