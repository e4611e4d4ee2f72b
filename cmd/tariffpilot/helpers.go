package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/sgspencer2618/TariffPilot/internal/config"
	"github.com/sgspencer2618/TariffPilot/internal/feedback"
	"github.com/sgspencer2618/TariffPilot/internal/pipeline"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
	"github.com/sgspencer2618/TariffPilot/internal/retrieval"
)

const defaultFeedbackDB = "~/.local/share/tariffpilot/feedback.db"

// openFeedbackStore opens the local feedback mirror configured under
// feedback.db_path.
func openFeedbackStore() (*feedback.SQLiteStore, error) {
	dbPath := viper.GetString("feedback.db_path")
	if dbPath == "" {
		dbPath = defaultFeedbackDB
	}
	dbPath = config.ExpandPath(dbPath)
	if err := config.EnsureParentDir(dbPath); err != nil {
		return nil, fmt.Errorf("failed to create feedback data directory: %w", err)
	}
	return feedback.NewSQLiteStore(dbPath)
}

// buildPipeline wires the full classification pipeline from configuration.
// The returned cleanup closes every external connection.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, func(), error) {
	snap, err := refdata.Load(viper.GetViper())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	embedder := retrieval.NewOpenAIEmbedder(retrieval.OpenAIConfig{
		BaseURL: viper.GetString("embedding.endpoint"),
		APIKey:  viper.GetString("embedding.api_key"),
		Model:   viper.GetString("embedding.model"),
	})

	index, err := retrieval.NewMilvusIndex(ctx, retrieval.MilvusConfig{
		Endpoint:   viper.GetString("index.endpoint"),
		Collection: viper.GetString("index.collection"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to vector index: %w", err)
	}

	retriever := retrieval.New(embedder, index, retrieval.Config{
		MaxRetries:        snap.Limits.MaxRetries,
		BaseDelay:         snap.Limits.BaseDelay,
		RequestsPerSecond: viper.GetFloat64("embedding.requests_per_second"),
	})

	store, err := openFeedbackStore()
	if err != nil {
		if closeErr := index.Close(); closeErr != nil {
			slog.Error("Failed to close vector index", "error", closeErr)
		}
		return nil, nil, fmt.Errorf("failed to open feedback store: %w", err)
	}

	pipe, err := pipeline.New(snap, retriever, feedback.NewBlender(store))
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close feedback store", "error", closeErr)
		}
		if closeErr := index.Close(); closeErr != nil {
			slog.Error("Failed to close vector index", "error", closeErr)
		}
		return nil, nil, err
	}

	cleanup := func() {
		pipe.Close()
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close feedback store", "error", closeErr)
		}
		if closeErr := index.Close(); closeErr != nil {
			slog.Error("Failed to close vector index", "error", closeErr)
		}
	}
	return pipe, cleanup, nil
}
