package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify a CSV file of product descriptions",
		Long: `Classify many product descriptions in one run.

The input CSV needs a header row with at least a "description" column;
"material", "origin", and "goods_type" columns are optional. Output order
matches input order regardless of internal completion order.

Examples:
  tariffpilot batch --input products.csv
  tariffpilot batch --input products.csv --output results.csv`,
		RunE: runBatch,
	}

	cmd.Flags().StringP("input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringP("output", "O", "", "Output CSV file (default: stdout summary)")
	_ = cmd.MarkFlagRequired("input")

	_ = viper.BindPFlag("batch.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("batch.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	queries, err := readQueries(viper.GetString("batch.input"))
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		fmt.Println("No queries found in input file")
		return nil
	}

	pipe, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	bar := progressbar.NewOptions(len(queries),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying products..."),
	)

	// Chunked so the bar advances between submissions.
	results := make([]model.ClassificationResult, 0, len(queries))
	for start := 0; start < len(queries); start += 100 {
		end := min(start+100, len(queries))
		results = append(results, pipe.ClassifyBatch(ctx, queries[start:end])...)
		_ = bar.Set(end)
	}
	_ = bar.Finish()

	return writeResults(viper.GetString("batch.output"), queries, results)
}

// readQueries parses the input CSV into product queries.
func readQueries(path string) ([]model.ProductQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["description"]; !ok {
		return nil, fmt.Errorf("input CSV must have a description column")
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var queries []model.ProductQuery
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", readErr)
		}

		goodsType, gtErr := model.ParseGoodsType(field(record, "goods_type"))
		if gtErr != nil {
			// Recorded as Other rather than aborting the whole file; the
			// pipeline flags anything that still fails validation.
			goodsType = model.GoodsTypeOther
		}

		queries = append(queries, model.ProductQuery{
			Description:     field(record, "description"),
			MaterialHint:    field(record, "material"),
			CountryOfOrigin: field(record, "origin"),
			GoodsType:       goodsType,
		})
	}
	return queries, nil
}

// writeResults emits one row per query, preserving input order.
func writeResults(path string, queries []model.ProductQuery, results []model.ClassificationResult) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err := writer.Write([]string{"description", "hts_code", "score", "decision", "stage"}); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for i, result := range results {
		score := 0.0
		if len(result.RankedCodes) > 0 {
			score = result.RankedCodes[0].Score
		}
		row := []string{
			queries[i].Description,
			result.TopCode(),
			fmt.Sprintf("%.3f", score),
			string(result.Decision),
			string(result.Rationale.Stage),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}
	return nil
}
