package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Validate reference data and report the version that would activate",
		Long: `Validate the configured reference data: the mapping rule table, chapter
contexts, and the confidence threshold ladder.

A long-running deployment performs the same validation before atomically
swapping in new data; invalid data is rejected and the previous snapshot
keeps serving. This command runs that check standalone so bad configuration
is caught before rollout.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			snap, err := loadSnapshot()
			if err != nil {
				return fmt.Errorf("reference data rejected: %w", err)
			}

			fmt.Printf("Reference data OK\n")
			fmt.Printf("  version:    %s\n", snap.Version)
			fmt.Printf("  rules:      %d\n", len(snap.Rules))
			fmt.Printf("  chapters:   %d\n", len(snap.Chapters))
			fmt.Printf("  thresholds: semantic=%.2f high=%.2f very_high=%.2f\n",
				snap.Thresholds.Semantic, snap.Thresholds.High, snap.Thresholds.VeryHigh)
			return nil
		},
	}
}
