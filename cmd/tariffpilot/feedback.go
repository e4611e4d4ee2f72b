package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Manage the local feedback correction store",
	}

	cmd.AddCommand(feedbackListCmd())
	cmd.AddCommand(feedbackAddCmd())
	cmd.AddCommand(feedbackPruneCmd())

	return cmd
}

func feedbackListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded corrections, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openFeedbackStore()
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			records, err := store.All(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No feedback records")
				return nil
			}

			fmt.Println(titleStyle.Render("Feedback corrections"))
			for _, rec := range records {
				fmt.Printf("  %s  %-14s conf=%.2f  %q\n",
					rec.CreatedAt.Format("2006-01-02"), rec.CorrectedCode, rec.Confidence, rec.Fingerprint)
			}
			return nil
		},
	}
}

func feedbackAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a corrected classification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot()
			if err != nil {
				return err
			}

			code := viper.GetString("feedback.add.code")
			if err := model.ValidateCode(code, snap.Chapters); err != nil {
				return err
			}

			store, err := openFeedbackStore()
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			rec := model.FeedbackRecord{
				Fingerprint:   viper.GetString("feedback.add.description"),
				CorrectedCode: code,
				Confidence:    viper.GetFloat64("feedback.add.confidence"),
			}
			if err := store.Record(cmd.Context(), rec); err != nil {
				return err
			}

			fmt.Printf("Recorded correction %s for %q\n", code, rec.Fingerprint)
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Product description the correction applies to (required)")
	cmd.Flags().StringP("code", "c", "", "Corrected HTS code (required)")
	cmd.Flags().Float64P("confidence", "f", 1.0, "Confidence in the correction")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("code")

	_ = viper.BindPFlag("feedback.add.description", cmd.Flags().Lookup("description"))
	_ = viper.BindPFlag("feedback.add.code", cmd.Flags().Lookup("code"))
	_ = viper.BindPFlag("feedback.add.confidence", cmd.Flags().Lookup("confidence"))

	return cmd
}

func feedbackPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete corrections past the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openFeedbackStore()
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			days := viper.GetInt("feedback.prune.days")
			removed, err := store.PruneOlderThan(cmd.Context(), time.Duration(days)*24*time.Hour)
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d records older than %d days\n", removed, days)
			return nil
		},
	}

	cmd.Flags().Int("days", 30, "Retention window in days")
	_ = viper.BindPFlag("feedback.prune.days", cmd.Flags().Lookup("days"))

	return cmd
}
