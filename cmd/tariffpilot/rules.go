package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgspencer2618/TariffPilot/internal/normalize"
	"github.com/sgspencer2618/TariffPilot/internal/refdata"
	"github.com/sgspencer2618/TariffPilot/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and test the mapping rule table",
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesTestCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the active mapping rules",
		RunE: func(_ *cobra.Command, _ []string) error {
			snap, err := loadSnapshot()
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render(fmt.Sprintf("Mapping rules (%s)", snap.Version)))
			for _, rule := range snap.Rules {
				material := rule.Key.Material
				if material == "" {
					material = "any"
				}
				fmt.Printf("  %-16s material=%-10s -> %s\n",
					rule.Key.Term, material, strings.Join(rule.Candidates, ", "))
			}
			return nil
		},
	}
}

func rulesTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <description>",
		Short: "Dry-run the normalizer and rule matcher on a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			snap, err := loadSnapshot()
			if err != nil {
				return err
			}

			normalizer := normalize.New(snap)
			matcher := rules.NewMatcher(snap)

			normalized := normalizer.Normalize(args[0], viper.GetString("rules.material"))
			fmt.Printf("canonical text: %q\n", normalized.CanonicalText)
			fmt.Printf("material:       %q\n", normalized.Material)

			scope := matcher.Match(normalized.CanonicalText, normalized.Material)
			if len(scope) == 0 {
				fmt.Println(subtleStyle.Render("no rule matched; semantic search would run unrestricted"))
				return nil
			}
			fmt.Printf("scope prefixes: %s\n", strings.Join(scope, ", "))
			return nil
		},
	}

	cmd.Flags().StringP("material", "m", "", "Material hint")
	_ = viper.BindPFlag("rules.material", cmd.Flags().Lookup("material"))

	return cmd
}

// loadSnapshot loads and validates reference data without touching any
// external service.
func loadSnapshot() (*refdata.Snapshot, error) {
	snap, err := refdata.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}
