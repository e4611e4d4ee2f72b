package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <description>",
		Short: "Classify a product description into an HTS code",
		Long: `Classify a single free-text product description.

Examples:
  tariffpilot classify "aluminum window frame"
  tariffpilot classify "leather wallet" --material leather --origin CA
  tariffpilot classify "power transformer" --goods-type Resale`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().StringP("material", "m", "", "Material hint (e.g. leather, aluminum)")
	cmd.Flags().StringP("origin", "o", "", "Country of origin code")
	cmd.Flags().StringP("goods-type", "g", "", "Goods type (e.g. Resale, After Sales Parts)")

	_ = viper.BindPFlag("classify.material", cmd.Flags().Lookup("material"))
	_ = viper.BindPFlag("classify.origin", cmd.Flags().Lookup("origin"))
	_ = viper.BindPFlag("classify.goods_type", cmd.Flags().Lookup("goods-type"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	goodsType, err := model.ParseGoodsType(viper.GetString("classify.goods_type"))
	if err != nil {
		return err
	}

	pipe, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	query := model.ProductQuery{
		Description:     args[0],
		MaterialHint:    viper.GetString("classify.material"),
		CountryOfOrigin: viper.GetString("classify.origin"),
		GoodsType:       goodsType,
	}

	result, err := pipe.Classify(ctx, query)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	fmt.Print(renderResult(query.Description, result))
	return nil
}
