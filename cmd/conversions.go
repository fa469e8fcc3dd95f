package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hzegota/rtbhouse-go-sdk/filter"
	"github.com/hzegota/rtbhouse-go-sdk/rtbhouse"
)

var (
	conversionType string
	filterExpr     string
	preset         string
)

// conversionsCmd represents the conversions command
var conversionsCmd = &cobra.Command{
	Use:   "conversions",
	Short: "List conversions for a day range",
	Long: `Fetch all conversions in the day range, following the server cursor across
pages, and optionally narrow the rows with a filter expression:

  rtbhouse conversions -a HASH --from 2024-01-01 --to 2024-01-31 \
      --filter 'conversionValue > 100'`,
	RunE: runConversions,
}

func init() {
	rootCmd.AddCommand(conversionsCmd)

	conversionsCmd.Flags().StringVar(&conversionType, "type", string(rtbhouse.CountConventionAttributedPostClick), "conversion attribution kind")
	conversionsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	conversionsCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runConversions(cmd *cobra.Command, args []string) error {
	if advertiserHash == "" {
		return fmt.Errorf("--advertiser is required")
	}
	dayFrom, dayTo, err := dayRange()
	if err != nil {
		return err
	}

	rows, err := client.Conversions(context.Background(), advertiserHash, dayFrom, dayTo, rtbhouse.CountConvention(conversionType))
	if err != nil {
		return err
	}

	expression, err := getFilterExpression()
	if err != nil {
		return err
	}
	if expression != "" {
		compiled, err := filter.Compile(expression)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		before := len(rows)
		rows = filter.Apply(rows, compiled)
		logger.Debug().
			Str("filter", expression).
			Int("before", before).
			Int("after", len(rows)).
			Msg("Filtered conversion rows")
	}

	if len(rows) == 0 {
		fmt.Println("No conversions found matching the criteria.")
		return nil
	}

	fmt.Printf("\nFound %d conversions:\n", len(rows))
	fmt.Println(strings.Repeat("-", 80))
	printRecords(rows)
	return nil
}

// getFilterExpression determines the filter expression to use. An empty
// result means no filtering.
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > config default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetFilter, ok := cfg.Filter.Presets[preset]; ok {
			return presetFilter, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.DefaultExpression, nil
}
