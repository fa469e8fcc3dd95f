package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hzegota/rtbhouse-go-sdk/rtbhouse"
)

var (
	statsKind       string
	groupByStr      string
	countConvention string
	userSegment     string
	allAdvertisers  bool
	merged          bool
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetch a statistics breakdown for an advertiser",
	Long: `Fetch statistics broken down by campaign, category, creative, device or
country. With --all, campaign stats are fetched for every advertiser on the
account concurrently.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsKind, "kind", "k", "campaign", "breakdown kind (campaign/category/creative/device/country/dpa)")
	statsCmd.Flags().StringVarP(&groupByStr, "group-by", "g", "day", "grouping dimension")
	statsCmd.Flags().StringVar(&countConvention, "count-convention", string(rtbhouse.CountConventionAttributedPostClick), "conversion attribution convention")
	statsCmd.Flags().StringVar(&userSegment, "user-segment", "", "narrow to a user segment (VISITORS/SHOPPERS/BUYERS)")
	statsCmd.Flags().BoolVar(&allAdvertisers, "all", false, "fetch campaign stats for all advertisers")
	statsCmd.Flags().BoolVar(&merged, "merged", false, "merge RTB and DPA campaign stats")
}

func runStats(cmd *cobra.Command, args []string) error {
	dayFrom, dayTo, err := dayRange()
	if err != nil {
		return err
	}

	opts := rtbhouse.StatsOptions{
		DayFrom:         dayFrom,
		DayTo:           dayTo,
		GroupBy:         rtbhouse.GroupBy(groupByStr),
		CountConvention: rtbhouse.CountConvention(countConvention),
		UserSegment:     rtbhouse.UserSegment(userSegment),
	}

	ctx := context.Background()

	if allAdvertisers {
		return runStatsForAll(ctx, opts)
	}

	if advertiserHash == "" {
		return fmt.Errorf("--advertiser is required (or use --all)")
	}

	var rows []rtbhouse.Record
	switch {
	case merged:
		rows, err = client.CampaignStatsMerged(ctx, advertiserHash, opts)
	case statsKind == "campaign":
		rows, err = client.CampaignStats(ctx, advertiserHash, opts)
	case statsKind == "category":
		rows, err = client.CategoryStats(ctx, advertiserHash, opts)
	case statsKind == "creative":
		rows, err = client.CreativeStats(ctx, advertiserHash, opts)
	case statsKind == "device":
		rows, err = client.DeviceStats(ctx, advertiserHash, opts)
	case statsKind == "country":
		rows, err = client.CountryStats(ctx, advertiserHash, opts)
	case statsKind == "dpa":
		rows, err = client.DpaCampaignStats(ctx, advertiserHash, opts)
	default:
		return fmt.Errorf("unknown stats kind: %s", statsKind)
	}
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("No rows for the given range.")
		return nil
	}

	fmt.Printf("\n%d rows (%s stats, grouped by %s):\n", len(rows), statsKind, groupByStr)
	fmt.Println(strings.Repeat("-", 80))
	printRecords(rows)
	return nil
}

// runStatsForAll fans campaign stats out over every advertiser, one
// session per worker.
func runStatsForAll(ctx context.Context, opts rtbhouse.StatsOptions) error {
	advertisers, err := client.Advertisers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list advertisers: %w", err)
	}

	hashes := make([]string, 0, len(advertisers))
	names := make(map[string]string, len(advertisers))
	for _, adv := range advertisers {
		hashes = append(hashes, adv.Hash)
		names[adv.Hash] = adv.Name
	}

	logger.Info().Int("advertisers", len(hashes)).Msg("Fetching campaign stats for all advertisers")

	results, err := client.BatchCampaignStats(ctx, hashes, opts)
	if err != nil {
		return err
	}

	for _, hash := range hashes {
		rows, ok := results[hash]
		if !ok {
			continue
		}
		fmt.Printf("\n%s (%s): %d rows\n", names[hash], hash, len(rows))
		fmt.Println(strings.Repeat("-", 80))
		printRecords(rows)
	}
	return nil
}
