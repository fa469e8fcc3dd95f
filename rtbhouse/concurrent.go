package rtbhouse

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// batchConcurrency limits how many advertiser sessions are driven at once.
const batchConcurrency = 4

// BatchCampaignStats fetches campaign statistics for several advertisers
// concurrently. One Client carries one session and must not be shared
// across goroutines, so every worker runs on its own clone with a fresh
// session. Advertisers whose fetch fails are logged and skipped; the
// returned map holds the successful results keyed by advertiser hash.
func (c *Client) BatchCampaignStats(ctx context.Context, advertisers []string, opts StatsOptions) (map[string][]Record, error) {
	results := make(map[string][]Record, len(advertisers))
	if len(advertisers) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	var mu sync.Mutex

	for _, adv := range advertisers {
		adv := adv
		g.Go(func() error {
			rows, err := c.clone().CampaignStats(ctx, adv, opts)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Str("advertiser", adv).
					Msg("Failed to fetch campaign stats")
				// Continue processing other advertisers
				return nil
			}

			mu.Lock()
			results[adv] = rows
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
