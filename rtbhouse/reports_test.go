package rtbhouse

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInfo(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/user/info", r.URL.Path)
		writeData(w, map[string]any{"hashId": "u1", "login": testLogin, "email": testLogin})
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	info, err := client.UserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", info.HashID)
	assert.Equal(t, testLogin, info.Login)
}

func TestAdvertisers(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/advertisers", r.URL.Path)
		writeData(w, []any{
			map[string]any{"hash": "adv1", "name": "Shop One", "status": "ACTIVE", "currency": "USD"},
			map[string]any{"hash": "adv2", "name": "Shop Two", "status": "PAUSED", "currency": "EUR"},
		})
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	advertisers, err := client.Advertisers(context.Background())
	require.NoError(t, err)
	require.Len(t, advertisers, 2)
	assert.Equal(t, "adv1", advertisers[0].Hash)
	assert.Equal(t, "Shop Two", advertisers[1].Name)
}

func TestBilling(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/advertisers/adv1/billing", r.URL.Path)
		assert.Equal(t, "2024-02-01", r.URL.Query().Get("dayFrom"))
		assert.Equal(t, "2024-02-29", r.URL.Query().Get("dayTo"))
		writeData(w, map[string]any{
			"initialBalance": 100.5,
			"bills": []any{
				map[string]any{"day": "2024-02-01", "credit": 0, "debit": 12.5, "balance": 88.0},
			},
		})
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	billing, err := client.Billing(context.Background(),
		"adv1",
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 100.5, billing.InitialBalance)
	require.Len(t, billing.Bills, 1)
	assert.Equal(t, 88.0, billing.Bills[0].Balance)
}

func TestStatsEndpoints(t *testing.T) {
	opts := StatsOptions{
		DayFrom:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DayTo:           time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		GroupBy:         GroupByDay,
		CountConvention: CountConventionPostView,
	}

	tests := []struct {
		name     string
		call     func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error)
		wantPath string
	}{
		{
			name: "campaign stats",
			call: func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error) {
				return c.CampaignStats(ctx, "adv1", o)
			},
			wantPath: "/v2/advertisers/adv1/campaign-stats",
		},
		{
			name: "campaign stats merged",
			call: func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error) {
				return c.CampaignStatsMerged(ctx, "adv1", o)
			},
			wantPath: "/v2/advertisers/adv1/campaign-stats-merged",
		},
		{
			name: "category stats",
			call: func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error) {
				return c.CategoryStats(ctx, "adv1", o)
			},
			wantPath: "/v2/advertisers/adv1/category-stats",
		},
		{
			name: "creative stats",
			call: func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error) {
				return c.CreativeStats(ctx, "adv1", o)
			},
			wantPath: "/v2/advertisers/adv1/creative-stats",
		},
		{
			name: "device stats",
			call: func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error) {
				return c.DeviceStats(ctx, "adv1", o)
			},
			wantPath: "/v2/advertisers/adv1/device-stats",
		},
		{
			name: "country stats",
			call: func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error) {
				return c.CountryStats(ctx, "adv1", o)
			},
			wantPath: "/v2/advertisers/adv1/country-stats",
		},
		{
			name: "dpa campaign stats",
			call: func(c *Client, ctx context.Context, o StatsOptions) ([]Record, error) {
				return c.DpaCampaignStats(ctx, "adv1", o)
			},
			wantPath: "/v2/advertisers/adv1/dpa/campaign-stats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				query := r.URL.Query()
				assert.Equal(t, "2024-03-01", query.Get("dayFrom"))
				assert.Equal(t, "2024-03-31", query.Get("dayTo"))
				assert.Equal(t, "day", query.Get("groupBy"))
				assert.Equal(t, "POST_VIEW", query.Get("countConvention"))
				assert.False(t, query.Has("userSegment"), "empty segment must be omitted")
				writeData(w, []any{map[string]any{"day": "2024-03-01", "impsCount": 10}})
			})

			client := newTestClient(t, server.URL, zerolog.Nop())
			rows, err := tt.call(client, context.Background(), opts)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "2024-03-01", rows[0]["day"])
		})
	}
}

func TestStatsUserSegment(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BUYERS", r.URL.Query().Get("userSegment"))
		writeData(w, []any{})
	})

	opts := StatsOptions{
		DayFrom:         time.Now(),
		DayTo:           time.Now(),
		GroupBy:         GroupByCampaign,
		CountConvention: CountConventionAllPostClick,
		UserSegment:     UserSegmentBuyers,
	}

	client := newTestClient(t, server.URL, zerolog.Nop())
	_, err := client.CampaignStats(context.Background(), "adv1", opts)
	require.NoError(t, err)
}

func TestCatalogPaths(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client, ctx context.Context) error
		wantPath string
		data     any
	}{
		{
			name: "advertiser",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Advertiser(ctx, "adv1")
				return err
			},
			wantPath: "/v2/advertisers/adv1",
			data:     map[string]any{"hash": "adv1"},
		},
		{
			name: "invoicing data",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.InvoicingData(ctx, "adv1")
				return err
			},
			wantPath: "/v2/advertisers/adv1/client",
			data:     map[string]any{"companyName": "ACME"},
		},
		{
			name: "offer categories",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.OfferCategories(ctx, "adv1")
				return err
			},
			wantPath: "/v2/advertisers/adv1/offer-categories",
			data:     []any{},
		},
		{
			name: "offers",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Offers(ctx, "adv1")
				return err
			},
			wantPath: "/v2/advertisers/adv1/offers",
			data:     []any{},
		},
		{
			name: "campaigns",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Campaigns(ctx, "adv1")
				return err
			},
			wantPath: "/v2/advertisers/adv1/campaigns",
			data:     []any{},
		},
		{
			name: "creatives",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Creatives(ctx, "adv1")
				return err
			},
			wantPath: "/v2/advertisers/adv1/creatives",
			data:     []any{},
		},
		{
			name: "dpa accounts",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.DpaAccounts(ctx, "adv1")
				return err
			},
			wantPath: "/v2/advertisers/adv1/dpa/accounts",
			data:     []any{},
		},
		{
			name: "dpa creatives",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.DpaCreatives(ctx, "acct9")
				return err
			},
			wantPath: "/v2/preview/dpa/acct9",
			data:     []any{},
		},
		{
			name: "dpa conversions",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.DpaConversions(ctx, "adv1", time.Now(), time.Now())
				return err
			},
			wantPath: "/v2/advertisers/adv1/dpa/conversions",
			data:     []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				writeData(w, tt.data)
			})

			client := newTestClient(t, server.URL, zerolog.Nop())
			require.NoError(t, tt.call(client, context.Background()))
		})
	}
}

func TestBatchCampaignStats(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/advertisers/adv1/campaign-stats":
			writeData(w, []any{map[string]any{"campaign": "one"}})
		case "/v2/advertisers/adv2/campaign-stats":
			writeData(w, []any{map[string]any{"campaign": "two"}})
		case "/v2/advertisers/broken/campaign-stats":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not found","appCode":"ADV_NOT_FOUND","errors":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	opts := StatsOptions{
		DayFrom:         time.Now(),
		DayTo:           time.Now(),
		GroupBy:         GroupByCampaign,
		CountConvention: CountConventionAttributedPostClick,
	}

	client := newTestClient(t, server.URL, zerolog.Nop())
	results, err := client.BatchCampaignStats(context.Background(), []string{"adv1", "adv2", "broken"}, opts)
	require.NoError(t, err)

	require.Len(t, results, 2, "failed advertisers are skipped")
	assert.Equal(t, "one", results["adv1"][0]["campaign"])
	assert.Equal(t, "two", results["adv2"][0]["campaign"])
	assert.Nil(t, client.httpClient, "batch workers must not touch the parent session")
	assert.GreaterOrEqual(t, server.loginCount(), 3, "each worker owns its session")
}

func TestGetEscapeHatch(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/some/new/endpoint", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("flag"))
		writeData(w, map[string]any{"ok": true})
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	params := url.Values{}
	params.Set("flag", "1")
	data, err := client.Get(context.Background(), "some/new/endpoint", params)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}
