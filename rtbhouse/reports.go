package rtbhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// dayFormat is the wire format for day-range parameters.
const dayFormat = "2006-01-02"

// StatsOptions parameterizes the statistics endpoints. UserSegment is
// optional and omitted from the query when empty.
type StatsOptions struct {
	DayFrom         time.Time
	DayTo           time.Time
	GroupBy         GroupBy
	CountConvention CountConvention
	UserSegment     UserSegment
}

func (o StatsOptions) params() url.Values {
	params := url.Values{}
	params.Set("dayFrom", o.DayFrom.Format(dayFormat))
	params.Set("dayTo", o.DayTo.Format(dayFormat))
	params.Set("groupBy", string(o.GroupBy))
	params.Set("countConvention", string(o.CountConvention))
	if o.UserSegment != "" {
		params.Set("userSegment", string(o.UserSegment))
	}
	return params
}

func dayRangeParams(dayFrom, dayTo time.Time) url.Values {
	params := url.Values{}
	params.Set("dayFrom", dayFrom.Format(dayFormat))
	params.Set("dayTo", dayTo.Format(dayFormat))
	return params
}

// decode unmarshals a data payload into its declared shape.
func decode(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &MalformedError{Reason: "unexpected payload shape", Err: err}
	}
	return nil
}

// UserInfo returns the account the session is authenticated as.
func (c *Client) UserInfo(ctx context.Context) (*UserInfo, error) {
	data, err := c.Get(ctx, "user/info", nil)
	if err != nil {
		return nil, err
	}
	var info UserInfo
	if err := decode(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Advertisers lists all advertisers visible to the authenticated user.
func (c *Client) Advertisers(ctx context.Context) ([]Advertiser, error) {
	data, err := c.Get(ctx, "advertisers", nil)
	if err != nil {
		return nil, err
	}
	var advertisers []Advertiser
	if err := decode(data, &advertisers); err != nil {
		return nil, err
	}
	return advertisers, nil
}

// Advertiser returns one advertiser by hash.
func (c *Client) Advertiser(ctx context.Context, adv string) (*Advertiser, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s", adv), nil)
	if err != nil {
		return nil, err
	}
	var advertiser Advertiser
	if err := decode(data, &advertiser); err != nil {
		return nil, err
	}
	return &advertiser, nil
}

// InvoicingData returns the invoicing contact data of an advertiser. The
// shape varies per billing setup, so it is returned as a Record.
func (c *Client) InvoicingData(ctx context.Context, adv string) (Record, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/client", adv), nil)
	if err != nil {
		return nil, err
	}
	var record Record
	if err := decode(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// OfferCategories lists the offer feed categories of an advertiser.
func (c *Client) OfferCategories(ctx context.Context, adv string) ([]OfferCategory, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/offer-categories", adv), nil)
	if err != nil {
		return nil, err
	}
	var categories []OfferCategory
	if err := decode(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Offers lists the offers in an advertiser's feed.
func (c *Client) Offers(ctx context.Context, adv string) ([]Offer, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/offers", adv), nil)
	if err != nil {
		return nil, err
	}
	var offers []Offer
	if err := decode(data, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// Campaigns lists the campaigns of an advertiser.
func (c *Client) Campaigns(ctx context.Context, adv string) ([]Campaign, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/campaigns", adv), nil)
	if err != nil {
		return nil, err
	}
	var campaigns []Campaign
	if err := decode(data, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Creatives lists the creatives of an advertiser.
func (c *Client) Creatives(ctx context.Context, adv string) ([]Creative, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/creatives", adv), nil)
	if err != nil {
		return nil, err
	}
	var creatives []Creative
	if err := decode(data, &creatives); err != nil {
		return nil, err
	}
	return creatives, nil
}

// Billing returns the billing statement for a day range.
func (c *Client) Billing(ctx context.Context, adv string, dayFrom, dayTo time.Time) (*Billing, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/billing", adv), dayRangeParams(dayFrom, dayTo))
	if err != nil {
		return nil, err
	}
	var billing Billing
	if err := decode(data, &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}

// CampaignStatsMerged returns campaign statistics merged across RTB and
// DPA campaigns.
func (c *Client) CampaignStatsMerged(ctx context.Context, adv string, opts StatsOptions) ([]Record, error) {
	return c.stats(ctx, fmt.Sprintf("advertisers/%s/campaign-stats-merged", adv), opts)
}

// CampaignStats returns statistics broken down by campaign.
func (c *Client) CampaignStats(ctx context.Context, adv string, opts StatsOptions) ([]Record, error) {
	return c.stats(ctx, fmt.Sprintf("advertisers/%s/campaign-stats", adv), opts)
}

// CategoryStats returns statistics broken down by offer category.
func (c *Client) CategoryStats(ctx context.Context, adv string, opts StatsOptions) ([]Record, error) {
	return c.stats(ctx, fmt.Sprintf("advertisers/%s/category-stats", adv), opts)
}

// CreativeStats returns statistics broken down by creative.
func (c *Client) CreativeStats(ctx context.Context, adv string, opts StatsOptions) ([]Record, error) {
	return c.stats(ctx, fmt.Sprintf("advertisers/%s/creative-stats", adv), opts)
}

// DeviceStats returns statistics broken down by device type.
func (c *Client) DeviceStats(ctx context.Context, adv string, opts StatsOptions) ([]Record, error) {
	return c.stats(ctx, fmt.Sprintf("advertisers/%s/device-stats", adv), opts)
}

// CountryStats returns statistics broken down by country.
func (c *Client) CountryStats(ctx context.Context, adv string, opts StatsOptions) ([]Record, error) {
	return c.stats(ctx, fmt.Sprintf("advertisers/%s/country-stats", adv), opts)
}

func (c *Client) stats(ctx context.Context, path string, opts StatsOptions) ([]Record, error) {
	data, err := c.Get(ctx, path, opts.params())
	if err != nil {
		return nil, err
	}
	var rows []Record
	if err := decode(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Conversions returns every conversion in the day range, following the
// server's cursor until the result set is exhausted.
func (c *Client) Conversions(ctx context.Context, adv string, dayFrom, dayTo time.Time, convType CountConvention) ([]Record, error) {
	params := dayRangeParams(dayFrom, dayTo)
	params.Set("conversionType", string(convType))
	return c.getPaginated(ctx, fmt.Sprintf("advertisers/%s/conversions", adv), params)
}

// DpaAccounts lists the dynamic product ads accounts of an advertiser.
func (c *Client) DpaAccounts(ctx context.Context, adv string) ([]DpaAccount, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/dpa/accounts", adv), nil)
	if err != nil {
		return nil, err
	}
	var accounts []DpaAccount
	if err := decode(data, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// DpaCreatives returns the creative previews of a DPA account.
func (c *Client) DpaCreatives(ctx context.Context, acct string) ([]Record, error) {
	data, err := c.Get(ctx, fmt.Sprintf("preview/dpa/%s", acct), nil)
	if err != nil {
		return nil, err
	}
	var creatives []Record
	if err := decode(data, &creatives); err != nil {
		return nil, err
	}
	return creatives, nil
}

// DpaCampaignStats returns DPA campaign statistics.
func (c *Client) DpaCampaignStats(ctx context.Context, adv string, opts StatsOptions) ([]Record, error) {
	return c.stats(ctx, fmt.Sprintf("advertisers/%s/dpa/campaign-stats", adv), opts)
}

// DpaConversions returns DPA conversions for a day range.
func (c *Client) DpaConversions(ctx context.Context, adv string, dayFrom, dayTo time.Time) ([]Record, error) {
	data, err := c.Get(ctx, fmt.Sprintf("advertisers/%s/dpa/conversions", adv), dayRangeParams(dayFrom, dayTo))
	if err != nil {
		return nil, err
	}
	var rows []Record
	if err := decode(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
