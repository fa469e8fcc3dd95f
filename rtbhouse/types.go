package rtbhouse

import "encoding/json"

// Record is a single result row as returned by the API. Statistics and
// conversion rows have no fixed column set (it depends on the requested
// grouping), so they are exposed as maps rather than structs.
type Record = map[string]any

// CountConvention selects which conversions the server attributes to a
// campaign. Values are passed verbatim as query parameters.
type CountConvention string

const (
	CountConventionPostView            CountConvention = "POST_VIEW"
	CountConventionAttributedPostClick CountConvention = "ATTRIBUTED_POST_CLICK"
	CountConventionAllPostClick        CountConvention = "ALL_POST_CLICK"
)

// UserSegment narrows statistics to one audience segment.
type UserSegment string

const (
	UserSegmentVisitors UserSegment = "VISITORS"
	UserSegmentShoppers UserSegment = "SHOPPERS"
	UserSegmentBuyers   UserSegment = "BUYERS"
)

// GroupBy names the dimension statistics rows are grouped on.
type GroupBy string

const (
	GroupByDay      GroupBy = "day"
	GroupByWeek     GroupBy = "week"
	GroupByMonth    GroupBy = "month"
	GroupByYear     GroupBy = "year"
	GroupByCampaign GroupBy = "campaign"
	GroupByCategory GroupBy = "category"
	GroupByCreative GroupBy = "creative"
	GroupByCountry  GroupBy = "country"
	GroupByDevice   GroupBy = "deviceType"
)

// UserInfo describes the authenticated panel account.
type UserInfo struct {
	HashID string `json:"hashId"`
	Login  string `json:"login"`
	Email  string `json:"email"`
}

// Advertiser is a single advertiser account visible to the user.
type Advertiser struct {
	Hash     string `json:"hash"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	URL      string `json:"url"`
}

// Campaign is one campaign configured under an advertiser.
type Campaign struct {
	Hash   string `json:"hash"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Creative is a single creative with its preview locations.
type Creative struct {
	Hash     string   `json:"hash"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Previews []string `json:"previews"`
}

// Offer is one product offer in the advertiser's feed.
type Offer struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	ImageURL   string `json:"imageUrl"`
	Status     string `json:"status"`
}

// OfferCategory groups offers in the advertiser's feed.
type OfferCategory struct {
	CategoryID         string `json:"categoryId"`
	Identifier         string `json:"identifier"`
	Name               string `json:"name"`
	ActiveOffersNumber int    `json:"activeOffersNumber"`
}

// Bill is one billing ledger entry.
type Bill struct {
	Day     string  `json:"day"`
	Credit  float64 `json:"credit"`
	Debit   float64 `json:"debit"`
	Balance float64 `json:"balance"`
}

// Billing is the billing statement for a day range.
type Billing struct {
	InitialBalance float64 `json:"initialBalance"`
	Bills          []Bill  `json:"bills"`
}

// DpaAccount is a dynamic product ads account bound to an advertiser.
type DpaAccount struct {
	Hash string `json:"hash"`
	Name string `json:"name"`
}

// envelope is the wire shape wrapping every successful response. Data stays
// nil when the field is absent, which get() reports as a malformed response.
type envelope struct {
	Data json.RawMessage `json:"data"`
}
