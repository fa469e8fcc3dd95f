package rtbhouse

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// maxCursorLimit is the page size requested from cursor-paginated
// endpoints. The server may still return fewer rows per page.
const maxCursorLimit = 10000

// cursorPage is the data payload of one page of a cursor-paginated
// resource. An empty NextCursor means the result set is exhausted.
type cursorPage struct {
	Rows       []Record `json:"rows"`
	NextCursor string   `json:"nextCursor"`
}

// getPaginated follows nextCursor tokens until the server reports no more
// pages and returns all rows in page-arrival order. The caller's filter
// parameters are reused on every page request.
func (c *Client) getPaginated(ctx context.Context, path string, params url.Values) ([]Record, error) {
	pageParams := url.Values{}
	for key, values := range params {
		pageParams[key] = values
	}
	pageParams.Set("limit", strconv.Itoa(maxCursorLimit))

	var rows []Record
	for page := 1; ; page++ {
		data, err := c.Get(ctx, path, pageParams)
		if err != nil {
			return nil, err
		}

		var current cursorPage
		if err := json.Unmarshal(data, &current); err != nil {
			return nil, &MalformedError{Reason: "paginated payload is not a rows/nextCursor object", Err: err}
		}

		rows = append(rows, current.Rows...)

		c.logger.Debug().
			Int("page", page).
			Int("count", len(current.Rows)).
			Int("total", len(rows)).
			Msg("Retrieved result page")

		if current.NextCursor == "" {
			return rows, nil
		}
		pageParams.Set("nextCursor", current.NextCursor)
	}
}
