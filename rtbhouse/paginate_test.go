package rtbhouse

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionsPagination(t *testing.T) {
	dayFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dayTo := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	pages := map[string]map[string]any{
		"": {
			"rows":       []any{row("r1"), row("r2")},
			"nextCursor": "cursor-2",
		},
		"cursor-2": {
			"rows":       []any{row("r3")},
			"nextCursor": "cursor-3",
		},
		"cursor-3": {
			"rows":       []any{row("r4"), row("r5")},
			"nextCursor": nil,
		},
	}

	var requests int
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/"+APIVersion+"/advertisers/adv1/conversions", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "10000", query.Get("limit"))
		assert.Equal(t, "2024-01-01", query.Get("dayFrom"))
		assert.Equal(t, "2024-01-31", query.Get("dayTo"))
		assert.Equal(t, "ATTRIBUTED_POST_CLICK", query.Get("conversionType"))

		page, ok := pages[query.Get("nextCursor")]
		require.True(t, ok, "unexpected cursor %q", query.Get("nextCursor"))
		writeData(w, page)
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	rows, err := client.Conversions(context.Background(), "adv1", dayFrom, dayTo, CountConventionAttributedPostClick)
	require.NoError(t, err)

	// All pages concatenated in page order, middle page included.
	require.Len(t, rows, 5)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r["conversionIdentifier"].(string))
	}
	assert.Equal(t, []string{"r1", "r2", "r3", "r4", "r5"}, ids)
	assert.Equal(t, 3, requests, "pagination must stop on the null cursor")
}

func TestPaginationSinglePage(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{"rows": []any{row("only")}})
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	rows, err := client.Conversions(context.Background(), "adv1", time.Now(), time.Now(), CountConventionPostView)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "only", rows[0]["conversionIdentifier"])
}

func TestPaginationEmptyResult(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{"rows": []any{}, "nextCursor": nil})
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	rows, err := client.Conversions(context.Background(), "adv1", time.Now(), time.Now(), CountConventionAllPostClick)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPaginationMalformedPage(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []any{"not", "a", "page"})
	})

	client := newTestClient(t, server.URL, zerolog.Nop())
	_, err := client.Conversions(context.Background(), "adv1", time.Now(), time.Now(), CountConventionPostView)

	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func row(id string) map[string]any {
	return map[string]any{
		"conversionIdentifier": id,
		"conversionValue":      12.5,
	}
}

func TestCursorPageDecoding(t *testing.T) {
	var page cursorPage
	require.NoError(t, json.Unmarshal([]byte(`{"rows":[{"a":1}],"nextCursor":null}`), &page))
	assert.Len(t, page.Rows, 1)
	assert.Empty(t, page.NextCursor, "null cursor means the last page")
}
