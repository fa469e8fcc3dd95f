// Package rtbhouse provides a client for the RTB House reporting API.
//
// The client authenticates once with panel credentials and keeps the
// session cookie for its lifetime; every report method is a single
// synchronous round trip on top of that session.
//
// # Usage
//
// Create a client with your panel credentials:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := rtbhouse.NewClient("user@example.com", "secret", logger,
//		rtbhouse.WithRequestTimeout(60*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	advertisers, err := client.Advertisers(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The login happens lazily on the first call and at most once per Client.
// Statistics and conversion rows have no fixed column set and are returned
// as Record maps; fixed-shape payloads decode into structs.
//
// # Error Handling
//
// Every failure surfaces as one of three error kinds:
//
//   - *ClientError: no response at all (connectivity) or the server
//     rejected the pinned API version outright (HTTP 410, wraps
//     ErrVersionRejected)
//   - *APIError: non-2xx response, carrying message, appCode and the
//     field-level error list from the server's error body when present
//   - *MalformedError: the response could not be decoded or lacked an
//     expected field
//
// A server that merely advertises a newer API version than the pinned one
// does not fail the call; the client logs a warning and returns the data.
//
// # Concurrency
//
// A Client is not safe for concurrent use. Serialize calls, create one
// Client per goroutine, or use BatchCampaignStats which clones the client
// per worker.
package rtbhouse
