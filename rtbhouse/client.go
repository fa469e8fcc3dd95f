package rtbhouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultHost is the production RTB House panel API host.
	DefaultHost = "https://api.panel.rtbhouse.com"

	// APIVersion is the protocol version this client is pinned to. The
	// server advertises its current version in the X-Current-Api-Version
	// header on every response.
	APIVersion = "v2"

	// DefaultConnectTimeout bounds TCP connection establishment when the
	// session transport is created.
	DefaultConnectTimeout = 2 * time.Second

	// DefaultRequestTimeout bounds a full request/response round trip.
	DefaultRequestTimeout = 30 * time.Second
)

// versionHeader carries the server's current API version.
const versionHeader = "X-Current-Api-Version"

// Client wraps the RTB House reporting API. It owns one authenticated
// session: the first request logs in via POST auth/login and keeps the
// session cookie for the lifetime of the Client.
//
// A Client is not safe for concurrent use; serialize calls or create one
// Client per goroutine. See BatchCampaignStats for a fan-out helper.
type Client struct {
	host           string
	username       string
	password       string
	connectTimeout time.Duration
	requestTimeout time.Duration
	userAgent      string
	logger         zerolog.Logger

	mu         sync.Mutex
	httpClient *http.Client
}

// NewClient creates a new RTB House API client. No request is made until
// the first call; the login happens lazily and at most once.
func NewClient(username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if username == "" {
		return nil, fmt.Errorf("rtbhouse username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("rtbhouse password is required")
	}

	options := clientOptions{
		host:           DefaultHost,
		connectTimeout: DefaultConnectTimeout,
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		host:           strings.TrimRight(options.host, "/"),
		username:       username,
		password:       password,
		connectTimeout: options.connectTimeout,
		requestTimeout: options.requestTimeout,
		userAgent:      options.userAgent,
		logger:         logger,
	}, nil
}

// clone returns a Client with the same configuration but its own, not yet
// established session.
func (c *Client) clone() *Client {
	return &Client{
		host:           c.host,
		username:       c.username,
		password:       c.password,
		connectTimeout: c.connectTimeout,
		requestTimeout: c.requestTimeout,
		userAgent:      c.userAgent,
		logger:         c.logger,
	}
}

// endpointURL joins the host, the pinned version and an endpoint path.
func (c *Client) endpointURL(path string, params url.Values) string {
	u := fmt.Sprintf("%s/%s/%s", c.host, APIVersion, path)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// ensureSession logs in and caches the cookie-bearing transport. It is a
// no-op once a session exists; a failed login leaves the Client without a
// session so a later call attempts a fresh login.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.httpClient != nil {
		return nil
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}

	hc := &http.Client{
		Jar:     jar,
		Timeout: c.requestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: c.connectTimeout}).DialContext,
		},
	}

	payload, err := json.Marshal(map[string]string{
		"login":    c.username,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL("auth/login", nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setCommonHeaders(req)

	resp, body, err := send(hc, req)
	if err != nil {
		return &ClientError{Message: "login request failed: " + err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify(resp, body)
	}
	c.checkVersion(resp)

	c.httpClient = hc
	c.logger.Debug().Str("login", c.username).Msg("Established RTB House API session")
	return nil
}

// Get ensures a session exists, issues GET path?params and returns the raw
// data payload of the response envelope. It is the escape hatch for
// endpoints the typed catalogue does not cover.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(path, params), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setCommonHeaders(req)

	resp, body, err := send(c.httpClient, req)
	if err != nil {
		return nil, &ClientError{Message: "request failed: " + err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classify(resp, body)
	}
	c.checkVersion(resp)

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedError{Reason: "response body is not valid JSON", Err: err}
	}
	if env.Data == nil {
		return nil, &MalformedError{Reason: `response lacks a "data" field`}
	}
	return env.Data, nil
}

// setCommonHeaders applies the headers shared by every outbound request.
func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// send performs one round trip and drains the body. A non-nil error means
// no response was received at all.
func send(hc *http.Client, req *http.Request) (*http.Response, []byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, nil
}

// classify turns a non-2xx response into a typed error. 410 means the
// pinned protocol version is rejected outright; anything else is an
// application error, structured when the server sent a JSON error body.
func (c *Client) classify(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusGone {
		return newVersionRejectedError(APIVersion, resp.Header.Get(versionHeader))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s (%d)", http.StatusText(resp.StatusCode), resp.StatusCode),
		}
	}

	var parsed struct {
		Message string `json:"message"`
		AppCode string `json:"appCode"`
		Errors  []any  `json:"errors"`
	}
	// Field shape mismatches are ignored; whatever decoded cleanly is kept.
	_ = json.Unmarshal(body, &parsed)

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    parsed.Message,
		AppCode:    parsed.AppCode,
		Errors:     parsed.Errors,
	}
}

// checkVersion warns when the server advertises a newer API version than
// the one this client is pinned to. The call itself still succeeds; this
// is the only condition reported out-of-band instead of as an error.
func (c *Client) checkVersion(resp *http.Response) {
	current := resp.Header.Get(versionHeader)
	if current == "" || current == APIVersion {
		return
	}
	c.logger.Warn().
		Str("pinned", APIVersion).
		Str("current", current).
		Msg("RTB House API client is outdated, update to the current version")
}
