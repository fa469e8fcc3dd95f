package rtbhouse

import "time"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	host           string
	connectTimeout time.Duration
	requestTimeout time.Duration
	userAgent      string
}

// WithHost overrides the API host, e.g. for a staging panel or a test
// server. The pinned API version path is still appended to it.
func WithHost(host string) Option {
	return func(o *clientOptions) {
		if host != "" {
			o.host = host
		}
	}
}

// WithConnectTimeout sets the TCP connect timeout used when the session
// transport is created.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.connectTimeout = timeout
		}
	}
}

// WithRequestTimeout sets the overall per-request timeout, covering the
// full round trip including body read.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.requestTimeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}
