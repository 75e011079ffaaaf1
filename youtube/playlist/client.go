// Package playlist fetches YouTube playlist metadata and items by scraping
// the playlist page and walking the browse API's continuation tokens.
package playlist

import (
	"context"

	"github.com/rs/zerolog"

	ythttp "ytpl/http"
	"ytpl/internal/dump"
	"ytpl/youtube/innertube"
)

const (
	// DefaultRetries is the number of extra page fetches Search makes when
	// the page cannot be parsed.
	DefaultRetries = 3

	// DefaultMaxContinuationPages bounds a single continuation walk.
	DefaultMaxContinuationPages = 10000

	// DefaultResolverCacheSize is the number of channel references memoised.
	DefaultResolverCacheSize = 256
)

// Item is a normalized playlist entry.
type Item = innertube.Item

// Transport performs the two kinds of requests the scraper needs.
// *ythttp.Client implements it.
type Transport interface {
	GetText(ctx context.Context, url string, headers *ythttp.Header) (string, error)
	PostJSON(ctx context.Context, url string, body any, headers *ythttp.Header, out any) error
}

// DiagnosticSink receives raw responses that could not be parsed. Dump must
// not fail the caller.
type DiagnosticSink interface {
	Dump(body string)
}

// Result is an assembled playlist.
type Result struct {
	ID          string              `json:"id"`
	URL         string              `json:"url"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Thumbnail   innertube.Thumbnail `json:"thumbnail"`
	TotalItems  int                 `json:"totalItems"`
	Views       int                 `json:"views"`
	Items       []Item              `json:"items"`
}

// Client fetches playlists. It is safe for concurrent use; every call keeps
// its own limit counter and retry budget.
type Client struct {
	transport Transport
	resolver  *Resolver
	sink      DiagnosticSink
	logger    zerolog.Logger
	maxPages  int
	cacheSize int
}

// ClientOption configures the playlist client.
type ClientOption func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSink sets where unparseable responses are dumped. The default writes
// to dump.DefaultDir.
func WithSink(sink DiagnosticSink) ClientOption {
	return func(c *Client) {
		c.sink = sink
	}
}

// WithResolverCacheSize sets how many channel references are memoised.
// Zero disables the cache.
func WithResolverCacheSize(n int) ClientOption {
	return func(c *Client) {
		c.cacheSize = n
	}
}

// WithMaxContinuationPages bounds the number of continuation requests a
// single walk may issue.
func WithMaxContinuationPages(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// NewClient creates a playlist client on top of transport.
func NewClient(transport Transport, opts ...ClientOption) *Client {
	c := &Client{
		transport: transport,
		logger:    zerolog.Nop(),
		maxPages:  DefaultMaxContinuationPages,
		cacheSize: DefaultResolverCacheSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.sink == nil {
		c.sink = dump.New(dump.DefaultDir, dump.WithLogger(c.logger))
	}
	c.resolver = NewResolver(transport, c.cacheSize, c.logger)

	return c
}

// Resolve returns the playlist ID for query. See Resolver.Resolve.
func (c *Client) Resolve(ctx context.Context, query string) (string, error) {
	return c.resolver.Resolve(ctx, query)
}
