package playlist

import (
	"context"
	"fmt"

	"ytpl/youtube/innertube"
)

// FetchContinuationPage fetches the items reachable from token, following
// continuation tokens until the playlist ends or opts.Limit items were
// collected. rc must be the request context parsed from the playlist page.
func (c *Client) FetchContinuationPage(ctx context.Context, apiKey, token string, rc innertube.RequestContext, opts Options) ([]Item, error) {
	return c.walk(ctx, apiKey, token, rc, newRequestOptions(opts))
}

// walk drains continuation pages iteratively. It stops on a missing token,
// an exhausted limit, a token already requested or the page cap.
func (c *Client) walk(ctx context.Context, apiKey, token string, rc innertube.RequestContext, ro *requestOptions) ([]Item, error) {
	var items []Item
	seen := make(map[string]struct{})

	for pages := 0; token != "" && ro.remaining >= 1; pages++ {
		if pages >= c.maxPages {
			c.logger.Warn().Int("pages", pages).Msg("continuation page limit reached")
			break
		}
		if _, dup := seen[token]; dup {
			c.logger.Warn().Str("token", token).Msg("continuation token repeated")
			break
		}
		seen[token] = struct{}{}

		batch, next, err := c.fetchPage(ctx, apiKey, token, rc, ro)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
		token = next
	}

	return items, nil
}

// fetchPage requests one continuation page and returns its playable items
// and the next token.
func (c *Client) fetchPage(ctx context.Context, apiKey, token string, rc innertube.RequestContext, ro *requestOptions) ([]Item, string, error) {
	req := innertube.BrowseRequest{Context: rc, Continuation: token}

	var data *innertube.InitialData
	if err := c.transport.PostJSON(ctx, innertube.BrowseURL(apiKey), req, ro.headers, &data); err != nil {
		return nil, "", fmt.Errorf("fetch continuation: %w", err)
	}

	raw, ok := data.ContinuationItems()
	if !ok {
		return nil, "", nil
	}

	items := ro.take(innertube.NormalizeItems(raw))
	c.logger.Debug().Int("items", len(items)).Msg("continuation page fetched")
	return items, innertube.FindContinuation(raw).Token(), nil
}
