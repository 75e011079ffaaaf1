package playlist

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultSearchResults is how many playlists EnhancedSearch returns when
// Options.Limit is unset.
const DefaultSearchResults = 10

const searchResultsURL = "https://www.youtube.com/results?search_query=%s&sp=EgIQAw%%253D%%253D"

var playlistIDOnPage = regexp.MustCompile(`"playlistId":"([^"]+)"`)

// EnhancedSearch looks playlists up by free text. It scrapes the playlist
// filter of the search results page and runs Search for each distinct ID in
// page order, one at a time. opts.Limit caps both the number of playlists
// and the items per playlist.
func (c *Client) EnhancedSearch(ctx context.Context, query string, opts Options, retries int) ([]*Result, error) {
	target := fmt.Sprintf(searchResultsURL, strings.ReplaceAll(url.QueryEscape(query), "+", "%20"))

	body, err := c.transport.GetText(ctx, target, effectiveHeaders(opts.Headers))
	if err != nil {
		return nil, fmt.Errorf("unable to find playlists with name '%s': %w", query, err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchResults
	}
	ids := extractPlaylistIDs(body, limit)
	c.logger.Debug().Str("query", query).Int("playlists", len(ids)).Msg("search results scraped")

	results := make([]*Result, 0, len(ids))
	for _, id := range ids {
		res, err := c.Search(ctx, id, opts, retries)
		if err != nil {
			return nil, fmt.Errorf("unable to find playlists with name '%s': %w", query, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// extractPlaylistIDs returns up to limit distinct playlist IDs in page order.
func extractPlaylistIDs(body string, limit int) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, m := range playlistIDOnPage.FindAllStringSubmatch(body, -1) {
		if len(ids) >= limit {
			break
		}
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	}
	return ids
}
