package ytpl

import (
	"context"
	"sync"

	ythttp "ytpl/http"
	"ytpl/youtube/innertube"
	"ytpl/youtube/playlist"
)

// Convenience aliases for the playlist types.
type (
	Options        = playlist.Options
	Result         = playlist.Result
	Item           = playlist.Item
	Author         = innertube.Author
	RequestContext = innertube.RequestContext
)

// DefaultRetries is the retry budget used by Search and EnhancedSearch.
const DefaultRetries = playlist.DefaultRetries

var defaultClient = sync.OnceValue(func() *playlist.Client {
	return playlist.NewClient(ythttp.New(nil))
})

// Search fetches the playlist query refers to. query may be a playlist or
// album ID, a channel ID, or a YouTube URL naming either.
func Search(ctx context.Context, query string, opts Options) (*Result, error) {
	return defaultClient().Search(ctx, query, opts, DefaultRetries)
}

// ResolvePlaylistID returns the playlist ID for query without fetching the
// playlist. Only /user/ and /c/ channel links touch the network.
func ResolvePlaylistID(ctx context.Context, query string) (string, error) {
	return defaultClient().Resolve(ctx, query)
}

// IsValidPlaylistQuery reports whether query names a playlist. It never
// touches the network.
func IsValidPlaylistQuery(query string) bool {
	return playlist.IsValidQuery(query)
}

// EnhancedSearch finds playlists whose name matches text and fetches them.
// opts.Limit caps both the number of playlists and their items.
func EnhancedSearch(ctx context.Context, text string, opts Options) ([]*Result, error) {
	return defaultClient().EnhancedSearch(ctx, text, opts, DefaultRetries)
}

// FetchContinuationPage fetches the items behind a continuation token.
func FetchContinuationPage(ctx context.Context, apiKey, token string, rc RequestContext, opts Options) ([]Item, error) {
	return defaultClient().FetchContinuationPage(ctx, apiKey, token, rc, opts)
}
