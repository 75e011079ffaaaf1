// Package ytpl fetches public YouTube playlists without an API key.
//
// It scrapes the playlist page, decodes the embedded initial data and follows
// the browse API's continuation tokens until the playlist or the requested
// limit is exhausted.
//
// Overview
//
// ytpl provides high-level convenience functions for the most common operations:
//
//   - Search: Fetch a playlist by URL, ID or channel reference
//   - ResolvePlaylistID: Turn a query into a playlist ID
//   - IsValidPlaylistQuery: Check a query without network access
//   - EnhancedSearch: Find playlists by name and fetch each of them
//   - FetchContinuationPage: Fetch the items behind a continuation token
//
// Quick Start
//
// Fetch a playlist:
//
//	ctx := context.Background()
//	res, err := ytpl.Search(ctx, "https://www.youtube.com/playlist?list=PL...", ytpl.Options{Limit: 100})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, item := range res.Items {
//		fmt.Println(item.Title, item.URL)
//	}
//
// A channel ID or a channel URL (/channel/UC..., /user/<name>, /c/<name>)
// resolves to the channel's uploads playlist:
//
//	id, err := ytpl.ResolvePlaylistID(ctx, "https://www.youtube.com/user/someone")
//
// Mixes (RD...) are rejected with ErrUnsupportedMix.
//
// Configuration
//
// The ytpl command loads settings from multiple sources:
//
//  1. Environment variables (highest priority)
//  2. Config file (ytpl.json or ~/.config/ytpl/ytpl.json)
//  3. Default values (lowest priority)
//
// Environment variables:
//
//   - YTPL_LIMIT: Maximum items per playlist (0 = all)
//   - YTPL_GL, YTPL_HL: Region and language sent to YouTube
//   - YTPL_UTC_OFFSET_MINUTES: UTC offset sent in browse requests
//   - YTPL_RETRIES: Extra page fetches when a page cannot be parsed
//   - YTPL_TIMEOUT: Per request HTTP timeout
//   - YTPL_USER_AGENT: Default user agent
//   - YTPL_HTTP_MAX_RETRIES: Retries for transient HTTP failures
//   - YTPL_DUMP_DIR: Where unparseable pages are written
//   - YTPL_LOG_LEVEL, YTPL_LOG_FORMAT: Logging (console or json)
//
// Error Handling
//
// Search failures are *SearchError values wrapping a sentinel error, an
// *UpstreamError or a transport error:
//
//	if errors.Is(err, ytpl.ErrUnknownPlaylist) {
//		fmt.Println("Playlist not found")
//	}
//
//	var upstream *ytpl.UpstreamError
//	if errors.As(err, &upstream) {
//		fmt.Printf("YouTube says: %s\n", upstream.Message)
//	}
//
// When the page cannot be parsed after every retry, the raw page is written
// to the dumps directory so the change in markup can be investigated.
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube/playlist: Client with a custom transport, logger and dump sink
//   - youtube/innertube: Page parsing and item normalization
//   - http: Retrying HTTP transport and the ordered header bag
//   - config: Configuration management
//
// Example using the playlist package directly:
//
//	transport := ythttp.New(nil)
//	client := playlist.NewClient(transport,
//		playlist.WithLogger(logger),
//		playlist.WithSink(dump.New("/var/tmp/ytpl")),
//	)
//	res, err := client.Search(ctx, query, playlist.Options{GL: "DE", HL: "de"}, 5)
package ytpl
