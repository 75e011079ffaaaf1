package ytpl

import (
	ythttp "ytpl/http"
	"ytpl/internal/retry"
	"ytpl/youtube/playlist"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytpl.ErrEmptyPlaylist) {
//		fmt.Println("Nothing to fetch")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var searchErr *ytpl.SearchError
//	if errors.As(err, &searchErr) {
//		fmt.Printf("%s failed after %d attempts: %v\n", searchErr.Query, searchErr.Attempts, searchErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// SearchError wraps every failed Search.
	SearchError = playlist.SearchError
	// UpstreamError carries an error alert shown by YouTube.
	UpstreamError = playlist.UpstreamError
	// HTTPError is an unexpected HTTP status.
	HTTPError = ythttp.HTTPError
	// ExhaustedError is returned when the transport gave up retrying.
	ExhaustedError = retry.ExhaustedError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrInvalidQuery indicates the query is neither an ID nor a YouTube link.
	ErrInvalidQuery = playlist.ErrInvalidQuery
	// ErrUnsupportedMix indicates the query names a mix.
	ErrUnsupportedMix = playlist.ErrUnsupportedMix
	// ErrUnresolvableReference indicates a /user/ or /c/ page had no channel ID.
	ErrUnresolvableReference = playlist.ErrUnresolvableReference
	// ErrUnknownPlaylist indicates the playlist does not exist.
	ErrUnknownPlaylist = playlist.ErrUnknownPlaylist
	// ErrEmptyPlaylist indicates the page had no video list.
	ErrEmptyPlaylist = playlist.ErrEmptyPlaylist
	// ErrUnsupportedPlaylist indicates no initial data could be extracted.
	ErrUnsupportedPlaylist = playlist.ErrUnsupportedPlaylist
	// ErrMalformedResponse indicates the page layout was not recognised.
	ErrMalformedResponse = playlist.ErrMalformedResponse
)
