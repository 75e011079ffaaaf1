package playlist

import (
	"errors"
	"fmt"
)

// Sentinel errors for playlist operations.
var (
	ErrInvalidQuery          = errors.New("youtube: invalid playlist query")
	ErrUnsupportedMix        = errors.New("youtube: mixes are not supported")
	ErrUnresolvableReference = errors.New("youtube: unable to resolve channel reference")
	ErrUnknownPlaylist       = errors.New("youtube: unknown playlist")
	ErrEmptyPlaylist         = errors.New("youtube: empty playlist")
	ErrUnsupportedPlaylist   = errors.New("youtube: unsupported playlist")
	ErrMalformedResponse     = errors.New("youtube: malformed response")
)

// UpstreamError carries an error alert shown by YouTube itself, such as a
// private or deleted playlist. It is authoritative and never retried.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "youtube: " + e.Message
}

// SearchError wraps a failed Search with the query and the number of page
// fetches attempted.
//
// Use errors.As to extract details:
//
//	var searchErr *playlist.SearchError
//	if errors.As(err, &searchErr) {
//		log.Printf("%s failed after %d attempts: %v", searchErr.Query, searchErr.Attempts, searchErr.Err)
//	}
type SearchError struct {
	Query    string
	Attempts int
	Err      error
}

func (e *SearchError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("playlist %q: %v (after %d attempts)", e.Query, e.Err, e.Attempts)
	}
	return fmt.Sprintf("playlist %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }
