// Package innertube models the playlist page state and browse API payloads
// used by YouTube's web client, and extracts them from raw responses.
package innertube

import "net/url"

const (
	// browseEndpoint is the Innertube API endpoint for browse and continuation calls.
	browseEndpoint = "https://www.youtube.com/youtubei/v1/browse"

	// defaultClientName is the client identifier for web requests.
	defaultClientName = "WEB"

	// DefaultGL and DefaultHL are the locale used when the caller sets none.
	DefaultGL = "US"
	DefaultHL = "en"

	// DefaultUTCOffsetMinutes is the offset sent when the caller sets none.
	DefaultUTCOffsetMinutes = -300
)

// BrowseRequest represents a request to the browse endpoint. Exactly one of
// BrowseID and Continuation is set.
type BrowseRequest struct {
	Context      RequestContext `json:"context"`
	BrowseID     string         `json:"browseId,omitempty"`
	Continuation string         `json:"continuation,omitempty"`
}

// RequestContext identifies the calling client. It is extracted once per page
// and sent verbatim with every follow-up call.
type RequestContext struct {
	Client  ClientInfo `json:"client"`
	User    struct{}   `json:"user"`
	Request struct{}   `json:"request"`
}

// ClientInfo identifies the client making the request.
type ClientInfo struct {
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
	GL               string `json:"gl"`
	HL               string `json:"hl"`
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
}

// DefaultContext returns the context seeded with platform defaults and no
// client version.
func DefaultContext() RequestContext {
	return RequestContext{
		Client: ClientInfo{
			UTCOffsetMinutes: DefaultUTCOffsetMinutes,
			GL:               DefaultGL,
			HL:               DefaultHL,
			ClientName:       defaultClientName,
		},
	}
}

// BrowseURL returns the browse endpoint keyed by apiKey.
func BrowseURL(apiKey string) string {
	return browseEndpoint + "?key=" + url.QueryEscape(apiKey)
}
