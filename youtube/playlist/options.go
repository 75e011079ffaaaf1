package playlist

import (
	"math"
	"net/url"
	"strings"

	ythttp "ytpl/http"
	"ytpl/youtube/innertube"
)

// ConsentCookie skips the EU cookie consent interstitial.
const ConsentCookie = "SOCS=CAI"

// Options configures a playlist fetch.
type Options struct {
	// Limit caps the number of items collected. Zero or negative means no limit.
	Limit int

	// GL and HL override the region and language. Empty keeps US/en.
	GL string
	HL string

	// UTCOffsetMinutes is sent in the request context. Zero keeps -300.
	UTCOffsetMinutes int

	// Headers are merged into every request. Names match case-insensitively.
	Headers *ythttp.Header
}

// requestOptions are the effective options of one call. They are built once
// and shared by every retry attempt, so the remaining counter keeps
// depleting across attempts.
type requestOptions struct {
	remaining int
	gl        string
	hl        string
	utcOffset int
	headers   *ythttp.Header
}

func newRequestOptions(opts Options) *requestOptions {
	ro := &requestOptions{
		remaining: opts.Limit,
		gl:        opts.GL,
		hl:        opts.HL,
		utcOffset: opts.UTCOffsetMinutes,
		headers:   effectiveHeaders(opts.Headers),
	}
	if ro.remaining <= 0 {
		ro.remaining = math.MaxInt
	}
	if ro.gl == "" {
		ro.gl = innertube.DefaultGL
	}
	if ro.hl == "" {
		ro.hl = innertube.DefaultHL
	}
	return ro
}

// pageURL returns the playlist page address for id.
func (ro *requestOptions) pageURL(id string) string {
	q := url.Values{}
	q.Set("gl", ro.gl)
	q.Set("hl", ro.hl)
	q.Set("list", id)
	return playlistBaseURL + q.Encode()
}

func (ro *requestOptions) parseOptions() innertube.ParseOptions {
	return innertube.ParseOptions{
		GL:               ro.gl,
		HL:               ro.hl,
		UTCOffsetMinutes: ro.utcOffset,
	}
}

// take keeps at most the remaining number of items and charges them
// against the limit.
func (ro *requestOptions) take(items []innertube.Item) []innertube.Item {
	n := min(len(items), max(ro.remaining, 0))
	ro.remaining -= n
	return items[:n]
}

// effectiveHeaders copies h and adds the default user agent and the consent
// cookie. An existing cookie without a SOCS entry gets it appended.
func effectiveHeaders(h *ythttp.Header) *ythttp.Header {
	out := h.Clone()
	if !out.Has("User-Agent") {
		out.Set("User-Agent", ythttp.DefaultUserAgent)
	}
	cookie, ok := out.Get("Cookie")
	switch {
	case !ok || cookie == "":
		out.Set("Cookie", ConsentCookie)
	case !strings.Contains(cookie, "SOCS="):
		out.Set("Cookie", cookie+"; "+ConsentCookie)
	}
	return out
}
