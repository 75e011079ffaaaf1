package innertube

import (
	"encoding/json"
	"errors"
	"strings"
)

// ParseOptions overrides the request context built by ParseBody. Zero values
// keep the platform defaults.
type ParseOptions struct {
	GL               string
	HL               string
	UTCOffsetMinutes int
}

// ParsedBody is what ParseBody recovers from a page. Data is nil when no
// strategy produced valid JSON; APIKey and Context.Client.ClientVersion are
// empty when their markers are absent.
type ParsedBody struct {
	Data    *InitialData
	APIKey  string
	Context RequestContext
}

type stateMarker struct {
	left     string
	right    string
	addCurly bool
}

// stateMarkers are tried in order; the first one yielding valid JSON wins.
var stateMarkers = []stateMarker{
	{`var ytInitialData = `, `};`, true},
	{`window["ytInitialData"] = `, `};`, true},
	{`var ytInitialData = `, `;</script>`, false},
	{`window["ytInitialData"] = `, `;</script>`, false},
}

var (
	apiKeyMarkers        = []string{`INNERTUBE_API_KEY":"`, `innertubeApiKey":"`}
	clientVersionMarkers = []string{`INNERTUBE_CONTEXT_CLIENT_VERSION":"`, `innertube_context_client_version":"`}
)

// Between returns the text following the first occurrence of left up to the
// next occurrence of right. It returns "" when either delimiter is missing.
func Between(haystack, left, right string) string {
	_, after, ok := strings.Cut(haystack, left)
	if !ok {
		return ""
	}
	inner, _, ok := strings.Cut(after, right)
	if !ok {
		return ""
	}
	return inner
}

// firstBetween returns the first non-empty Between match across lefts.
func firstBetween(haystack string, lefts []string, right string) string {
	for _, left := range lefts {
		if v := Between(haystack, left, right); v != "" {
			return v
		}
	}
	return ""
}

func tryParseBetween(body string, m stateMarker) *InitialData {
	raw := Between(body, m.left, m.right)
	if raw == "" {
		return nil
	}
	if m.addCurly {
		raw += "}"
	}
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return nil
	}
	// A type mismatch only means a field we model changed shape; the rest of
	// the document is still decoded.
	var data *InitialData
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal([]byte(raw), &data); err != nil && !errors.As(err, &typeErr) {
		return nil
	}
	return data
}

// ParseBody extracts the embedded initial state, the API key and the client
// version from a page. It never fails: anything it cannot find is left empty.
func ParseBody(body string, opts ParseOptions) ParsedBody {
	var parsed ParsedBody

	for _, m := range stateMarkers {
		if data := tryParseBetween(body, m); data != nil {
			parsed.Data = data
			break
		}
	}

	parsed.APIKey = firstBetween(body, apiKeyMarkers, `"`)

	parsed.Context = DefaultContext()
	parsed.Context.Client.ClientVersion = firstBetween(body, clientVersionMarkers, `"`)
	if opts.GL != "" {
		parsed.Context.Client.GL = opts.GL
	}
	if opts.HL != "" {
		parsed.Context.Client.HL = opts.HL
	}
	if opts.UTCOffsetMinutes != 0 {
		parsed.Context.Client.UTCOffsetMinutes = opts.UTCOffsetMinutes
	}

	return parsed
}
