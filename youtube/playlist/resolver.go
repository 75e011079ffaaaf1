package playlist

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

const (
	playlistBaseURL = "https://www.youtube.com/playlist?"
	profileBaseURL  = "https://www.youtube.com/"
)

var (
	playlistPattern = regexp.MustCompile(`^(FL|PL|UU|LL|RD)[a-zA-Z0-9_-]{16,41}$`)
	albumPattern    = regexp.MustCompile(`^OLAK5uy_[a-zA-Z0-9_-]{33}$`)
	channelPattern  = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22,32}$`)
	channelOnPage   = regexp.MustCompile(`channel_id=UC([\w-]{22,32})"`)

	playlistBase, _ = url.Parse(playlistBaseURL)
)

var knownHosts = map[string]bool{
	"www.youtube.com":   true,
	"youtube.com":       true,
	"music.youtube.com": true,
}

// Resolver turns free-form queries into playlist IDs. Channel references
// (/user/<name>, /c/<name>) need a page fetch; their results are memoised.
// Resolver is safe for concurrent use.
type Resolver struct {
	transport Transport
	cache     *lru.Cache[string, string]
	logger    zerolog.Logger
}

// NewResolver creates a Resolver. cacheSize <= 0 disables memoisation.
func NewResolver(transport Transport, cacheSize int, logger zerolog.Logger) *Resolver {
	r := &Resolver{transport: transport, logger: logger}
	if cacheSize > 0 {
		// only fails for a non-positive size
		r.cache, _ = lru.New[string, string](cacheSize)
	}
	return r
}

// resolution is the outcome of classifying a query without network access:
// either a final ID or a profile URL that still has to be fetched.
type resolution struct {
	id      string
	profile string
}

func uploadsID(channelID string) string {
	return "UU" + channelID[2:]
}

func isPlaylistOrAlbum(s string) bool {
	return playlistPattern.MatchString(s) || albumPattern.MatchString(s)
}

func classify(query string) (resolution, error) {
	if query == "" {
		return resolution{}, fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}
	if isPlaylistOrAlbum(query) {
		return resolution{id: query}, nil
	}
	if channelPattern.MatchString(query) {
		return resolution{id: uploadsID(query)}, nil
	}

	ref, err := url.Parse(query)
	if err != nil {
		return resolution{}, fmt.Errorf("%w: %q is not a URL", ErrInvalidQuery, query)
	}
	u := playlistBase.ResolveReference(ref)
	if !knownHosts[strings.ToLower(u.Host)] {
		return resolution{}, fmt.Errorf("%w: %q is not a known YouTube link", ErrInvalidQuery, query)
	}

	q := u.Query()
	if q.Has("list") {
		list := q.Get("list")
		switch {
		case isPlaylistOrAlbum(list):
			return resolution{id: list}, nil
		case strings.HasPrefix(list, "RD"):
			return resolution{}, fmt.Errorf("%w: %q", ErrUnsupportedMix, list)
		default:
			return resolution{}, fmt.Errorf("%w: invalid or unknown list %q", ErrInvalidQuery, list)
		}
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(segments) >= 2 && !hasEmpty(segments) {
		kind, id := segments[len(segments)-2], segments[len(segments)-1]
		switch kind {
		case "channel":
			if channelPattern.MatchString(id) {
				return resolution{id: uploadsID(id)}, nil
			}
		case "user", "c":
			return resolution{profile: profileBaseURL + kind + "/" + id}, nil
		}
	}

	return resolution{}, fmt.Errorf("%w: unable to find an ID in %q", ErrInvalidQuery, query)
}

func hasEmpty(parts []string) bool {
	for _, p := range parts {
		if p == "" {
			return true
		}
	}
	return false
}

// IsValidQuery reports whether Resolve would accept query. It makes no
// network calls: channel references are accepted without being checked.
func IsValidQuery(query string) bool {
	_, err := classify(query)
	return err == nil
}

// Resolve returns the playlist ID for a bare ID, a channel ID or a YouTube
// URL. Failures wrap ErrInvalidQuery, ErrUnsupportedMix or
// ErrUnresolvableReference.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	res, err := classify(query)
	if err != nil {
		return "", err
	}
	if res.profile != "" {
		return r.ChannelUploads(ctx, res.profile)
	}
	return res.id, nil
}

// ChannelUploads fetches a channel profile page and returns the ID of the
// channel's uploads playlist.
func (r *Resolver) ChannelUploads(ctx context.Context, profileURL string) (string, error) {
	if r.cache != nil {
		if id, ok := r.cache.Get(profileURL); ok {
			return id, nil
		}
	}

	body, err := r.transport.GetText(ctx, profileURL, effectiveHeaders(nil))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", profileURL, err)
	}

	var channelID string
	if m := channelOnPage.FindStringSubmatch(body); m != nil {
		channelID = "UC" + m[1]
	} else {
		channelID = channelIDFromMarkup(body)
		if channelID != "" {
			r.logger.Debug().Str("ref", profileURL).Msg("channel id recovered from page metadata")
		}
	}
	if channelID == "" {
		return "", fmt.Errorf("%w: %s", ErrUnresolvableReference, profileURL)
	}

	id := uploadsID(channelID)
	if r.cache != nil {
		r.cache.Add(profileURL, id)
	}
	return id, nil
}

// channelIDFromMarkup looks for the channel ID in the page's metadata tags.
func channelIDFromMarkup(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	candidates := []string{
		doc.Find(`meta[itemprop="channelId"]`).AttrOr("content", ""),
		channelFromURL(doc.Find(`link[rel="canonical"]`).AttrOr("href", "")),
		channelFromURL(doc.Find(`meta[property="og:url"]`).AttrOr("content", "")),
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); channelPattern.MatchString(c) {
			return c
		}
	}
	return ""
}

func channelFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "channel" {
		return parts[1]
	}
	return ""
}
