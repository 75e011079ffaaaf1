package playlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ythttp "ytpl/http"
	"ytpl/internal/retry"
	"ytpl/youtube/innertube"
)

const testPlaylistID = "PLtestPlaylist0123456789"

var threeStats = []string{"12 videos", "3,456 views", "Updated today"}

func TestSearchSingleItemNoContinuation(t *testing.T) {
	ft := &fakeTransport{pages: []string{page(playlistData(threeStats, video("vid00000001")))}}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	res, err := c.Search(context.Background(), testPlaylistID, Options{}, DefaultRetries)
	require.NoError(t, err)

	assert.Equal(t, testPlaylistID, res.ID)
	assert.Equal(t, "https://www.youtube.com/playlist?list="+testPlaylistID, res.URL)
	assert.Equal(t, "Test Playlist", res.Title)
	assert.Equal(t, "A playlist for tests", res.Description)
	assert.Equal(t, "https://i.ytimg.com/pl/big.jpg", res.Thumbnail.URL)
	assert.Equal(t, 12, res.TotalItems)
	assert.Equal(t, 3456, res.Views)
	require.Len(t, res.Items, 1)

	item := res.Items[0]
	assert.Equal(t, "vid00000001", item.ID)
	assert.Equal(t, "Video vid00000001", item.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid00000001", item.ShortURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid00000001&list=PLtest", item.URL)
	assert.Equal(t, "Author", item.Author.Name)
	assert.Equal(t, "https://www.youtube.com/channel/"+testChannelID, item.Author.URL)
	assert.Equal(t, testChannelID, item.Author.ChannelID)
	assert.Equal(t, "https://i.ytimg.com/vi/vid00000001/hqdefault.jpg", item.Thumbnail)
	require.NotNil(t, item.Duration)
	assert.Equal(t, "4:20", *item.Duration)

	assert.Zero(t, ft.postCount())
	assert.Equal(t, 1, ft.getCount())
	assert.Empty(t, sink.bodies)
}

func TestSearchRequestsPageWithLocaleAndHeaders(t *testing.T) {
	ft := &fakeTransport{pages: []string{page(playlistData(threeStats, video("vid00000001")))}}
	c := newTestClient(ft, &fakeSink{})

	opts := Options{
		GL:      "DE",
		HL:      "de",
		Headers: ythttp.NewHeader("cookie", "PREF=f6=40000000"),
	}
	_, err := c.Search(context.Background(), testPlaylistID, opts, 0)
	require.NoError(t, err)

	require.Len(t, ft.getURLs, 1)
	assert.Equal(t, "https://www.youtube.com/playlist?gl=DE&hl=de&list="+testPlaylistID, ft.getURLs[0])

	h := ft.getHeaders[0]
	cookie, _ := h.Get("Cookie")
	assert.Equal(t, "PREF=f6=40000000; SOCS=CAI", cookie)
	ua, _ := h.Get("User-Agent")
	assert.Equal(t, ythttp.DefaultUserAgent, ua)
}

func TestSearchFollowsContinuation(t *testing.T) {
	ft := &fakeTransport{
		pages: []string{page(playlistData(threeStats, video("vid00000001"), continuationMarker("T1")))},
		postFn: func(req innertube.BrowseRequest) (string, error) {
			return continuationResponse(video("vid00000002")), nil
		},
	}
	c := newTestClient(ft, &fakeSink{})

	res, err := c.Search(context.Background(), testPlaylistID, Options{}, DefaultRetries)
	require.NoError(t, err)

	assert.Equal(t, []string{"vid00000001", "vid00000002"}, itemIDs(res.Items))
	require.Equal(t, 1, ft.postCount())
	assert.Equal(t, "T1", ft.posts[0].Continuation)
	assert.Empty(t, ft.posts[0].BrowseID)
	assert.Equal(t, "https://www.youtube.com/youtubei/v1/browse?key=TESTKEY", ft.postURLs[0])

	client := ft.posts[0].Context.Client
	assert.Equal(t, "2.20240101.00.00", client.ClientVersion)
	assert.Equal(t, "WEB", client.ClientName)
	assert.Equal(t, "US", client.GL)
	assert.Equal(t, "en", client.HL)
	assert.Equal(t, -300, client.UTCOffsetMinutes)
}

func TestSearchSkipsUnplayableEntries(t *testing.T) {
	ft := &fakeTransport{pages: []string{page(playlistData(threeStats,
		video("vid00000001"),
		upcoming("vid00000002"),
		video("vid00000003"),
	))}}
	c := newTestClient(ft, &fakeSink{})

	res, err := c.Search(context.Background(), testPlaylistID, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"vid00000001", "vid00000003"}, itemIDs(res.Items))
}

func TestSearchLimit(t *testing.T) {
	t.Run("first batch satisfies the limit", func(t *testing.T) {
		ft := &fakeTransport{pages: []string{page(playlistData(threeStats,
			video("vid00000001"), video("vid00000002"), continuationMarker("T1"),
		))}}
		c := newTestClient(ft, &fakeSink{})

		res, err := c.Search(context.Background(), testPlaylistID, Options{Limit: 1}, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"vid00000001"}, itemIDs(res.Items))
		assert.Zero(t, ft.postCount())
	})

	t.Run("limit spans continuation pages", func(t *testing.T) {
		ft := &fakeTransport{
			pages: []string{page(playlistData(threeStats, video("vid00000001"), continuationMarker("T1")))},
			postFn: func(req innertube.BrowseRequest) (string, error) {
				return continuationResponse(
					video("vid00000002"), video("vid00000003"), video("vid00000004"),
					continuationMarker("T2"),
				), nil
			},
		}
		c := newTestClient(ft, &fakeSink{})

		res, err := c.Search(context.Background(), testPlaylistID, Options{Limit: 2}, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"vid00000001", "vid00000002"}, itemIDs(res.Items))
		assert.Equal(t, 1, ft.postCount())
	})
}

func TestSearchViews(t *testing.T) {
	tests := []struct {
		name  string
		stats []string
		views int
		total int
	}{
		{name: "three stats", stats: []string{"5 videos", "1,000 views", "Updated"}, views: 1000, total: 5},
		{name: "two stats", stats: []string{"5 videos", "Updated"}, views: 0, total: 5},
		{name: "one stat", stats: []string{"No videos"}, views: 0, total: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{pages: []string{page(playlistData(tt.stats, video("vid00000001")))}}
			c := newTestClient(ft, &fakeSink{})

			res, err := c.Search(context.Background(), testPlaylistID, Options{}, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.views, res.Views)
			assert.Equal(t, tt.total, res.TotalItems)
		})
	}
}

func TestSearchUnsupportedPageIsDumped(t *testing.T) {
	const body = "<html><body>nothing to see</body></html>"
	ft := &fakeTransport{pages: []string{body}}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedPlaylist)

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, testPlaylistID, searchErr.Query)
	assert.Equal(t, 1, searchErr.Attempts)

	assert.Equal(t, []string{body}, sink.bodies)
	assert.Equal(t, 1, ft.getCount())
	// no api key on the page, so no browse fallback
	assert.Zero(t, ft.postCount())
}

func TestSearchRetriesUnparseablePage(t *testing.T) {
	t.Run("recovers on a later attempt", func(t *testing.T) {
		ft := &fakeTransport{pages: []string{
			"<html>broken</html>",
			page(playlistData(threeStats, video("vid00000001"))),
		}}
		sink := &fakeSink{}
		c := newTestClient(ft, sink)

		res, err := c.Search(context.Background(), testPlaylistID, Options{}, 2)
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, 2, ft.getCount())
		assert.Empty(t, sink.bodies)
	})

	t.Run("exhausts the budget", func(t *testing.T) {
		ft := &fakeTransport{pages: []string{"<html>first</html>", "<html>last</html>"}}
		sink := &fakeSink{}
		c := newTestClient(ft, sink)

		_, err := c.Search(context.Background(), testPlaylistID, Options{}, 3)
		assert.ErrorIs(t, err, ErrUnsupportedPlaylist)
		assert.Equal(t, 4, ft.getCount())
		assert.Equal(t, []string{"<html>last</html>"}, sink.bodies)

		var searchErr *SearchError
		require.ErrorAs(t, err, &searchErr)
		assert.Equal(t, 4, searchErr.Attempts)
	})

	t.Run("negative retries means one attempt", func(t *testing.T) {
		ft := &fakeTransport{pages: []string{"<html>broken</html>"}}
		c := newTestClient(ft, &fakeSink{})

		_, err := c.Search(context.Background(), testPlaylistID, Options{}, -5)
		assert.ErrorIs(t, err, ErrUnsupportedPlaylist)
		assert.Equal(t, 1, ft.getCount())
	})
}

func TestSearchEmptyPlaylistIsRetried(t *testing.T) {
	data := playlistData(threeStats)
	data["contents"] = obj{"twoColumnBrowseResultsRenderer": obj{"tabs": []any{obj{"tabRenderer": obj{
		"content": obj{"sectionListRenderer": obj{"contents": []any{}}},
	}}}}}
	ft := &fakeTransport{pages: []string{page(data)}}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, 1)
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
	assert.Equal(t, 2, ft.getCount())
	assert.Len(t, sink.bodies, 1)
}

func TestSearchUnknownPlaylistIsFinal(t *testing.T) {
	data := playlistData(threeStats, video("vid00000001"))
	delete(data, "sidebar")
	ft := &fakeTransport{pages: []string{page(data)}}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, DefaultRetries)
	assert.ErrorIs(t, err, ErrUnknownPlaylist)
	assert.Equal(t, 1, ft.getCount())
	assert.Empty(t, sink.bodies)
}

func TestSearchUpstreamAlert(t *testing.T) {
	data := playlistData(threeStats)
	delete(data, "contents")
	data["alerts"] = []any{
		obj{"alertRenderer": obj{"type": "INFO", "text": obj{"simpleText": "ignored"}}},
		obj{"alertRenderer": obj{"type": "ERROR", "text": obj{"runs": []any{
			obj{"text": "The playlist does not exist."},
		}}}},
	}
	ft := &fakeTransport{pages: []string{page(data)}}
	c := newTestClient(ft, &fakeSink{})

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, DefaultRetries)
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "The playlist does not exist.", upstream.Message)
	assert.Equal(t, 1, ft.getCount())
}

func TestSearchMalformedSidebar(t *testing.T) {
	data := playlistData(nil, video("vid00000001"))
	ft := &fakeTransport{pages: []string{page(data)}}
	c := newTestClient(ft, &fakeSink{})

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, 0)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSearchBrowseFallback(t *testing.T) {
	body := "<html>" + pageConfig +
		`<script>var meta = {"key":"browse_id","value":"VLPLfromMarker"};</script></html>`
	ft := &fakeTransport{
		pages: []string{body},
		postFn: func(req innertube.BrowseRequest) (string, error) {
			return mustJSON(playlistData(threeStats, video("vid00000001"))), nil
		},
	}
	c := newTestClient(ft, &fakeSink{})

	res, err := c.Search(context.Background(), testPlaylistID, Options{}, 0)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	require.Equal(t, 1, ft.postCount())
	assert.Equal(t, "VLPLfromMarker", ft.posts[0].BrowseID)
	assert.Empty(t, ft.posts[0].Continuation)
}

func TestSearchBrowseFallbackDefaultsBrowseID(t *testing.T) {
	ft := &fakeTransport{
		pages: []string{"<html>" + pageConfig + "</html>"},
		postFn: func(req innertube.BrowseRequest) (string, error) {
			return "", errors.New("boom")
		},
	}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, 1)
	assert.ErrorIs(t, err, ErrUnsupportedPlaylist)

	require.Equal(t, 2, ft.postCount())
	assert.Equal(t, "VL"+testPlaylistID, ft.posts[0].BrowseID)
	assert.Len(t, sink.bodies, 1)
}

func TestSearchTransportFailureIsNotRetried(t *testing.T) {
	ft := &fakeTransport{getFn: func(string) (string, error) {
		return "", ythttp.ErrRequestFailed
	}}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, DefaultRetries)
	assert.ErrorIs(t, err, ythttp.ErrRequestFailed)
	assert.Equal(t, 1, ft.getCount())
	assert.Empty(t, sink.bodies)
}

func TestSearchToleratesMistypedField(t *testing.T) {
	data := playlistData(threeStats, video("vid00000001"))
	tabs := data["contents"].(obj)["twoColumnBrowseResultsRenderer"].(obj)["tabs"].([]any)
	tabs[0].(obj)["tabRenderer"].(obj)["selected"] = "yes"
	ft := &fakeTransport{pages: []string{page(data)}}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	res, err := c.Search(context.Background(), testPlaylistID, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"vid00000001"}, itemIDs(res.Items))
	assert.Empty(t, sink.bodies)
}

func TestSearchExhaustedTransportIsNotDumped(t *testing.T) {
	ft := &fakeTransport{getFn: func(string) (string, error) {
		return "", &retry.ExhaustedError{Attempts: 2, Err: &ythttp.HTTPError{StatusCode: http.StatusServiceUnavailable}}
	}}
	sink := &fakeSink{}
	c := newTestClient(ft, sink)

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, DefaultRetries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch playlist page")

	var httpErr *ythttp.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, 1, searchErr.Attempts)

	assert.Equal(t, 1, ft.getCount())
	assert.Empty(t, sink.bodies)
}

func TestSearchOverHTTPServerError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := ythttp.DefaultConfig()
	cfg.Retry = retry.Config{MaxRetries: 1, Multiplier: 1}
	transport := ythttp.New(cfg)
	defer transport.Close()

	// Send page requests to the test server instead of YouTube.
	redirect := &rewriteTransport{client: transport, target: srv.URL}
	sink := &fakeSink{}
	c := NewClient(redirect, WithSink(sink))

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, DefaultRetries)

	var httpErr *ythttp.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, int32(2), hits.Load())
	assert.Empty(t, sink.bodies)
}

// rewriteTransport sends every request to target, keeping path and query.
type rewriteTransport struct {
	client *ythttp.Client
	target string
}

func (r *rewriteTransport) GetText(ctx context.Context, rawURL string, headers *ythttp.Header) (string, error) {
	return r.client.GetText(ctx, r.rewrite(rawURL), headers)
}

func (r *rewriteTransport) PostJSON(ctx context.Context, rawURL string, body any, headers *ythttp.Header, out any) error {
	return r.client.PostJSON(ctx, r.rewrite(rawURL), body, headers, out)
}

func (r *rewriteTransport) rewrite(rawURL string) string {
	_, rest, _ := strings.Cut(rawURL, "youtube.com")
	return r.target + rest
}

func TestSearchContinuationFailureIsRetried(t *testing.T) {
	ft := &fakeTransport{
		pages: []string{page(playlistData(threeStats, video("vid00000001"), continuationMarker("T1")))},
		postFn: func(req innertube.BrowseRequest) (string, error) {
			return "", errors.New("connection reset")
		},
	}
	c := newTestClient(ft, &fakeSink{})

	_, err := c.Search(context.Background(), testPlaylistID, Options{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch continuation")
	assert.Equal(t, 2, ft.getCount())
	assert.Equal(t, 2, ft.postCount())
}

func TestSearchInvalidQuery(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(ft, &fakeSink{})

	_, err := c.Search(context.Background(), "https://example.com/playlist?list="+testPlaylistID, Options{}, 0)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Zero(t, searchErr.Attempts)
	assert.Zero(t, ft.getCount())
}

func TestSearchResolvesChannelID(t *testing.T) {
	ft := &fakeTransport{pages: []string{page(playlistData(threeStats, video("vid00000001")))}}
	c := newTestClient(ft, &fakeSink{})

	res, err := c.Search(context.Background(), testChannelID, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "UU"+testChannelID[2:], res.ID)
	assert.True(t, stringsContainAll(ft.getURLs[0], "list=UU"+testChannelID[2:]))
}

func TestSearchErrorMessage(t *testing.T) {
	err := &SearchError{Query: "PLx", Attempts: 3, Err: ErrEmptyPlaylist}
	assert.Equal(t, `playlist "PLx": youtube: empty playlist (after 3 attempts)`, err.Error())

	err = &SearchError{Query: "PLx", Attempts: 1, Err: ErrEmptyPlaylist}
	assert.Equal(t, `playlist "PLx": youtube: empty playlist`, err.Error())
}
