package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	ythttp "ytpl/http"
	"ytpl/youtube/innertube"
)

type obj = map[string]any

const testChannelID = "UCuAXFkgsw1L7xaCfnd5JJOw"

// fakeTransport serves playlist pages in order (the last one repeats) and
// answers POSTs through postFn. getFn, when set, handles every GET.
type fakeTransport struct {
	mu sync.Mutex

	pages  []string
	getFn  func(url string) (string, error)
	postFn func(req innertube.BrowseRequest) (string, error)

	getURLs    []string
	getHeaders []*ythttp.Header
	postURLs   []string
	posts      []innertube.BrowseRequest
}

func (f *fakeTransport) GetText(ctx context.Context, url string, headers *ythttp.Header) (string, error) {
	f.mu.Lock()
	f.getURLs = append(f.getURLs, url)
	f.getHeaders = append(f.getHeaders, headers.Clone())
	n := len(f.getURLs)
	f.mu.Unlock()

	if f.getFn != nil {
		return f.getFn(url)
	}
	if len(f.pages) == 0 {
		return "", errors.New("no page configured")
	}
	return f.pages[min(n, len(f.pages))-1], nil
}

func (f *fakeTransport) PostJSON(ctx context.Context, url string, body any, headers *ythttp.Header, out any) error {
	req, _ := body.(innertube.BrowseRequest)

	f.mu.Lock()
	f.postURLs = append(f.postURLs, url)
	f.posts = append(f.posts, req)
	f.mu.Unlock()

	if f.postFn == nil {
		return errors.New("unexpected POST")
	}
	resp, err := f.postFn(req)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(resp), out)
}

func (f *fakeTransport) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.getURLs)
}

func (f *fakeTransport) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

type fakeSink struct {
	mu     sync.Mutex
	bodies []string
}

func (s *fakeSink) Dump(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, body)
}

func newTestClient(t *fakeTransport, sink *fakeSink, opts ...ClientOption) *Client {
	return NewClient(t, append([]ClientOption{WithSink(sink)}, opts...)...)
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func video(id string) obj {
	return obj{"playlistVideoRenderer": obj{
		"videoId": id,
		"title":   obj{"runs": []any{obj{"text": "Video " + id}}},
		"navigationEndpoint": obj{"commandMetadata": obj{"webCommandMetadata": obj{
			"url": "/watch?v=" + id + "&list=PLtest",
		}}},
		"shortBylineText": obj{"runs": []any{obj{
			"text": "Author",
			"navigationEndpoint": obj{
				"commandMetadata": obj{"webCommandMetadata": obj{"url": "/channel/" + testChannelID}},
				"browseEndpoint":  obj{"browseId": testChannelID},
			},
		}}},
		"thumbnail": obj{"thumbnails": []any{
			obj{"url": "https://i.ytimg.com/vi/" + id + "/default.jpg", "width": 120, "height": 90},
			obj{"url": "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg", "width": 480, "height": 360},
		}},
		"lengthText": obj{"simpleText": "4:20"},
		"isPlayable": true,
	}}
}

func upcoming(id string) obj {
	v := video(id)
	v["playlistVideoRenderer"].(obj)["upcomingEventData"] = obj{"startTime": "1893456000"}
	return v
}

func continuationMarker(token string) obj {
	return obj{"continuationItemRenderer": obj{
		"continuationEndpoint": obj{"continuationCommand": obj{"token": token}},
	}}
}

func playlistData(stats []string, items ...obj) obj {
	statNodes := make([]any, len(stats))
	for i, s := range stats {
		statNodes[i] = obj{"simpleText": s}
	}
	contents := make([]any, len(items))
	for i, it := range items {
		contents[i] = it
	}
	return obj{
		"contents": obj{"twoColumnBrowseResultsRenderer": obj{"tabs": []any{obj{"tabRenderer": obj{
			"content": obj{"sectionListRenderer": obj{"contents": []any{
				obj{"itemSectionRenderer": obj{"contents": []any{
					obj{"playlistVideoListRenderer": obj{"contents": contents}},
				}}},
			}}},
		}}}}},
		"sidebar": obj{"playlistSidebarRenderer": obj{"items": []any{
			obj{"playlistSidebarPrimaryInfoRenderer": obj{
				"title":       obj{"simpleText": "Test Playlist"},
				"stats":       statNodes,
				"description": obj{"simpleText": "A playlist for tests"},
				"thumbnailRenderer": obj{"playlistVideoThumbnailRenderer": obj{"thumbnail": obj{"thumbnails": []any{
					obj{"url": "https://i.ytimg.com/pl/small.jpg", "width": 168, "height": 94},
					obj{"url": "https://i.ytimg.com/pl/big.jpg", "width": 336, "height": 188},
				}}}},
			}},
		}}},
	}
}

const pageConfig = `<script>ytcfg.set({"INNERTUBE_API_KEY":"TESTKEY","INNERTUBE_CONTEXT_CLIENT_VERSION":"2.20240101.00.00"});</script>`

func page(data obj) string {
	return "<html><head>" + pageConfig + "</head><body><script>var ytInitialData = " +
		mustJSON(data) + ";</script></body></html>"
}

func continuationResponse(items ...obj) string {
	list := make([]any, len(items))
	for i, it := range items {
		list[i] = it
	}
	return mustJSON(obj{"onResponseReceivedActions": []any{
		obj{"appendContinuationItemsAction": obj{"continuationItems": list}},
	}})
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func stringsContainAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
