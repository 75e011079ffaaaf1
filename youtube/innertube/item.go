package innertube

import "net/url"

// WatchURL is the base every video and channel link is resolved against.
const WatchURL = "https://www.youtube.com/watch?v="

var watchBase, _ = url.Parse(WatchURL)

// Author is the channel credited in a video's byline.
type Author struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	ChannelID string `json:"channelId"`
}

// Item is a normalized playable playlist entry.
type Item struct {
	Title     string  `json:"title"`
	ID        string  `json:"id"`
	ShortURL  string  `json:"shortUrl"`
	URL       string  `json:"url"`
	Author    Author  `json:"author"`
	Thumbnail string  `json:"thumbnail"`
	IsLive    bool    `json:"isLive"`
	Duration  *string `json:"duration"`
}

// NormalizeItem converts a playlist video renderer into an Item. It reports
// false for every other renderer kind and for entries without a byline,
// upcoming premieres and unplayable videos.
func NormalizeItem(r Renderer) (Item, bool) {
	if r.Kind != KindPlaylistVideo || r.PlaylistVideo == nil {
		return Item{}, false
	}
	v := r.PlaylistVideo
	if v.ShortBylineText == nil || len(v.ShortBylineText.Runs) == 0 ||
		v.UpcomingEventData != nil || !v.IsPlayable {
		return Item{}, false
	}

	isLive := false
	for _, o := range v.ThumbnailOverlays {
		if o.ThumbnailOverlayTimeStatusRenderer != nil && o.ThumbnailOverlayTimeStatusRenderer.Style == "LIVE" {
			isLive = true
			break
		}
	}

	author := v.ShortBylineText.Runs[0]
	item := Item{
		Title:    v.Title.String(),
		ID:       v.VideoID,
		ShortURL: WatchURL + v.VideoID,
		URL:      resolveWatchURL(v.NavigationEndpoint.URL()),
		Author: Author{
			Name:      author.Text,
			URL:       resolveWatchURL(author.NavigationEndpoint.URL()),
			ChannelID: author.NavigationEndpoint.BrowseID(),
		},
		IsLive: isLive,
	}
	if item.URL == "" {
		item.URL = item.ShortURL
	}
	if thumb, ok := v.Thumbnail.Best(); ok {
		item.Thumbnail = thumb.URL
	}
	if v.LengthText != nil {
		d := v.LengthText.String()
		item.Duration = &d
	}
	return item, true
}

// NormalizeItems normalizes items in order, dropping everything that is
// not a playable video.
func NormalizeItems(items []Renderer) []Item {
	out := make([]Item, 0, len(items))
	for _, r := range items {
		if item, ok := NormalizeItem(r); ok {
			out = append(out, item)
		}
	}
	return out
}

func resolveWatchURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return watchBase.ResolveReference(u).String()
}
