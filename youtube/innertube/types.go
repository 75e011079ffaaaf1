package innertube

// InitialData is the decoded ytInitialData of a playlist page. Browse API
// responses share the same shape, continuation responses only fill
// OnResponseReceivedActions.
type InitialData struct {
	Contents                  *Contents          `json:"contents,omitempty"`
	Sidebar                   *Sidebar           `json:"sidebar,omitempty"`
	Alerts                    []Alert            `json:"alerts,omitempty"`
	OnResponseReceivedActions []OnResponseAction `json:"onResponseReceivedActions,omitempty"`
}

// Contents holds the main content structure.
type Contents struct {
	TwoColumnBrowseResultsRenderer *TwoColumnBrowseResultsRenderer `json:"twoColumnBrowseResultsRenderer,omitempty"`
}

// TwoColumnBrowseResultsRenderer is the main layout renderer.
type TwoColumnBrowseResultsRenderer struct {
	Tabs []Tab `json:"tabs,omitempty"`
}

// Tab represents one page tab.
type Tab struct {
	TabRenderer *TabRenderer `json:"tabRenderer,omitempty"`
}

// TabRenderer contains tab content.
type TabRenderer struct {
	Title    string      `json:"title,omitempty"`
	Selected bool        `json:"selected,omitempty"`
	Content  *TabContent `json:"content,omitempty"`
}

// TabContent holds the content within a tab.
type TabContent struct {
	SectionListRenderer *SectionListRenderer `json:"sectionListRenderer,omitempty"`
}

// SectionListRenderer displays content in sections.
type SectionListRenderer struct {
	Contents []SectionContent `json:"contents,omitempty"`
}

// SectionContent holds section items.
type SectionContent struct {
	ItemSectionRenderer *ItemSectionRenderer `json:"itemSectionRenderer,omitempty"`
}

// ItemSectionRenderer renders a section of items.
type ItemSectionRenderer struct {
	Contents []ItemContent `json:"contents,omitempty"`
}

// ItemContent wraps the playlist's video list.
type ItemContent struct {
	PlaylistVideoListRenderer *PlaylistVideoListRenderer `json:"playlistVideoListRenderer,omitempty"`
}

// PlaylistVideoListRenderer holds the first batch of playlist entries.
type PlaylistVideoListRenderer struct {
	Contents []Renderer `json:"contents,omitempty"`
}

// SectionList returns the section list of the first tab, or nil when any
// step of the two-column layout is missing.
func (d *InitialData) SectionList() *SectionListRenderer {
	if d == nil || d.Contents == nil || d.Contents.TwoColumnBrowseResultsRenderer == nil {
		return nil
	}
	tabs := d.Contents.TwoColumnBrowseResultsRenderer.Tabs
	if len(tabs) == 0 || tabs[0].TabRenderer == nil || tabs[0].TabRenderer.Content == nil {
		return nil
	}
	return tabs[0].TabRenderer.Content.SectionListRenderer
}

// ItemSection returns the first item section of the list.
func (s *SectionListRenderer) ItemSection() *ItemSectionRenderer {
	for _, c := range s.Contents {
		if c.ItemSectionRenderer != nil {
			return c.ItemSectionRenderer
		}
	}
	return nil
}

// VideoList returns the first playlist video list of the section.
func (s *ItemSectionRenderer) VideoList() *PlaylistVideoListRenderer {
	for _, c := range s.Contents {
		if c.PlaylistVideoListRenderer != nil {
			return c.PlaylistVideoListRenderer
		}
	}
	return nil
}

// Sidebar holds the playlist sidebar.
type Sidebar struct {
	PlaylistSidebarRenderer *PlaylistSidebarRenderer `json:"playlistSidebarRenderer,omitempty"`
}

// PlaylistSidebarRenderer lists the sidebar blocks.
type PlaylistSidebarRenderer struct {
	Items []SidebarItem `json:"items,omitempty"`
}

// SidebarItem is one sidebar block.
type SidebarItem struct {
	PlaylistSidebarPrimaryInfoRenderer *PrimaryInfo `json:"playlistSidebarPrimaryInfoRenderer,omitempty"`
}

// PrimaryInfo describes the playlist as a whole.
type PrimaryInfo struct {
	Title             Text                       `json:"title"`
	Stats             []Text                     `json:"stats,omitempty"`
	Description       *Text                      `json:"description,omitempty"`
	ThumbnailRenderer *PlaylistThumbnailRenderer `json:"thumbnailRenderer,omitempty"`
}

// PrimaryInfo returns the sidebar's primary info block, or nil.
func (s *Sidebar) PrimaryInfo() *PrimaryInfo {
	if s == nil || s.PlaylistSidebarRenderer == nil {
		return nil
	}
	for _, item := range s.PlaylistSidebarRenderer.Items {
		if item.PlaylistSidebarPrimaryInfoRenderer != nil {
			return item.PlaylistSidebarPrimaryInfoRenderer
		}
	}
	return nil
}

// PlaylistThumbnailRenderer carries either a video-derived or a custom
// playlist thumbnail.
type PlaylistThumbnailRenderer struct {
	PlaylistVideoThumbnailRenderer  *ThumbnailHolder `json:"playlistVideoThumbnailRenderer,omitempty"`
	PlaylistCustomThumbnailRenderer *ThumbnailHolder `json:"playlistCustomThumbnailRenderer,omitempty"`
}

// ThumbnailHolder wraps a thumbnail list.
type ThumbnailHolder struct {
	Thumbnail ThumbnailList `json:"thumbnail"`
}

// Thumbnails returns the video thumbnail, falling back to the custom one.
func (r *PlaylistThumbnailRenderer) Thumbnails() *ThumbnailList {
	switch {
	case r == nil:
		return nil
	case r.PlaylistVideoThumbnailRenderer != nil:
		return &r.PlaylistVideoThumbnailRenderer.Thumbnail
	case r.PlaylistCustomThumbnailRenderer != nil:
		return &r.PlaylistCustomThumbnailRenderer.Thumbnail
	}
	return nil
}

// ThumbnailList contains thumbnail images.
type ThumbnailList struct {
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// Thumbnail represents a single thumbnail.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Best returns the widest thumbnail. Ties go to the earliest entry.
func (l *ThumbnailList) Best() (Thumbnail, bool) {
	if l == nil || len(l.Thumbnails) == 0 {
		return Thumbnail{}, false
	}
	best := l.Thumbnails[0]
	for _, t := range l.Thumbnails[1:] {
		if t.Width > best.Width {
			best = t
		}
	}
	return best, true
}

// Alert is a page-level notice such as "This playlist is private".
type Alert struct {
	AlertRenderer *AlertRenderer `json:"alertRenderer,omitempty"`
}

// AlertRenderer holds the alert severity and message.
type AlertRenderer struct {
	Type string `json:"type,omitempty"`
	Text Text   `json:"text"`
}

// ErrorAlert returns the text of the first ERROR alert when the page carries
// alerts but no contents.
func (d *InitialData) ErrorAlert() (string, bool) {
	if d == nil || len(d.Alerts) == 0 || d.Contents != nil {
		return "", false
	}
	for _, a := range d.Alerts {
		if a.AlertRenderer != nil && a.AlertRenderer.Type == "ERROR" {
			return a.AlertRenderer.Text.String(), true
		}
	}
	return "", false
}

// PlaylistVideoRenderer represents a video in a playlist.
type PlaylistVideoRenderer struct {
	VideoID            string              `json:"videoId,omitempty"`
	Title              Text                `json:"title"`
	NavigationEndpoint *NavigationEndpoint `json:"navigationEndpoint,omitempty"`
	ShortBylineText    *Text               `json:"shortBylineText,omitempty"`
	Thumbnail          ThumbnailList       `json:"thumbnail"`
	LengthText         *Text               `json:"lengthText,omitempty"`
	IsPlayable         bool                `json:"isPlayable,omitempty"`
	UpcomingEventData  any                 `json:"upcomingEventData,omitempty"`
	ThumbnailOverlays  []ThumbnailOverlay  `json:"thumbnailOverlays,omitempty"`
}

// ThumbnailOverlay is a badge drawn over a thumbnail.
type ThumbnailOverlay struct {
	ThumbnailOverlayTimeStatusRenderer *TimeStatusRenderer `json:"thumbnailOverlayTimeStatusRenderer,omitempty"`
}

// TimeStatusRenderer shows a duration or a status such as LIVE.
type TimeStatusRenderer struct {
	Style string `json:"style,omitempty"`
}

// NavigationEndpoint is the link target of a video or byline run.
type NavigationEndpoint struct {
	CommandMetadata *CommandMetadata `json:"commandMetadata,omitempty"`
	BrowseEndpoint  *BrowseEndpoint  `json:"browseEndpoint,omitempty"`
}

// CommandMetadata wraps web navigation metadata.
type CommandMetadata struct {
	WebCommandMetadata *WebCommandMetadata `json:"webCommandMetadata,omitempty"`
}

// WebCommandMetadata holds the relative URL of a link.
type WebCommandMetadata struct {
	URL string `json:"url,omitempty"`
}

// BrowseEndpoint holds browse endpoint parameters.
type BrowseEndpoint struct {
	BrowseID string `json:"browseId,omitempty"`
}

// URL returns the relative web URL of the endpoint, or "".
func (e *NavigationEndpoint) URL() string {
	if e == nil || e.CommandMetadata == nil || e.CommandMetadata.WebCommandMetadata == nil {
		return ""
	}
	return e.CommandMetadata.WebCommandMetadata.URL
}

// BrowseID returns the browse ID of the endpoint, or "".
func (e *NavigationEndpoint) BrowseID() string {
	if e == nil || e.BrowseEndpoint == nil {
		return ""
	}
	return e.BrowseEndpoint.BrowseID
}
