package playlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytpl/internal/retry"
	"ytpl/youtube/innertube"
)

const browseIDMarker = `"key":"browse_id","value":"`

// Search resolves query and assembles the playlist. When the page cannot be
// parsed it is fetched again, up to retries more times and without delay.
// Once the budget is spent the last raw page goes to the diagnostic sink.
//
// Every failure is a *SearchError wrapping one of the package's sentinel
// errors, an *UpstreamError, or a transport error.
func (c *Client) Search(ctx context.Context, query string, opts Options, retries int) (*Result, error) {
	id, err := c.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, &SearchError{Query: query, Err: err}
	}
	if id == "" {
		return nil, &SearchError{Query: query, Err: fmt.Errorf("%w: playlist ID is mandatory", ErrInvalidQuery)}
	}
	ro := newRequestOptions(opts)

	cfg := retry.Config{
		MaxRetries: max(retries, 0),
		Multiplier: 1,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			c.logger.Debug().
				Err(err).
				Str("playlist", id).
				Int("attempt", attempt).
				Msg("retrying playlist page")
		},
	}

	var (
		result   *Result
		body     string
		attempts int
	)
	err = retry.Do(ctx, cfg, isRetryableSearchError, func(ctx context.Context) error {
		attempts++
		page, err := c.transport.GetText(ctx, ro.pageURL(id), ro.headers)
		if err != nil {
			return retry.Permanent(fmt.Errorf("fetch playlist page: %w", err))
		}
		body = page

		result, err = c.assemble(ctx, id, body, ro)
		return err
	})
	if err == nil {
		return result, nil
	}

	// Only this loop's own exhaustion counts: the transport reports its
	// spent retries with the same type.
	if exhausted, ok := err.(*retry.ExhaustedError); ok {
		c.logger.Warn().
			Err(exhausted.Err).
			Str("playlist", id).
			Int("attempts", exhausted.Attempts).
			Msg("giving up on playlist")
		c.sink.Dump(body)
		err = exhausted.Err
	}
	return nil, &SearchError{Query: query, Attempts: attempts, Err: err}
}

// isRetryableSearchError reports whether another page fetch may help.
// A missing sidebar and upstream alerts are definitive.
func isRetryableSearchError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	var upstream *UpstreamError
	return !errors.Is(err, ErrUnknownPlaylist) && !errors.As(err, &upstream)
}

// assemble builds the result from one fetched page.
func (c *Client) assemble(ctx context.Context, id, body string, ro *requestOptions) (*Result, error) {
	parsed := innertube.ParseBody(body, ro.parseOptions())
	if parsed.Data == nil {
		parsed.Data = c.browseFallback(ctx, id, body, parsed, ro)
	}
	if parsed.Data == nil {
		return nil, ErrUnsupportedPlaylist
	}

	data := parsed.Data
	if data.Sidebar == nil {
		return nil, ErrUnknownPlaylist
	}
	if msg, ok := data.ErrorAlert(); ok {
		return nil, &UpstreamError{Message: msg}
	}

	info := data.Sidebar.PrimaryInfo()
	if info == nil {
		return nil, fmt.Errorf("%w: sidebar has no primary info", ErrMalformedResponse)
	}
	if len(info.Stats) == 0 {
		return nil, fmt.Errorf("%w: sidebar has no stats", ErrMalformedResponse)
	}

	res := &Result{
		ID:    id,
		URL:   playlistBaseURL + "list=" + id,
		Title: info.Title.String(),
	}
	if info.Description != nil {
		res.Description = info.Description.String()
	}
	if thumb, ok := info.ThumbnailRenderer.Thumbnails().Best(); ok {
		res.Thumbnail = thumb
	}
	res.TotalItems, _ = info.Stats[0].Number()
	if len(info.Stats) == 3 {
		res.Views, _ = info.Stats[1].Number()
	}

	list := data.SectionList()
	if list == nil {
		return nil, fmt.Errorf("%w: no section list in browse layout", ErrMalformedResponse)
	}
	section := list.ItemSection()
	if section == nil {
		return nil, fmt.Errorf("%w: no item section", ErrEmptyPlaylist)
	}
	videos := section.VideoList()
	if videos == nil {
		return nil, fmt.Errorf("%w: no video list", ErrEmptyPlaylist)
	}

	res.Items = ro.take(innertube.NormalizeItems(videos.Contents))

	token := innertube.FindContinuation(videos.Contents).Token()
	if token == "" || ro.remaining < 1 {
		return res, nil
	}

	more, err := c.walk(ctx, parsed.APIKey, token, parsed.Context, ro)
	if err != nil {
		return nil, err
	}
	res.Items = append(res.Items, more...)
	return res, nil
}

// browseFallback asks the browse API for the initial data when the page
// carried none. It is best effort: any failure yields nil.
func (c *Client) browseFallback(ctx context.Context, id, body string, parsed innertube.ParsedBody, ro *requestOptions) *innertube.InitialData {
	browseID := innertube.Between(body, browseIDMarker, `"`)
	if browseID == "" {
		browseID = "VL" + id
	}
	if parsed.APIKey == "" || parsed.Context.Client.ClientVersion == "" {
		c.logger.Debug().Str("playlist", id).Msg("no api key or client version for browse fallback")
		return nil
	}

	req := innertube.BrowseRequest{Context: parsed.Context, BrowseID: browseID}
	var data *innertube.InitialData
	if err := c.transport.PostJSON(ctx, innertube.BrowseURL(parsed.APIKey), req, ro.headers, &data); err != nil {
		c.logger.Debug().Err(err).Str("playlist", id).Msg("browse fallback failed")
		return nil
	}
	return data
}
