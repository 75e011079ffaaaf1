package innertube

import (
	"bytes"
	"encoding/json"
)

// Kind is the discriminant of a Renderer: the name of the first key of the
// JSON object it was decoded from.
type Kind string

const (
	KindPlaylistVideo    Kind = "playlistVideoRenderer"
	KindContinuationItem Kind = "continuationItemRenderer"
)

// Renderer is one entry of a playlist video list or continuation batch.
// Only the payload matching Kind is set. Entries of any other kind, and
// known kinds whose payload does not decode, carry no payload and are
// ignored downstream.
type Renderer struct {
	Kind             Kind
	PlaylistVideo    *PlaylistVideoRenderer
	ContinuationItem *ContinuationItemRenderer
}

// UnmarshalJSON dispatches on the first key of the object. It only fails on
// syntactically invalid JSON.
func (r *Renderer) UnmarshalJSON(data []byte) error {
	*r = Renderer{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	if !dec.More() {
		return nil
	}
	tok, err = dec.Token()
	if err != nil {
		return err
	}
	key, _ := tok.(string)
	r.Kind = Kind(key)

	switch r.Kind {
	case KindPlaylistVideo:
		var v PlaylistVideoRenderer
		if dec.Decode(&v) == nil {
			r.PlaylistVideo = &v
		}
	case KindContinuationItem:
		var v ContinuationItemRenderer
		if dec.Decode(&v) == nil {
			r.ContinuationItem = &v
		}
	}
	return nil
}

// MarshalJSON writes the renderer back as a single-key object.
func (r Renderer) MarshalJSON() ([]byte, error) {
	if r.Kind == "" {
		return []byte("{}"), nil
	}
	var payload any
	switch {
	case r.PlaylistVideo != nil:
		payload = r.PlaylistVideo
	case r.ContinuationItem != nil:
		payload = r.ContinuationItem
	default:
		payload = struct{}{}
	}
	return json.Marshal(map[string]any{string(r.Kind): payload})
}

// FindContinuation returns the first continuation marker in items.
func FindContinuation(items []Renderer) *ContinuationItemRenderer {
	for _, item := range items {
		if item.Kind == KindContinuationItem {
			return item.ContinuationItem
		}
	}
	return nil
}
