package http

import "strings"

// Header is an ordered set of request headers keyed case-insensitively.
// The casing of the first Set for a name is the casing sent on the wire.
// The zero value is an empty bag ready to use; a nil *Header reads as empty.
type Header struct {
	entries []headerEntry
}

type headerEntry struct {
	name  string
	value string
}

// NewHeader builds a Header from alternating name/value pairs.
// A trailing name without a value is ignored.
func NewHeader(pairs ...string) *Header {
	h := &Header{}
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Set(pairs[i], pairs[i+1])
	}
	return h
}

func (h *Header) index(name string) int {
	if h == nil {
		return -1
	}
	for i, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			return i
		}
	}
	return -1
}

// Get returns the value stored under name, matched case-insensitively.
func (h *Header) Get(name string) (string, bool) {
	i := h.index(name)
	if i < 0 {
		return "", false
	}
	return h.entries[i].value, true
}

// Has reports whether name is present.
func (h *Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Set stores value under name. An existing entry keeps its position and casing.
func (h *Header) Set(name, value string) {
	if i := h.index(name); i >= 0 {
		h.entries[i].value = value
		return
	}
	h.entries = append(h.entries, headerEntry{name: name, value: value})
}

// Del removes name if present.
func (h *Header) Del(name string) {
	if i := h.index(name); i >= 0 {
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
	}
}

// Len returns the number of distinct header names.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Names returns header names in insertion order with their original casing.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.name
	}
	return names
}

// Each calls fn for every header in insertion order.
func (h *Header) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	for _, e := range h.entries {
		fn(e.name, e.value)
	}
}

// Clone returns an independent copy. Cloning nil yields an empty bag.
func (h *Header) Clone() *Header {
	c := &Header{}
	if h != nil {
		c.entries = append(c.entries, h.entries...)
	}
	return c
}
