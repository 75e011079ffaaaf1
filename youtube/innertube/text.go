package innertube

import (
	"strconv"
	"strings"
)

// Text is YouTube's rich text node: either a plain simpleText or a sequence
// of runs.
type Text struct {
	SimpleText string    `json:"simpleText,omitempty"`
	Runs       []TextRun `json:"runs,omitempty"`
}

// TextRun is a segment of text, optionally linked.
type TextRun struct {
	Text               string              `json:"text,omitempty"`
	NavigationEndpoint *NavigationEndpoint `json:"navigationEndpoint,omitempty"`
}

// String returns simpleText when set, otherwise the runs concatenated in order.
func (t *Text) String() string {
	if t == nil {
		return ""
	}
	if t.SimpleText != "" {
		return t.SimpleText
	}
	var b strings.Builder
	for _, run := range t.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// Number parses the digits of the text, ignoring every other character.
// "1,234 views" yields 1234. It reports false when no digits remain or the
// value overflows an int.
func (t *Text) Number() (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, t.String())
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
