package post

import "strings"

// Walker hands out the post segments of a page one at a time. A segment runs
// from one TextMarker to the next, or to the end of the page. Segments never
// overlap and the walk never backtracks.
type Walker struct {
	rest string
}

// NewWalker starts a walk over page.
func NewWalker(page string) *Walker {
	return &Walker{rest: page}
}

// Next returns the next segment, or false once no TextMarker remains.
func (w *Walker) Next() (string, bool) {
	start := strings.Index(w.rest, TextMarker)
	if start < 0 {
		w.rest = ""
		return "", false
	}
	segment := TextMarker + textUntilNext(w.rest, TextMarker, start+len(TextMarker))
	w.rest = w.rest[start+len(segment):]
	return segment, true
}

// textUntilNext returns s from start up to the next indicator, or to the end
// of s when there is none.
func textUntilNext(s, indicator string, start int) string {
	end := strings.Index(s[start:], indicator)
	if end < 0 {
		return s[start:]
	}
	return s[start : start+end]
}

// Segments walks the whole page.
func Segments(page string) []string {
	var out []string
	w := NewWalker(page)
	for {
		seg, ok := w.Next()
		if !ok {
			return out
		}
		out = append(out, seg)
	}
}

// Records parses every valid segment of page, skipping the rest.
func Records(page string) []Record {
	var out []Record
	for _, seg := range Segments(page) {
		r, err := Parse(seg)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
