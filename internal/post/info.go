// Package post turns profile page text into like counts and post text.
package post

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperifyio/bskyposts/internal/extract"
)

const (
	// TextMarker starts the post-text region of a post and also separates
	// consecutive posts on a page.
	TextMarker = `data-testid="postText"`
	// LikeMarker starts the like-count region.
	LikeMarker = `<button aria-label="Like (`

	likeSuffix = " like"
)

// ErrMalformedSegment is returned by Parse when a segment does not follow the
// post template.
var ErrMalformedSegment = errors.New("malformed post segment")

// Record is the like count and text of one post.
type Record struct {
	Likes int
	Text  string
}

// String renders r the way Info does.
func (r Record) String() string {
	return format(strconv.Itoa(r.Likes), r.Text)
}

// Info returns "<N_LIKES> likes for: <TEXT>" for a segment shaped like
//
//	...data-testid="postText"STYLE>TEXT</div>...<button aria-label="Like (N_LIKES like...
//
// STYLE has no '>', TEXT has no "</div>", TextMarker occurs once and
// LikeMarker follows it. When LikeMarker repeats, as it does when a post
// without text trails this one, the first count is used. "likes" is always
// plural.
func Info(segment string) string {
	text := extract.Extract(extract.Behead(segment, TextMarker), ">", "</div>")
	likes := extract.Extract(segment, LikeMarker, likeSuffix)
	return format(likes, text)
}

func format(likes, text string) string {
	return likes + " likes for: " + text
}

// Valid reports whether the post-text marker occurs exactly once and the
// first like marker comes after it.
func Valid(segment string) bool {
	if strings.Count(segment, TextMarker) != 1 {
		return false
	}
	like := strings.Index(segment, LikeMarker)
	return like > strings.Index(segment, TextMarker)
}

// Parse is the checked form of Info.
func Parse(segment string) (Record, error) {
	if !Valid(segment) {
		return Record{}, fmt.Errorf("%w: text marker missing or repeated, or no like count after it", ErrMalformedSegment)
	}
	styled := extract.Behead(segment, TextMarker)
	if !strings.Contains(styled, ">") || !strings.Contains(extract.Behead(styled, ">"), "</div>") {
		return Record{}, fmt.Errorf("%w: unterminated post text", ErrMalformedSegment)
	}
	digits := extract.Extract(segment, LikeMarker, likeSuffix)
	likes, err := parseLikes(digits)
	if err != nil {
		return Record{}, err
	}
	return Record{Likes: likes, Text: extract.Extract(styled, ">", "</div>")}, nil
}

func parseLikes(digits string) (int, error) {
	if digits == "" || digits[0] == '0' {
		return 0, fmt.Errorf("%w: like count %q", ErrMalformedSegment, digits)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: like count %q", ErrMalformedSegment, digits)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: like count %q: %v", ErrMalformedSegment, digits, err)
	}
	return n, nil
}
