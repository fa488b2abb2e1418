// Package extract finds text between literal markers. Markers are plain
// case-sensitive substrings; no markup is parsed here.
package extract

import "strings"

// Behead returns the part of s after the first occurrence of marker.
// The result can be empty when marker ends s. When marker does not occur in
// s nothing follows it and the result is empty; callers should not depend on
// that.
func Behead(s, marker string) string {
	rest, _ := behead(s, marker)
	return rest
}

func behead(s, marker string) (string, bool) {
	_, after, found := strings.Cut(s, marker)
	return after, found
}

// Extract returns the part of s between the first leftMarker and the next
// rightMarker that does not overlap it. The search for rightMarker begins
// where the first leftMarker ends, so Extract("ababaxyz", "ab", "ba") is "a".
//
// Both markers must be non-empty. An empty marker is a programming error and
// Extract panics with a *MarkerError before looking at s.
func Extract(s, leftMarker, rightMarker string) string {
	if err := PreCheck(leftMarker, "leftMarker"); err != nil {
		panic(err)
	}
	if err := PreCheck(rightMarker, "rightMarker"); err != nil {
		panic(err)
	}

	rest := Behead(s, leftMarker)
	tail, found := behead(rest, rightMarker)
	if !found {
		return rest
	}
	return rest[:len(rest)-len(tail)-len(rightMarker)]
}
