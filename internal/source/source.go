// Package source supplies raw profile page text for a handle, either from
// sample files on disk or from a live headless browser.
package source

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sahilm/fuzzy"
)

// SuggestCutoff is the lowest similarity ratio a handle needs to be suggested
// when no handle contains the typed characters in order.
const SuggestCutoff = 0.3

var (
	// ErrHandleNotFound means no sample file exists for the handle.
	ErrHandleNotFound = errors.New("handle not found")
	// ErrInvalidHandle means the live site could not show a profile for the
	// handle.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrTimeout means the live page did not render the expected markup in
	// time.
	ErrTimeout = errors.New("timed out waiting for page")
	// ErrSessionSetup means the browser could not be started or has gone
	// away. Callers should stop using live mode for the rest of the session.
	ErrSessionSetup = errors.New("browser session setup failed")
	// ErrNoSamples means the sample directory holds no handles.
	ErrNoSamples = errors.New("no sample handles")
)

// Source fetches page text for a handle.
type Source interface {
	Fetch(ctx context.Context, handle string) (string, error)
	Name() string
}

// DefaultHandle picks preferred when it is one of handles and otherwise the
// first handle.
func DefaultHandle(handles []string, preferred string) (string, error) {
	if len(handles) == 0 {
		return "", ErrNoSamples
	}
	for _, h := range handles {
		if h == preferred {
			return h, nil
		}
	}
	return handles[0], nil
}

// Suggest returns up to n handles that fuzzily match given, best first.
// Subsequence matches win; when there are none, handles are ranked by
// similarity ratio so transposed letters or a different suffix still get a
// suggestion.
func Suggest(given string, handles []string, n int) []string {
	if given == "" || n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for _, m := range fuzzy.Find(given, handles) {
		out = append(out, m.Str)
		if len(out) == n {
			return out
		}
	}
	if len(out) > 0 {
		return out
	}
	return closeMatches(given, handles, n, SuggestCutoff)
}

type scored struct {
	handle string
	ratio  float64
}

// closeMatches keeps handles whose similarity ratio to given reaches cutoff,
// highest ratio first and ties broken by reverse name order.
func closeMatches(given string, handles []string, n int, cutoff float64) []string {
	m := difflib.NewMatcher(nil, strings.Split(given, ""))
	var hits []scored
	for _, h := range handles {
		m.SetSeq1(strings.Split(h, ""))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			hits = append(hits, scored{handle: h, ratio: r})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].ratio != hits[j].ratio {
			return hits[i].ratio > hits[j].ratio
		}
		return hits[i].handle > hits[j].handle
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.handle)
	}
	return out
}
