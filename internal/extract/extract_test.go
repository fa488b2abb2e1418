package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehead(t *testing.T) {
	cases := []struct {
		name   string
		s      string
		marker string
		want   string
	}{
		{"two occurrences, mixed case", "AXyx1x23", "x", "1x23"},
		{"marker at the very end", "AXyx1x23", "3", ""},
		{"parts of marker occur before full marker", "start the cart, Bart", "cart", ", Bart"},
		{"longer marker with leading space", "start the cart, Bart", " cart", "Bart"},
		{"front of marker occurs beforehand", "start the starter, Bart", "starter", ", Bart"},
		{"marker is the whole string", "abc", "abc", ""},
		{"marker at the start", "abc", "a", "bc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Behead(tc.s, tc.marker))
		})
	}
}

func TestBehead_MatchesIndexSlice(t *testing.T) {
	inputs := [][2]string{
		{"hello world", "o"},
		{"data-testid=\"postText\">hi</div>", "\"postText\""},
		{"ab ab ab", "b a"},
	}
	for _, in := range inputs {
		s, m := in[0], in[1]
		want := s[strings.Index(s, m)+len(m):]
		require.Equal(t, want, Behead(s, m), "Behead(%q, %q)", s, m)
	}
}

func TestBehead_MissingMarkerIsEmpty(t *testing.T) {
	assert.Equal(t, "", Behead("start", "x"))
}

func TestExtract(t *testing.T) {
	cases := []struct {
		name        string
		s           string
		left, right string
		want        string
	}{
		{"markers at ends", "AxyzB", "A", "B", "xyz"},
		{"right marker before left marker, spaces kept", "1112 1110 ? 1112 ", "1110", "1112", " ? "},
		{"adjacent markers", "AxyzB", "A", "x", ""},
		{"overlapping multiletter markers", "ababaxyz", "ab", "ba", "a"},
		{"case matters", "axyzBZZ123ApqrbzBzzz", "A", "Bzz", "pqrbz"},
		{"same marker on both sides", "|one|two|", "|", "|", "one"},
		{"right marker absent returns remainder", "Lrest", "L", "R", "rest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.s, tc.left, tc.right))
		})
	}
}

func TestExtract_ResultIsContiguousAtFirstLeftMarker(t *testing.T) {
	inputs := []struct{ s, l, r string }{
		{"xxAxyzByyB", "A", "B"},
		{"ababaxyz", "ab", "ba"},
		{"<p>one</p><p>two</p>", "<p>", "</p>"},
		{"1112 1110 ? 1112 ", "1110", "1112"},
	}
	for _, in := range inputs {
		got := in.l + Extract(in.s, in.l, in.r) + in.r
		start := strings.Index(in.s, in.l)
		require.True(t, strings.HasPrefix(in.s[start:], got), "%q not found at first %q in %q", got, in.l, in.s)
	}
}

func TestExtract_EmptyMarkersPanic(t *testing.T) {
	for _, markers := range [][2]string{{"", "t"}, {"t", ""}, {"", ""}} {
		err := recoverExtract(t, "test", markers[0], markers[1])
		require.Error(t, err, "markers %q", markers)
		assert.True(t, errors.Is(err, ErrEmptyMarker))
	}
}

func TestExtract_GuardNamesTheEmptyMarker(t *testing.T) {
	err := recoverExtract(t, "test", "t", "")
	var me *MarkerError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "rightMarker", me.Name)
	assert.Contains(t, me.Error(), "rightMarker")

	err = recoverExtract(t, "test", "", "")
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "leftMarker", me.Name, "left marker is checked first")
}

func TestPreCheck(t *testing.T) {
	assert.NoError(t, PreCheck("x", "marker"))
	err := PreCheck("", "marker")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyMarker)
}

func recoverExtract(t *testing.T, s, l, r string) (err error) {
	t.Helper()
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		e, ok := rec.(error)
		if !ok {
			t.Fatalf("panic value is %T, want error", rec)
		}
		err = e
	}()
	_ = Extract(s, l, r)
	return nil
}
