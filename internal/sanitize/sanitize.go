// Package sanitize prepares scraped markup for the terminal. Nothing here is
// used to locate posts; extraction stays marker based.
package sanitize

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
)

// strict allows no elements at all.
var strict = bluemonday.StrictPolicy()

// StripTags removes every tag from s and decodes entities so the text reads
// the way a browser would show it.
func StripTags(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

// PageTitle returns the trimmed <title> of a rendered page, or "" when the
// page has none.
func PageTitle(page string) string {
	node, err := xhtml.Parse(bytes.NewReader([]byte(page)))
	if err != nil || node == nil {
		return ""
	}
	head := findFirst(node, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(t.FirstChild.Data)
}

func findFirst(n *xhtml.Node, tag string) *xhtml.Node {
	if n.Type == xhtml.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}
