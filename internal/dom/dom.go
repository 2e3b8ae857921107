// Package dom is a small server-side DOM over golang.org/x/net/html, used to
// build and inspect the elements rendered Markdown is written into.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var ErrInvalidSelector = errors.New("dom: invalid selector")

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

func Parse(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: n}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Query returns the first element matching the CSS selector, or nil when
// nothing matches.
func (d *Document) Query(selector string) (*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	n := sel.MatchFirst(d.root)
	if n == nil {
		return nil, nil
	}
	return &Element{node: n}, nil
}

// QueryAll returns every element matching the CSS selector in document order.
func (d *Document) QueryAll(selector string) ([]*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	nodes := sel.MatchAll(d.root)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{node: n})
	}
	return out, nil
}

// ByID returns the element whose id attribute equals id, or nil.
// Unlike Query it accepts ids that are not valid CSS identifiers.
func (d *Document) ByID(id string) *Element {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode {
			if v, ok := attr(n, "id"); ok && v == id {
				found = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	if found == nil {
		return nil
	}
	return &Element{node: found}
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var b strings.Builder
	_ = html.Render(&b, d.root)
	return b.String()
}

func compile(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return sel, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
