package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is an HTML element node. The zero value is not usable; obtain
// elements from NewElement or a Document query.
type Element struct {
	node *html.Node
}

// NewElement returns a detached element with the given tag name.
func NewElement(tag string) *Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return &Element{node: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

func (e *Element) Tag() string { return e.node.Data }

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if p := child.node.Parent; p != nil {
		p.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// SetInnerHTML replaces e's children with the fragment s, parsed in e's
// context the way a browser's innerHTML setter would.
func (e *Element) SetInnerHTML(s string) {
	nodes, err := html.ParseFragment(strings.NewReader(s), e.node)
	removeChildren(e.node)
	if err != nil {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
		return
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

// SetTextContent replaces e's children with a single text node, or with
// nothing when s is empty.
func (e *Element) SetTextContent(s string) {
	removeChildren(e.node)
	if s == "" {
		return
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// TextContent returns the concatenated text of e's descendants.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

func (e *Element) InnerHTML() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

func (e *Element) OuterHTML() string {
	var b strings.Builder
	_ = html.Render(&b, e.node)
	return b.String()
}

func (e *Element) Attr(key string) (string, bool) {
	return attr(e.node, key)
}

func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

// Classes returns e's class list in order.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list unless it is already present.
func (e *Element) AddClass(name string) {
	name = strings.TrimSpace(name)
	if name == "" || e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), name), " "))
}

func (e *Element) RemoveClass(name string) {
	classes := e.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
