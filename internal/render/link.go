package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// LinkFormatter turns a hyperlink into anchor markup.
//
// href and title are unescaped attribute values (href is empty when the link
// has no destination). text is the link's already-rendered inner HTML.
type LinkFormatter func(href, title, text string) string

// DefaultLinkFormatter renders an anchor that always opens in a new browsing
// context without leaking the opener or the referrer.
func DefaultLinkFormatter(href, title, text string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteByte('"')
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(html.EscapeString(title))
		b.WriteByte('"')
	}
	b.WriteString(` target="_blank" rel="noopener noreferrer">`)
	b.WriteString(text)
	b.WriteString(`</a>`)
	return b.String()
}

// linkRenderer replaces goldmark's link and autolink rendering with a
// LinkFormatter. Link text is rendered through the full renderer so nested
// inline markup (emphasis, code, images) keeps its normal rendering.
type linkRenderer struct {
	format LinkFormatter
	inner  renderer.Renderer
}

func (r *linkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
}

func (r *linkRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Link)
	text, err := r.renderChildren(source, n)
	if err != nil {
		return ast.WalkStop, err
	}
	var title string
	if n.Title != nil {
		title = string(util.UnescapePunctuations(n.Title))
	}
	href := string(util.URLEscape(n.Destination, true))
	_, _ = w.WriteString(r.format(href, title, text))
	return ast.WalkSkipChildren, nil
}

func (r *linkRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.AutoLink)
	url := n.URL(source)
	href := string(util.URLEscape(url, false))
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		href = "mailto:" + href
	}
	text := string(util.EscapeHTML(n.Label(source)))
	_, _ = w.WriteString(r.format(href, "", text))
	return ast.WalkContinue, nil
}

func (r *linkRenderer) renderChildren(source []byte, n ast.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if err := r.inner.Render(&buf, source, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
