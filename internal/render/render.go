// Package render converts untrusted Markdown into sanitized HTML and writes
// it into display targets.
package render

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
)

// Renderer is an immutable Markdown-to-safe-HTML pipeline. It is safe for
// concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	marker string
	log    *zap.Logger
}

// New builds a Renderer. The parser and sanitizer configuration is fixed for
// the Renderer's lifetime.
func New(opts ...Option) *Renderer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	links := &linkRenderer{format: cfg.link}

	var exts []goldmark.Extender
	if cfg.gfm {
		exts = append(exts, extension.GFM)
	}
	if cfg.emoji {
		exts = append(exts, emoji.Emoji)
	}

	var parserOpts []parser.Option
	if cfg.headingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	// Raw HTML passes through; the sanitizer decides what survives.
	rendererOpts := []renderer.Option{
		html.WithUnsafe(),
		renderer.WithNodeRenderers(util.Prioritized(links, 100)),
	}
	if cfg.hardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	links.inner = md.Renderer()

	return &Renderer{
		md:     md,
		policy: NewPolicy(),
		marker: cfg.markerClass,
		log:    cfg.logger,
	}
}

// MarkerClass returns the class added to targets holding rendered content.
func (r *Renderer) MarkerClass() string { return r.marker }

// HTML renders markdown to sanitized HTML. Empty or whitespace-only input
// yields "".
func (r *Renderer) HTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Render writes markdown into target as sanitized HTML and marks the target
// with the marker class.
//
// A nil target is ignored. A markdown value that is not text is treated as
// empty; empty or whitespace-only text clears the target. Errors from the
// Markdown converter are returned as-is and leave the target untouched.
func (r *Renderer) Render(target Target, markdown any) error {
	if absent(target) {
		return nil
	}
	src := asText(markdown)
	if strings.TrimSpace(src) == "" {
		target.SetTextContent("")
		return nil
	}
	out, err := r.HTML(src)
	if err != nil {
		return err
	}
	target.SetInnerHTML(out)
	if !target.HasClass(r.marker) {
		target.AddClass(r.marker)
	}
	r.log.Debug("rendered markdown",
		zap.Int("source_bytes", len(src)),
		zap.Int("html_bytes", len(out)))
	return nil
}

// asText accepts strings and byte slices; anything else reads as "".
func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return ""
}
