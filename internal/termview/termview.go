// Package termview renders Markdown for terminals.
package termview

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// MinWidth is the narrowest wrap width Render accepts.
const MinWidth = 10

var (
	colorText   = lipgloss.AdaptiveColor{Light: "#1f2328", Dark: "#e6edf3"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	colorCodeBg = lipgloss.AdaptiveColor{Light: "#eff1f3", Dark: "#262c36"}
)

// Terminal renders Markdown for terminals. It keeps one glamour renderer per
// style and wrap width; the style is resolved on every call so environment
// changes take effect without a restart.
type Terminal struct {
	style func() string

	mu        sync.Mutex
	renderers map[rendererKey]*glamour.TermRenderer
}

type rendererKey struct {
	style string
	width int
}

// New returns a Terminal that picks its style with Style.
func New() *Terminal {
	return &Terminal{style: Style, renderers: map[rendererKey]*glamour.TermRenderer{}}
}

var std = New()

// Render renders markdown with the shared Terminal.
func Render(markdown string, width int) string { return std.Render(markdown, width) }

// Render renders markdown wrapped at width (at least MinWidth). Empty input
// renders "". When glamour fails the source is returned unchanged.
func (t *Terminal) Render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	r, err := t.renderer(rendererKey{style: t.style(), width: max(width, MinWidth)})
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}

// renderer returns the cached renderer for k, building it on first use.
// glamour.WithAutoStyle queries the terminal and can block, so the style is
// always passed explicitly.
func (t *Terminal) renderer(k rendererKey) (*glamour.TermRenderer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.renderers[k]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(StyleConfig(k.style)),
		glamour.WithWordWrap(k.width),
	)
	if err != nil {
		return nil, err
	}
	t.renderers[k] = r
	return r, nil
}

// Style picks the glamour style: "notty" when colors are disabled, otherwise
// CHATVIEW_MD_STYLE, then COLORFGBG, then lipgloss background detection.
func Style() string {
	if termenv.EnvNoColor() {
		return styles.NoTTYStyle
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CHATVIEW_MD_STYLE"))) {
	case "light":
		return styles.LightStyle
	case "dark":
		return styles.DarkStyle
	case "notty", "ascii":
		return styles.NoTTYStyle
	}
	// COLORFGBG is usually "fg;bg"; xterm colors 0-6 are dark, 7-15 light.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil && bg >= 0 {
			if bg >= 7 {
				return styles.LightStyle
			}
			return styles.DarkStyle
		}
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// StyleConfig returns the glamour style for name with the chatview palette
// applied. Unknown names fall back to dark.
func StyleConfig(name string) ansi.StyleConfig {
	switch name {
	case styles.NoTTYStyle:
		return styles.NoTTYStyleConfig
	case styles.LightStyle:
		cfg := styles.LightStyleConfig
		applyPalette(&cfg, false)
		return cfg
	default:
		cfg := styles.DarkStyleConfig
		applyPalette(&cfg, true)
		return cfg
	}
}

func applyPalette(cfg *ansi.StyleConfig, dark bool) {
	pick := func(c lipgloss.AdaptiveColor) *string {
		if dark {
			return strPtr(c.Dark)
		}
		return strPtr(c.Light)
	}

	cfg.Text.Color = pick(colorText)
	cfg.Heading.Color = pick(colorText)

	// Links stay visibly underlined; rendered chat is link-heavy.
	cfg.Link.Color = pick(colorAccent)
	cfg.Link.Underline = boolPtr(true)
	cfg.LinkText.Color = pick(colorAccent)
	cfg.LinkText.Underline = boolPtr(true)

	cfg.CodeBlock.Color = pick(colorText)
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = pick(colorCodeBg)
	}
	cfg.BlockQuote.Faint = boolPtr(false)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
