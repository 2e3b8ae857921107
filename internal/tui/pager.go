package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#0d1117"}).
			Background(lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"})
	footerStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// renderFunc renders markdown at a wrap width.
type renderFunc func(markdown string, width int) string

// pager shows rendered Markdown in a scrollable viewport. Content is
// re-rendered whenever the terminal width changes.
type pager struct {
	title    string
	markdown string
	render   renderFunc

	vp     viewport.Model
	ready  bool
	width  int
	height int
}

func newPager(title, markdown string, render renderFunc) *pager {
	return &pager{title: title, markdown: markdown, render: render}
}

func (m *pager) Init() tea.Cmd { return nil }

func (m *pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *pager) resize(w, h int) {
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	widthChanged := w != m.width
	m.width, m.height = w, h

	// header + footer
	innerH := h - 2
	if innerH < 1 {
		innerH = 1
	}
	if !m.ready {
		m.vp = viewport.New(w, innerH)
		m.ready = true
		widthChanged = true
	} else {
		m.vp.Width = w
		m.vp.Height = innerH
	}
	if widthChanged {
		m.vp.SetContent(m.render(m.markdown, w))
	}
}

func (m *pager) View() string {
	if !m.ready {
		return "loading…"
	}
	return m.header() + "\n" + m.vp.View() + "\n" + m.footer()
}

func (m *pager) header() string {
	title := strings.TrimSpace(strings.ReplaceAll(m.title, "\n", " "))
	if title == "" {
		title = "chatview"
	}
	// Two cells of padding.
	limit := max(m.width-2, 1)
	return headerStyle.Render(xansi.Truncate(title, limit, "…"))
}

func (m *pager) footer() string {
	info := fmt.Sprintf("%3.f%%  q quit", m.vp.ScrollPercent()*100)
	return footerStyle.Render(xansi.Truncate(info, max(m.width-2, 1), ""))
}
