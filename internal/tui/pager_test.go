package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestPager_RerendersOnWidthChange(t *testing.T) {
	var widths []int
	render := func(md string, w int) string {
		widths = append(widths, w)
		return md
	}
	m := newPager("notes", "hello", render)

	if got := m.View(); got != "loading…" {
		t.Fatalf("expected loading view before size; got %q", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	if len(widths) != 2 || widths[0] != 80 || widths[1] != 60 {
		t.Fatalf("expected renders at [80 60]; got %v", widths)
	}
	if !strings.Contains(m.View(), "hello") {
		t.Fatalf("expected content in view: %q", m.View())
	}
}

func TestPager_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := newPager("t", "x", func(md string, _ int) string { return md })
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", key.String())
		}
	}
}

func TestPager_HeaderTruncatesLongTitles(t *testing.T) {
	m := newPager(strings.Repeat("very long title ", 20), "x", func(md string, _ int) string { return md })
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})

	header := m.header()
	if w := xansi.StringWidth(header); w > 30 {
		t.Fatalf("header wider than terminal: %d", w)
	}
	if !strings.Contains(xansi.Strip(header), "…") {
		t.Fatalf("expected ellipsis in %q", xansi.Strip(header))
	}
}
