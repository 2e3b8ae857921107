// Package tui is a full-screen pager for rendered Markdown.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"chatview/internal/termview"
)

// Run opens the pager on markdown and blocks until the user quits.
func Run(title, markdown string) error {
	m := newPager(title, markdown, termview.Render)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
