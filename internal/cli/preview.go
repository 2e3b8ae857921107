package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"chatview/internal/termview"
	"chatview/internal/tui"
)

func newPreviewCmd(app *App) *cobra.Command {
	var width int
	var pager bool

	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Render Markdown for the terminal",
		Example: strings.TrimSpace(`
chatview preview notes.md
chatview preview --width 60 notes.md
chatview preview --pager notes.md
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := readInput(cmd, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			if pager {
				if err := tui.Run(name, src); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			w := width
			if w <= 0 {
				w = terminalWidth()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), termview.Render(src, w))
			return err
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (default: $COLUMNS or 80)")
	cmd.Flags().BoolVar(&pager, "pager", false, "Open in a scrollable full-screen pager")
	return cmd
}

func terminalWidth() int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && n > 0 {
		return n
	}
	return 80
}
