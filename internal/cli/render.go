package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chatview/internal/dom"
)

func newRenderCmd(app *App) *cobra.Command {
	var wrap bool
	var asJSON bool
	var tag string

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render Markdown to sanitized HTML",
		Long: strings.TrimSpace(`
Render Markdown to sanitized HTML on stdout.

Links open in a new browsing context (target="_blank", rel="noopener noreferrer").
Scripts, event handlers and other unsafe markup are removed.
`),
		Example: strings.TrimSpace(`
chatview render notes.md
echo '**hi**' | chatview render
chatview render --wrap notes.md
chatview render --json --pretty notes.md
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := readInput(cmd, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			r := app.renderer()

			var out string
			if wrap {
				el := dom.NewElement(tag)
				if err := r.Render(el, src); err != nil {
					return writeErr(cmd, err)
				}
				out = el.OuterHTML()
			} else {
				out, err = r.HTML(src)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			if asJSON {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"source": name,
						"html":   out,
					},
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return err
		},
	}

	cmd.Flags().BoolVar(&wrap, "wrap", false, "Wrap output in an element carrying the marker class")
	cmd.Flags().StringVar(&tag, "tag", "div", "Element used by --wrap")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit a structured envelope (see --format)")
	return cmd
}
