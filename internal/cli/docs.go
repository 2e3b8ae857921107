package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatview/internal/docs"
	"chatview/internal/termview"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `chatview docs` to list topics)", topic))
			}

			switch {
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			case asJSON:
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
			default:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), termview.Render(body, terminalWidth()))
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit a structured envelope (see --format)")
	return cmd
}
