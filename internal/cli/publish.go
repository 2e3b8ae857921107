package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"chatview/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var title string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish <file.md>...",
		Short: "Write Markdown files as standalone sanitized HTML pages",
		Example: strings.TrimSpace(`
chatview publish --to site README.md docs/*.md
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteFiles(app.renderer(), args, toDir, publish.WriteOptions{
				Overwrite: overwrite,
				Title:     title,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   res,
				"_hints": []string{"open " + res.Written[0]},
			})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Index page title (default: output directory name)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	return cmd
}
