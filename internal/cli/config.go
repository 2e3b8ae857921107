package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"chatview/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.cfg
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"http_addr": c.HTTPAddr,
					"log": map[string]any{
						"level":  c.Log.Level,
						"format": c.Log.Format,
					},
					"render": map[string]any{
						"marker_class": c.Render.MarkerClass,
						"hard_wraps":   c.Render.HardWraps,
						"gfm":          c.Render.GFM,
						"heading_ids":  c.Render.HeadingIDs,
						"emoji":        c.Render.Emoji,
					},
					"chat": map[string]any{
						"max_message_bytes": c.Chat.MaxMessageBytes,
					},
					"web": map[string]any{
						"keepalive":   c.Web.KeepAlive.String(),
						"secret_file": c.Web.SecretFile,
						"token_ttl":   c.Web.TokenTTL.String(),
					},
					"watch": map[string]any{
						"debounce": c.Watch.Debounce.String(),
					},
				},
			})
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var path string
	var force bool
	var stdout bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file holding every default",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			body := config.RenderDefaultTOML()
			if stdout {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			target := strings.TrimSpace(path)
			if target == "" {
				target = config.DefaultConfigPath()
			}
			if _, err := os.Stat(target); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("config: %s already exists (use --force to overwrite)", target))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return writeErr(cmd, err)
			}
			if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": target},
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination (default: $XDG_CONFIG_HOME/chatview/config.toml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print instead of writing a file")
	return cmd
}
