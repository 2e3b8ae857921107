package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"chatview/internal/config"
	"chatview/internal/format"
	"chatview/internal/logging"
	"chatview/internal/render"
)

// skipConfig marks commands that must run even when the config is invalid.
const skipConfig = "chatview/skip-config"

type App struct {
	ConfigPath string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:          "chatview",
		Short:        "Render untrusted chat Markdown into safe HTML",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Render a file to sanitized HTML
  chatview render notes.md

  # Shortcut for: chatview render notes.md
  chatview notes.md

  # Preview in the terminal
  chatview preview --pager notes.md

  # Serve the chat display, live-reloading a document
  chatview serve --watch notes.md
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] != "" {
			return nil
		}
		return app.setup()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = app.log.Sync()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("CHATVIEW_CONFIG", ""), "Config file (default: $XDG_CONFIG_HOME/chatview/config.toml or ./config.toml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level override (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CHATVIEW_FORMAT", "json"), "Structured output format (json|edn)")

	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newTokenCmd(app))

	return cmd
}

func (app *App) setup() error {
	cfg, err := config.Load(viper.New(), app.ConfigPath)
	if err != nil {
		return err
	}
	if lvl := strings.TrimSpace(app.LogLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.log = log
	return nil
}

func (app *App) renderer() *render.Renderer {
	rc := app.cfg.Render
	return render.New(
		render.WithGFM(rc.GFM),
		render.WithHardWraps(rc.HardWraps),
		render.WithHeadingIDs(rc.HeadingIDs),
		render.WithEmoji(rc.Emoji),
		render.WithMarkerClass(rc.MarkerClass),
		render.WithLogger(app.log.Named("render")),
	)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
