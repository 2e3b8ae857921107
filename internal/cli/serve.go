package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chatview/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var watchPath string
	var open bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat display over HTTP",
		Long: strings.TrimSpace(`
Serve a local chat display.

Messages posted to /messages (or sent over /ws) are rendered to sanitized HTML
and pushed to every open page. With --watch, a Markdown file is shown next to
the chat and re-rendered whenever it changes.
`),
		Example: strings.TrimSpace(`
chatview serve
chatview serve --addr 127.0.0.1:8080 --watch README.md
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = app.cfg.HTTPAddr
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}

			var secret []byte
			if app.cfg.Web.SecretFile != "" {
				secret, err = web.LoadOrInitSecret(app.cfg.Web.SecretFile)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:            listenAddr,
				WatchPath:       watchPath,
				MaxMessageBytes: app.cfg.Chat.MaxMessageBytes,
				KeepAlive:       app.cfg.Web.KeepAlive,
				Debounce:        app.cfg.Watch.Debounce,
				Secret:          secret,
				Renderer:        app.renderer(),
				Logger:          app.log.Named("web"),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"watch":     strings.TrimSpace(watchPath),
					"auth":      len(secret) > 0,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "chatview running at %s\n", url)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx, ln); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (default: http_addr from config)")
	cmd.Flags().StringVar(&watchPath, "watch", "", "Markdown file to display and live-reload")
	cmd.Flags().BoolVar(&open, "open", false, "Open the UI in your default browser")
	return cmd
}
