package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chatview/internal/web"
)

func newTokenCmd(app *App) *cobra.Command {
	var author string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an author token for posting to a protected server",
		Long: strings.TrimSpace(`
Mint a signed author token.

Requires web.secret_file. The key is created on first use and must be the one
the server reads. Send the token as "Authorization: Bearer <token>" to
/messages, or as ?token=<token> when opening /ws.
`),
		Example: strings.TrimSpace(`
chatview token --author assistant --ttl 1h
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.Web.SecretFile == "" {
				return writeErr(cmd, errors.New("token: web.secret_file is not configured"))
			}
			if ttl == 0 {
				ttl = app.cfg.Web.TokenTTL
			}
			secret, err := web.LoadOrInitSecret(app.cfg.Web.SecretFile)
			if err != nil {
				return writeErr(cmd, err)
			}
			tok, err := web.NewAuthorToken(secret, author, ttl)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"author":    strings.TrimSpace(author),
					"token":     tok,
					"expiresAt": time.Now().Add(ttl).UTC().Format(time.RFC3339),
				},
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Name shown on posted messages")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: web.token_ttl)")
	return cmd
}
