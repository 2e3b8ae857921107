package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// readInput returns the Markdown named by args (a file path, or "-"/nothing
// for stdin) and a short display name for it.
func readInput(cmd *cobra.Command, args []string) (src, name string, err error) {
	path := ""
	if len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}
	if path == "" || path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "stdin", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(b), filepath.Base(path), nil
}
