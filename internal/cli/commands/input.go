package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// readSource reads a command's input: the named file, or stdin when the
// argument is absent or "-". It returns the data and a display name for
// diagnostics.
func readSource(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return data, args[0], nil
}
