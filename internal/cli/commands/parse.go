package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse SQL into a tree in the text encoding",
		Long: `Parse SQL into a PostgreSQL parse tree and print it as JSON.

Reads from the named file, or from stdin when the argument is absent
or "-". Warnings emitted while parsing go to stderr.`,
		Example: `  # Parse a file
  pgparser parse queries.sql

  # Parse from stdin
  echo "SELECT 1" | pgparser parse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			res, err := pgparser.Parse(string(data))
			if err != nil {
				return reportError(cmd, name, string(data), err)
			}
			if len(res.Stderr) > 0 {
				_, _ = cmd.ErrOrStderr().Write(res.Stderr)
			}

			out := []byte(res.Tree)
			if !compact {
				var buf bytes.Buffer
				if err := json.Indent(&buf, out, "", "  "); err != nil {
					return fmt.Errorf("failed to format tree: %w", err)
				}
				out = buf.Bytes()
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Single-line JSON output")

	return cmd
}
