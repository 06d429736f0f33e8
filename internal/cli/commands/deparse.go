package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

// NewDeparseCommand creates the deparse command.
func NewDeparseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deparse [file]",
		Short: "Turn a parse tree back into SQL",
		Long: `Read a parse tree in the JSON text encoding and print the SQL it
describes. The output is canonical form, not the original input text.

Reads from the named file, or from stdin when the argument is absent
or "-".`,
		Example: `  # Round-trip a statement
  echo "select 1" | pgparser parse | pgparser deparse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			sql, err := pgparser.Deparse(string(data))
			if err != nil {
				return reportError(cmd, name, "", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), sql)
			return nil
		},
	}
}
