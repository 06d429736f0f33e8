package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/pkg/ast"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display pgparser version, build, and parse tree schema information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pgparser v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s\n", commit, date)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "parse tree schema version %d\n", ast.Version)
		},
	}
}
