// Command pgparser is the command-line interface to the parser.
package main

import (
	"os"

	"github.com/supabase-community/pg-parser/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
