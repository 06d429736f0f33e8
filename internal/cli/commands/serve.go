package commands

import (
	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/internal/cli/config"
	"github.com/supabase-community/pg-parser/internal/service"
)

// NewServeCommand creates the serve command.
func NewServeCommand(version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser over HTTP",
		Long: `Start an HTTP server exposing parse, deparse, scan, and convert as a
JSON API, plus a health endpoint. The server shuts down cleanly on
SIGINT or SIGTERM.`,
		Example: `  pgparser serve --addr 127.0.0.1:8080
  curl -d '{"sql":"SELECT 1"}' localhost:8080/v1/parse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = config.GetCurrentConfig().Serve.Addr
			}
			srv := service.NewServer(service.Config{
				Addr:    addr,
				Logger:  config.GetLogger(cmd.Context()),
				Version: version,
			})
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}
