// internal/cli/serve_entry.go
package accord

import (
	"fmt"

	"github.com/mwiater/accord/internal/logging"
	"github.com/mwiater/accord/internal/server"
	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, opts serveOptions) error {
	cfg := activeConfig()

	if err := logging.Init(cfg.LogFilePath()); err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer logging.Close()

	addr := cfg.ServerAddr()
	if opts.port > 0 {
		addr = fmt.Sprintf(":%d", opts.port)
	}

	srv := server.New(server.Options{
		AllowOrigins: cfg.AllowedOrigins(),
		Timeout:      cfg.RequestTimeout(),
		Debug:        DebugEnabled(),
	})

	cmd.Printf("accord analysis API listening on %s\n", addr)
	if err := srv.Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
