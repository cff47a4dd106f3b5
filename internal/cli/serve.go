// internal/cli/serve.go
package accord

import (
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port int
}

var serveOpts serveOptions

// serveCmd starts the local analysis HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the annotation analysis HTTP API",
	Long: `Start a local HTTP server exposing each analyzer as a JSON endpoint:
POST /api/analyze/{agreement,loo,qa,consistency} accept raw result files
and return the statistics object, POST /api/report returns the HTML
dashboard. CORS is open to the configured frontend origins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, serveOpts)
	},
}

func init() {
	serveCmd.Flags().IntVar(&serveOpts.port, "port", 0, "Listen port (default: configured serverPort)")

	rootCmd.AddCommand(serveCmd)
}
