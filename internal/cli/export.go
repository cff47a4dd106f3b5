// internal/cli/export.go
package accord

import (
	"github.com/spf13/cobra"
)

type exportOptions struct {
	resultsDir string
	goldenPath string
	outputPath string
	bundle     bool
}

var exportOpts exportOptions

// exportCmd writes a shareable analysis summary or a self-contained result
// bundle.
var exportCmd = &cobra.Command{
	Use:   "export [result files]",
	Short: "Export an analysis summary or a self-contained result bundle",
	Long: `Export either a uuid-stamped analysis summary (default) covering every
applicable analysis, or — with --bundle — a single self-contained result
file that pools every loaded judgment and embeds the merged task package,
so the bundle can be re-analyzed anywhere without the original inputs.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, exportOpts, args)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.resultsDir, "results-dir", "", "Directory of result JSON files (default: configured resultsDir)")
	exportCmd.Flags().StringVar(&exportOpts.goldenPath, "golden", "", "Optional golden result file for the QA section")
	exportCmd.Flags().StringVar(&exportOpts.outputPath, "output", "", "Destination path (default: configured export path, else <reportsDir>/accord-export-<id>.json)")
	exportCmd.Flags().BoolVar(&exportOpts.bundle, "bundle", false, "Write a self-contained result bundle instead of the summary envelope")

	rootCmd.AddCommand(exportCmd)
}
