// internal/cli/report.go
package accord

import (
	"github.com/spf13/cobra"
)

type reportOptions struct {
	resultsDir string
	goldenPath string
	htmlPath   string
	chartsPath string
	jsonPath   string
}

var reportOpts reportOptions

// reportCmd renders the full quality report: dashboard, charts, summary JSON.
var reportCmd = &cobra.Command{
	Use:   "report [result files]",
	Short: "Generate the HTML quality report and chart page",
	Long: `Run every applicable analysis over the loaded result files — pairwise
agreement, leave-one-out outliers, golden-set QA when a golden file is
available, and pair/score consistency when both modes are present — then
write a self-contained HTML dashboard plus a chart page under the reports
directory.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, reportOpts, args)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOpts.resultsDir, "results-dir", "", "Directory of result JSON files (default: configured resultsDir)")
	reportCmd.Flags().StringVar(&reportOpts.goldenPath, "golden", "", "Optional golden result file for the QA section")
	reportCmd.Flags().StringVar(&reportOpts.htmlPath, "html-output", "", "Destination dashboard path (default: <reportsDir>/quality-report.html)")
	reportCmd.Flags().StringVar(&reportOpts.chartsPath, "charts-output", "", "Destination chart page path (default: <reportsDir>/quality-charts.html)")
	reportCmd.Flags().StringVar(&reportOpts.jsonPath, "json-output", "", "Optional path to write the summary JSON")

	rootCmd.AddCommand(reportCmd)
}
