// internal/cli/qa.go
package accord

import (
	"github.com/spf13/cobra"
)

type qaOptions struct {
	goldenPath string
	resultsDir string
	jsonPath   string
}

var qaOpts qaOptions

// qaCmd grades annotation results against a golden reference file.
var qaCmd = &cobra.Command{
	Use:   "qa [result files]",
	Short: "Grade annotators against a golden reference set",
	Long: `Compare pooled annotation results against a trusted golden result file,
sample by sample. Hard match means an exact verdict on all five dimensions;
the soft rate tolerates adjacent scores of the same severity. Failing
samples come back as a review queue enriched with sample metadata from the
golden file's embedded task package.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQACommand(cmd, qaOpts, args)
	},
}

func init() {
	qaCmd.Flags().StringVar(&qaOpts.goldenPath, "golden", "", "Golden result file (default: configured goldenPath)")
	qaCmd.Flags().StringVar(&qaOpts.resultsDir, "results-dir", "", "Directory of result JSON files (default: configured resultsDir)")
	qaCmd.Flags().StringVar(&qaOpts.jsonPath, "json-output", "", "Optional path to write the QA statistics JSON")

	rootCmd.AddCommand(qaCmd)
}
