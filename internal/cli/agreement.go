// internal/cli/agreement.go
package accord

import (
	"github.com/spf13/cobra"
)

type agreementOptions struct {
	resultsDir string
	jsonPath   string
}

var agreementOpts agreementOptions

// agreementCmd computes inter-annotator agreement over a set of result files.
var agreementCmd = &cobra.Command{
	Use:   "agreement [result files]",
	Short: "Compute inter-annotator agreement statistics",
	Long: `Pool annotation result files, group judgments by sample, and compute hard
and soft pairwise agreement per dimension, plus each annotator's skill
against the majority (pair mode) or mean-score (score mode) consensus.
Pass explicit result files, or none to analyze every JSON file in the
configured results directory.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgreement(cmd, agreementOpts, args)
	},
}

func init() {
	agreementCmd.Flags().StringVar(&agreementOpts.resultsDir, "results-dir", "", "Directory of result JSON files (default: configured resultsDir)")
	agreementCmd.Flags().StringVar(&agreementOpts.jsonPath, "json-output", "", "Optional path to write the agreement statistics JSON")

	rootCmd.AddCommand(agreementCmd)
}
