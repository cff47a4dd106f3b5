// internal/cli/consistency.go
package accord

import (
	"github.com/spf13/cobra"
)

type consistencyOptions struct {
	resultsDir string
	jsonPath   string
}

var consistencyOpts consistencyOptions

// consistencyCmd cross-checks pairwise verdicts against absolute scores.
var consistencyCmd = &cobra.Command{
	Use:   "consistency [result files]",
	Short: "Cross-check pairwise verdicts against absolute scores",
	Long: `Load both pair-mode and score-mode result files covering the same prompts
and check that each pairwise verdict points the same way as the score gap:
a sample judged A>B should have A scored above B. Pair sample ids follow
promptId_modelA_modelB and are matched to the promptId_model score samples.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsistency(cmd, consistencyOpts, args)
	},
}

func init() {
	consistencyCmd.Flags().StringVar(&consistencyOpts.resultsDir, "results-dir", "", "Directory of result JSON files (default: configured resultsDir)")
	consistencyCmd.Flags().StringVar(&consistencyOpts.jsonPath, "json-output", "", "Optional path to write the consistency statistics JSON")

	rootCmd.AddCommand(consistencyCmd)
}
