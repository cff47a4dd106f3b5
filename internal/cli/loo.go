// internal/cli/loo.go
package accord

import (
	"github.com/spf13/cobra"
)

type looOptions struct {
	resultsDir string
	jsonPath   string
}

var looOpts looOptions

// looCmd runs the leave-one-out outlier analysis.
var looCmd = &cobra.Command{
	Use:   "loo [result files]",
	Short: "Find annotators who drift from the leave-one-out consensus",
	Long: `For every sample/dimension cell, remove each annotator in turn and compare
their judgment against the consensus of whoever remains: the strict majority
comparison in pair mode, the mean score in score mode. Mixed-mode inputs run
in score mode; pair judgments are left out of that pass.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLeaveOneOut(cmd, looOpts, args)
	},
}

func init() {
	looCmd.Flags().StringVar(&looOpts.resultsDir, "results-dir", "", "Directory of result JSON files (default: configured resultsDir)")
	looCmd.Flags().StringVar(&looOpts.jsonPath, "json-output", "", "Optional path to write the leave-one-out JSON")

	rootCmd.AddCommand(looCmd)
}
