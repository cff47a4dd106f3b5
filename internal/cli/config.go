// internal/cli/config.go
package accord

import (
	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration after flags, config file,
// and defaults have been merged.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration accord is running with: the merged result of
command-line flags, the config file, and built-in defaults, plus which
config file (if any) was loaded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig(cmd)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
