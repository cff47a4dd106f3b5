// internal/cli/browse.go
package accord

import (
	"github.com/mwiater/accord/cli"
	"github.com/spf13/cobra"
)

var startBrowser = cli.StartBrowser

// browseCmd represents the 'browse' command.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse annotator agreement interactively",
	Long: `The 'browse' command opens an interactive terminal browser over the loaded
annotation results: annotators ranked by consensus agreement, with a detail
view of per-dimension skill, leave-one-out drift, and outlier judgments.`,
	Run: func(cmd *cobra.Command, args []string) {
		startBrowser(getConfig())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
