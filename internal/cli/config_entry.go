// internal/cli/config_entry.go
package accord

import (
	"github.com/mwiater/accord/internal/appconfig"
	"github.com/spf13/cobra"
)

func runConfig(cmd *cobra.Command) error {
	if JSONModeEnabled() {
		return emitJSON(cmd, activeConfig())
	}

	file := ""
	if cfg := getConfig(); cfg != nil {
		file = cfg.ConfigPath
	}
	appconfig.ShowConfig(cmd.OutOrStdout(), file, getConfig(), appconfig.Config{})
	return nil
}
