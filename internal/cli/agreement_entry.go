// internal/cli/agreement_entry.go
package accord

import (
	"github.com/mwiater/accord/internal/agreement"
	"github.com/spf13/cobra"
)

func runAgreement(cmd *cobra.Command, opts agreementOptions, args []string) error {
	cfg := activeConfig()
	dir := opts.resultsDir
	if dir == "" {
		dir = cfg.ResultsDirPath()
	}

	files, err := loadInputs(dir, args)
	if err != nil {
		return err
	}

	stats := agreement.Analyze(files)
	debugDump(stats)

	if opts.jsonPath != "" {
		if err := writeJSON(opts.jsonPath, stats); err != nil {
			return err
		}
		cmd.Printf("Agreement JSON written to %s\n", opts.jsonPath)
	}

	if JSONModeEnabled() {
		return emitJSON(cmd, stats)
	}
	cmd.Print(renderAgreementSummary(stats))
	return nil
}
