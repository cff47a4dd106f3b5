// internal/cli/loo_entry.go
package accord

import (
	"fmt"

	"github.com/mwiater/accord/internal/agreement"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/spf13/cobra"
)

func runLeaveOneOut(cmd *cobra.Command, opts looOptions, args []string) error {
	cfg := activeConfig()
	dir := opts.resultsDir
	if dir == "" {
		dir = cfg.ResultsDirPath()
	}

	files, err := loadInputs(dir, args)
	if err != nil {
		return err
	}

	mode, downgraded := agreement.LOOMode(annotation.DetectMode(files))
	if mode == annotation.ModeUnknown {
		return fmt.Errorf("no analyzable results found")
	}
	if downgraded {
		cmd.Printf("%s mixed-mode input, running leave-one-out in score mode\n", noticeAccent("notice:"))
	}

	result := agreement.AnalyzeLeaveOneOut(agreement.GroupBySample(files), mode)
	debugDump(result)

	if opts.jsonPath != "" {
		if err := writeJSON(opts.jsonPath, result); err != nil {
			return err
		}
		cmd.Printf("Leave-one-out JSON written to %s\n", opts.jsonPath)
	}

	if JSONModeEnabled() {
		return emitJSON(cmd, result)
	}
	cmd.Print(renderLOOSummary(result))
	return nil
}
