// internal/cli/consistency_entry.go
package accord

import (
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/consistency"
	"github.com/spf13/cobra"
)

func runConsistency(cmd *cobra.Command, opts consistencyOptions, args []string) error {
	cfg := activeConfig()
	dir := opts.resultsDir
	if dir == "" {
		dir = cfg.ResultsDirPath()
	}

	files, err := loadInputs(dir, args)
	if err != nil {
		return err
	}

	pairFiles, scoreFiles := splitByMode(files)
	if len(pairFiles) == 0 || len(scoreFiles) == 0 {
		cmd.Printf("%s consistency needs both pair and score results (loaded %d pair, %d score files)\n",
			noticeAccent("notice:"), len(pairFiles), len(scoreFiles))
	}

	stats := consistency.Analyze(annotation.PoolResults(pairFiles), annotation.PoolResults(scoreFiles))
	debugDump(stats)

	if opts.jsonPath != "" {
		if err := writeJSON(opts.jsonPath, stats); err != nil {
			return err
		}
		cmd.Printf("Consistency JSON written to %s\n", opts.jsonPath)
	}

	if JSONModeEnabled() {
		return emitJSON(cmd, stats)
	}
	cmd.Print(renderConsistencySummary(stats))
	return nil
}

// splitByMode partitions loaded files into pair-mode and score-mode sets.
func splitByMode(files []*annotation.ResultFile) (pairFiles, scoreFiles []*annotation.ResultFile) {
	for _, file := range files {
		switch file.Mode {
		case annotation.ModePair:
			pairFiles = append(pairFiles, file)
		case annotation.ModeScore:
			scoreFiles = append(scoreFiles, file)
		}
	}
	return pairFiles, scoreFiles
}
