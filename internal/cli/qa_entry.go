// internal/cli/qa_entry.go
package accord

import (
	"fmt"

	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/qa"
	"github.com/spf13/cobra"
)

func runQACommand(cmd *cobra.Command, opts qaOptions, args []string) error {
	cfg := activeConfig()
	goldenPath := opts.goldenPath
	if goldenPath == "" {
		goldenPath = cfg.GoldenPath
	}
	if goldenPath == "" {
		return fmt.Errorf("golden file is required (pass --golden or set goldenPath in config)")
	}
	dir := opts.resultsDir
	if dir == "" {
		dir = cfg.ResultsDirPath()
	}

	golden, err := annotation.LoadResultFile(goldenPath)
	if err != nil {
		return err
	}
	files, err := loadInputs(dir, args)
	if err != nil {
		return err
	}

	stats := gradeAgainstGolden(golden, files)
	debugDump(stats)

	if opts.jsonPath != "" {
		if err := writeJSON(opts.jsonPath, stats); err != nil {
			return err
		}
		cmd.Printf("QA JSON written to %s\n", opts.jsonPath)
	}

	if JSONModeEnabled() {
		return emitJSON(cmd, stats)
	}
	cmd.Print(renderQASummary(stats))
	return nil
}

// gradeAgainstGolden grades pooled results against the golden file in the
// golden file's mode. Sample metadata merges across every file with the
// golden file last, so its task package wins on conflicts.
func gradeAgainstGolden(golden *annotation.ResultFile, files []*annotation.ResultFile) qa.Stats {
	withGolden := append(append([]*annotation.ResultFile{}, files...), golden)
	samples := annotation.MergeSampleIndex(withGolden)
	pooled := annotation.PoolResults(files)
	if golden.Mode == annotation.ModePair {
		return qa.AnalyzePair(golden.Results, pooled, samples)
	}
	return qa.AnalyzeScore(golden.Results, pooled, samples)
}
