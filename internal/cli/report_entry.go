// internal/cli/report_entry.go
package accord

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/mwiater/accord/internal/agreement"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/consistency"
	"github.com/mwiater/accord/internal/report"
	"github.com/mwiater/accord/internal/util"
	"github.com/spf13/cobra"
)

func runReport(cmd *cobra.Command, opts reportOptions, args []string) error {
	cfg := activeConfig()
	dir := opts.resultsDir
	if dir == "" {
		dir = cfg.ResultsDirPath()
	}
	goldenPath := opts.goldenPath
	if goldenPath == "" {
		goldenPath = cfg.GoldenPath
	}

	files, err := loadInputs(dir, args)
	if err != nil {
		return err
	}

	var golden *annotation.ResultFile
	if goldenPath != "" {
		golden, err = annotation.LoadResultFile(goldenPath)
		if err != nil {
			return err
		}
	}

	summary, downgraded := buildSummary(files, golden)
	if downgraded {
		cmd.Printf("%s mixed-mode input, leave-one-out section runs in score mode\n", noticeAccent("notice:"))
	}
	debugDump(summary)

	if opts.jsonPath != "" {
		if err := writeJSON(opts.jsonPath, summary); err != nil {
			return err
		}
		cmd.Printf("Summary JSON written to %s\n", opts.jsonPath)
	}

	htmlPath := opts.htmlPath
	if htmlPath == "" {
		htmlPath = filepath.Join(cfg.ReportsDirPath(), "quality-report.html")
	}
	html, err := report.GenerateDashboard(summary)
	if err != nil {
		return fmt.Errorf("failed generating HTML report: %w", err)
	}
	if err := writeArtifact(htmlPath, []byte(html)); err != nil {
		return err
	}
	cmd.Printf("Report written to %s\n", htmlPath)

	chartsPath := opts.chartsPath
	if chartsPath == "" {
		chartsPath = filepath.Join(cfg.ReportsDirPath(), "quality-charts.html")
	}
	var buf bytes.Buffer
	if err := report.RenderCharts(&buf, summary); err != nil {
		return fmt.Errorf("failed generating chart page: %w", err)
	}
	if err := writeArtifact(chartsPath, buf.Bytes()); err != nil {
		return err
	}
	cmd.Printf("Charts written to %s\n", chartsPath)

	return nil
}

// buildSummary runs every applicable analysis over the loaded files. The
// returned flag reports whether a mixed-mode input forced the leave-one-out
// section down to score mode.
func buildSummary(files []*annotation.ResultFile, golden *annotation.ResultFile) (report.Summary, bool) {
	stats := agreement.Analyze(files)
	summary := report.Summary{Mode: stats.Mode, Agreement: &stats}

	mode, downgraded := agreement.LOOMode(stats.Mode)
	if mode != annotation.ModeUnknown {
		loo := agreement.AnalyzeLeaveOneOut(agreement.GroupBySample(files), mode)
		summary.LeaveOneOut = &loo
	}

	if golden != nil {
		qaStats := gradeAgainstGolden(golden, files)
		summary.QA = &qaStats
	}

	if stats.Mode == annotation.ModeMixed {
		pairFiles, scoreFiles := splitByMode(files)
		consistencyStats := consistency.Analyze(annotation.PoolResults(pairFiles), annotation.PoolResults(scoreFiles))
		summary.Consistency = &consistencyStats
	}

	return summary, downgraded
}

// writeArtifact writes report output, creating the parent directory first.
func writeArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write report file %s: %w", path, err)
	}
	return nil
}
