// internal/cli/export_entry.go
package accord

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/report"
	"github.com/spf13/cobra"
)

// exportEnvelope wraps an analysis summary for sharing. The uuid and
// timestamp live only here, never inside the statistics themselves, so the
// analyses stay byte-for-byte reproducible.
type exportEnvelope struct {
	ExportID    string         `json:"export_id"`
	GeneratedAt string         `json:"generated_at"`
	Summary     report.Summary `json:"summary"`
}

func runExport(cmd *cobra.Command, opts exportOptions, args []string) error {
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
	if len(files) == 0 {
		return fmt.Errorf("no result files to export")
	}

	exportID := uuid.NewString()

	if opts.bundle {
		bundle, err := bundleResultFile(files)
		if err != nil {
			return err
		}
		path := exportPath(cfg.ExportPath, opts.outputPath, cfg.ReportsDirPath(), "accord-bundle", exportID)
		if err := writeJSON(path, bundle); err != nil {
			return err
		}
		cmd.Printf("Bundle written to %s (%d results, %d samples)\n",
			path, len(bundle.Results), taskPackageSize(bundle))
		return nil
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

	envelope := exportEnvelope{
		ExportID:    exportID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:     summary,
	}

	path := exportPath(cfg.ExportPath, opts.outputPath, cfg.ReportsDirPath(), "accord-export", exportID)
	if err := writeJSON(path, envelope); err != nil {
		return err
	}
	cmd.Printf("Export written to %s (id %s)\n", path, exportID)
	return nil
}

// exportPath resolves the destination: explicit flag, then configured export
// path, then an id-stamped default under the reports directory.
func exportPath(configured, flag, reportsDir, prefix, exportID string) string {
	if flag != "" {
		return flag
	}
	if configured != "" {
		return configured
	}
	return filepath.Join(reportsDir, fmt.Sprintf("%s-%s.json", prefix, exportID))
}

// bundleResultFile pools every loaded judgment into one self-contained
// result file with the merged task package embedded. Bundling requires a
// uniform mode; the file format has no mixed variant.
func bundleResultFile(files []*annotation.ResultFile) (*annotation.ResultFile, error) {
	mode := annotation.DetectMode(files)
	switch mode {
	case annotation.ModePair, annotation.ModeScore:
	case annotation.ModeMixed:
		return nil, fmt.Errorf("cannot bundle mixed-mode results into one file; export pair and score sets separately")
	default:
		return nil, fmt.Errorf("no analyzable results to bundle")
	}

	bundle := &annotation.ResultFile{
		TaskID:  files[0].TaskID,
		Mode:    mode,
		Results: annotation.PoolResults(files),
	}

	samples := annotation.MergeSampleIndex(files)
	if len(samples) > 0 {
		ids := make([]string, 0, len(samples))
		for id := range samples {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		pkg := &annotation.TaskPackage{TaskID: bundle.TaskID, Mode: mode}
		for _, id := range ids {
			pkg.Samples = append(pkg.Samples, samples[id])
		}
		bundle.TaskPackage = pkg
	}

	return bundle, nil
}

func taskPackageSize(file *annotation.ResultFile) int {
	if file.TaskPackage == nil {
		return 0
	}
	return len(file.TaskPackage.Samples)
}
