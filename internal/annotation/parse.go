// internal/annotation/parse.go
package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UnknownAnnotator is the annotator id assigned to results that carry none,
// at the record and file level alike.
const UnknownAnnotator = "unknown"

// ParseResultFile validates and decodes one uploaded result file. Malformed
// input fails here with a descriptive error; everything downstream assumes a
// well-typed, normalized file. The returned file has every result stamped
// with a concrete annotator id (record id, else file id, else "unknown") and
// unrecognized dimension keys dropped.
func ParseResultFile(raw []byte) (*ResultFile, error) {
	if err := validateResultFileJSON(raw); err != nil {
		return nil, err
	}

	var file ResultFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("error parsing result file: %w", err)
	}

	if file.Mode != ModePair && file.Mode != ModeScore {
		return nil, fmt.Errorf("unrecognized mode %q (want %q or %q)", file.Mode, ModePair, ModeScore)
	}

	normalizeResultFile(&file)
	return &file, nil
}

// LoadResultFile reads and parses a result file from disk.
func LoadResultFile(path string) (*ResultFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read result file %s: %w", path, err)
	}
	file, err := ParseResultFile(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid result file %s: %w", path, err)
	}
	return file, nil
}

// LoadResultFiles parses every listed path, failing on the first bad file.
func LoadResultFiles(paths []string) ([]*ResultFile, error) {
	files := make([]*ResultFile, 0, len(paths))
	for _, path := range paths {
		file, err := LoadResultFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// LoadDir parses every *.json file directly under dir, in name order so
// repeated loads see the same sequence.
func LoadDir(dir string) ([]*ResultFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read results directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := make([]*ResultFile, 0, len(names))
	for _, name := range names {
		file, err := LoadResultFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// DetectMode resolves the elicitation mode across a set of files: pair or
// score when uniform, mixed when both appear, unknown when nothing usable
// was loaded.
func DetectMode(files []*ResultFile) Mode {
	sawPair := false
	sawScore := false
	for _, file := range files {
		if file == nil {
			continue
		}
		switch file.Mode {
		case ModePair:
			sawPair = true
		case ModeScore:
			sawScore = true
		}
	}
	switch {
	case sawPair && sawScore:
		return ModeMixed
	case sawPair:
		return ModePair
	case sawScore:
		return ModeScore
	default:
		return ModeUnknown
	}
}

// PoolResults concatenates the results of every file, preserving file order.
// Sample metadata stays behind on the files; use SampleIndex for enrichment.
func PoolResults(files []*ResultFile) []AnnotationResult {
	var pooled []AnnotationResult
	for _, file := range files {
		if file == nil {
			continue
		}
		pooled = append(pooled, file.Results...)
	}
	return pooled
}

// MergeSampleIndex builds a sample_id lookup across every file that carries
// a task package. Later files win on duplicate ids.
func MergeSampleIndex(files []*ResultFile) map[string]Sample {
	merged := make(map[string]Sample)
	for _, file := range files {
		for id, sample := range file.SampleIndex() {
			merged[id] = sample
		}
	}
	return merged
}

func normalizeResultFile(file *ResultFile) {
	fallback := strings.TrimSpace(file.AnnotatorID)
	if fallback == "" {
		fallback = UnknownAnnotator
	}
	file.AnnotatorID = fallback

	for i := range file.Results {
		result := &file.Results[i]
		if strings.TrimSpace(result.AnnotatorID) == "" {
			result.AnnotatorID = fallback
		}
		dropUnknownDimensions(result)
	}
}

// dropUnknownDimensions removes judgment entries keyed by axes outside the
// fixed dimension set so analyzers can iterate Dimensions without guards.
func dropUnknownDimensions(result *AnnotationResult) {
	for key := range result.Pair {
		if !key.Valid() {
			delete(result.Pair, key)
		}
	}
	for key := range result.Scores {
		if !key.Valid() {
			delete(result.Scores, key)
		}
	}
}
