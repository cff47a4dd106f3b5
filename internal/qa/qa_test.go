// internal/qa/qa_test.go
package qa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/accord/internal/annotation"
)

// uniformPair builds a pair result judging every dimension with the same
// comparison, then applies overrides.
func uniformPair(sampleID, annotatorID string, base annotation.ComparisonResult, overrides map[annotation.Dimension]annotation.ComparisonResult) annotation.AnnotationResult {
	pair := make(map[annotation.Dimension]annotation.PairJudgment, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		comparison := base
		if override, ok := overrides[dim]; ok {
			comparison = override
		}
		pair[dim] = annotation.PairJudgment{Comparison: comparison}
	}
	return annotation.AnnotationResult{SampleID: sampleID, AnnotatorID: annotatorID, Pair: pair}
}

// uniformScore builds a score result scoring every dimension the same, then
// applies overrides.
func uniformScore(sampleID, annotatorID string, base int, overrides map[annotation.Dimension]int) annotation.AnnotationResult {
	scores := make(map[annotation.Dimension]annotation.ScoreJudgment, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		score := base
		if override, ok := overrides[dim]; ok {
			score = override
		}
		scores[dim] = annotation.ScoreJudgment{Score: score}
	}
	return annotation.AnnotationResult{SampleID: sampleID, AnnotatorID: annotatorID, Scores: scores}
}

func TestAnalyzePairFullAgreement(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{uniformPair("p01_mx_my", "golden", annotation.CompareABetter, nil)}
	results := []annotation.AnnotationResult{uniformPair("p01_mx_my", "alice", annotation.CompareABetter, nil)}

	stats := AnalyzePair(golden, results, nil)
	if stats.TotalSamples != 1 {
		t.Fatalf("TotalSamples=%d want 1", stats.TotalSamples)
	}
	if stats.HardMatchCount != 1 {
		t.Fatalf("HardMatchCount=%d want 1", stats.HardMatchCount)
	}
	if stats.SoftMatchRate != 1.0 {
		t.Fatalf("SoftMatchRate=%v want 1.0", stats.SoftMatchRate)
	}
	if len(stats.FailingSamples) != 0 {
		t.Fatalf("unexpected failing samples: %+v", stats.FailingSamples)
	}
}

func TestAnalyzePairPartialAgreement(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{uniformPair("p01_mx_my", "golden", annotation.CompareABetter, nil)}
	// Disagree on two of the five axes: 3/5 matched, soft rate 0.6.
	results := []annotation.AnnotationResult{
		uniformPair("p01_mx_my", "alice", annotation.CompareABetter, map[annotation.Dimension]annotation.ComparisonResult{
			annotation.DimensionDistortion:    annotation.CompareEqual,
			annotation.DimensionMotionQuality: annotation.CompareBBetter,
		}),
	}

	stats := AnalyzePair(golden, results, nil)
	if stats.HardMatchCount != 0 {
		t.Fatalf("HardMatchCount=%d want 0", stats.HardMatchCount)
	}
	if stats.SoftMatchRate != 0.6 {
		t.Fatalf("SoftMatchRate=%v want 0.6", stats.SoftMatchRate)
	}
	if len(stats.FailingSamples) != 1 {
		t.Fatalf("got %d failing samples want 1", len(stats.FailingSamples))
	}

	review := stats.FailingSamples[0]
	if review.MatchedDimensions != 3 {
		t.Fatalf("MatchedDimensions=%d want 3", review.MatchedDimensions)
	}
	if len(review.Mismatches) != 2 {
		t.Fatalf("got %d mismatches want 2", len(review.Mismatches))
	}
}

func TestAnalyzeScoreExactAndLevel(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{uniformScore("p01_mx", "golden", 5, nil)}
	// One axis one point off inside the soft tolerance: hard match fails,
	// level match holds everywhere.
	results := []annotation.AnnotationResult{
		uniformScore("p01_mx", "alice", 5, map[annotation.Dimension]int{
			annotation.DimensionVisualQuality: 4,
		}),
	}

	stats := AnalyzeScore(golden, results, nil)
	if stats.HardMatchCount != 0 {
		t.Fatalf("HardMatchCount=%d want 0", stats.HardMatchCount)
	}
	if stats.SoftMatchRate != 1.0 {
		t.Fatalf("SoftMatchRate=%v want 1.0 (5 vs 4 is a level match)", stats.SoftMatchRate)
	}

	visual := stats.PerDimension[annotation.DimensionVisualQuality]
	if visual.HardMatches != 0 || visual.SoftMatches != 1 {
		t.Fatalf("visual_quality hard=%d soft=%d want 0/1", visual.HardMatches, visual.SoftMatches)
	}

	if len(stats.FailingSamples) != 1 {
		t.Fatalf("got %d failing samples want 1", len(stats.FailingSamples))
	}
	mismatches := stats.FailingSamples[0].Mismatches
	if len(mismatches) != 1 {
		t.Fatalf("got %d mismatches want 1", len(mismatches))
	}
	if m := mismatches[0]; m.GoldenScore != 5 || m.AnnotatorScore != 4 || !m.LevelMatch {
		t.Fatalf("mismatch record wrong: %+v", m)
	}
}

func TestAnalyzeScoreLevelBoundary(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{uniformScore("p01_mx", "golden", 3, nil)}
	// 3 vs 2 crosses the minor/major boundary: neither exact nor level match.
	results := []annotation.AnnotationResult{
		uniformScore("p01_mx", "alice", 3, map[annotation.Dimension]int{
			annotation.DimensionDistortion: 2,
		}),
	}

	stats := AnalyzeScore(golden, results, nil)
	distortion := stats.PerDimension[annotation.DimensionDistortion]
	if distortion.SoftMatches != 0 {
		t.Fatalf("distortion soft matches=%d want 0 (3 vs 2 crosses the boundary)", distortion.SoftMatches)
	}
	wantSoft := 4.0 / 5.0
	if stats.SoftMatchRate != wantSoft {
		t.Fatalf("SoftMatchRate=%v want %v", stats.SoftMatchRate, wantSoft)
	}
}

func TestAnalyzeSkipsUnmatchedSamples(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{uniformPair("p01_mx_my", "golden", annotation.CompareEqual, nil)}
	results := []annotation.AnnotationResult{
		uniformPair("p99_mx_my", "alice", annotation.CompareEqual, nil), // no golden counterpart
		uniformScore("p01_mx", "alice", 4, nil),                        // wrong mode
	}

	stats := AnalyzePair(golden, results, nil)
	if stats.TotalSamples != 0 {
		t.Fatalf("TotalSamples=%d want 0 (unmatched records are excluded, not mismatched)", stats.TotalSamples)
	}
	if stats.HardMatchRate != 0 || stats.SoftMatchRate != 0 {
		t.Fatalf("rates should be 0, got hard=%v soft=%v", stats.HardMatchRate, stats.SoftMatchRate)
	}
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	t.Parallel()

	stats := AnalyzeScore(nil, nil, nil)
	if stats.TotalSamples != 0 || stats.HardMatchRate != 0 {
		t.Fatalf("empty analysis produced nonzero values: %+v", stats)
	}
	if len(stats.PerDimension) != len(annotation.Dimensions) {
		t.Fatalf("PerDimension has %d entries want %d", len(stats.PerDimension), len(annotation.Dimensions))
	}
}

func TestAnalyzePerAnnotatorTable(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{
		uniformPair("p01_mx_my", "golden", annotation.CompareABetter, nil),
		uniformPair("p02_mx_my", "golden", annotation.CompareEqual, nil),
	}
	results := []annotation.AnnotationResult{
		uniformPair("p01_mx_my", "alice", annotation.CompareABetter, nil),
		uniformPair("p02_mx_my", "alice", annotation.CompareABetter, nil),
		uniformPair("p01_mx_my", "", annotation.CompareABetter, nil), // falls back to "unknown"
	}

	stats := AnalyzePair(golden, results, nil)

	alice, ok := stats.PerAnnotator["alice"]
	if !ok {
		t.Fatalf("missing per-annotator entry for alice: %+v", stats.PerAnnotator)
	}
	if alice.Total != 2 || alice.HardMatchCount != 1 {
		t.Fatalf("alice totals wrong: %+v", alice)
	}
	if alice.HardMatchRate != 0.5 {
		t.Fatalf("alice HardMatchRate=%v want 0.5", alice.HardMatchRate)
	}

	if _, ok := stats.PerAnnotator[annotation.UnknownAnnotator]; !ok {
		t.Fatalf("blank annotator id should aggregate under %q", annotation.UnknownAnnotator)
	}
}

func TestAnalyzeEnrichesFailingSamples(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{uniformPair("p01_mx_my", "golden", annotation.CompareABetter, nil)}
	results := []annotation.AnnotationResult{uniformPair("p01_mx_my", "alice", annotation.CompareBBetter, nil)}
	samples := map[string]annotation.Sample{
		"p01_mx_my": {
			SampleID:  "p01_mx_my",
			Prompt:    "a dog in the rain",
			VideoAURL: "https://cdn.example/a.mp4",
			VideoBURL: "https://cdn.example/b.mp4",
		},
	}

	stats := AnalyzePair(golden, results, samples)
	if len(stats.FailingSamples) != 1 {
		t.Fatalf("got %d failing samples want 1", len(stats.FailingSamples))
	}
	review := stats.FailingSamples[0]
	if review.Prompt != "a dog in the rain" || review.VideoAURL == "" || review.VideoBURL == "" {
		t.Fatalf("failing sample missing metadata enrichment: %+v", review)
	}
}

func TestAnalyzePairIdempotent(t *testing.T) {
	t.Parallel()

	golden := []annotation.AnnotationResult{
		uniformPair("p01_mx_my", "golden", annotation.CompareABetter, nil),
		uniformPair("p02_mx_my", "golden", annotation.CompareEqual, nil),
	}
	results := []annotation.AnnotationResult{
		uniformPair("p01_mx_my", "alice", annotation.CompareEqual, nil),
		uniformPair("p02_mx_my", "bob", annotation.CompareEqual, nil),
	}
	samples := map[string]annotation.Sample{
		"p01_mx_my": {SampleID: "p01_mx_my", Prompt: "city at night"},
	}

	first := AnalyzePair(golden, results, samples)
	second := AnalyzePair(golden, results, samples)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated analysis differs (-first +second):\n%s", diff)
	}
}
