// internal/agreement/agreement_test.go
package agreement

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwiater/accord/internal/annotation"
)

// pairResult builds a pair-mode result covering every dimension with base,
// then applies overrides.
func pairResult(sampleID, annotatorID string, base annotation.ComparisonResult, overrides map[annotation.Dimension]annotation.ComparisonResult) annotation.AnnotationResult {
	judgments := make(map[annotation.Dimension]annotation.PairJudgment, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		judgments[dim] = annotation.PairJudgment{Comparison: base}
	}
	for dim, comparison := range overrides {
		judgments[dim] = annotation.PairJudgment{Comparison: comparison}
	}
	return annotation.AnnotationResult{SampleID: sampleID, AnnotatorID: annotatorID, Pair: judgments}
}

// scoreResult builds a score-mode result covering every dimension with
// base, then applies overrides.
func scoreResult(sampleID, annotatorID string, base int, overrides map[annotation.Dimension]int) annotation.AnnotationResult {
	judgments := make(map[annotation.Dimension]annotation.ScoreJudgment, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		judgments[dim] = annotation.ScoreJudgment{Score: base}
	}
	for dim, score := range overrides {
		judgments[dim] = annotation.ScoreJudgment{Score: score}
	}
	return annotation.AnnotationResult{SampleID: sampleID, AnnotatorID: annotatorID, Scores: judgments}
}

func resultFile(mode annotation.Mode, results ...annotation.AnnotationResult) *annotation.ResultFile {
	return &annotation.ResultFile{TaskID: "task-test", Mode: mode, Results: results}
}

func TestGroupBySample(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p2_ma_mb", "bob", annotation.CompareEqual, nil),
			pairResult("p1_ma_mb", "alice", annotation.CompareABetter, nil),
		),
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "bob", annotation.CompareEqual, nil),
			pairResult("p1_ma_mb", "alice", annotation.CompareBBetter, nil), // duplicate annotator, ignored
		),
	}

	groups := GroupBySample(files)
	if len(groups) != 2 {
		t.Fatalf("GroupBySample() returned %d groups, want 2", len(groups))
	}
	if groups[0].SampleID != "p1_ma_mb" || groups[1].SampleID != "p2_ma_mb" {
		t.Fatalf("GroupBySample() order = %q, %q; want p1_ma_mb, p2_ma_mb", groups[0].SampleID, groups[1].SampleID)
	}
	first := groups[0]
	if len(first.Results) != 2 {
		t.Fatalf("group p1_ma_mb has %d results, want 2", len(first.Results))
	}
	if first.Results[0].AnnotatorID != "alice" || first.Results[1].AnnotatorID != "bob" {
		t.Fatalf("group p1_ma_mb annotator order = %q, %q; want alice, bob", first.Results[0].AnnotatorID, first.Results[1].AnnotatorID)
	}
	if got := first.Results[0].Pair[annotation.DimensionDistortion].Comparison; got != annotation.CompareABetter {
		t.Fatalf("duplicate annotator overwrote first result: got %q, want %q", got, annotation.CompareABetter)
	}
}

func TestAnalyzePairAgreement(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "alice", annotation.CompareEqual, map[annotation.Dimension]annotation.ComparisonResult{
				annotation.DimensionDistortion: annotation.CompareABetter,
			}),
			pairResult("p1_ma_mb", "bob", annotation.CompareEqual, map[annotation.Dimension]annotation.ComparisonResult{
				annotation.DimensionDistortion:    annotation.CompareBBetter,
				annotation.DimensionMotionQuality: annotation.CompareABetter,
			}),
		),
	}

	stats := Analyze(files)
	if stats.Mode != annotation.ModePair {
		t.Fatalf("Mode = %q, want %q", stats.Mode, annotation.ModePair)
	}
	if stats.TotalComparisons != 5 || stats.HardAgreements != 3 || stats.SoftAgreements != 3 {
		t.Fatalf("comparisons/hard/soft = %d/%d/%d, want 5/3/3",
			stats.TotalComparisons, stats.HardAgreements, stats.SoftAgreements)
	}
	if len(stats.Disagreements) != 2 {
		t.Fatalf("got %d disagreements, want 2", len(stats.Disagreements))
	}
	direction := stats.Disagreements[0]
	if direction.Dimension != annotation.DimensionDistortion || direction.Kind != KindDirectionConflict {
		t.Fatalf("first disagreement = %+v, want distortion direction_conflict", direction)
	}
	tie := stats.Disagreements[1]
	if tie.Dimension != annotation.DimensionMotionQuality || tie.Kind != KindTieConflict {
		t.Fatalf("second disagreement = %+v, want motion_quality tie_conflict", tie)
	}
	textDim := stats.PerDimension[annotation.DimensionTextConsistency]
	if textDim.Comparisons != 1 || textDim.HardAgreementRate != 1.0 {
		t.Fatalf("text_consistency = %+v, want 1 comparison fully agreed", textDim)
	}
}

func TestAnalyzeScoreSoftAgreement(t *testing.T) {
	t.Parallel()

	// Adjacent scores within the same severity bucket count as soft
	// agreement and still count toward both annotators' consensus
	// denominators.
	files := []*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, map[annotation.Dimension]int{
				annotation.DimensionVisualQuality: 5,
			}),
			scoreResult("p1_ma", "bob", 4, nil),
		),
	}

	stats := Analyze(files)
	if stats.TotalComparisons != 5 || stats.HardAgreements != 4 || stats.SoftAgreements != 5 {
		t.Fatalf("comparisons/hard/soft = %d/%d/%d, want 5/4/5",
			stats.TotalComparisons, stats.HardAgreements, stats.SoftAgreements)
	}
	if len(stats.Disagreements) != 1 {
		t.Fatalf("got %d disagreements, want 1", len(stats.Disagreements))
	}
	adjacent := stats.Disagreements[0]
	if adjacent.Kind != KindScoreAdjacent || adjacent.ValueA != "5" || adjacent.ValueB != "4" {
		t.Fatalf("disagreement = %+v, want score_adjacent 5 vs 4", adjacent)
	}

	for _, annotatorID := range []string{"alice", "bob"} {
		skill := stats.Annotators[annotatorID]
		visual := skill.PerDimension[annotation.DimensionVisualQuality]
		if visual.Evaluated != 1 || visual.Agreements != 1 {
			t.Fatalf("%s visual_quality skill = %+v, want evaluated and agreeing", annotatorID, visual)
		}
		if skill.OverallAgreementRate != 1.0 {
			t.Fatalf("%s overall agreement = %v, want 1.0", annotatorID, skill.OverallAgreementRate)
		}
	}
}

func TestAnalyzeScoreLevelConflict(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, map[annotation.Dimension]int{
				annotation.DimensionDistortion: 5,
			}),
			scoreResult("p1_ma", "bob", 4, map[annotation.Dimension]int{
				annotation.DimensionDistortion: 2,
			}),
		),
	}

	stats := Analyze(files)
	if stats.SoftAgreements != 4 {
		t.Fatalf("SoftAgreements = %d, want 4", stats.SoftAgreements)
	}
	if len(stats.Disagreements) != 1 || stats.Disagreements[0].Kind != KindScoreLevelConflict {
		t.Fatalf("disagreements = %+v, want one score_level_conflict", stats.Disagreements)
	}
}

func TestAnalyzeSingleAnnotatorSample(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, nil),
			scoreResult("p1_ma", "bob", 4, nil),
			scoreResult("p2_ma", "bob", 3, nil),
		),
	}

	stats := Analyze(files)
	if stats.TotalSamples != 2 || stats.MultiAnnotatorSamples != 1 {
		t.Fatalf("samples/multi = %d/%d, want 2/1", stats.TotalSamples, stats.MultiAnnotatorSamples)
	}
	if stats.TotalComparisons != 5 {
		t.Fatalf("TotalComparisons = %d, want 5 (single-annotator sample contributes none)", stats.TotalComparisons)
	}
	bob := stats.Annotators["bob"]
	if bob.SamplesAnnotated != 2 {
		t.Fatalf("bob.SamplesAnnotated = %d, want 2", bob.SamplesAnnotated)
	}
	// p2_ma has one voter, so it never reaches bob's consensus denominator.
	if bob.PerDimension[annotation.DimensionVisualQuality].Evaluated != 1 {
		t.Fatalf("bob visual_quality evaluated = %d, want 1",
			bob.PerDimension[annotation.DimensionVisualQuality].Evaluated)
	}
}

func TestAnalyzePartialOverlap(t *testing.T) {
	t.Parallel()

	bob := scoreResult("p1_ma", "bob", 4, nil)
	delete(bob.Scores, annotation.DimensionMotionQuality)

	files := []*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, nil),
			bob,
		),
	}

	stats := Analyze(files)
	if stats.TotalComparisons != 4 {
		t.Fatalf("TotalComparisons = %d, want 4 (missing dimension skipped)", stats.TotalComparisons)
	}
	motion := stats.PerDimension[annotation.DimensionMotionQuality]
	if motion.Comparisons != 0 {
		t.Fatalf("motion_quality comparisons = %d, want 0", motion.Comparisons)
	}
}

func TestAnalyzeMixedModeIsolation(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "alice", annotation.CompareEqual, nil),
			pairResult("p1_ma_mb", "bob", annotation.CompareEqual, nil),
		),
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma_mb", "carol", 4, nil),
		),
	}

	stats := Analyze(files)
	if stats.Mode != annotation.ModeMixed {
		t.Fatalf("Mode = %q, want %q", stats.Mode, annotation.ModeMixed)
	}
	// Only the two pair-mode annotators are comparable; carol's scores
	// never cross modes.
	if stats.TotalComparisons != 5 || stats.HardAgreements != 5 {
		t.Fatalf("comparisons/hard = %d/%d, want 5/5", stats.TotalComparisons, stats.HardAgreements)
	}
	carol := stats.Annotators["carol"]
	if carol.SamplesAnnotated != 1 || carol.OverallAgreementRate != 0 {
		t.Fatalf("carol = %+v, want counted but never evaluated", carol)
	}
}

func TestAnalyzePairConsensusSkill(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "alice", annotation.CompareABetter, nil),
			pairResult("p1_ma_mb", "bob", annotation.CompareABetter, nil),
			pairResult("p1_ma_mb", "carol", annotation.CompareBBetter, nil),
		),
	}

	stats := Analyze(files)
	if got := stats.Annotators["alice"].OverallAgreementRate; got != 1.0 {
		t.Fatalf("alice overall agreement = %v, want 1.0", got)
	}
	if got := stats.Annotators["carol"].OverallAgreementRate; got != 0 {
		t.Fatalf("carol overall agreement = %v, want 0", got)
	}
	carolText := stats.Annotators["carol"].PerDimension[annotation.DimensionTextConsistency]
	if carolText.Evaluated != 1 || carolText.Agreements != 0 {
		t.Fatalf("carol text_consistency = %+v, want evaluated without agreement", carolText)
	}
}

func TestAnalyzeTieVoteSkipsSkill(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "alice", annotation.CompareABetter, nil),
			pairResult("p1_ma_mb", "bob", annotation.CompareBBetter, nil),
		),
	}

	stats := Analyze(files)
	// Pairwise disagreement is still recorded even though a 1-1 vote
	// produces no consensus to score skill against.
	if stats.TotalComparisons != 5 || len(stats.Disagreements) != 5 {
		t.Fatalf("comparisons/disagreements = %d/%d, want 5/5", stats.TotalComparisons, len(stats.Disagreements))
	}
	for _, annotatorID := range []string{"alice", "bob"} {
		skill := stats.Annotators[annotatorID]
		if skill.OverallAgreementRate != 0 || skill.PerDimension[annotation.DimensionDistortion].Evaluated != 0 {
			t.Fatalf("%s skill = %+v, want no evaluated dimensions on tied votes", annotatorID, skill)
		}
	}
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	t.Parallel()

	stats := Analyze(nil)
	if stats.TotalSamples != 0 || stats.TotalComparisons != 0 {
		t.Fatalf("empty analysis = %+v, want zeroed totals", stats)
	}
	if len(stats.PerDimension) != len(annotation.Dimensions) {
		t.Fatalf("PerDimension has %d entries, want %d", len(stats.PerDimension), len(annotation.Dimensions))
	}
	if stats.Disagreements == nil {
		t.Fatal("Disagreements is nil, want empty slice")
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	t.Parallel()

	files := []*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, map[annotation.Dimension]int{annotation.DimensionVisualQuality: 5}),
			scoreResult("p1_ma", "bob", 4, nil),
			scoreResult("p2_ma", "carol", 2, nil),
		),
	}

	first := Analyze(files)
	second := Analyze(files)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Analyze() not deterministic (-first +second):\n%s", diff)
	}
}
