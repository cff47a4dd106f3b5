// internal/agreement/loo_test.go
package agreement

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwiater/accord/internal/annotation"
)

func TestLOOMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		detected       annotation.Mode
		want           annotation.Mode
		wantDowngraded bool
	}{
		{name: "pair stays pair", detected: annotation.ModePair, want: annotation.ModePair},
		{name: "score stays score", detected: annotation.ModeScore, want: annotation.ModeScore},
		{name: "mixed downgrades to score", detected: annotation.ModeMixed, want: annotation.ModeScore, wantDowngraded: true},
		{name: "unknown passes through", detected: annotation.ModeUnknown, want: annotation.ModeUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, downgraded := LOOMode(tt.detected)
			if got != tt.want || downgraded != tt.wantDowngraded {
				t.Fatalf("LOOMode(%q) = %q, %v; want %q, %v", tt.detected, got, downgraded, tt.want, tt.wantDowngraded)
			}
		})
	}
}

func TestAnalyzeLeaveOneOutScoreOutlier(t *testing.T) {
	t.Parallel()

	groups := GroupBySample([]*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, nil),
			scoreResult("p1_ma", "bob", 5, nil),
			scoreResult("p1_ma", "carol", 1, nil),
		),
	})

	result := AnalyzeLeaveOneOut(groups, annotation.ModeScore)
	if result.TotalSamples != 1 {
		t.Fatalf("TotalSamples = %d, want 1", result.TotalSamples)
	}

	// Carol's 1 sits 3.5 below the remaining mean of 4.5 on every
	// dimension; alice and bob stay within a point of their reduced means.
	carol := result.Annotators["carol"]
	if carol.Evaluated != 5 || carol.Disagreements != 5 || carol.DisagreementRate != 1.0 {
		t.Fatalf("carol = %+v, want 5/5 disagreements", carol)
	}
	// Alice's mean without her is (5+1)/2 = 3.0, one point from her 4.
	alice := result.Annotators["alice"]
	if alice.Evaluated != 5 || alice.Disagreements != 0 {
		t.Fatalf("alice = %+v, want 5 evaluated with no disagreements", alice)
	}
	// Bob's mean without him is (4+1)/2 = 2.5, 2.5 from his 5.
	bob := result.Annotators["bob"]
	if bob.Evaluated != 5 || bob.Disagreements != 5 {
		t.Fatalf("bob = %+v, want 5/5 disagreements", bob)
	}

	if len(result.Outliers) != 10 {
		t.Fatalf("got %d outliers, want 10", len(result.Outliers))
	}
	first := result.Outliers[0]
	if first.Dimension != annotation.DimensionTextConsistency || first.AnnotatorID != "bob" {
		t.Fatalf("first outlier = %+v, want bob on text_consistency", first)
	}
	if first.Value != "5" || first.Consensus != "2.50" {
		t.Fatalf("first outlier values = %q vs consensus %q, want 5 vs 2.50", first.Value, first.Consensus)
	}
}

func TestAnalyzeLeaveOneOutSingleRemaining(t *testing.T) {
	t.Parallel()

	// With two annotators the reduced consensus is just the other
	// annotator's score, which is still a defined mean.
	groups := GroupBySample([]*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, nil),
			scoreResult("p1_ma", "bob", 2, nil),
		),
	})

	result := AnalyzeLeaveOneOut(groups, annotation.ModeScore)
	for _, annotatorID := range []string{"alice", "bob"} {
		annotator := result.Annotators[annotatorID]
		if annotator.Evaluated != 5 || annotator.Disagreements != 5 {
			t.Fatalf("%s = %+v, want evaluated against the single remaining score", annotatorID, annotator)
		}
	}
	if result.NoConsensusCount != 0 {
		t.Fatalf("NoConsensusCount = %d, want 0", result.NoConsensusCount)
	}
}

func TestAnalyzeLeaveOneOutPairMajority(t *testing.T) {
	t.Parallel()

	groups := GroupBySample([]*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "alice", annotation.CompareEqual, nil),
			pairResult("p1_ma_mb", "bob", annotation.CompareEqual, nil),
			pairResult("p1_ma_mb", "carol", annotation.CompareABetter, nil),
		),
	})

	result := AnalyzeLeaveOneOut(groups, annotation.ModePair)

	// Holding carol out leaves a 2-0 majority she conflicts with. Holding
	// alice or bob out leaves a 1-1 split with no strict majority.
	carol := result.Annotators["carol"]
	if carol.Evaluated != 5 || carol.Disagreements != 5 {
		t.Fatalf("carol = %+v, want 5/5 disagreements against the majority", carol)
	}
	if _, ok := result.Annotators["alice"]; ok {
		t.Fatal("alice was evaluated despite having no reduced consensus")
	}
	if result.NoConsensusCount != 10 {
		t.Fatalf("NoConsensusCount = %d, want 10 (alice and bob across 5 dimensions)", result.NoConsensusCount)
	}
	if len(result.Outliers) != 5 {
		t.Fatalf("got %d outliers, want 5", len(result.Outliers))
	}
	if got := result.Outliers[0].Consensus; got != string(annotation.CompareEqual) {
		t.Fatalf("outlier consensus = %q, want %q", got, annotation.CompareEqual)
	}
}

func TestAnalyzeLeaveOneOutEvenSplitExcluded(t *testing.T) {
	t.Parallel()

	groups := GroupBySample([]*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "alice", annotation.CompareABetter, nil),
			pairResult("p1_ma_mb", "bob", annotation.CompareEqual, nil),
			pairResult("p1_ma_mb", "carol", annotation.CompareBBetter, nil),
		),
	})

	result := AnalyzeLeaveOneOut(groups, annotation.ModePair)
	if len(result.Annotators) != 0 {
		t.Fatalf("Annotators = %+v, want none evaluated on a 1-1-1 split", result.Annotators)
	}
	if result.NoConsensusCount != 15 {
		t.Fatalf("NoConsensusCount = %d, want 15", result.NoConsensusCount)
	}
	if result.TotalSamples != 1 {
		t.Fatalf("TotalSamples = %d, want 1 (sample still seen)", result.TotalSamples)
	}
}

func TestAnalyzeLeaveOneOutIgnoresOtherMode(t *testing.T) {
	t.Parallel()

	groups := GroupBySample([]*annotation.ResultFile{
		resultFile(annotation.ModePair,
			pairResult("p1_ma_mb", "alice", annotation.CompareEqual, nil),
		),
		resultFile(annotation.ModeScore,
			scoreResult("p2_ma", "bob", 4, nil),
			scoreResult("p2_ma", "carol", 4, nil),
		),
	})

	result := AnalyzeLeaveOneOut(groups, annotation.ModeScore)
	if result.TotalSamples != 1 {
		t.Fatalf("TotalSamples = %d, want 1 (pair-only sample skipped)", result.TotalSamples)
	}
	if _, ok := result.Annotators["alice"]; ok {
		t.Fatal("pair-mode annotator leaked into a score-mode analysis")
	}
}

func TestAnalyzeLeaveOneOutIdempotent(t *testing.T) {
	t.Parallel()

	groups := GroupBySample([]*annotation.ResultFile{
		resultFile(annotation.ModeScore,
			scoreResult("p1_ma", "alice", 4, nil),
			scoreResult("p1_ma", "bob", 5, nil),
			scoreResult("p1_ma", "carol", 1, nil),
		),
	})

	first := AnalyzeLeaveOneOut(groups, annotation.ModeScore)
	second := AnalyzeLeaveOneOut(groups, annotation.ModeScore)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("AnalyzeLeaveOneOut() not deterministic (-first +second):\n%s", diff)
	}
}
