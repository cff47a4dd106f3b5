// internal/consistency/consistency.go
// Package consistency cross-checks pairwise comparison verdicts against
// independently collected absolute scores for the same prompt/model
// combinations and flags logical contradictions between the two.
package consistency

import (
	"sort"
	"strings"

	"github.com/mwiater/accord/internal/annotation"
)

// InconsistencyType classifies how a comparison verdict contradicts the
// score pair for the same sample and dimension.
type InconsistencyType string

const (
	// DirectionMismatch: the comparison names one side better but the scores
	// point the other way.
	DirectionMismatch InconsistencyType = "direction_mismatch"
	// TieButDiff: the comparison says the videos are equal but the scores
	// differ.
	TieButDiff InconsistencyType = "tie_but_diff"
	// DiffButTie: the comparison says one side is better but the scores are
	// exactly equal.
	DiffButTie InconsistencyType = "diff_but_tie"
)

// Inconsistency is one contradicting (sample, dimension) record, kept in
// full for drill-down.
type Inconsistency struct {
	SampleID   string                      `json:"sample_id"`
	Dimension  annotation.Dimension        `json:"dimension"`
	Comparison annotation.ComparisonResult `json:"comparison"`
	ScoreA     int                         `json:"score_a"`
	ScoreB     int                         `json:"score_b"`
	Type       InconsistencyType           `json:"type"`
}

// DimensionStats aggregates match counts for one evaluation axis.
type DimensionStats struct {
	Total         int     `json:"total"`
	HardMatches   int     `json:"hard_matches"`
	SoftMatches   int     `json:"soft_matches"`
	HardMatchRate float64 `json:"hard_match_rate"`
	SoftMatchRate float64 `json:"soft_match_rate"`
}

// Stats is the full cross-consistency report. Soft counts include hard
// matches, so soft rates are never below hard rates. All rates are 0 when
// their denominator is 0.
type Stats struct {
	TotalPairSamples   int                                     `json:"total_pair_samples"`
	MatchedPairSamples int                                     `json:"matched_pair_samples"`
	TotalComparisons   int                                     `json:"total_comparisons"`
	HardMatches        int                                     `json:"hard_matches"`
	SoftMatches        int                                     `json:"soft_matches"`
	HardMatchRate      float64                                 `json:"hard_match_rate"`
	SoftMatchRate      float64                                 `json:"soft_match_rate"`
	PerDimension       map[annotation.Dimension]DimensionStats `json:"per_dimension"`
	Inconsistencies    []Inconsistency                         `json:"inconsistencies"`
}

// Analyze cross-checks every pair-mode result against the score-mode
// results. A pair sample id must follow promptId_modelA_modelB; the two
// score records are looked up as promptId_modelA and promptId_modelB. A
// missing score record skips the whole pair sample, a missing per-dimension
// score skips just that dimension — neither is an error, both merely shrink
// the denominators. Pure function: identical inputs yield identical output.
func Analyze(pairResults, scoreResults []annotation.AnnotationResult) Stats {
	scoreIndex := indexScores(scoreResults)

	stats := Stats{
		PerDimension:    make(map[annotation.Dimension]DimensionStats, len(annotation.Dimensions)),
		Inconsistencies: []Inconsistency{},
	}
	perDim := make(map[annotation.Dimension]*DimensionStats, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		perDim[dim] = &DimensionStats{}
	}

	for _, result := range pairResults {
		if result.Mode() != annotation.ModePair {
			continue
		}
		stats.TotalPairSamples++

		promptID, modelA, modelB, ok := splitPairSampleID(result.SampleID)
		if !ok {
			continue
		}
		scoresA, okA := scoreIndex[promptID+"_"+modelA]
		scoresB, okB := scoreIndex[promptID+"_"+modelB]
		if !okA || !okB {
			continue
		}
		stats.MatchedPairSamples++

		for _, dim := range annotation.Dimensions {
			judgment, ok := result.Pair[dim]
			if !ok || !judgment.Comparison.Valid() {
				continue
			}
			scoreA, okA := scoresA[dim]
			scoreB, okB := scoresB[dim]
			if !okA || !okB {
				continue
			}

			dimStats := perDim[dim]
			dimStats.Total++
			stats.TotalComparisons++

			hard := isHardMatch(judgment.Comparison, scoreA, scoreB)
			soft := hard || (judgment.Comparison == annotation.CompareEqual && isSoftEqual(scoreA, scoreB))
			if hard {
				dimStats.HardMatches++
				stats.HardMatches++
			} else {
				stats.Inconsistencies = append(stats.Inconsistencies, Inconsistency{
					SampleID:   result.SampleID,
					Dimension:  dim,
					Comparison: judgment.Comparison,
					ScoreA:     scoreA,
					ScoreB:     scoreB,
					Type:       classify(judgment.Comparison, scoreA, scoreB),
				})
			}
			if soft {
				dimStats.SoftMatches++
				stats.SoftMatches++
			}
		}
	}

	for _, dim := range annotation.Dimensions {
		dimStats := perDim[dim]
		dimStats.HardMatchRate = ratio(float64(dimStats.HardMatches), float64(dimStats.Total))
		dimStats.SoftMatchRate = ratio(float64(dimStats.SoftMatches), float64(dimStats.Total))
		stats.PerDimension[dim] = *dimStats
	}
	stats.HardMatchRate = ratio(float64(stats.HardMatches), float64(stats.TotalComparisons))
	stats.SoftMatchRate = ratio(float64(stats.SoftMatches), float64(stats.TotalComparisons))

	sort.Slice(stats.Inconsistencies, func(i, j int) bool {
		a, b := stats.Inconsistencies[i], stats.Inconsistencies[j]
		if a.SampleID != b.SampleID {
			return a.SampleID < b.SampleID
		}
		return dimensionRank(a.Dimension) < dimensionRank(b.Dimension)
	})

	return stats
}

// indexScores builds sample_id -> dimension -> score over the score-mode
// results. The first record for a sample wins; later duplicates are ignored
// so re-uploads cannot flip an analysis.
func indexScores(scoreResults []annotation.AnnotationResult) map[string]map[annotation.Dimension]int {
	index := make(map[string]map[annotation.Dimension]int)
	for _, result := range scoreResults {
		if result.Mode() != annotation.ModeScore || result.SampleID == "" {
			continue
		}
		if _, exists := index[result.SampleID]; exists {
			continue
		}
		scores := make(map[annotation.Dimension]int, len(result.Scores))
		for dim, judgment := range result.Scores {
			scores[dim] = judgment.Score
		}
		index[result.SampleID] = scores
	}
	return index
}

// splitPairSampleID decomposes promptId_modelA_modelB. The prompt id is the
// substring before the first underscore; model B keeps any further
// underscores.
func splitPairSampleID(sampleID string) (promptID, modelA, modelB string, ok bool) {
	parts := strings.SplitN(sampleID, "_", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func isHardMatch(comparison annotation.ComparisonResult, scoreA, scoreB int) bool {
	switch comparison {
	case annotation.CompareABetter:
		return scoreA > scoreB
	case annotation.CompareBBetter:
		return scoreB > scoreA
	case annotation.CompareEqual:
		return scoreA == scoreB
	default:
		return false
	}
}

// isSoftEqual applies the lenient tolerance for an A=B verdict: scores at
// most one apart and in the same lenient severity bucket.
func isSoftEqual(scoreA, scoreB int) bool {
	diff := scoreA - scoreB
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		return false
	}
	return annotation.ScoreLevelLenient(scoreA) == annotation.ScoreLevelLenient(scoreB)
}

func classify(comparison annotation.ComparisonResult, scoreA, scoreB int) InconsistencyType {
	if comparison == annotation.CompareEqual {
		return TieButDiff
	}
	if scoreA == scoreB {
		return DiffButTie
	}
	return DirectionMismatch
}

func dimensionRank(dim annotation.Dimension) int {
	for i, known := range annotation.Dimensions {
		if dim == known {
			return i
		}
	}
	return len(annotation.Dimensions)
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
