// internal/agreement/loo.go
package agreement

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/mwiater/accord/internal/annotation"
)

// AnnotatorLOO is one annotator's leave-one-out outlier profile. Evaluated
// counts (sample, dimension) cells where the remaining annotators produced a
// usable consensus; Disagreements counts the cells where this annotator
// diverged from it.
type AnnotatorLOO struct {
	AnnotatorID      string  `json:"annotator_id"`
	Evaluated        int     `json:"evaluated"`
	Disagreements    int     `json:"disagreements"`
	DisagreementRate float64 `json:"disagreement_rate"`
}

// LOOOutlier records a single leave-one-out divergence for drill-down.
// Consensus holds the majority comparison in pair mode and the mean of the
// remaining scores in score mode.
type LOOOutlier struct {
	SampleID    string               `json:"sample_id"`
	Dimension   annotation.Dimension `json:"dimension"`
	AnnotatorID string               `json:"annotator_id"`
	Value       string               `json:"value"`
	Consensus   string               `json:"consensus"`
}

// LOOResult is the leave-one-out report for one mode. Annotators with a
// high DisagreementRate are the review candidates.
type LOOResult struct {
	Mode             annotation.Mode         `json:"mode"`
	TotalSamples     int                     `json:"total_samples"`
	NoConsensusCount int                     `json:"no_consensus_count"`
	Annotators       map[string]AnnotatorLOO `json:"annotators"`
	Outliers         []LOOOutlier            `json:"outliers"`
}

// LOOMode maps a detected collection mode to the mode the leave-one-out
// analysis runs under. Mixed collections downgrade to score mode; the
// second return reports that downgrade so callers can log it.
func LOOMode(detected annotation.Mode) (annotation.Mode, bool) {
	if detected == annotation.ModeMixed {
		return annotation.ModeScore, true
	}
	return detected, false
}

// AnalyzeLeaveOneOut removes each annotator in turn and compares their
// verdicts against the consensus of whoever remains. In pair mode the
// consensus is the strict majority of the remaining comparisons; without
// one the cell is excluded and counted under NoConsensusCount. In score
// mode the consensus is the mean of the remaining scores, which is defined
// whenever at least one other annotator scored the dimension.
func AnalyzeLeaveOneOut(groups []SampleGroup, mode annotation.Mode) LOOResult {
	result := LOOResult{
		Mode:       mode,
		Annotators: make(map[string]AnnotatorLOO),
		Outliers:   []LOOOutlier{},
	}
	totals := make(map[string]*AnnotatorLOO)

	for _, group := range groups {
		results := resultsInMode(group, mode)
		if len(results) == 0 {
			continue
		}
		result.TotalSamples++

		for _, dim := range annotation.Dimensions {
			switch mode {
			case annotation.ModePair:
				looPairDimension(&result, totals, group.SampleID, results, dim)
			case annotation.ModeScore:
				looScoreDimension(&result, totals, group.SampleID, results, dim)
			}
		}
	}

	for annotatorID, annotator := range totals {
		annotator.DisagreementRate = ratio(float64(annotator.Disagreements), float64(annotator.Evaluated))
		result.Annotators[annotatorID] = *annotator
	}

	sort.Slice(result.Outliers, func(i, j int) bool {
		a, b := result.Outliers[i], result.Outliers[j]
		if a.SampleID != b.SampleID {
			return a.SampleID < b.SampleID
		}
		if a.Dimension != b.Dimension {
			return dimensionRank(a.Dimension) < dimensionRank(b.Dimension)
		}
		return a.AnnotatorID < b.AnnotatorID
	})

	return result
}

func looPairDimension(result *LOOResult, totals map[string]*AnnotatorLOO, sampleID string, results []annotation.AnnotationResult, dim annotation.Dimension) {
	for i, held := range results {
		judgment, ok := held.Pair[dim]
		if !ok || !judgment.Comparison.Valid() {
			continue
		}
		votes := make(map[annotation.ComparisonResult]int)
		voters := 0
		for j, other := range results {
			if j == i {
				continue
			}
			if otherJudgment, okOther := other.Pair[dim]; okOther && otherJudgment.Comparison.Valid() {
				votes[otherJudgment.Comparison]++
				voters++
			}
		}
		if voters == 0 {
			continue
		}
		majority, ok := strictMajority(votes, voters)
		if !ok {
			result.NoConsensusCount++
			continue
		}
		annotator := looFor(totals, held.AnnotatorID)
		annotator.Evaluated++
		if judgment.Comparison != majority {
			annotator.Disagreements++
			result.Outliers = append(result.Outliers, LOOOutlier{
				SampleID:    sampleID,
				Dimension:   dim,
				AnnotatorID: held.AnnotatorID,
				Value:       string(judgment.Comparison),
				Consensus:   string(majority),
			})
		}
	}
}

func looScoreDimension(result *LOOResult, totals map[string]*AnnotatorLOO, sampleID string, results []annotation.AnnotationResult, dim annotation.Dimension) {
	for i, held := range results {
		judgment, ok := held.Scores[dim]
		if !ok {
			continue
		}
		remaining := make([]float64, 0, len(results)-1)
		for j, other := range results {
			if j == i {
				continue
			}
			if otherJudgment, okOther := other.Scores[dim]; okOther {
				remaining = append(remaining, float64(otherJudgment.Score))
			}
		}
		if len(remaining) == 0 {
			continue
		}
		consensus := stat.Mean(remaining, nil)
		annotator := looFor(totals, held.AnnotatorID)
		annotator.Evaluated++
		if diff := float64(judgment.Score) - consensus; diff > 1.0 || diff < -1.0 {
			annotator.Disagreements++
			result.Outliers = append(result.Outliers, LOOOutlier{
				SampleID:    sampleID,
				Dimension:   dim,
				AnnotatorID: held.AnnotatorID,
				Value:       strconv.Itoa(judgment.Score),
				Consensus:   strconv.FormatFloat(consensus, 'f', 2, 64),
			})
		}
	}
}

func resultsInMode(group SampleGroup, mode annotation.Mode) []annotation.AnnotationResult {
	results := make([]annotation.AnnotationResult, 0, len(group.Results))
	for _, result := range group.Results {
		if result.Mode() == mode {
			results = append(results, result)
		}
	}
	return results
}

func looFor(totals map[string]*AnnotatorLOO, annotatorID string) *AnnotatorLOO {
	annotator := totals[annotatorID]
	if annotator == nil {
		annotator = &AnnotatorLOO{AnnotatorID: annotatorID}
		totals[annotatorID] = annotator
	}
	return annotator
}
