// internal/qa/qa.go
// Package qa compares annotator judgments against a trusted golden reference
// set, per dimension and per annotator, in both elicitation modes. The two
// analyses share one aggregation shape so the presentation layer renders
// them identically.
package qa

import (
	"sort"

	"github.com/mwiater/accord/internal/annotation"
)

// DimensionAgreement aggregates golden-vs-annotator matches for one axis.
// For pair mode hard and soft counts coincide (there is no softer criterion
// than comparison equality); for score mode hard is exact score equality and
// soft is the level match.
type DimensionAgreement struct {
	Total         int     `json:"total"`
	HardMatches   int     `json:"hard_matches"`
	SoftMatches   int     `json:"soft_matches"`
	HardMatchRate float64 `json:"hard_match_rate"`
	SoftMatchRate float64 `json:"soft_match_rate"`
}

// AnnotatorStats aggregates one annotator's QA record across every golden
// sample they annotated.
type AnnotatorStats struct {
	AnnotatorID      string  `json:"annotator_id"`
	Total            int     `json:"total"`
	HardMatchCount   int     `json:"hard_match_count"`
	HardMatchRate    float64 `json:"hard_match_rate"`
	AvgSoftMatchRate float64 `json:"avg_soft_match_rate"`
}

// DimensionMismatch records one disagreeing axis inside a failing sample.
// Comparison fields are set in pair mode, score fields in score mode.
type DimensionMismatch struct {
	Dimension           annotation.Dimension        `json:"dimension"`
	GoldenComparison    annotation.ComparisonResult `json:"golden_comparison,omitempty"`
	AnnotatorComparison annotation.ComparisonResult `json:"annotator_comparison,omitempty"`
	GoldenScore         int                         `json:"golden_score,omitempty"`
	AnnotatorScore      int                         `json:"annotator_score,omitempty"`
	LevelMatch          bool                        `json:"level_match,omitempty"`
}

// SampleReview is one annotator result that failed the hard match, enriched
// with sample metadata when the task package supplied it.
type SampleReview struct {
	SampleID          string              `json:"sample_id"`
	AnnotatorID       string              `json:"annotator_id"`
	MatchedDimensions int                 `json:"matched_dimensions"`
	SoftMatchRate     float64             `json:"soft_match_rate"`
	Mismatches        []DimensionMismatch `json:"mismatches"`
	Prompt            string              `json:"prompt,omitempty"`
	VideoURL          string              `json:"video_url,omitempty"`
	VideoAURL         string              `json:"video_a_url,omitempty"`
	VideoBURL         string              `json:"video_b_url,omitempty"`
	GroundTruthURL    string              `json:"ground_truth_url,omitempty"`
}

// Stats is the golden-set QA report for one mode. SoftMatchRate is the
// average per-sample soft rate, not a pooled dimension count. Rates are 0
// when no samples matched the golden set.
type Stats struct {
	Mode           annotation.Mode                             `json:"mode"`
	TotalSamples   int                                         `json:"total_samples"`
	HardMatchCount int                                         `json:"hard_match_count"`
	HardMatchRate  float64                                     `json:"hard_match_rate"`
	SoftMatchRate  float64                                     `json:"soft_match_rate"`
	PerDimension   map[annotation.Dimension]DimensionAgreement `json:"per_dimension"`
	PerAnnotator   map[string]AnnotatorStats                   `json:"per_annotator"`
	FailingSamples []SampleReview                              `json:"failing_samples"`
}

// AnalyzePair runs golden-set QA over pair-mode results. An annotator result
// without a golden counterpart is skipped silently; a matched sample counts
// every dimension against the fixed five-axis denominator, so a judgment
// missing on either side scores as a mismatch rather than shrinking the
// sample's rate.
func AnalyzePair(golden, results []annotation.AnnotationResult, samples map[string]annotation.Sample) Stats {
	goldenIndex := indexBySample(golden, annotation.ModePair)
	acc := newAccumulator(annotation.ModePair)

	for _, result := range results {
		if result.Mode() != annotation.ModePair {
			continue
		}
		reference, ok := goldenIndex[result.SampleID]
		if !ok {
			continue
		}
		acc.add(result.SampleID, result.AnnotatorID, comparePairSample(reference, result), samples)
	}
	return acc.finish()
}

// AnalyzeScore runs golden-set QA over score-mode results. Hard match is
// exact score equality on all five axes; the soft rate counts level matches
// under the strict-table tolerance (adjacent scores inside none/minor).
func AnalyzeScore(golden, results []annotation.AnnotationResult, samples map[string]annotation.Sample) Stats {
	goldenIndex := indexBySample(golden, annotation.ModeScore)
	acc := newAccumulator(annotation.ModeScore)

	for _, result := range results {
		if result.Mode() != annotation.ModeScore {
			continue
		}
		reference, ok := goldenIndex[result.SampleID]
		if !ok {
			continue
		}
		acc.add(result.SampleID, result.AnnotatorID, compareScoreSample(reference, result), samples)
	}
	return acc.finish()
}

// sampleOutcome is the per-sample comparison verdict shared by both modes.
type sampleOutcome struct {
	hard       map[annotation.Dimension]bool
	soft       map[annotation.Dimension]bool
	mismatches []DimensionMismatch
}

func (o sampleOutcome) hardCount() int {
	count := 0
	for _, ok := range o.hard {
		if ok {
			count++
		}
	}
	return count
}

func (o sampleOutcome) softCount() int {
	count := 0
	for _, ok := range o.soft {
		if ok {
			count++
		}
	}
	return count
}

func comparePairSample(golden, result annotation.AnnotationResult) sampleOutcome {
	outcome := sampleOutcome{
		hard: make(map[annotation.Dimension]bool, len(annotation.Dimensions)),
		soft: make(map[annotation.Dimension]bool, len(annotation.Dimensions)),
	}
	for _, dim := range annotation.Dimensions {
		goldenJudgment, goldenOK := golden.Pair[dim]
		resultJudgment, resultOK := result.Pair[dim]
		match := goldenOK && resultOK && goldenJudgment.Comparison == resultJudgment.Comparison
		outcome.hard[dim] = match
		outcome.soft[dim] = match
		if !match {
			outcome.mismatches = append(outcome.mismatches, DimensionMismatch{
				Dimension:           dim,
				GoldenComparison:    goldenJudgment.Comparison,
				AnnotatorComparison: resultJudgment.Comparison,
			})
		}
	}
	return outcome
}

func compareScoreSample(golden, result annotation.AnnotationResult) sampleOutcome {
	outcome := sampleOutcome{
		hard: make(map[annotation.Dimension]bool, len(annotation.Dimensions)),
		soft: make(map[annotation.Dimension]bool, len(annotation.Dimensions)),
	}
	for _, dim := range annotation.Dimensions {
		goldenJudgment, goldenOK := golden.Scores[dim]
		resultJudgment, resultOK := result.Scores[dim]
		bothPresent := goldenOK && resultOK
		exact := bothPresent && goldenJudgment.Score == resultJudgment.Score
		level := bothPresent && annotation.IsSoftScoreMatch(goldenJudgment.Score, resultJudgment.Score)
		outcome.hard[dim] = exact
		outcome.soft[dim] = level
		if !exact {
			outcome.mismatches = append(outcome.mismatches, DimensionMismatch{
				Dimension:      dim,
				GoldenScore:    goldenJudgment.Score,
				AnnotatorScore: resultJudgment.Score,
				LevelMatch:     level,
			})
		}
	}
	return outcome
}

// accumulator folds per-sample outcomes into the aggregate tables.
type accumulator struct {
	mode         annotation.Mode
	totalSamples int
	hardMatches  int
	softRateSum  float64
	perDim       map[annotation.Dimension]*DimensionAgreement
	perAnnotator map[string]*annotatorTotals
	failing      []SampleReview
}

type annotatorTotals struct {
	total       int
	hardMatches int
	softRateSum float64
}

func newAccumulator(mode annotation.Mode) *accumulator {
	perDim := make(map[annotation.Dimension]*DimensionAgreement, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		perDim[dim] = &DimensionAgreement{}
	}
	return &accumulator{
		mode:         mode,
		perDim:       perDim,
		perAnnotator: make(map[string]*annotatorTotals),
	}
}

func (a *accumulator) add(sampleID, annotatorID string, outcome sampleOutcome, samples map[string]annotation.Sample) {
	if annotatorID == "" {
		annotatorID = annotation.UnknownAnnotator
	}

	dimensionCount := len(annotation.Dimensions)
	hardMatch := outcome.hardCount() == dimensionCount
	softRate := ratio(float64(outcome.softCount()), float64(dimensionCount))

	a.totalSamples++
	a.softRateSum += softRate
	if hardMatch {
		a.hardMatches++
	}

	for _, dim := range annotation.Dimensions {
		dimAgreement := a.perDim[dim]
		dimAgreement.Total++
		if outcome.hard[dim] {
			dimAgreement.HardMatches++
		}
		if outcome.soft[dim] {
			dimAgreement.SoftMatches++
		}
	}

	totals := a.perAnnotator[annotatorID]
	if totals == nil {
		totals = &annotatorTotals{}
		a.perAnnotator[annotatorID] = totals
	}
	totals.total++
	totals.softRateSum += softRate
	if hardMatch {
		totals.hardMatches++
		return
	}

	review := SampleReview{
		SampleID:          sampleID,
		AnnotatorID:       annotatorID,
		MatchedDimensions: outcome.hardCount(),
		SoftMatchRate:     softRate,
		Mismatches:        outcome.mismatches,
	}
	if sample, ok := samples[sampleID]; ok {
		review.Prompt = sample.Prompt
		review.VideoURL = sample.VideoURL
		review.VideoAURL = sample.VideoAURL
		review.VideoBURL = sample.VideoBURL
		review.GroundTruthURL = sample.GroundTruthURL
	}
	a.failing = append(a.failing, review)
}

func (a *accumulator) finish() Stats {
	stats := Stats{
		Mode:           a.mode,
		TotalSamples:   a.totalSamples,
		HardMatchCount: a.hardMatches,
		HardMatchRate:  ratio(float64(a.hardMatches), float64(a.totalSamples)),
		SoftMatchRate:  ratio(a.softRateSum, float64(a.totalSamples)),
		PerDimension:   make(map[annotation.Dimension]DimensionAgreement, len(annotation.Dimensions)),
		PerAnnotator:   make(map[string]AnnotatorStats, len(a.perAnnotator)),
		FailingSamples: a.failing,
	}
	if stats.FailingSamples == nil {
		stats.FailingSamples = []SampleReview{}
	}

	for _, dim := range annotation.Dimensions {
		agreement := a.perDim[dim]
		agreement.HardMatchRate = ratio(float64(agreement.HardMatches), float64(agreement.Total))
		agreement.SoftMatchRate = ratio(float64(agreement.SoftMatches), float64(agreement.Total))
		stats.PerDimension[dim] = *agreement
	}

	for annotatorID, totals := range a.perAnnotator {
		stats.PerAnnotator[annotatorID] = AnnotatorStats{
			AnnotatorID:      annotatorID,
			Total:            totals.total,
			HardMatchCount:   totals.hardMatches,
			HardMatchRate:    ratio(float64(totals.hardMatches), float64(totals.total)),
			AvgSoftMatchRate: ratio(totals.softRateSum, float64(totals.total)),
		}
	}

	sort.Slice(stats.FailingSamples, func(i, j int) bool {
		a, b := stats.FailingSamples[i], stats.FailingSamples[j]
		if a.SampleID != b.SampleID {
			return a.SampleID < b.SampleID
		}
		return a.AnnotatorID < b.AnnotatorID
	})

	return stats
}

// indexBySample maps sample_id to the golden result, keeping the first
// record per sample and dropping golden entries whose mode does not match
// the analysis.
func indexBySample(golden []annotation.AnnotationResult, mode annotation.Mode) map[string]annotation.AnnotationResult {
	index := make(map[string]annotation.AnnotationResult, len(golden))
	for _, result := range golden {
		if result.Mode() != mode || result.SampleID == "" {
			continue
		}
		if _, exists := index[result.SampleID]; exists {
			continue
		}
		index[result.SampleID] = result
	}
	return index
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
