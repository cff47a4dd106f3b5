// internal/agreement/agreement.go
// Package agreement measures how well multiple annotators agree with each
// other on an overlapping sample set, with no golden reference involved. It
// produces pairwise agreement rates, classified disagreements for
// drill-down, per-annotator skill metrics against the group consensus, and
// the leave-one-out outlier analysis in loo.go.
package agreement

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/mwiater/accord/internal/annotation"
)

// DisagreementKind classifies an annotator-vs-annotator conflict, mirroring
// the pair-vs-score inconsistency taxonomy one level up.
type DisagreementKind string

const (
	// KindDirectionConflict: the two annotators picked opposite winners.
	KindDirectionConflict DisagreementKind = "direction_conflict"
	// KindTieConflict: one annotator called a tie, the other a winner.
	KindTieConflict DisagreementKind = "tie_conflict"
	// KindScoreAdjacent: scores differ but stay within the soft tolerance.
	KindScoreAdjacent DisagreementKind = "score_adjacent"
	// KindScoreLevelConflict: scores land in conflicting severity buckets.
	KindScoreLevelConflict DisagreementKind = "score_level_conflict"
)

// Disagreement is one conflicting (sample, dimension, annotator pair)
// record. Values are comparison strings in pair mode and decimal scores in
// score mode.
type Disagreement struct {
	SampleID   string               `json:"sample_id"`
	Dimension  annotation.Dimension `json:"dimension"`
	AnnotatorA string               `json:"annotator_a"`
	AnnotatorB string               `json:"annotator_b"`
	ValueA     string               `json:"value_a"`
	ValueB     string               `json:"value_b"`
	Kind       DisagreementKind     `json:"kind"`
}

// DimensionAgreement aggregates pairwise agreement for one axis. Soft
// counts include hard agreements.
type DimensionAgreement struct {
	Comparisons       int     `json:"comparisons"`
	HardAgreements    int     `json:"hard_agreements"`
	SoftAgreements    int     `json:"soft_agreements"`
	HardAgreementRate float64 `json:"hard_agreement_rate"`
	SoftAgreementRate float64 `json:"soft_agreement_rate"`
}

// DimensionSkill is one annotator's agreement with the group consensus on
// one axis. Evaluated counts only sample-dimensions where a consensus
// existed among at least two annotators.
type DimensionSkill struct {
	Evaluated     int     `json:"evaluated"`
	Agreements    int     `json:"agreements"`
	AgreementRate float64 `json:"agreement_rate"`
}

// AnnotatorSkill ranks one annotator's reliability across the whole upload.
type AnnotatorSkill struct {
	AnnotatorID          string                                  `json:"annotator_id"`
	SamplesAnnotated     int                                     `json:"samples_annotated"`
	PerDimension         map[annotation.Dimension]DimensionSkill `json:"per_dimension"`
	OverallAgreementRate float64                                 `json:"overall_agreement_rate"`
}

// Stats is the full inter-annotator agreement report. In mixed mode pair
// and score results are grouped together but compared only within their own
// mode; no cross-mode comparison is ever made.
type Stats struct {
	Mode                  annotation.Mode                             `json:"mode"`
	TotalSamples          int                                         `json:"total_samples"`
	MultiAnnotatorSamples int                                         `json:"multi_annotator_samples"`
	TotalComparisons      int                                         `json:"total_comparisons"`
	HardAgreements        int                                         `json:"hard_agreements"`
	SoftAgreements        int                                         `json:"soft_agreements"`
	HardAgreementRate     float64                                     `json:"hard_agreement_rate"`
	SoftAgreementRate     float64                                     `json:"soft_agreement_rate"`
	PerDimension          map[annotation.Dimension]DimensionAgreement `json:"per_dimension"`
	Annotators            map[string]AnnotatorSkill                   `json:"annotators"`
	Disagreements         []Disagreement                              `json:"disagreements"`
}

// SampleGroup carries every annotator's verdict for one sample, one result
// per annotator, ordered by annotator id.
type SampleGroup struct {
	SampleID string
	Results  []annotation.AnnotationResult
}

// GroupBySample pools the results of every file and groups them by
// sample_id. Within a group the first result per annotator wins; groups
// come back sorted by sample id so downstream output is deterministic.
func GroupBySample(files []*annotation.ResultFile) []SampleGroup {
	byID := make(map[string]map[string]annotation.AnnotationResult)
	for _, result := range annotation.PoolResults(files) {
		if result.SampleID == "" || result.Mode() == annotation.ModeUnknown {
			continue
		}
		annotators := byID[result.SampleID]
		if annotators == nil {
			annotators = make(map[string]annotation.AnnotationResult)
			byID[result.SampleID] = annotators
		}
		if _, exists := annotators[result.AnnotatorID]; exists {
			continue
		}
		annotators[result.AnnotatorID] = result
	}

	groups := make([]SampleGroup, 0, len(byID))
	for sampleID, annotators := range byID {
		ids := make([]string, 0, len(annotators))
		for id := range annotators {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		results := make([]annotation.AnnotationResult, 0, len(ids))
		for _, id := range ids {
			results = append(results, annotators[id])
		}
		groups = append(groups, SampleGroup{SampleID: sampleID, Results: results})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].SampleID < groups[j].SampleID })
	return groups
}

// Analyze groups the uploaded files by sample and computes the full
// agreement report. The collection mode is auto-detected; partial overlap is
// fine (agreement is computed over whatever intersection exists) and a
// sample seen by only one annotator still counts toward that annotator's
// totals.
func Analyze(files []*annotation.ResultFile) Stats {
	return AnalyzeGroups(GroupBySample(files), annotation.DetectMode(files))
}

// AnalyzeGroups computes the agreement report over pre-grouped samples.
func AnalyzeGroups(groups []SampleGroup, mode annotation.Mode) Stats {
	stats := Stats{
		Mode:          mode,
		PerDimension:  make(map[annotation.Dimension]DimensionAgreement, len(annotation.Dimensions)),
		Annotators:    make(map[string]AnnotatorSkill),
		Disagreements: []Disagreement{},
	}
	perDim := make(map[annotation.Dimension]*DimensionAgreement, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		perDim[dim] = &DimensionAgreement{}
	}
	skills := make(map[string]*skillTotals)

	for _, group := range groups {
		stats.TotalSamples++
		if len(group.Results) > 1 {
			stats.MultiAnnotatorSamples++
		}
		for _, result := range group.Results {
			totals := skillFor(skills, result.AnnotatorID)
			totals.samples++
		}

		comparePairwise(&stats, perDim, group)
		scoreConsensus(skills, group)
		pairConsensus(skills, group)
	}

	for _, dim := range annotation.Dimensions {
		agreement := perDim[dim]
		agreement.HardAgreementRate = ratio(float64(agreement.HardAgreements), float64(agreement.Comparisons))
		agreement.SoftAgreementRate = ratio(float64(agreement.SoftAgreements), float64(agreement.Comparisons))
		stats.PerDimension[dim] = *agreement
	}
	stats.HardAgreementRate = ratio(float64(stats.HardAgreements), float64(stats.TotalComparisons))
	stats.SoftAgreementRate = ratio(float64(stats.SoftAgreements), float64(stats.TotalComparisons))

	for annotatorID, totals := range skills {
		stats.Annotators[annotatorID] = totals.finish(annotatorID)
	}

	sort.Slice(stats.Disagreements, func(i, j int) bool {
		a, b := stats.Disagreements[i], stats.Disagreements[j]
		if a.SampleID != b.SampleID {
			return a.SampleID < b.SampleID
		}
		if a.Dimension != b.Dimension {
			return dimensionRank(a.Dimension) < dimensionRank(b.Dimension)
		}
		if a.AnnotatorA != b.AnnotatorA {
			return a.AnnotatorA < b.AnnotatorA
		}
		return a.AnnotatorB < b.AnnotatorB
	})

	return stats
}

// comparePairwise walks every annotator pair that shares a judgment on a
// dimension and tallies hard/soft agreement. Pair and score results are
// compared strictly within their own mode.
func comparePairwise(stats *Stats, perDim map[annotation.Dimension]*DimensionAgreement, group SampleGroup) {
	for i := 0; i < len(group.Results); i++ {
		for j := i + 1; j < len(group.Results); j++ {
			left, right := group.Results[i], group.Results[j]
			if left.Mode() != right.Mode() {
				continue
			}
			for _, dim := range annotation.Dimensions {
				switch left.Mode() {
				case annotation.ModePair:
					leftJudgment, leftOK := left.Pair[dim]
					rightJudgment, rightOK := right.Pair[dim]
					if !leftOK || !rightOK || !leftJudgment.Comparison.Valid() || !rightJudgment.Comparison.Valid() {
						continue
					}
					tally(stats, perDim, dim,
						leftJudgment.Comparison == rightJudgment.Comparison,
						leftJudgment.Comparison == rightJudgment.Comparison)
					if leftJudgment.Comparison != rightJudgment.Comparison {
						stats.Disagreements = append(stats.Disagreements, Disagreement{
							SampleID:   group.SampleID,
							Dimension:  dim,
							AnnotatorA: left.AnnotatorID,
							AnnotatorB: right.AnnotatorID,
							ValueA:     string(leftJudgment.Comparison),
							ValueB:     string(rightJudgment.Comparison),
							Kind:       classifyPairConflict(leftJudgment.Comparison, rightJudgment.Comparison),
						})
					}
				case annotation.ModeScore:
					leftJudgment, leftOK := left.Scores[dim]
					rightJudgment, rightOK := right.Scores[dim]
					if !leftOK || !rightOK {
						continue
					}
					hard := leftJudgment.Score == rightJudgment.Score
					soft := annotation.IsSoftScoreMatch(leftJudgment.Score, rightJudgment.Score)
					tally(stats, perDim, dim, hard, soft)
					if !hard {
						kind := KindScoreLevelConflict
						if soft {
							kind = KindScoreAdjacent
						}
						stats.Disagreements = append(stats.Disagreements, Disagreement{
							SampleID:   group.SampleID,
							Dimension:  dim,
							AnnotatorA: left.AnnotatorID,
							AnnotatorB: right.AnnotatorID,
							ValueA:     strconv.Itoa(leftJudgment.Score),
							ValueB:     strconv.Itoa(rightJudgment.Score),
							Kind:       kind,
						})
					}
				}
			}
		}
	}
}

func tally(stats *Stats, perDim map[annotation.Dimension]*DimensionAgreement, dim annotation.Dimension, hard, soft bool) {
	agreement := perDim[dim]
	agreement.Comparisons++
	stats.TotalComparisons++
	if hard {
		agreement.HardAgreements++
		stats.HardAgreements++
	}
	if soft {
		agreement.SoftAgreements++
		stats.SoftAgreements++
	}
}

func classifyPairConflict(a, b annotation.ComparisonResult) DisagreementKind {
	if a == annotation.CompareEqual || b == annotation.CompareEqual {
		return KindTieConflict
	}
	return KindDirectionConflict
}

// skillTotals accumulates consensus agreement per annotator.
type skillTotals struct {
	samples int
	perDim  map[annotation.Dimension]*DimensionSkill
}

func skillFor(skills map[string]*skillTotals, annotatorID string) *skillTotals {
	totals := skills[annotatorID]
	if totals == nil {
		perDim := make(map[annotation.Dimension]*DimensionSkill, len(annotation.Dimensions))
		for _, dim := range annotation.Dimensions {
			perDim[dim] = &DimensionSkill{}
		}
		totals = &skillTotals{perDim: perDim}
		skills[annotatorID] = totals
	}
	return totals
}

func (s *skillTotals) finish(annotatorID string) AnnotatorSkill {
	skill := AnnotatorSkill{
		AnnotatorID:      annotatorID,
		SamplesAnnotated: s.samples,
		PerDimension:     make(map[annotation.Dimension]DimensionSkill, len(annotation.Dimensions)),
	}
	evaluated, agreements := 0, 0
	for _, dim := range annotation.Dimensions {
		dimSkill := s.perDim[dim]
		dimSkill.AgreementRate = ratio(float64(dimSkill.Agreements), float64(dimSkill.Evaluated))
		skill.PerDimension[dim] = *dimSkill
		evaluated += dimSkill.Evaluated
		agreements += dimSkill.Agreements
	}
	skill.OverallAgreementRate = ratio(float64(agreements), float64(evaluated))
	return skill
}

// pairConsensus scores each pair-mode annotator against the strict-majority
// comparison of the whole group. A dimension without a strict majority, or
// judged by fewer than two annotators, is skipped for everyone.
func pairConsensus(skills map[string]*skillTotals, group SampleGroup) {
	for _, dim := range annotation.Dimensions {
		votes := make(map[annotation.ComparisonResult]int)
		voters := 0
		for _, result := range group.Results {
			if result.Mode() != annotation.ModePair {
				continue
			}
			if judgment, ok := result.Pair[dim]; ok && judgment.Comparison.Valid() {
				votes[judgment.Comparison]++
				voters++
			}
		}
		if voters < 2 {
			continue
		}
		majority, ok := strictMajority(votes, voters)
		if !ok {
			continue
		}
		for _, result := range group.Results {
			if result.Mode() != annotation.ModePair {
				continue
			}
			judgment, okJudgment := result.Pair[dim]
			if !okJudgment || !judgment.Comparison.Valid() {
				continue
			}
			dimSkill := skillFor(skills, result.AnnotatorID).perDim[dim]
			dimSkill.Evaluated++
			if judgment.Comparison == majority {
				dimSkill.Agreements++
			}
		}
	}
}

// scoreConsensus scores each score-mode annotator against the group mean.
// An annotator agrees when their score sits within one point of the mean of
// everyone who scored the dimension.
func scoreConsensus(skills map[string]*skillTotals, group SampleGroup) {
	for _, dim := range annotation.Dimensions {
		values := make([]float64, 0, len(group.Results))
		for _, result := range group.Results {
			if result.Mode() != annotation.ModeScore {
				continue
			}
			if judgment, ok := result.Scores[dim]; ok {
				values = append(values, float64(judgment.Score))
			}
		}
		if len(values) < 2 {
			continue
		}
		consensus := stat.Mean(values, nil)
		for _, result := range group.Results {
			if result.Mode() != annotation.ModeScore {
				continue
			}
			judgment, ok := result.Scores[dim]
			if !ok {
				continue
			}
			dimSkill := skillFor(skills, result.AnnotatorID).perDim[dim]
			dimSkill.Evaluated++
			if diff := float64(judgment.Score) - consensus; diff <= 1.0 && diff >= -1.0 {
				dimSkill.Agreements++
			}
		}
	}
}

func strictMajority(votes map[annotation.ComparisonResult]int, total int) (annotation.ComparisonResult, bool) {
	for comparison, count := range votes {
		if count*2 > total {
			return comparison, true
		}
	}
	return "", false
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
