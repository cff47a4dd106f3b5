// internal/cli/render.go
package accord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mwiater/accord/internal/agreement"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/consistency"
	"github.com/mwiater/accord/internal/qa"
	"github.com/mwiater/accord/internal/util"
)

var (
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimensionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	goodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var noticeAccent = color.New(color.FgYellow).SprintFunc()

// rateText renders a 0..1 rate as a colored percentage: green at or above
// 80%, yellow at or above 50%, red below.
func rateText(rate float64) string {
	text := util.FormatPercent(rate)
	switch {
	case rate >= 0.8:
		return goodStyle.Render(text)
	case rate >= 0.5:
		return warnStyle.Render(text)
	default:
		return badStyle.Render(text)
	}
}

func renderAgreementSummary(stats agreement.Stats) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Pairwise agreement (%s mode)", stats.Mode)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %d (%d multi-annotator)\n",
		labelStyle.Render("Samples:     "), stats.TotalSamples, stats.MultiAnnotatorSamples))
	b.WriteString(fmt.Sprintf("  %s %d\n",
		labelStyle.Render("Comparisons: "), stats.TotalComparisons))
	b.WriteString(fmt.Sprintf("  %s %s hard / %s soft\n",
		labelStyle.Render("Agreement:   "), rateText(stats.HardAgreementRate), rateText(stats.SoftAgreementRate)))

	for _, dim := range annotation.Dimensions {
		d := stats.PerDimension[dim]
		b.WriteString(fmt.Sprintf("    %s %s hard / %s soft (%d comparisons)\n",
			dimensionStyle.Render(fmt.Sprintf("%-22s", dim)),
			rateText(d.HardAgreementRate), rateText(d.SoftAgreementRate), d.Comparisons))
	}

	if len(stats.Annotators) > 0 {
		b.WriteString(labelStyle.Render("  Annotators vs consensus:"))
		b.WriteString("\n")
		for _, id := range sortedAnnotatorIDs(stats.Annotators) {
			skill := stats.Annotators[id]
			b.WriteString(fmt.Sprintf("    %-16s %3d samples   %s\n",
				id, skill.SamplesAnnotated, rateText(skill.OverallAgreementRate)))
		}
	}

	if len(stats.Disagreements) > 0 {
		b.WriteString(fmt.Sprintf("  %s %d (see JSON output for detail)\n",
			labelStyle.Render("Disagreements:"), len(stats.Disagreements)))
	}
	return b.String()
}

func renderLOOSummary(result agreement.LOOResult) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Leave-one-out consensus check (%s mode)", result.Mode)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Samples:             "), result.TotalSamples))
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Cells w/o consensus: "), result.NoConsensusCount))

	ids := make([]string, 0, len(result.Annotators))
	for id := range result.Annotators {
		ids = append(ids, id)
	}
	// Worst offenders first.
	sort.Slice(ids, func(i, j int) bool {
		a, b := result.Annotators[ids[i]], result.Annotators[ids[j]]
		if a.DisagreementRate != b.DisagreementRate {
			return a.DisagreementRate > b.DisagreementRate
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		annotator := result.Annotators[id]
		b.WriteString(fmt.Sprintf("    %-16s %3d/%3d cells against consensus (%s)\n",
			id, annotator.Disagreements, annotator.Evaluated,
			util.FormatPercent(annotator.DisagreementRate)))
	}

	if len(result.Outliers) > 0 {
		b.WriteString(fmt.Sprintf("  %s %d (see JSON output for detail)\n",
			labelStyle.Render("Outlier judgments:"), len(result.Outliers)))
	}
	return b.String()
}

func renderQASummary(stats qa.Stats) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Golden-set QA (%s mode)", stats.Mode)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Graded samples:"), stats.TotalSamples))
	b.WriteString(fmt.Sprintf("  %s %s hard / %s soft\n",
		labelStyle.Render("Match rate:    "), rateText(stats.HardMatchRate), rateText(stats.SoftMatchRate)))

	for _, dim := range annotation.Dimensions {
		d := stats.PerDimension[dim]
		b.WriteString(fmt.Sprintf("    %s %s hard / %s soft (%d graded)\n",
			dimensionStyle.Render(fmt.Sprintf("%-22s", dim)),
			rateText(d.HardMatchRate), rateText(d.SoftMatchRate), d.Total))
	}

	if len(stats.PerAnnotator) > 0 {
		b.WriteString(labelStyle.Render("  Annotators vs golden:"))
		b.WriteString("\n")
		ids := make([]string, 0, len(stats.PerAnnotator))
		for id := range stats.PerAnnotator {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			annotator := stats.PerAnnotator[id]
			b.WriteString(fmt.Sprintf("    %-16s %3d graded   %s hard / %s soft\n",
				id, annotator.Total, rateText(annotator.HardMatchRate), rateText(annotator.AvgSoftMatchRate)))
		}
	}

	if len(stats.FailingSamples) > 0 {
		b.WriteString(fmt.Sprintf("  %s %d (see JSON output for review queue)\n",
			labelStyle.Render("Failing samples:"), len(stats.FailingSamples)))
	}
	return b.String()
}

func renderConsistencySummary(stats consistency.Stats) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Pairwise vs score consistency"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %d of %d pair samples matched to scores\n",
		labelStyle.Render("Coverage:   "), stats.MatchedPairSamples, stats.TotalPairSamples))
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Comparisons:"), stats.TotalComparisons))
	b.WriteString(fmt.Sprintf("  %s %s hard / %s soft\n",
		labelStyle.Render("Consistency:"), rateText(stats.HardMatchRate), rateText(stats.SoftMatchRate)))

	for _, dim := range annotation.Dimensions {
		d := stats.PerDimension[dim]
		b.WriteString(fmt.Sprintf("    %s %s hard / %s soft (%d comparisons)\n",
			dimensionStyle.Render(fmt.Sprintf("%-22s", dim)),
			rateText(d.HardMatchRate), rateText(d.SoftMatchRate), d.Total))
	}

	if len(stats.Inconsistencies) > 0 {
		b.WriteString(fmt.Sprintf("  %s %d (see JSON output for detail)\n",
			labelStyle.Render("Inconsistencies:"), len(stats.Inconsistencies)))
	}
	return b.String()
}

func sortedAnnotatorIDs(annotators map[string]agreement.AnnotatorSkill) []string {
	ids := make([]string, 0, len(annotators))
	for id := range annotators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
