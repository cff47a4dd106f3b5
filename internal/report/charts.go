// internal/report/charts.go
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/mwiater/accord/internal/agreement"
	"github.com/mwiater/accord/internal/annotation"
)

// RenderCharts writes a go-echarts page for the bundled analyses. It is a
// lighter companion to the dashboard meant for quick visual triage; nil
// sections are skipped.
func RenderCharts(w io.Writer, summary Summary) error {
	page := components.NewPage()
	page.PageTitle = "accord charts"

	if summary.Agreement != nil {
		page.AddCharts(dimensionAgreementChart(summary.Agreement))
		if len(summary.Agreement.Annotators) > 0 {
			page.AddCharts(annotatorSkillChart(summary.Agreement))
		}
	}
	if summary.LeaveOneOut != nil && len(summary.LeaveOneOut.Annotators) > 0 {
		page.AddCharts(looDisagreementChart(summary.LeaveOneOut))
	}
	if summary.QA != nil {
		page.AddCharts(goldenMatchChart(summary))
	}

	return page.Render(w)
}

// dimensionAgreementChart plots hard and soft pairwise agreement per axis.
func dimensionAgreementChart(stats *agreement.Stats) *charts.Bar {
	labels := make([]string, 0, len(annotation.Dimensions))
	hard := make([]opts.BarData, 0, len(annotation.Dimensions))
	soft := make([]opts.BarData, 0, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		dimension := stats.PerDimension[dim]
		labels = append(labels, string(dim))
		hard = append(hard, opts.BarData{Value: round1(dimension.HardAgreementRate * 100)})
		soft = append(soft, opts.BarData{Value: round1(dimension.SoftAgreementRate * 100)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-Dimension Agreement",
			Subtitle: fmt.Sprintf("%d comparisons across %d samples", stats.TotalComparisons, stats.TotalSamples),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Max: 100}),
	)
	bar.SetXAxis(labels).
		AddSeries("hard", hard).
		AddSeries("soft", soft,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// annotatorSkillChart scatters annotation volume against consensus
// agreement so low-volume high-disagreement annotators stand out. The
// median agreement across annotators anchors the subtitle.
func annotatorSkillChart(stats *agreement.Stats) *charts.Scatter {
	ids := make([]string, 0, len(stats.Annotators))
	for id := range stats.Annotators {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data := make([]opts.ScatterData, 0, len(ids))
	rates := make([]float64, 0, len(ids))
	for _, id := range ids {
		skill := stats.Annotators[id]
		data = append(data, opts.ScatterData{
			Name:  id,
			Value: []interface{}{skill.SamplesAnnotated, round1(skill.OverallAgreementRate * 100)},
		})
		rates = append(rates, skill.OverallAgreementRate)
	}
	sort.Float64s(rates)
	median := stat.Quantile(0.5, stat.Empirical, rates, nil)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Annotator Skill",
			Subtitle: fmt.Sprintf("median consensus agreement %.1f%%", median*100),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "samples annotated"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "agreement %", Max: 100}),
	)
	scatter.AddSeries("annotators", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	return scatter
}

// looDisagreementChart ranks annotators by leave-one-out disagreement.
func looDisagreementChart(result *agreement.LOOResult) *charts.Bar {
	ids := make([]string, 0, len(result.Annotators))
	for id := range result.Annotators {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		left, right := result.Annotators[ids[i]], result.Annotators[ids[j]]
		if left.DisagreementRate != right.DisagreementRate {
			return left.DisagreementRate > right.DisagreementRate
		}
		return ids[i] < ids[j]
	})

	data := make([]opts.BarData, 0, len(ids))
	for _, id := range ids {
		data = append(data, opts.BarData{Value: round1(result.Annotators[id].DisagreementRate * 100)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Leave-One-Out Disagreement",
			Subtitle: fmt.Sprintf("mode=%s samples=%d no-consensus cells=%d", result.Mode, result.TotalSamples, result.NoConsensusCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Max: 100}),
	)
	bar.SetXAxis(ids).
		AddSeries("disagreement", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// goldenMatchChart plots per-dimension exact-match rate against the golden
// set.
func goldenMatchChart(summary Summary) *charts.Bar {
	labels := make([]string, 0, len(annotation.Dimensions))
	data := make([]opts.BarData, 0, len(annotation.Dimensions))
	for _, dim := range annotation.Dimensions {
		dimension := summary.QA.PerDimension[dim]
		labels = append(labels, string(dim))
		data = append(data, opts.BarData{Value: round1(dimension.HardMatchRate * 100)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Golden-Set Exact Match",
			Subtitle: fmt.Sprintf("%d graded samples", summary.QA.TotalSamples),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Max: 100}),
	)
	bar.SetXAxis(labels).
		AddSeries("exact match", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
