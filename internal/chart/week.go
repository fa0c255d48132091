// Package chart renders the week series as an interactive line chart.
package chart

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lox/weathercompare/internal/compare"
	"github.com/lox/weathercompare/internal/models"
)

// gap is how echarts marks a missing point.
const gap = "-"

// Week builds a line chart of the week view, oldest day first. When the
// baseline high is known it is drawn as a flat reference series.
func Week(w compare.WeekView, today *models.BaselineSnapshot) *charts.Line {
	days := make(models.WeekSeries, len(w.Days))
	copy(days, w.Days)
	sort.SliceStable(days, func(i, j int) bool { return days[i].DaysAgo > days[j].DaysAgo })

	labels := make([]string, len(days))
	temps := make([]opts.LineData, len(days))
	for i, d := range days {
		labels[i] = d.Date
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("%d日前", d.DaysAgo)
		}
		if v, ok := d.Temp.Value(); ok {
			temps[i] = opts.LineData{Value: v, Name: d.Condition}
		} else {
			temps[i] = opts.LineData{Value: gap}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: w.Label(),
			Width:     "100%",
			Height:    "320px",
		}),
		charts.WithTitleOpts(opts.Title{Title: w.Label()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "°C"}),
	)
	line.SetXAxis(labels).AddSeries("最高気温", temps)

	if high, ok := today.HighTemp(); ok && len(days) > 0 {
		ref := make([]opts.LineData, len(days))
		for i := range ref {
			ref[i] = opts.LineData{Value: high}
		}
		line.AddSeries(compare.TodayLabel(today), ref)
	}
	return line
}

// RenderWeek writes the chart as a standalone HTML fragment.
func RenderWeek(out io.Writer, w compare.WeekView, today *models.BaselineSnapshot) error {
	if err := Week(w, today).Render(out); err != nil {
		return fmt.Errorf("render week chart: %w", err)
	}
	return nil
}
