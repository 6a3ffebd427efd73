// Package report renders run statistics and charts from a recorded history.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"sensornet-sim/internal/record"
)

// Stats summarizes a run's history.
type Stats struct {
	Steps          int     `json:"steps"`
	MeanCoverage   float64 `json:"mean_coverage"`
	MedianCoverage float64 `json:"median_coverage"`
	MinCoverage    float64 `json:"min_coverage"`
	MaxCoverage    float64 `json:"max_coverage"`
	FinalCoverage  float64 `json:"final_coverage"`
	FinalActive    int     `json:"final_active"`
	FinalTotal     int     `json:"final_total"`
	MeanBattery    float64 `json:"mean_battery"`
}

// Summary computes aggregate statistics over the history.
func Summary(history []record.StepRecord) Stats {
	if len(history) == 0 {
		return Stats{}
	}
	cov := make([]float64, len(history))
	for i, rec := range history {
		cov[i] = rec.Coverage
	}
	sorted := append([]float64(nil), cov...)
	sort.Float64s(sorted)

	last := history[len(history)-1]
	return Stats{
		Steps:          len(history),
		MeanCoverage:   stat.Mean(cov, nil),
		MedianCoverage: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		MinCoverage:    sorted[0],
		MaxCoverage:    sorted[len(sorted)-1],
		FinalCoverage:  last.Coverage,
		FinalActive:    last.ActiveSensors,
		FinalTotal:     last.TotalSensors,
		MeanBattery:    meanActiveBattery(last),
	}
}

// meanActiveBattery averages battery levels over the active sensors of one
// record; 0 when none are active.
func meanActiveBattery(rec record.StepRecord) float64 {
	var levels []float64
	for _, s := range rec.Sensors {
		if s.Active {
			levels = append(levels, s.Battery)
		}
	}
	if len(levels) == 0 {
		return 0
	}
	return stat.Mean(levels, nil)
}

// Render writes a self-contained HTML report with coverage, sensor-count,
// and battery charts.
func Render(w io.Writer, history []record.StepRecord) error {
	if len(history) == 0 {
		return fmt.Errorf("report: empty history")
	}

	steps := make([]string, len(history))
	coverage := make([]opts.LineData, len(history))
	active := make([]opts.LineData, len(history))
	total := make([]opts.LineData, len(history))
	battery := make([]opts.LineData, len(history))
	for i, rec := range history {
		steps[i] = fmt.Sprintf("%d", rec.Step)
		coverage[i] = opts.LineData{Value: rec.Coverage}
		active[i] = opts.LineData{Value: rec.ActiveSensors}
		total[i] = opts.LineData{Value: rec.TotalSensors}
		battery[i] = opts.LineData{Value: meanActiveBattery(rec)}
	}

	covChart := charts.NewLine()
	covChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Coverage ratio per step"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	covChart.SetXAxis(steps).AddSeries("coverage", coverage)

	countChart := charts.NewLine()
	countChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sensor counts per step"}),
	)
	countChart.SetXAxis(steps).
		AddSeries("active", active).
		AddSeries("total", total)

	batteryChart := charts.NewLine()
	batteryChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean battery of active sensors"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	batteryChart.SetXAxis(steps).AddSeries("battery", battery)

	page := components.NewPage()
	page.AddCharts(covChart, countChart, batteryChart)
	return page.Render(w)
}
