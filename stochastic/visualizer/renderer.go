// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package visualizer

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// HTML references for the rendered pages.
const ecdfRef = "ecdf"
const weightRef = "weights"
const momentRef = "moments"
const correlationRef = "correlation"

// MainHtml is the index page.
const MainHtml = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>SROM Report</title>
  </head>
  <body>
    <h1>SROM Report</h1>
    <ul>
    <li> <h3> <a href="/` + ecdfRef + `"> Marginal CDFs </a> </h3> </li>
    <li> <h3> <a href="/` + weightRef + `"> Sample Weights </a> </h3> </li>
    <li> <h3> <a href="/` + momentRef + `"> Moments </a> </h3> </li>
    <li> <h3> <a href="/` + correlationRef + `"> Correlation </a> </h3> </li>
    </ul>
</body>
</html>
`

// renderMain renders the main menu.
func renderMain(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprint(w, MainHtml)
}

// globalOptions are shared by all charts.
func globalOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeChalk,
			PageTitle: title,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	}
}

// convertCDFData converts CDF points to chart points.
func convertCDFData(data [][2]float64) []opts.LineData {
	items := []opts.LineData{}
	for _, pair := range data {
		items = append(items, opts.LineData{Value: pair})
	}
	return items
}

// convertBarData converts values to bars; NaN marks a missing value.
func convertBarData(data []float64) []opts.BarData {
	items := []opts.BarData{}
	for _, v := range data {
		if math.IsNaN(v) {
			items = append(items, opts.BarData{Value: "-"})
			continue
		}
		items = append(items, opts.BarData{Value: v})
	}
	return items
}

// newECDFChart creates a line chart comparing the SROM CDF of one dimension
// with the equally weighted samples and the target.
func newECDFChart(dim dimensionView) *charts.Line {
	chart := charts.NewLine()
	chart.SetGlobalOptions(globalOptions("Marginal CDF", dim.name)...)
	chart.AddSeries("SROM", convertCDFData(dim.srom)).
		AddSeries("Samples", convertCDFData(dim.uniform))
	if dim.target != nil {
		chart.AddSeries("Target", convertCDFData(dim.target))
	}
	return chart
}

// newWeightChart creates a bar chart of the sample weights.
func newWeightChart(weights []float64, effectiveSize float64) *charts.Bar {
	labels := make([]string, len(weights))
	for i := range weights {
		labels[i] = strconv.Itoa(i)
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions("Sample Weights", fmt.Sprintf("effective sample size %.2f", effectiveSize))...)
	bar.SetXAxis(labels).AddSeries("Weight", convertBarData(weights))
	return bar
}

// newComparisonChart creates a bar chart of SROM statistics next to their targets.
func newComparisonChart(title string, labels []string, srom, target []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(title, "")...)
	bar.SetXAxis(labels).
		AddSeries("SROM", convertBarData(srom)).
		AddSeries("Target", convertBarData(target))
	return bar
}

func ecdfCharts(view *viewState) []components.Charter {
	out := make([]components.Charter, 0, len(view.dims))
	for _, dim := range view.dims {
		out = append(out, newECDFChart(dim))
	}
	return out
}

// renderECDF renders the marginal CDFs of all dimensions.
func renderECDF(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	page := components.NewPage()
	page.AddCharts(ecdfCharts(view)...)
	_ = page.Render(w)
}

// renderWeights renders the sample weights.
func renderWeights(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newWeightChart(view.weights, view.effectiveSize).Render(w)
}

// renderMoments renders SROM moments against their targets.
func renderMoments(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newComparisonChart("Moments", view.momentLabels, view.momentsSrom, view.momentsTarget).Render(w)
}

// renderCorrelation renders SROM correlations against their targets.
func renderCorrelation(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newComparisonChart("Correlation", view.correlationLabels, view.correlationSrom, view.correlationTarget).Render(w)
}

// RenderHTML writes a self-contained page with all charts of a report.
func RenderHTML(w io.Writer, report *Report) error {
	if report == nil {
		return fmt.Errorf("visualizer: report is nil")
	}
	view, err := buildViewState(report)
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.PageTitle = "SROM Report"
	page.AddCharts(ecdfCharts(view)...)
	page.AddCharts(
		newWeightChart(view.weights, view.effectiveSize),
		newComparisonChart("Moments", view.momentLabels, view.momentsSrom, view.momentsTarget),
	)
	if len(view.correlationLabels) > 0 {
		page.AddCharts(newComparisonChart("Correlation", view.correlationLabels, view.correlationSrom, view.correlationTarget))
	}
	return page.Render(w)
}

// FireUpWeb produces the view model of a report and visualizes it with a
// local web-server.
func FireUpWeb(report *Report, addr string) error {
	if err := setViewState(report); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", renderMain)
	mux.HandleFunc("/"+ecdfRef, renderECDF)
	mux.HandleFunc("/"+weightRef, renderWeights)
	mux.HandleFunc("/"+momentRef, renderMoments)
	mux.HandleFunc("/"+correlationRef, renderCorrelation)
	return http.ListenAndServe(":"+addr, mux)
}
