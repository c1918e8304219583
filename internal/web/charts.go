package web

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"showcase/internal/render"
)

const (
	chartWidth  = 560
	chartHeight = 320
	barWidth    = 22
	barSpacing  = 6
)

var errNoData = errors.New("chart has no data")

// seriesHex colors series in order. Shared with the HTML legend.
var seriesHex = []string{"1f77b4", "ff7f0e", "2ca02c", "d62728"}

func seriesColor(i int) drawing.Color {
	return drawing.ColorFromHex(seriesHex[i%len(seriesHex)])
}

func chartBackground() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}}
}

// yRange starts at zero and leaves headroom above the largest value.
func yRange(c render.Chart) *chart.ContinuousRange {
	top := 0.0
	for _, s := range c.Series {
		for _, v := range s.Values {
			top = math.Max(top, v)
		}
	}
	if top <= 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: math.Ceil(top*1.1/10) * 10}
}

// LineChartSVG draws one line per series with the categories on the x axis.
func LineChartSVG(w io.Writer, c render.Chart) error {
	n := len(c.Categories)
	if n == 0 || len(c.Series) == 0 {
		return errNoData
	}
	xs := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, cat := range c.Categories {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: cat}
	}

	graph := chart.Chart{
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chartBackground(),
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
		},
		YAxis: chart.YAxis{Range: yRange(c)},
	}
	for i, s := range c.Series {
		if len(s.Values) != n {
			return fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), n)
		}
		col := seriesColor(i)
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.SVG, w)
}

// BarChartSVG draws grouped bars: for each category one bar per series,
// colored by series. Only the first bar of a group carries the label.
func BarChartSVG(w io.Writer, c render.Chart) error {
	var bars []chart.Value
	for ci, cat := range c.Categories {
		for si, s := range c.Series {
			v := 0.0
			if ci < len(s.Values) {
				v = s.Values[ci]
			}
			label := ""
			if si == 0 {
				label = cat
			}
			col := seriesColor(si)
			bars = append(bars, chart.Value{
				Value: v,
				Label: label,
				Style: chart.Style{FillColor: col, StrokeColor: col},
			})
		}
	}
	if len(bars) == 0 {
		return errNoData
	}

	bc := chart.BarChart{
		Width:      max(chartWidth, len(bars)*(barWidth+barSpacing)+80),
		Height:     chartHeight,
		Background: chartBackground(),
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis:      chart.YAxis{Range: yRange(c)},
		Bars:       bars,
	}
	return bc.Render(chart.SVG, w)
}
