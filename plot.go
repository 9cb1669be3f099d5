package nocgen

// file plot.go draws the latency against injection rate curves of a statistics report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// labels and sizes of the latency plot
const (
	LatencyPlotTitle  = "Average Packet Latency vs Injection Rate"
	LatencyPlotXLabel = "Injection Rate (Packet/Node/Cycle)"
	LatencyPlotYLabel = "Average Packet Latency (Tick)"

	plotMarkerSize = 3 // points, marker diameter
	plotWidth      = 6 * vg.Inch
	plotHeight     = 4 * vg.Inch
)

// latencyCurve is the drawable part of one series
type latencyCurve struct {
	name string
	xys  plotter.XYs
}

// latencyCurves keeps, for every series of report in order, the points whose latency
// is positive.  A series may end up with no points at all.
func latencyCurves(report *StatsReport) []latencyCurve {
	curves := make([]latencyCurve, 0, len(report.Series))
	for _, s := range report.Series {
		xys := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			if pt.Latency > 0 {
				xys = append(xys, plotter.XY{X: pt.InjRate, Y: pt.Latency})
			}
		}
		curves = append(curves, latencyCurve{name: s.Name, xys: xys})
	}
	return curves
}

// LatencyPlot builds the plot of every series of report: one line with circle markers
// per series, latency on a log scale.  Points whose latency is not positive cannot be
// placed on the log axis and are left out.  Every series gets a legend entry, drawn
// or not.
func LatencyPlot(report *StatsReport) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = LatencyPlotTitle
	p.X.Label.Text = LatencyPlotXLabel
	p.Y.Label.Text = LatencyPlotYLabel
	p.Legend.Top = true
	p.Legend.Left = true

	lo, hi := math.Inf(1), math.Inf(-1)
	plotted := 0
	for idx, curve := range latencyCurves(report) {
		if len(curve.xys) == 0 {
			logger.WithField("series", curve.name).Debug("no positive latencies, series not drawn")
			empty := &plotter.Line{LineStyle: plotter.DefaultLineStyle}
			empty.Color = plotutil.Color(idx)
			p.Legend.Add(curve.name, empty)
			continue
		}

		line, points, err := plotter.NewLinePoints(curve.xys)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", curve.name, err)
		}
		line.Color = plotutil.Color(idx)
		points.Color = plotutil.Color(idx)
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(plotMarkerSize) / 2

		for _, xy := range curve.xys {
			lo, hi = math.Min(lo, xy.Y), math.Max(hi, xy.Y)
		}
		p.Add(line, points)
		p.Legend.Add(curve.name, line, points)
		plotted += 1
	}
	if plotted == 0 {
		return nil, fmt.Errorf("report holds no measurement with a positive latency")
	}

	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	if lo == hi {
		// a flat curve still needs a non-empty positive range on the log axis
		p.Y.Min, p.Y.Max = lo/2, hi*2
	}
	return p, nil
}

// RenderLatencyPlot draws the report and saves it to filename.  The image format
// follows the file extension (.png, .svg, .pdf, ...).
func RenderLatencyPlot(report *StatsReport, filename string) error {
	p, err := LatencyPlot(report)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, filename); err != nil {
		return err
	}
	logger.WithField("file", filename).Debugf("saved plot of %d series", len(report.Series))
	return nil
}
