// File path: internal/chart/chart.go

// Package chart renders a size-bounded PNG for a plan-supplied chart spec.
// Scatter, line, bar and histogram go through go-chart; heatmap and box are
// drawn directly onto a raster. A spec referencing columns that do not exist
// yields no chart rather than an error escaping the boundary.
package chart

import (
	"fmt"
	"math"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/dataset"
)

// Spec names a chart kind and its data references. Field names follow the
// plan JSON emitted by the collaborator.
type Spec struct {
	Kind       string `json:"type"`
	DataSource string `json:"data_source"`
	X          string `json:"x_column"`
	Y          string `json:"y_column"`
	Title      string `json:"title"`
	Regression *bool  `json:"add_regression"`
	Bins       int    `json:"bins"`
}

// Options bounds the rendered output.
type Options struct {
	Width    int
	Height   int
	MaxBytes int
}

const (
	defaultWidth  = 1000
	defaultHeight = 600
	defaultBytes  = 100000
	defaultBins   = 30
	maxBarPoints  = 60
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = defaultBytes
	}
	return o
}

// Render dispatches by chart kind and returns a base64 PNG data URI, or ""
// when the spec cannot be drawn (missing columns, empty post-filter data).
// Unknown kinds fall back to scatter.
func Render(t *dataset.Table, spec Spec, opts Options) (string, error) {
	if t == nil {
		return "", nil
	}
	opts = opts.withDefaults()
	logger := common.Logger()

	var draw renderFunc
	switch spec.Kind {
	case "bar":
		draw = barRenderer(t, spec)
	case "line":
		draw = lineRenderer(t, spec)
	case "histogram":
		draw = histogramRenderer(t, spec)
	case "heatmap":
		draw = heatmapRenderer(t, spec)
	case "box":
		draw = boxRenderer(t, spec)
	default:
		draw = scatterRenderer(t, spec)
	}
	if draw == nil {
		logger.Debug("chart: spec not drawable", "kind", spec.Kind, "x", spec.X, "y", spec.Y)
		return "", nil
	}
	return encodeBudgeted(draw, opts)
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func baseChart(title string, xName, yName string, w, h int) chart.Chart {
	return chart.Chart{
		Title:  title,
		Width:  w,
		Height: h,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{Name: xName},
		YAxis: chart.YAxis{Name: yName},
	}
}

func scatterRenderer(t *dataset.Table, spec Spec) renderFunc {
	xs, ys := pairedPlotValues(t, spec.X, spec.Y)
	if len(xs) < 2 {
		return nil
	}
	overlay := spec.Regression == nil || *spec.Regression
	title := spec.Title
	if title == "" {
		title = spec.Y + " vs " + spec.X
	}
	return func(w, h int) ([]byte, error) {
		cs := chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(drawing.ColorBlue),
		}
		ch := baseChart(title, spec.X, spec.Y, w, h)
		ch.Series = []chart.Series{cs}
		if overlay {
			ch.Series = append(ch.Series, &chart.LinearRegressionSeries{InnerSeries: cs})
		}
		return renderPNG(ch)
	}
}

func lineRenderer(t *dataset.Table, spec Spec) renderFunc {
	xs, ys := pairedPlotValues(t, spec.X, spec.Y)
	if len(xs) < 2 {
		return nil
	}
	// Sort by x so time-like axes read chronologically.
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	sx := make([]float64, len(xs))
	sy := make([]float64, len(ys))
	for i, j := range idx {
		sx[i] = xs[j]
		sy[i] = ys[j]
	}
	title := spec.Title
	if title == "" {
		title = spec.Y + " over " + spec.X
	}
	return func(w, h int) ([]byte, error) {
		ch := baseChart(title, spec.X, spec.Y, w, h)
		ch.Series = []chart.Series{chart.ContinuousSeries{
			XValues: sx,
			YValues: sy,
			Style:   chart.Style{StrokeWidth: 2, DotWidth: 3},
		}}
		return renderPNG(ch)
	}
}

func barRenderer(t *dataset.Table, spec Spec) renderFunc {
	xCol, ok := t.Col(spec.X)
	if !ok {
		return nil
	}
	var bars []chart.Value
	if xCol.Kind == dataset.KindNumeric || xCol.Kind == dataset.KindDate {
		xs, ys := pairedPlotValues(t, spec.X, spec.Y)
		for i := range xs {
			bars = append(bars, chart.Value{Value: ys[i], Label: formatTick(xs[i])})
		}
	} else {
		// Text category axis: aggregate the value axis by mean per category.
		bars = meanByCategory(t, spec.X, spec.Y)
	}
	if len(bars) == 0 {
		return nil
	}
	if len(bars) > maxBarPoints {
		bars = bars[:maxBarPoints]
	}
	title := spec.Title
	if title == "" {
		title = spec.Y + " by " + spec.X
	}
	return func(w, h int) ([]byte, error) {
		return renderPNG(barChart(title, bars, w, h))
	}
}

func histogramRenderer(t *dataset.Table, spec Spec) renderFunc {
	col := spec.X
	if col == "" {
		col = spec.Y
	}
	vals := plotValues(t, col)
	if len(vals) == 0 {
		return nil
	}
	bins := spec.Bins
	if bins <= 0 {
		bins = defaultBins
	}
	bars := histogramBars(vals, bins)
	title := spec.Title
	if title == "" {
		title = "Distribution of " + col
	}
	return func(w, h int) ([]byte, error) {
		return renderPNG(barChart(title, bars, w, h))
	}
}

func barChart(title string, bars []chart.Value, w, h int) chart.BarChart {
	barWidth := (w - 120) / len(bars)
	if barWidth < 2 {
		barWidth = 2
	}
	if barWidth > 60 {
		barWidth = 60
	}
	return chart.BarChart{
		Title:    title,
		Width:    w,
		Height:   h,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		Bars: bars,
	}
}

// histogramBars buckets values into equal-width bins. Labels are thinned so
// wide histograms stay legible.
func histogramBars(vals []float64, bins int) []chart.Value {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []chart.Value{{Value: float64(len(vals)), Label: formatTick(lo)}}
	}
	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range vals {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	labelEvery := 1
	if bins > 12 {
		labelEvery = bins / 8
	}
	out := make([]chart.Value, bins)
	for i, n := range counts {
		label := ""
		if i%labelEvery == 0 {
			label = formatTick(lo + float64(i)*width)
		}
		out[i] = chart.Value{Value: float64(n), Label: label}
	}
	return out
}

// meanByCategory aggregates the y column by mean per x category, in first
// appearance order.
func meanByCategory(t *dataset.Table, xName, yName string) []chart.Value {
	xCol, okX := t.Col(xName)
	ys := plotColumn(t, yName)
	if !okX || ys == nil {
		return nil
	}
	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[string]*acc)
	var order []string
	for i := 0; i < xCol.Len(); i++ {
		if xCol.Missing[i] || ys.missing[i] {
			continue
		}
		key := xCol.CellString(i)
		a, ok := sums[key]
		if !ok {
			a = &acc{}
			sums[key] = a
			order = append(order, key)
		}
		a.sum += ys.values[i]
		a.n++
	}
	out := make([]chart.Value, 0, len(order))
	for _, key := range order {
		a := sums[key]
		out = append(out, chart.Value{Value: a.sum / float64(a.n), Label: key})
	}
	return out
}

type floatColumn struct {
	values  []float64
	missing []bool
}

// plotColumn coerces a column to per-row float values for plotting. Dates
// plot as Unix seconds, text cells go through the numeric parser.
func plotColumn(t *dataset.Table, name string) *floatColumn {
	c, ok := t.Col(name)
	if !ok {
		return nil
	}
	n := c.Len()
	fc := &floatColumn{values: make([]float64, n), missing: make([]bool, n)}
	for i := 0; i < n; i++ {
		if c.Missing[i] {
			fc.missing[i] = true
			continue
		}
		switch c.Kind {
		case dataset.KindNumeric:
			fc.values[i] = c.Floats[i]
		case dataset.KindDate:
			fc.values[i] = float64(c.Times[i].Unix())
		default:
			v, ok := dataset.ParseNumeric(c.Texts[i])
			if !ok {
				fc.missing[i] = true
				continue
			}
			fc.values[i] = v
		}
	}
	return fc
}

// pairedPlotValues returns the rows where both columns have a plottable
// value, pairwise deletion as in the statistics engine.
func pairedPlotValues(t *dataset.Table, xName, yName string) ([]float64, []float64) {
	xc := plotColumn(t, xName)
	yc := plotColumn(t, yName)
	if xc == nil || yc == nil {
		return nil, nil
	}
	var xs, ys []float64
	for i := range xc.values {
		if xc.missing[i] || yc.missing[i] {
			continue
		}
		xs = append(xs, xc.values[i])
		ys = append(ys, yc.values[i])
	}
	return xs, ys
}

func plotValues(t *dataset.Table, name string) []float64 {
	fc := plotColumn(t, name)
	if fc == nil {
		return nil
	}
	var out []float64
	for i, v := range fc.values {
		if !fc.missing[i] {
			out = append(out, v)
		}
	}
	return out
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1000:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
