// File path: internal/chart/raster.go
package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ananyap-codes/TDSproj2/internal/dataset"
	"github.com/ananyap-codes/TDSproj2/internal/stats"
)

// heatmapRenderer draws the pairwise Pearson matrix of the table's numeric
// columns as an annotated color grid. Needs at least two numeric columns.
func heatmapRenderer(t *dataset.Table, spec Spec) renderFunc {
	names, matrix, err := stats.CorrelationMatrix(t)
	if err != nil {
		return nil
	}
	title := spec.Title
	if title == "" {
		title = "Correlation Heatmap"
	}
	return func(w, h int) ([]byte, error) {
		return drawHeatmap(title, names, matrix, w, h)
	}
}

func drawHeatmap(title string, names []string, matrix [][]float64, w, h int) ([]byte, error) {
	img := newCanvas(w, h)
	const marginLeft, marginTop, marginBottom = 120, 50, 40
	gridW := w - marginLeft - 20
	gridH := h - marginTop - marginBottom
	n := len(names)
	cellW := gridW / n
	cellH := gridH / n

	drawLabel(img, title, marginLeft, 24, color.Black)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0 := marginLeft + j*cellW
			y0 := marginTop + i*cellH
			r := matrix[i][j]
			fill := correlationColor(r)
			draw.Draw(img, image.Rect(x0, y0, x0+cellW-1, y0+cellH-1), image.NewUniform(fill), image.Point{}, draw.Src)
			label := "n/a"
			if !math.IsNaN(r) {
				label = formatTick(r)
			}
			tw := labelWidth(label)
			drawLabel(img, label, x0+(cellW-tw)/2, y0+cellH/2+4, textColorFor(fill))
		}
	}
	// Row labels on the left, column labels along the bottom.
	for i, name := range names {
		drawLabel(img, clip(name, 15), 6, marginTop+i*cellH+cellH/2+4, color.Black)
		tw := labelWidth(clip(name, 15))
		drawLabel(img, clip(name, 15), marginLeft+i*cellW+(cellW-tw)/2, marginTop+gridH+16, color.Black)
	}
	return encodePNG(img)
}

// correlationColor maps [-1,1] onto a blue/white/red ramp.
func correlationColor(r float64) color.RGBA {
	if math.IsNaN(r) {
		return color.RGBA{R: 220, G: 220, B: 220, A: 255}
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if r >= 0 {
		fade := uint8(255 * (1 - r))
		return color.RGBA{R: 255, G: fade, B: fade, A: 255}
	}
	fade := uint8(255 * (1 + r))
	return color.RGBA{R: fade, G: fade, B: 255, A: 255}
}

func textColorFor(bg color.RGBA) color.Color {
	// Dark text on light cells, light on saturated ones.
	if int(bg.R)+int(bg.G)+int(bg.B) > 400 {
		return color.Black
	}
	return color.White
}

// boxSummary is a five-number summary for one box.
type boxSummary struct {
	label  string
	min    float64
	q1     float64
	median float64
	q3     float64
	max    float64
}

// boxRenderer draws one box per category of the x column when it is
// supplied, else a single box over the y column.
func boxRenderer(t *dataset.Table, spec Spec) renderFunc {
	groups := boxGroups(t, spec)
	if len(groups) == 0 {
		return nil
	}
	title := spec.Title
	if title == "" {
		title = "Distribution of " + spec.Y
	}
	return func(w, h int) ([]byte, error) {
		return drawBoxes(title, groups, w, h)
	}
}

func boxGroups(t *dataset.Table, spec Spec) []boxSummary {
	ys := plotColumn(t, spec.Y)
	if ys == nil {
		return nil
	}
	xCol, grouped := t.Col(spec.X)
	buckets := make(map[string][]float64)
	var order []string
	for i := range ys.values {
		if ys.missing[i] {
			continue
		}
		key := spec.Y
		if grouped {
			if xCol.Missing[i] {
				continue
			}
			key = xCol.CellString(i)
		}
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], ys.values[i])
	}
	var out []boxSummary
	for _, key := range order {
		vals := buckets[key]
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		out = append(out, boxSummary{
			label:  key,
			min:    vals[0],
			q1:     quantile(vals, 0.25),
			median: quantile(vals, 0.5),
			q3:     quantile(vals, 0.75),
			max:    vals[len(vals)-1],
		})
	}
	return out
}

// quantile interpolates linearly over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func drawBoxes(title string, groups []boxSummary, w, h int) ([]byte, error) {
	img := newCanvas(w, h)
	const marginLeft, marginTop, marginBottom = 60, 50, 40
	plotW := w - marginLeft - 20
	plotH := h - marginTop - marginBottom

	lo, hi := groups[0].min, groups[0].max
	for _, g := range groups {
		lo = math.Min(lo, g.min)
		hi = math.Max(hi, g.max)
	}
	if lo == hi {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	lo -= pad
	hi += pad
	toY := func(v float64) int {
		return marginTop + plotH - int(float64(plotH)*(v-lo)/(hi-lo))
	}

	drawLabel(img, title, marginLeft, 24, color.Black)
	slot := plotW / len(groups)
	boxW := slot / 2
	if boxW > 80 {
		boxW = 80
	}
	line := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	fill := color.RGBA{R: 170, G: 200, B: 240, A: 255}
	for gi, g := range groups {
		cx := marginLeft + gi*slot + slot/2
		x0, x1 := cx-boxW/2, cx+boxW/2
		// Whiskers, box, then the median line on top.
		vline(img, cx, toY(g.max), toY(g.q3), line)
		vline(img, cx, toY(g.q1), toY(g.min), line)
		hline(img, cx-boxW/4, cx+boxW/4, toY(g.max), line)
		hline(img, cx-boxW/4, cx+boxW/4, toY(g.min), line)
		draw.Draw(img, image.Rect(x0, toY(g.q3), x1, toY(g.q1)), image.NewUniform(fill), image.Point{}, draw.Src)
		rect(img, x0, toY(g.q3), x1, toY(g.q1), line)
		hline(img, x0, x1, toY(g.median), line)
		tw := labelWidth(clip(g.label, 12))
		drawLabel(img, clip(g.label, 12), cx-tw/2, marginTop+plotH+16, color.Black)
	}
	// A handful of y-axis ticks.
	for i := 0; i <= 4; i++ {
		v := lo + (hi-lo)*float64(i)/4
		drawLabel(img, formatTick(v), 6, toY(v)+4, color.Black)
	}
	return encodePNG(img)
}

func newCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func drawLabel(img *image.RGBA, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func labelWidth(text string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(text).Ceil()
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func vline(img *image.RGBA, x, y0, y1 int, col color.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		img.Set(x, y, col)
	}
}

func hline(img *image.RGBA, x0, x1, y int, col color.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		img.Set(x, y, col)
	}
}

func rect(img *image.RGBA, x0, y0, x1, y1 int, col color.Color) {
	hline(img, x0, x1, y0, col)
	hline(img, x0, x1, y1, col)
	vline(img, x0, y0, y1, col)
	vline(img, x1, y0, y1, col)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
