// File path: internal/dataset/clean.go
package dataset

import (
	"math"
	"sort"
)

// MissingPolicy selects how missing values are repaired.
type MissingPolicy string

const (
	MissingAuto         MissingPolicy = "auto"
	MissingDrop         MissingPolicy = "drop"
	MissingForwardFill  MissingPolicy = "forward_fill"
	MissingBackwardFill MissingPolicy = "backward_fill"
)

// OutlierMethod selects the opt-in outlier filter.
type OutlierMethod string

const (
	OutlierNone   OutlierMethod = ""
	OutlierIQR    OutlierMethod = "iqr"
	OutlierZScore OutlierMethod = "zscore"
)

// CleanOptions is the explicit options record driving Clean. The zero value
// means: auto missing policy, duplicates removed, no outlier filtering.
type CleanOptions struct {
	Missing        MissingPolicy
	KeepDuplicates bool
	Outliers       OutlierMethod
}

// Clean applies the full cleaning pass: drop all-missing rows and columns,
// repair missing values, drop exact duplicate rows, then optionally filter
// outliers per numeric column with sequential narrowing.
func Clean(t *Table, opts CleanOptions) *Table {
	if opts.Missing == "" {
		opts.Missing = MissingAuto
	}
	out := dropEmptyRows(t)
	out = dropEmptyColumns(out)
	out = handleMissing(out, opts.Missing)
	if !opts.KeepDuplicates {
		out = dropDuplicates(out)
	}
	if opts.Outliers != OutlierNone {
		out = removeOutliers(out, opts.Outliers)
	}
	return out
}

func dropEmptyRows(t *Table) *Table {
	keep := make([]bool, t.Rows())
	for i := range keep {
		for ci := range t.Columns {
			if !t.Columns[ci].Missing[i] {
				keep[i] = true
				break
			}
		}
	}
	return t.Filter(keep)
}

func dropEmptyColumns(t *Table) *Table {
	var cols []Column
	for i := range t.Columns {
		if t.Columns[i].MissingCount() < t.Columns[i].Len() {
			cols = append(cols, t.Columns[i])
		}
	}
	return &Table{Columns: cols}
}

func handleMissing(t *Table, policy MissingPolicy) *Table {
	switch policy {
	case MissingDrop:
		keep := make([]bool, t.Rows())
		for i := range keep {
			keep[i] = true
			for ci := range t.Columns {
				if t.Columns[ci].Missing[i] {
					keep[i] = false
					break
				}
			}
		}
		return t.Filter(keep)
	case MissingForwardFill:
		return fillNearest(t, true)
	case MissingBackwardFill:
		return fillNearest(t, false)
	default:
		return autoFill(t)
	}
}

// autoFill drops columns that are mostly missing, fills categorical and
// text columns with the mode (or "Unknown"), numeric columns with the
// median, and date columns by forward fill.
func autoFill(t *Table) *Table {
	var cols []Column
	rows := t.Rows()
	for i := range t.Columns {
		c := t.Columns[i]
		missing := c.MissingCount()
		if missing == 0 {
			cols = append(cols, c)
			continue
		}
		if rows > 0 && float64(missing)/float64(rows) > 0.5 {
			continue
		}
		switch c.Kind {
		case KindNumeric:
			med := medianOf(presentFloats(&c))
			for j := range c.Missing {
				if c.Missing[j] {
					c.Floats[j] = med
					c.Missing[j] = false
				}
			}
		case KindDate:
			filled := fillNearestColumn(c, true)
			c = fillNearestColumn(filled, false)
		default:
			mode := modeOf(&c)
			if mode == "" {
				mode = "Unknown"
			}
			for j := range c.Missing {
				if c.Missing[j] {
					c.Texts[j] = mode
					c.Missing[j] = false
				}
			}
		}
		cols = append(cols, c)
	}
	return &Table{Columns: cols}
}

func fillNearest(t *Table, forward bool) *Table {
	cols := make([]Column, len(t.Columns))
	for i := range t.Columns {
		cols[i] = fillNearestColumn(t.Columns[i], forward)
	}
	return &Table{Columns: cols}
}

// fillNearestColumn propagates the nearest prior (forward) or subsequent
// (backward) non-missing value in row order. Leading or trailing gaps with
// no donor stay missing.
func fillNearestColumn(c Column, forward bool) Column {
	out := cloneColumn(c)
	n := out.Len()
	idx := func(i int) int {
		if forward {
			return i
		}
		return n - 1 - i
	}
	have := false
	for i := 0; i < n; i++ {
		j := idx(i)
		if !out.Missing[j] {
			have = true
			continue
		}
		if !have {
			continue
		}
		var donor int
		if forward {
			donor = j - 1
		} else {
			donor = j + 1
		}
		out.Missing[j] = false
		switch out.Kind {
		case KindNumeric:
			out.Floats[j] = out.Floats[donor]
		case KindDate:
			out.Times[j] = out.Times[donor]
		default:
			out.Texts[j] = out.Texts[donor]
		}
	}
	return out
}

func dropDuplicates(t *Table) *Table {
	seen := make(map[string]struct{}, t.Rows())
	keep := make([]bool, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		key := t.rowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}
	return t.Filter(keep)
}

// removeOutliers narrows the table one numeric column at a time, in table
// column order. A row removed by an earlier column's bounds is never seen
// by a later column. Missing cells are retained.
func removeOutliers(t *Table, method OutlierMethod) *Table {
	names := t.NumericColumns()
	out := t
	for _, name := range names {
		c, ok := out.Col(name)
		if !ok {
			continue
		}
		vals := presentFloats(c)
		if len(vals) == 0 {
			continue
		}
		var lower, upper float64
		switch method {
		case OutlierIQR:
			q1 := percentile(vals, 0.25)
			q3 := percentile(vals, 0.75)
			iqr := q3 - q1
			lower, upper = q1-1.5*iqr, q3+1.5*iqr
		case OutlierZScore:
			mean, std := meanStd(vals)
			if std == 0 {
				continue
			}
			lower, upper = mean-3*std, mean+3*std
		default:
			return out
		}
		keep := make([]bool, out.Rows())
		for i := range keep {
			if c.Missing[i] {
				keep[i] = true
				continue
			}
			v := c.Floats[i]
			if method == OutlierZScore {
				keep[i] = v > lower && v < upper
			} else {
				keep[i] = v >= lower && v <= upper
			}
		}
		out = out.Filter(keep)
	}
	return out
}

func cloneColumn(c Column) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	out.Missing = append([]bool(nil), c.Missing...)
	out.Floats = append([]float64(nil), c.Floats...)
	out.Times = append(out.Times, c.Times...)
	out.Texts = append([]string(nil), c.Texts...)
	return out
}

func presentFloats(c *Column) []float64 {
	var out []float64
	for i := range c.Missing {
		if !c.Missing[i] && !math.IsNaN(c.Floats[i]) {
			out = append(out, c.Floats[i])
		}
	}
	return out
}

// modeOf returns the most frequent non-missing value; ties break toward the
// lexicographically smallest so repeated runs agree.
func modeOf(c *Column) string {
	counts := make(map[string]int)
	for i := range c.Missing {
		if !c.Missing[i] {
			counts[c.Texts[i]]++
		}
	}
	best, bestN := "", 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

func medianOf(vals []float64) float64 {
	return percentile(vals, 0.5)
}

// percentile computes the linearly interpolated quantile over a copy of
// vals, matching the quartile convention used by the summary statistics.
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func meanStd(vals []float64) (float64, float64) {
	n := float64(len(vals))
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}
