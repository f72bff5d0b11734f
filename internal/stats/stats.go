// File path: internal/stats/stats.go

// Package stats computes correlation, ordinary least squares regression,
// and descriptive summaries over dataset tables. All functions are pure;
// failures carry stable fault kinds so callers can record them per
// computation instead of aborting the request.
package stats

import (
	"math"
	"sort"

	"github.com/ananyap-codes/TDSproj2/internal/dataset"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

// RegressionResult is the single-predictor OLS fit of y on x.
type RegressionResult struct {
	Slope     float64 `json:"coefficient"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// NumericSummary describes one numeric column.
type NumericSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// ValueCount is one categorical value with its frequency.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategorySummary describes one categorical or text column.
type CategorySummary struct {
	Unique int          `json:"unique"`
	Top    []ValueCount `json:"top_values"`
}

// TableSummary is the per-column descriptive output.
type TableSummary struct {
	Numeric     map[string]NumericSummary  `json:"numeric,omitempty"`
	Categorical map[string]CategorySummary `json:"categorical,omitempty"`
}

// Correlation returns the Pearson coefficient over the paired non-missing
// values of the two named columns. A zero-variance column yields NaN, not
// an error.
func Correlation(t *dataset.Table, colA, colB string) (float64, error) {
	xs, ys, err := pairedValues(t, colA, colB)
	if err != nil {
		return 0, err
	}
	if len(xs) < 2 {
		return 0, fault.New(fault.EmptyResult, "fewer than two paired values for %q and %q", colA, colB)
	}
	return pearson(xs, ys), nil
}

// Regression fits y on x by ordinary least squares with pairwise deletion
// of missing values.
func Regression(t *dataset.Table, colX, colY string) (RegressionResult, error) {
	xs, ys, err := pairedValues(t, colX, colY)
	if err != nil {
		return RegressionResult{}, err
	}
	if len(xs) < 2 {
		return RegressionResult{}, fault.New(fault.EmptyResult, "fewer than two paired values for %q and %q", colX, colY)
	}
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n
	var sxx, sxy, syy float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return RegressionResult{}, fault.New(fault.ComputationFailure, "zero variance in predictor %q", colX)
	}
	slope := sxy / sxx
	intercept := meanY - slope*meanX
	r2 := 1.0
	if syy != 0 {
		var ssRes float64
		for i := range xs {
			resid := ys[i] - (intercept + slope*xs[i])
			ssRes += resid * resid
		}
		r2 = 1 - ssRes/syy
	}
	return RegressionResult{Slope: slope, Intercept: intercept, RSquared: r2}, nil
}

// Describe summarizes every column: numeric columns get count, mean, std,
// min, quartiles, and max; categorical and text columns get the unique
// count and top-5 value frequencies.
func Describe(t *dataset.Table) TableSummary {
	out := TableSummary{}
	for i := range t.Columns {
		c := &t.Columns[i]
		switch c.Kind {
		case dataset.KindNumeric:
			vals := columnFloats(c)
			if len(vals) == 0 {
				continue
			}
			if out.Numeric == nil {
				out.Numeric = make(map[string]NumericSummary)
			}
			out.Numeric[c.Name] = summarizeNumeric(vals)
		case dataset.KindCategorical, dataset.KindText:
			if out.Categorical == nil {
				out.Categorical = make(map[string]CategorySummary)
			}
			out.Categorical[c.Name] = summarizeCategory(c)
		}
	}
	return out
}

// CorrelationMatrix computes the full pairwise Pearson matrix over all
// numeric columns. At least two numeric columns are required.
func CorrelationMatrix(t *dataset.Table) ([]string, [][]float64, error) {
	names := t.NumericColumns()
	if len(names) < 2 {
		return nil, nil, fault.New(fault.EmptyResult, "need at least two numeric columns, have %d", len(names))
	}
	mat := make([][]float64, len(names))
	for i := range names {
		mat[i] = make([]float64, len(names))
		for j := range names {
			if i == j {
				mat[i][j] = 1
				continue
			}
			xs, ys, err := pairedValues(t, names[i], names[j])
			if err != nil || len(xs) < 2 {
				mat[i][j] = math.NaN()
				continue
			}
			mat[i][j] = pearson(xs, ys)
		}
	}
	return names, mat, nil
}

// pairedValues extracts rows where both named columns are present, coercing
// text cells when the whole column was not promoted but individual values
// parse.
func pairedValues(t *dataset.Table, nameA, nameB string) ([]float64, []float64, error) {
	a, ok := t.Col(nameA)
	if !ok {
		return nil, nil, fault.New(fault.ColumnNotFound, "column %q not found", nameA)
	}
	b, ok := t.Col(nameB)
	if !ok {
		return nil, nil, fault.New(fault.ColumnNotFound, "column %q not found", nameB)
	}
	av, err := cellFloat(a)
	if err != nil {
		return nil, nil, err
	}
	bv, err := cellFloat(b)
	if err != nil {
		return nil, nil, err
	}
	var xs, ys []float64
	for i := range av {
		if math.IsNaN(av[i]) || math.IsNaN(bv[i]) {
			continue
		}
		xs = append(xs, av[i])
		ys = append(ys, bv[i])
	}
	return xs, ys, nil
}

// cellFloat renders a column as floats with NaN for missing cells. Date
// columns are a type mismatch; textual columns are coerced per cell.
func cellFloat(c *dataset.Column) ([]float64, error) {
	switch c.Kind {
	case dataset.KindNumeric:
		out := make([]float64, c.Len())
		for i := range out {
			if c.Missing[i] {
				out[i] = math.NaN()
			} else {
				out[i] = c.Floats[i]
			}
		}
		return out, nil
	case dataset.KindDate:
		return nil, fault.New(fault.TypeMismatch, "column %q is a date column", c.Name)
	default:
		out := make([]float64, c.Len())
		for i := range out {
			out[i] = math.NaN()
			if c.Missing[i] {
				continue
			}
			if f, ok := dataset.ParseNumeric(c.Texts[i]); ok {
				out[i] = f
			}
		}
		return out, nil
	}
}

func columnFloats(c *dataset.Column) []float64 {
	var out []float64
	for i := 0; i < c.Len(); i++ {
		if !c.Missing[i] && !math.IsNaN(c.Floats[i]) {
			out = append(out, c.Floats[i])
		}
	}
	return out
}

func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
		sumXY += xs[i] * ys[i]
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return math.NaN()
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func summarizeNumeric(vals []float64) NumericSummary {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := float64(len(sorted))
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / n
	var ss float64
	for _, v := range sorted {
		d := v - mean
		ss += d * d
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(ss / (n - 1))
	}
	return NumericSummary{
		Count:  len(sorted),
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func summarizeCategory(c *dataset.Column) CategorySummary {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if !c.Missing[i] {
			counts[c.Texts[i]]++
		}
	}
	top := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		top = append(top, ValueCount{Value: v, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count == top[j].Count {
			return top[i].Value < top[j].Value
		}
		return top[i].Count > top[j].Count
	})
	if len(top) > 5 {
		top = top[:5]
	}
	return CategorySummary{Unique: len(counts), Top: top}
}

// quantile assumes vals is sorted and interpolates linearly.
func quantile(vals []float64, p float64) float64 {
	if len(vals) == 1 {
		return vals[0]
	}
	pos := p * float64(len(vals)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return vals[lo]
	}
	frac := pos - float64(lo)
	return vals[lo]*(1-frac) + vals[hi]*frac
}
