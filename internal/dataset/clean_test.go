// File path: internal/dataset/clean_test.go
package dataset

import (
	"math"
	"testing"
)

func numCol(name string, vals ...float64) Column { return NumericColumn(name, vals) }

func TestCleanDropsAllMissingRowsAndColumns(t *testing.T) {
	nan := math.NaN()
	tbl := &Table{Columns: []Column{
		numCol("a", 1, nan, 3),
		numCol("b", 4, nan, 6),
		numCol("empty", nan, nan, nan),
	}}
	out := Clean(tbl, CleanOptions{})
	if len(out.Columns) != 2 {
		t.Fatalf("all-missing column should be dropped, have %v", out.ColumnNames())
	}
	if out.Rows() != 2 {
		t.Fatalf("all-missing row should be dropped, have %d rows", out.Rows())
	}
}

func TestAutoPolicyDropsMostlyMissingColumn(t *testing.T) {
	nan := math.NaN()
	tbl := &Table{Columns: []Column{
		numCol("keep", 1, 2, 3, 4),
		numCol("gone", 9, nan, nan, nan),
	}}
	out := Clean(tbl, CleanOptions{Missing: MissingAuto})
	if _, ok := out.Col("gone"); ok {
		t.Fatal("column with >50% missing must be dropped by auto policy")
	}
	if _, ok := out.Col("keep"); !ok {
		t.Fatal("healthy column must survive")
	}
}

func TestAutoPolicyFillsNumericWithMedian(t *testing.T) {
	nan := math.NaN()
	tbl := &Table{Columns: []Column{numCol("v", 1, 2, nan, 100)}}
	out := Clean(tbl, CleanOptions{KeepDuplicates: true})
	c, _ := out.Col("v")
	if c.MissingCount() != 0 {
		t.Fatal("auto policy should fill numeric gaps")
	}
	// median of {1, 2, 100} = 2
	if c.Floats[2] != 2 {
		t.Fatalf("expected median fill 2, got %v", c.Floats[2])
	}
}

func TestAutoPolicyFillsCategoricalWithMode(t *testing.T) {
	col := TextColumn("city", []string{"Lyon", "Paris", "", "Paris"})
	col.Kind = KindCategorical
	out := Clean(&Table{Columns: []Column{col}}, CleanOptions{KeepDuplicates: true})
	c, _ := out.Col("city")
	if c.Texts[2] != "Paris" {
		t.Fatalf("expected mode fill Paris, got %q", c.Texts[2])
	}
}

func TestDropPolicyRemovesIncompleteRows(t *testing.T) {
	nan := math.NaN()
	tbl := &Table{Columns: []Column{
		numCol("a", 1, nan, 3),
		numCol("b", 4, 5, 6),
	}}
	out := Clean(tbl, CleanOptions{Missing: MissingDrop})
	if out.Rows() != 2 {
		t.Fatalf("expected 2 complete rows, got %d", out.Rows())
	}
}

func TestForwardAndBackwardFill(t *testing.T) {
	nan := math.NaN()
	fwd := Clean(&Table{Columns: []Column{numCol("v", 1, nan, nan, 4)}}, CleanOptions{Missing: MissingForwardFill, KeepDuplicates: true})
	c, _ := fwd.Col("v")
	if c.Floats[1] != 1 || c.Floats[2] != 1 {
		t.Fatalf("forward fill broken: %v", c.Floats)
	}
	bwd := Clean(&Table{Columns: []Column{numCol("v", nan, 2, nan, 4)}}, CleanOptions{Missing: MissingBackwardFill, KeepDuplicates: true})
	c, _ = bwd.Col("v")
	if c.Floats[0] != 2 || c.Floats[2] != 4 {
		t.Fatalf("backward fill broken: %v", c.Floats)
	}
}

func TestDuplicateRowsRemovedByDefault(t *testing.T) {
	tbl := &Table{Columns: []Column{
		numCol("a", 1, 1, 2),
		numCol("b", 5, 5, 6),
	}}
	out := Clean(tbl, CleanOptions{})
	if out.Rows() != 2 {
		t.Fatalf("exact duplicate row should be removed, have %d rows", out.Rows())
	}
	kept := Clean(tbl, CleanOptions{KeepDuplicates: true})
	if kept.Rows() != 3 {
		t.Fatalf("KeepDuplicates must retain all rows, have %d", kept.Rows())
	}
}

func TestIQROutlierRemoval(t *testing.T) {
	vals := []float64{10, 11, 12, 11, 10, 12, 11, 500}
	tbl := &Table{Columns: []Column{numCol("v", vals...)}}
	out := Clean(tbl, CleanOptions{Outliers: OutlierIQR, KeepDuplicates: true})
	if out.Rows() != 7 {
		t.Fatalf("expected the 500 outlier removed, got %d rows", out.Rows())
	}
	// Second pass over already-filtered data changes nothing.
	again := Clean(out, CleanOptions{Outliers: OutlierIQR, KeepDuplicates: true})
	if again.Rows() != out.Rows() {
		t.Fatalf("IQR removal not idempotent: %d -> %d", out.Rows(), again.Rows())
	}
}

func TestOutlierRemovalSequentialNarrowing(t *testing.T) {
	// Row 5 is an outlier in column a; once removed, column b's bounds are
	// computed over the narrowed table.
	tbl := &Table{Columns: []Column{
		numCol("a", 1, 2, 1, 2, 1, 1000),
		numCol("b", 10, 11, 10, 11, 10, 10),
	}}
	out := Clean(tbl, CleanOptions{Outliers: OutlierIQR, KeepDuplicates: true})
	if out.Rows() != 5 {
		t.Fatalf("expected sequential narrowing to 5 rows, got %d", out.Rows())
	}
}

func TestZScoreKeepsTightDistribution(t *testing.T) {
	tbl := &Table{Columns: []Column{numCol("v", 1, 2, 3, 4, 5)}}
	out := Clean(tbl, CleanOptions{Outliers: OutlierZScore, KeepDuplicates: true})
	if out.Rows() != 5 {
		t.Fatalf("no value is 3 sigma out, got %d rows", out.Rows())
	}
}

func TestPercentileInterpolates(t *testing.T) {
	got := percentile([]float64{1, 2, 3, 4}, 0.25)
	if math.Abs(got-1.75) > 1e-9 {
		t.Fatalf("percentile(0.25) = %v, want 1.75", got)
	}
}

func TestNewRejectsBadTables(t *testing.T) {
	if _, err := New([]Column{numCol("a", 1), numCol("a", 2)}); err == nil {
		t.Fatal("duplicate names must be rejected")
	}
	if _, err := New([]Column{numCol("a", 1, 2), numCol("b", 1)}); err == nil {
		t.Fatal("ragged columns must be rejected")
	}
}
