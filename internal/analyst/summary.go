// File path: internal/analyst/summary.go

// Package analyst orchestrates one analysis request: summarize the ingested
// bundle, ask the collaborator for a plan, validate the plan's data
// references, and execute the requested computations and chart.
package analyst

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ananyap-codes/TDSproj2/internal/dataset"
	"github.com/ananyap-codes/TDSproj2/internal/ingest"
	"github.com/ananyap-codes/TDSproj2/internal/stats"
)

const sampleRows = 5

// Summarize renders the bundle as the structured text summary handed to the
// collaborator: per table its shape, columns with inferred types, numeric
// descriptive statistics, and a small row sample. Text and images are
// described by shape only.
func Summarize(bundle ingest.Bundle) string {
	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		p := bundle[name]
		fmt.Fprintf(&sb, "File: %s\n", name)
		switch {
		case p.Table != nil:
			summarizeTable(&sb, p.Table)
		case p.Image != nil:
			fmt.Fprintf(&sb, "Image: %s, %dx%d pixels\n", p.Image.Format, p.Image.Width, p.Image.Height)
		case p.Text != "":
			fmt.Fprintf(&sb, "Plain text, %d characters\n", len(p.Text))
		default:
			sb.WriteString("Structured JSON document (no tabular shape)\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func summarizeTable(sb *strings.Builder, t *dataset.Table) {
	fmt.Fprintf(sb, "Shape: %d rows, %d columns\n", t.Rows(), len(t.Columns))
	cols := make([]string, 0, len(t.Columns))
	for i := range t.Columns {
		c := &t.Columns[i]
		cols = append(cols, fmt.Sprintf("%s (%s)", c.Name, c.Kind))
	}
	fmt.Fprintf(sb, "Columns: %s\n", strings.Join(cols, ", "))

	summary := stats.Describe(t)
	if len(summary.Numeric) > 0 {
		sb.WriteString("Numeric statistics:\n")
		names := make([]string, 0, len(summary.Numeric))
		for name := range summary.Numeric {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := summary.Numeric[name]
			fmt.Fprintf(sb, "  %s: count=%d mean=%.4g std=%.4g min=%.4g q1=%.4g median=%.4g q3=%.4g max=%.4g\n",
				name, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
		}
	}

	n := t.Rows()
	if n > sampleRows {
		n = sampleRows
	}
	if n > 0 {
		fmt.Fprintf(sb, "Sample (first %d rows):\n", n)
		fmt.Fprintf(sb, "  %s\n", strings.Join(t.ColumnNames(), " | "))
		for i := 0; i < n; i++ {
			cells := make([]string, len(t.Columns))
			for ci := range t.Columns {
				cells[ci] = t.Columns[ci].CellString(i)
			}
			fmt.Fprintf(sb, "  %s\n", strings.Join(cells, " | "))
		}
	}
}
