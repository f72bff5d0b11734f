// File path: internal/analyst/executor.go
package analyst

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ananyap-codes/TDSproj2/internal/chart"
	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/config"
	"github.com/ananyap-codes/TDSproj2/internal/dataset"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
	"github.com/ananyap-codes/TDSproj2/internal/ingest"
	"github.com/ananyap-codes/TDSproj2/internal/llm"
	"github.com/ananyap-codes/TDSproj2/internal/stats"
)

// Result is the assembled analysis response returned to the caller.
type Result struct {
	Answers            []string               `json:"answers"`
	Insights           string                 `json:"insights"`
	Chart              string                 `json:"chart,omitempty"`
	Computations       map[string]interface{} `json:"computations,omitempty"`
	StatisticalSummary string                 `json:"statistical_summary,omitempty"`
	FileErrors         map[string]string      `json:"file_errors,omitempty"`
	Success            bool                   `json:"success"`
	Error              string                 `json:"error,omitempty"`
}

// Executor runs one analysis request end to end. It is stateless between
// requests; every call builds its bundle fresh and discards it.
type Executor struct {
	provider llm.Provider
	cfg      config.Config
}

func New(provider llm.Provider, cfg config.Config) *Executor {
	return &Executor{provider: provider, cfg: cfg}
}

// Analyze ingests the uploaded files, obtains a plan from the collaborator,
// and executes it. Empty question text aborts the whole request; per-file
// and per-computation failures are recorded and do not.
func (e *Executor) Analyze(ctx context.Context, questions string, files map[string][]byte) (*Result, error) {
	logger := common.Logger()
	if strings.TrimSpace(questions) == "" {
		return nil, fault.New(fault.EmptyResult, "no question text provided")
	}

	bundle, failures := ingest.ProcessAll(files, ingest.Options{MaxRows: e.cfg.MaxRows})
	for name, p := range bundle {
		if p.Table != nil {
			p.Table = dataset.Clean(p.Table, dataset.CleanOptions{})
			logger.Debug("analyst: table cleaned", "file", name, "rows", p.Table.Rows())
		}
	}

	summary := Summarize(bundle)
	messages := BuildMessages(questions, summary)
	logger.Info("analyst: requesting plan", "provider", e.provider.Name(), "files", len(bundle))
	raw, err := e.provider.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("collaborator request failed: %w", err)
	}
	plan, planErr := ParsePlan(raw)
	if planErr != nil {
		logger.Warn("analyst: degraded to raw collaborator text", "error", planErr)
	}

	result := &Result{
		Answers:            plan.Answers,
		Insights:           plan.Insights,
		StatisticalSummary: plan.StatisticalSummary,
		Success:            plan.Success,
	}
	for name, ferr := range failures {
		if result.FileErrors == nil {
			result.FileErrors = make(map[string]string)
		}
		result.FileErrors[name] = ferr.Error()
	}

	tables := bundle.Tables()
	if plan.RequiresComputation && len(plan.Computations) > 0 {
		result.Computations = e.runComputations(plan.Computations, tables)
	}
	if plan.NeedsVisualization && plan.ChartConfig != nil {
		result.Chart = e.renderChart(*plan.ChartConfig, tables)
	}
	return result, nil
}

// runComputations executes every requested computation, recording per-item
// failures under computation_error_* keys so one bad reference never stops
// the rest.
func (e *Executor) runComputations(comps []Computation, tables map[string]*dataset.Table) map[string]interface{} {
	logger := common.Logger()
	out := make(map[string]interface{})
	for _, comp := range comps {
		// Strict lookup: a wrong table name is a recorded failure, not a
		// guess at a different table.
		tbl, ok := tables[comp.DataSource]
		if !ok {
			out["computation_error_"+comp.Kind] = fmt.Sprintf("data source %q not found", comp.DataSource)
			continue
		}
		key, value, err := runComputation(comp, tbl)
		if err != nil {
			logger.Warn("analyst: computation failed", "kind", comp.Kind, "error", err)
			out["computation_error_"+comp.Kind] = err.Error()
			continue
		}
		out[key] = value
	}
	return out
}

func runComputation(comp Computation, tbl *dataset.Table) (string, interface{}, error) {
	switch comp.Kind {
	case "correlation":
		if len(comp.Columns) < 2 {
			return "", nil, fault.New(fault.ComputationFailure, "correlation needs two columns")
		}
		r, err := stats.Correlation(tbl, comp.Columns[0], comp.Columns[1])
		if err != nil {
			return "", nil, err
		}
		key := fmt.Sprintf("correlation_%s_%s", comp.Columns[0], comp.Columns[1])
		if math.IsNaN(r) {
			// NaN is not representable in JSON.
			return key, "NaN", nil
		}
		return key, r, nil
	case "regression":
		if len(comp.Columns) < 2 {
			return "", nil, fault.New(fault.ComputationFailure, "regression needs two columns")
		}
		fit, err := stats.Regression(tbl, comp.Columns[0], comp.Columns[1])
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("regression_%s_%s", comp.Columns[0], comp.Columns[1]), fit, nil
	case "descriptive":
		return "descriptive_" + comp.DataSource, stats.Describe(tbl), nil
	default:
		return "", nil, fault.New(fault.ComputationFailure, "unknown computation type %q", comp.Kind)
	}
}

// renderChart resolves the chart's data source and renders within the byte
// budget. Any failure, including a data source the plan made up, yields no
// chart rather than failing the request.
func (e *Executor) renderChart(spec chart.Spec, tables map[string]*dataset.Table) string {
	logger := common.Logger()
	tbl := resolveTable(tables, spec.DataSource)
	if tbl == nil {
		logger.Warn("analyst: chart data source not found", "source", spec.DataSource)
		return ""
	}
	uri, err := chart.Render(tbl, spec, chart.Options{
		Width:    e.cfg.ChartWidth,
		Height:   e.cfg.ChartHeight,
		MaxBytes: e.cfg.ChartMaxBytes,
	})
	if err != nil {
		logger.Warn("analyst: chart rendering failed", "kind", spec.Kind, "error", err)
		return ""
	}
	return uri
}

// resolveTable looks the source up by name. An empty source falls back to
// the first table in name order, matching how plans with a single upload
// often omit the file name; a name that matches nothing yields no table.
func resolveTable(tables map[string]*dataset.Table, source string) *dataset.Table {
	if t, ok := tables[source]; ok {
		return t
	}
	if source != "" || len(tables) == 0 {
		return nil
	}
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return tables[names[0]]
}
