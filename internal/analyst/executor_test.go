// File path: internal/analyst/executor_test.go
package analyst

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ananyap-codes/TDSproj2/internal/config"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
	"github.com/ananyap-codes/TDSproj2/internal/llm"
	"github.com/ananyap-codes/TDSproj2/internal/stats"
)

type mockProvider struct {
	response string
	err      error
	messages []llm.Message
}

func (m *mockProvider) Chat(_ context.Context, messages []llm.Message) (string, error) {
	m.messages = messages
	return m.response, m.err
}

func (m *mockProvider) Name() string { return "mock" }

func linearCSV() map[string][]byte {
	return map[string][]byte{
		"data.csv": []byte("x,y\n1,2\n2,4\n3,6\n"),
	}
}

func TestAnalyzeRejectsEmptyQuestions(t *testing.T) {
	e := New(&mockProvider{}, config.DefaultConfig())
	_, err := e.Analyze(context.Background(), "   \n", linearCSV())
	if !fault.Is(err, fault.EmptyResult) {
		t.Fatalf("want EmptyResult fault, got %v", err)
	}
}

func TestAnalyzeMalformedResponseFallsBackToRawText(t *testing.T) {
	raw := "The correlation looks strong, roughly 0.95 I would say."
	e := New(&mockProvider{response: raw}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "Is x correlated with y?", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Answers) != 1 || res.Answers[0] != raw {
		t.Fatalf("answers = %v, want the raw text verbatim", res.Answers)
	}
	if res.Insights != raw {
		t.Fatalf("insights = %q, want the raw text", res.Insights)
	}
	if !res.Success {
		t.Fatal("fallback plan must report success")
	}
	if res.Chart != "" || len(res.Computations) != 0 {
		t.Fatal("fallback plan must carry no chart or computations")
	}
}

func TestAnalyzeExecutesComputations(t *testing.T) {
	plan := `{
		"answers": ["x and y are perfectly correlated"],
		"insights": "y is exactly 2x",
		"requires_computation": true,
		"computations": [
			{"type": "correlation", "columns": ["x", "y"], "data_source": "data.csv"},
			{"type": "regression", "columns": ["x", "y"], "data_source": "data.csv"}
		],
		"success": true
	}`
	e := New(&mockProvider{response: plan}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "How are x and y related?", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	corr, ok := res.Computations["correlation_x_y"].(float64)
	if !ok || math.Abs(corr-1.0) > 1e-9 {
		t.Fatalf("correlation_x_y = %v, want 1.0", res.Computations["correlation_x_y"])
	}
	fit, ok := res.Computations["regression_x_y"].(stats.RegressionResult)
	if !ok {
		t.Fatalf("regression_x_y missing from %v", res.Computations)
	}
	if math.Abs(fit.Slope-2) > 1e-9 || math.Abs(fit.Intercept) > 1e-9 || math.Abs(fit.RSquared-1) > 1e-9 {
		t.Fatalf("fit = %+v, want slope 2, intercept 0, r2 1", fit)
	}
}

func TestAnalyzeRecordsPerComputationFailures(t *testing.T) {
	plan := `{
		"answers": ["partial"],
		"requires_computation": true,
		"computations": [
			{"type": "correlation", "columns": ["x", "nope"], "data_source": "data.csv"},
			{"type": "correlation", "columns": ["x", "y"], "data_source": "data.csv"}
		],
		"success": true
	}`
	e := New(&mockProvider{response: plan}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "q", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, ok := res.Computations["computation_error_correlation"]; !ok {
		t.Fatalf("missing failure record in %v", res.Computations)
	}
	if _, ok := res.Computations["correlation_x_y"]; !ok {
		t.Fatal("valid computation should still run after a failed one")
	}
}

func TestAnalyzeRecordsUnknownDataSource(t *testing.T) {
	plan := `{
		"answers": ["a"],
		"requires_computation": true,
		"computations": [
			{"type": "correlation", "columns": ["x", "y"], "data_source": "other.csv"}
		],
		"success": true
	}`
	e := New(&mockProvider{response: plan}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "q", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	msg, ok := res.Computations["computation_error_correlation"].(string)
	if !ok || !strings.Contains(msg, "other.csv") {
		t.Fatalf("unknown data source should be a recorded failure, got %v", res.Computations)
	}
}

func TestAnalyzeRendersChart(t *testing.T) {
	plan := `{
		"answers": ["see chart"],
		"needs_visualization": true,
		"chart_config": {"type": "scatter", "x_column": "x", "y_column": "y", "data_source": "data.csv"},
		"success": true
	}`
	e := New(&mockProvider{response: plan}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "plot x vs y", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !strings.HasPrefix(res.Chart, "data:image/png;base64,") {
		t.Fatalf("chart = %.40q, want a PNG data URI", res.Chart)
	}
}

func TestAnalyzeChartUnknownDataSourceYieldsNoChart(t *testing.T) {
	plan := `{
		"answers": ["see chart"],
		"needs_visualization": true,
		"chart_config": {"type": "scatter", "x_column": "x", "y_column": "y", "data_source": "nope.csv"},
		"success": true
	}`
	e := New(&mockProvider{response: plan}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "plot", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Chart != "" {
		t.Fatal("a data source that was never uploaded must yield no chart")
	}
	if !res.Success {
		t.Fatal("a dropped chart must not fail the request")
	}
}

func TestAnalyzeChartEmptyDataSourceUsesUpload(t *testing.T) {
	plan := `{
		"answers": ["see chart"],
		"needs_visualization": true,
		"chart_config": {"type": "scatter", "x_column": "x", "y_column": "y"},
		"success": true
	}`
	e := New(&mockProvider{response: plan}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "plot", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !strings.HasPrefix(res.Chart, "data:image/png;base64,") {
		t.Fatalf("an omitted data source should use the single upload, got %.40q", res.Chart)
	}
}

func TestAnalyzeChartBadReferenceYieldsNoChart(t *testing.T) {
	plan := `{
		"answers": ["no chart possible"],
		"needs_visualization": true,
		"chart_config": {"type": "scatter", "x_column": "x", "y_column": "missing", "data_source": "data.csv"},
		"success": true
	}`
	e := New(&mockProvider{response: plan}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "plot", linearCSV())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Chart != "" {
		t.Fatal("invalid column reference must yield no chart")
	}
	if !res.Success {
		t.Fatal("a dropped chart must not fail the request")
	}
}

func TestAnalyzeCollaboratorFailure(t *testing.T) {
	e := New(&mockProvider{err: errors.New("connection refused")}, config.DefaultConfig())
	_, err := e.Analyze(context.Background(), "q", linearCSV())
	if err == nil {
		t.Fatal("collaborator failure should abort the request")
	}
}

func TestAnalyzeRecordsFileFailures(t *testing.T) {
	files := linearCSV()
	files["weird.zzz"] = []byte("??")
	e := New(&mockProvider{response: "plain text"}, config.DefaultConfig())
	res, err := e.Analyze(context.Background(), "q", files)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, ok := res.FileErrors["weird.zzz"]; !ok {
		t.Fatalf("rejected file should be reported, got %v", res.FileErrors)
	}
}

func TestAnalyzePassesQuestionsToCollaborator(t *testing.T) {
	mock := &mockProvider{response: "ok"}
	e := New(mock, config.DefaultConfig())
	if _, err := e.Analyze(context.Background(), "What drives sales?", linearCSV()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(mock.messages) != 2 {
		t.Fatalf("want system+user messages, got %d", len(mock.messages))
	}
	if !strings.Contains(mock.messages[1].Content, "What drives sales?") {
		t.Fatal("questions must reach the collaborator verbatim")
	}
	if !strings.Contains(mock.messages[1].Content, "data.csv") {
		t.Fatal("data summary must name the uploaded file")
	}
}
