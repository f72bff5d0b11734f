// File path: internal/analyst/plan.go
package analyst

import (
	"encoding/json"
	"strings"

	"github.com/ananyap-codes/TDSproj2/internal/chart"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

// Computation is one requested statistical operation, referencing a table
// and its columns by name. References are re-validated at execution time.
type Computation struct {
	Kind       string   `json:"type"`
	DataSource string   `json:"data_source"`
	Columns    []string `json:"columns"`
}

// Plan is the collaborator's structured response.
type Plan struct {
	Answers             []string      `json:"answers"`
	Insights            string        `json:"insights"`
	NeedsVisualization  bool          `json:"needs_visualization"`
	ChartConfig         *chart.Spec   `json:"chart_config"`
	RequiresComputation bool          `json:"requires_computation"`
	Computations        []Computation `json:"computations"`
	StatisticalSummary  string        `json:"statistical_summary"`
	Success             bool          `json:"success"`
}

// ParsePlan extracts the plan JSON from a raw collaborator response,
// tolerating markdown fences and surrounding prose. A response with no
// usable JSON degrades to the fallback plan, the whole raw text as the sole
// answer and the insight with success still true, and the returned
// UpstreamPlanMalformed fault records what was wrong with the response.
func ParsePlan(raw string) (Plan, error) {
	candidate := stripFences(raw)
	start, end := strings.Index(candidate, "{"), strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return fallbackPlan(raw), fault.New(fault.UpstreamPlanMalformed, "collaborator response contains no JSON object")
	}
	var plan Plan
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &plan); err != nil {
		return fallbackPlan(raw), fault.Wrap(fault.UpstreamPlanMalformed, err, "collaborator response is not valid plan JSON")
	}
	return plan, nil
}

func fallbackPlan(raw string) Plan {
	return Plan{
		Answers:  []string{raw},
		Insights: raw,
		Success:  true,
	}
}

func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
