// File path: internal/analyst/prompt.go
package analyst

import (
	"fmt"

	"github.com/ananyap-codes/TDSproj2/internal/llm"
)

const systemPrompt = `You are an expert data analyst with advanced statistical knowledge.

Your task is to analyze data and answer user questions. You must:

1. Provide accurate, data-driven insights
2. Suggest appropriate visualizations when helpful
3. Explain statistical concepts clearly
4. Return responses in a specific JSON format

Response format:
{
    "answers": ["answer1", "answer2", ...],
    "insights": "Key insights from the analysis",
    "needs_visualization": true,
    "chart_config": {
        "type": "scatter|bar|line|histogram|heatmap|box",
        "x_column": "column_name",
        "y_column": "column_name",
        "title": "Chart Title",
        "data_source": "filename",
        "add_regression": true,
        "bins": 30
    },
    "requires_computation": true,
    "computations": [
        {
            "type": "correlation|regression|descriptive",
            "columns": ["col1", "col2"],
            "data_source": "filename"
        }
    ],
    "statistical_summary": "Summary of key statistics",
    "success": true
}

Return only the JSON object. Be precise with column names and ensure all
referenced columns exist in the data.`

// BuildMessages assembles the chat exchange: the fixed plan schema as the
// system message, the verbatim questions plus the data summary as the user
// message.
func BuildMessages(questions, summary string) []llm.Message {
	user := fmt.Sprintf(`Please analyze the following data and answer the user's questions:

USER QUESTIONS:
%s

DATA SUMMARY:
%s

Provide a comprehensive analysis addressing each question. Include specific
calculations, statistical tests, or visualizations that would help answer
the questions.`, questions, summary)
	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
}
