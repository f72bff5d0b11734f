// File path: cmd/analyst/analyze.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ananyap-codes/TDSproj2/internal/analyst"
	"github.com/ananyap-codes/TDSproj2/internal/config"
	"github.com/ananyap-codes/TDSproj2/internal/llm"
)

var analyzeQuestionsPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [data files...]",
	Short: "Run one analysis from the command line",
	Long: `Runs a single analysis without the HTTP server: reads the question file,
ingests the listed data files, and prints the JSON result to stdout.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuestionsPath, "questions", "q", "", "path to the question text file (required)")
	_ = analyzeCmd.MarkFlagRequired("questions")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	questions, err := os.ReadFile(analyzeQuestionsPath)
	if err != nil {
		return fmt.Errorf("read questions: %w", err)
	}
	if strings.TrimSpace(string(questions)) == "" {
		return fmt.Errorf("question file %s is empty", analyzeQuestionsPath)
	}

	files := make(map[string][]byte, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read data file: %w", err)
		}
		files[filepath.Base(path)] = data
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	executor := analyst.New(llm.NewProvider(cfg), cfg)
	ctx := cmd.Context()
	if cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.AnalysisTimeout)
		defer cancel()
	}
	result, err := executor.Analyze(ctx, string(questions), files)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
