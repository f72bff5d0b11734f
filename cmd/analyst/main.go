// File path: cmd/analyst/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ananyap-codes/TDSproj2/internal/common"
)

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Data analyst agent: file ingestion, statistics, and LLM-planned analysis",
	Long: `The analyst service accepts natural-language questions plus data files,
asks an LLM collaborator to plan an analysis, executes validated statistical
computations, optionally renders a chart, and returns a JSON answer bundle.`,
}

func main() {
	logger := common.Logger()
	if err := godotenv.Load(); err != nil {
		logger.Debug("analyst: .env file not loaded", "error", err)
	} else {
		logger.Info("analyst: environment loaded from .env")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
