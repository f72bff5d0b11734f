// File path: cmd/analyst/serve.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ananyap-codes/TDSproj2/internal/analyst"
	"github.com/ananyap-codes/TDSproj2/internal/api"
	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/config"
	"github.com/ananyap-codes/TDSproj2/internal/history"
	"github.com/ananyap-codes/TDSproj2/internal/llm"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides ANALYST_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := common.Logger()
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if trimmed := strings.TrimSpace(serveAddr); trimmed != "" {
		cfg.Addr = trimmed
	}

	provider := llm.NewProvider(cfg)

	var store *history.Store
	if strings.TrimSpace(cfg.HistoryPath) != "" {
		opened, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer opened.Close()
		store = opened
	} else {
		logger.Info("analyst: history catalog disabled")
	}

	server := api.NewServer(analyst.New(provider, cfg), store, cfg)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("analyst: listening", "addr", cfg.Addr, "provider", provider.Name())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("analyst: shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
