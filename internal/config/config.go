// File path: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects every tunable read from the environment. Flags on the
// serve command may override individual fields after loading.
type Config struct {
	Addr            string
	HistoryPath     string
	MaxUploadBytes  int64
	AnalysisTimeout time.Duration
	MaxRows         int

	ChartMaxBytes int
	ChartWidth    int
	ChartHeight   int

	OllamaHost  string
	OllamaModel string
}

// DefaultConfig returns the standard configuration used when no overrides
// are provided.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxUploadBytes:  100 << 20,
		AnalysisTimeout: 3 * time.Minute,
		MaxRows:         100000,
		ChartMaxBytes:   100000,
		ChartWidth:      1000,
		ChartHeight:     600,
		OllamaModel:     "llama3",
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("ANALYST_ADDR")); value != "" {
		cfg.Addr = value
	}
	if value := strings.TrimSpace(os.Getenv("ANALYST_HISTORY_PATH")); value != "" {
		cfg.HistoryPath = value
	}
	if value := strings.TrimSpace(os.Getenv("ANALYST_MAX_UPLOAD_BYTES")); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse ANALYST_MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.MaxUploadBytes = n
	}
	if value := strings.TrimSpace(os.Getenv("ANALYST_TIMEOUT")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse ANALYST_TIMEOUT: %w", err)
		}
		cfg.AnalysisTimeout = dur
	}
	if value := strings.TrimSpace(os.Getenv("ANALYST_MAX_ROWS")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse ANALYST_MAX_ROWS: %w", err)
		}
		cfg.MaxRows = n
	}
	if value := strings.TrimSpace(os.Getenv("ANALYST_CHART_MAX_BYTES")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse ANALYST_CHART_MAX_BYTES: %w", err)
		}
		cfg.ChartMaxBytes = n
	}
	if value := strings.TrimSpace(os.Getenv("ANALYST_CHART_WIDTH")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse ANALYST_CHART_WIDTH: %w", err)
		}
		cfg.ChartWidth = n
	}
	if value := strings.TrimSpace(os.Getenv("ANALYST_CHART_HEIGHT")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse ANALYST_CHART_HEIGHT: %w", err)
		}
		cfg.ChartHeight = n
	}
	if value := strings.TrimSpace(os.Getenv("OLLAMA_HOST")); value != "" {
		cfg.OllamaHost = value
	}
	if value := strings.TrimSpace(os.Getenv("OLLAMA_MODEL")); value != "" {
		cfg.OllamaModel = value
	}
	return cfg, nil
}
