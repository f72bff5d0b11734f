// File path: internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ANALYST_ADDR", "")
	t.Setenv("ANALYST_HISTORY_PATH", "")
	t.Setenv("ANALYST_MAX_UPLOAD_BYTES", "")
	t.Setenv("ANALYST_TIMEOUT", "")
	t.Setenv("ANALYST_CHART_MAX_BYTES", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	defaults := DefaultConfig()
	if cfg != defaults {
		t.Fatalf("LoadConfig defaults mismatch: %#v", cfg)
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("ANALYST_ADDR", ":9999")
	t.Setenv("ANALYST_HISTORY_PATH", "/tmp/history.db")
	t.Setenv("ANALYST_TIMEOUT", "45s")
	t.Setenv("ANALYST_CHART_MAX_BYTES", "50000")
	t.Setenv("OLLAMA_HOST", "http://localhost:11434")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("addr override ignored: %q", cfg.Addr)
	}
	if cfg.HistoryPath != "/tmp/history.db" {
		t.Fatalf("history path override ignored: %q", cfg.HistoryPath)
	}
	if cfg.AnalysisTimeout != 45*time.Second {
		t.Fatalf("timeout override ignored: %v", cfg.AnalysisTimeout)
	}
	if cfg.ChartMaxBytes != 50000 {
		t.Fatalf("chart budget override ignored: %d", cfg.ChartMaxBytes)
	}
	if cfg.OllamaHost != "http://localhost:11434" {
		t.Fatalf("ollama host override ignored: %q", cfg.OllamaHost)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("ANALYST_TIMEOUT", "not-a-duration")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for malformed ANALYST_TIMEOUT")
	}
}
