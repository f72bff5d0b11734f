// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/ananyap-codes/TDSproj2/internal/analyst"
	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/config"
	"github.com/ananyap-codes/TDSproj2/internal/history"
	"github.com/ananyap-codes/TDSproj2/internal/ingest"
)

const serviceVersion = "1.0.0"

type Server struct {
	router   chi.Router
	executor *analyst.Executor
	history  *history.Store
	cfg      config.Config
}

// NewServer wires the analysis executor and the optional history catalog
// behind the HTTP surface. A nil history store disables the catalog routes'
// persistence but keeps the service fully functional.
func NewServer(executor *analyst.Executor, store *history.Store, cfg config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		executor: executor,
		history:  store,
		cfg:      cfg,
	}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/", s.handleStatus)
	s.router.Post("/api/", s.handleAnalyze)
	s.router.Get("/api/capabilities", s.handleCapabilities)
	s.router.Get("/api/history", s.handleHistory)
	s.router.Get("/api/logs", s.handleLogs)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "Data Analyst Agent API",
		"version":   serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"supported_file_types": ingest.SupportedExtensions(),
		"analysis_capabilities": []string{
			"Statistical analysis",
			"Data visualization",
			"Correlation analysis",
			"Regression analysis",
			"Data cleaning and preparation",
		},
		"chart_types":       []string{"scatter", "bar", "line", "histogram", "heatmap", "box"},
		"max_upload_bytes":  s.cfg.MaxUploadBytes,
		"chart_byte_budget": s.cfg.ChartMaxBytes,
		"history_enabled":   s.history != nil,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errHistoryDisabled)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := parsePositiveInt(raw); err == nil {
			limit = n
		}
	}
	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"analyses": records})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
