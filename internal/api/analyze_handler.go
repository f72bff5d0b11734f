// File path: internal/api/analyze_handler.go
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

const multipartMemory = 32 << 20

var errHistoryDisabled = errors.New("history catalog is not enabled")

// handleAnalyze is the main entry point: a multipart POST carrying the
// question text (a questions.txt part or a questions form field) plus any
// number of data files. The whole request shares one timeout.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse upload form: %w", err))
		return
	}

	questions, err := s.extractQuestions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	files, err := s.extractFiles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	if s.cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AnalysisTimeout)
		defer cancel()
	}

	logger.Info("api: analysis request", "files", len(files))
	result, err := s.executor.Analyze(ctx, questions, files)
	if err != nil {
		switch {
		case fault.Is(err, fault.EmptyResult):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, err)
		default:
			writeError(w, http.StatusBadGateway, err)
		}
		return
	}

	if s.history != nil {
		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		if err := s.history.Insert(r.Context(), questions, names, result); err != nil {
			logger.Warn("api: failed to catalog analysis", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// extractQuestions requires a questions.txt file part, accepting a plain
// questions form field as the fallback.
func (s *Server) extractQuestions(r *http.Request) (string, error) {
	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["questions.txt"]; len(headers) > 0 {
			f, err := headers[0].Open()
			if err != nil {
				return "", fmt.Errorf("open questions.txt: %w", err)
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return "", fmt.Errorf("read questions.txt: %w", err)
			}
			return string(data), nil
		}
	}
	if value := strings.TrimSpace(r.FormValue("questions")); value != "" {
		return value, nil
	}
	return "", errors.New("questions.txt file is required")
}

// extractFiles reads every uploaded part except questions.txt into memory.
func (s *Server) extractFiles(r *http.Request) (map[string][]byte, error) {
	files := make(map[string][]byte)
	if r.MultipartForm == nil {
		return files, nil
	}
	for key, headers := range r.MultipartForm.File {
		if key == "questions.txt" {
			continue
		}
		for _, header := range headers {
			if header.Filename == "" {
				continue
			}
			f, err := header.Open()
			if err != nil {
				return nil, fmt.Errorf("open uploaded file %s: %w", header.Filename, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read uploaded file %s: %w", header.Filename, err)
			}
			files[header.Filename] = data
		}
	}
	return files, nil
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive: %d", n)
	}
	return n, nil
}
