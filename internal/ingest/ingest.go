// File path: internal/ingest/ingest.go

// Package ingest turns uploaded files into request-local payloads: tables
// for tabular sources, raw text for plain text, and metadata records for
// images. Parser selection is by file extension against a fixed registry.
package ingest

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/dataset"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

// Payload is the parsed form of one uploaded file. Exactly one field is
// set: Table for tabular data, Text for plain text, Image for raster
// images, Raw for JSON that does not materialize as a table.
type Payload struct {
	Table *dataset.Table
	Text  string
	Image *ImageMeta
	Raw   interface{}
}

// ImageMeta records what the service keeps of an uploaded image: its shape
// plus a self-describing base64 re-encoding. Pixels are never analyzed.
type ImageMeta struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	DataURI  string `json:"base64_data"`
}

// Bundle maps a user-supplied file name to its parsed payload. Built once
// per request, immutable afterward.
type Bundle map[string]*Payload

// Tables returns only the tabular payloads, keyed by file name.
func (b Bundle) Tables() map[string]*dataset.Table {
	out := make(map[string]*dataset.Table)
	for name, p := range b {
		if p.Table != nil {
			out[name] = p.Table
		}
	}
	return out
}

// Options bounds ingestion work.
type Options struct {
	// MaxRows caps how many data rows are materialized per table; zero
	// means unbounded.
	MaxRows int
}

type parserFunc func(name string, data []byte, opts Options) (*Payload, error)

var registry = map[string]parserFunc{
	".csv":  parseDelimited,
	".tsv":  parseDelimited,
	".xlsx": parseXLSX,
	".xls":  parseXLS,
	".json": parseJSON,
	".txt":  parseText,
	".png":  parseImage,
	".jpg":  parseImage,
	".jpeg": parseImage,
}

// Process parses one file by extension. Unknown extensions fail with an
// UnsupportedFileType fault.
func Process(name string, data []byte, opts Options) (*Payload, error) {
	ext := strings.ToLower(filepath.Ext(name))
	parse, ok := registry[ext]
	if !ok {
		return nil, fault.New(fault.UnsupportedFileType, "unsupported file type %q", ext)
	}
	payload, err := parse(name, data, opts)
	if err != nil {
		return nil, err
	}
	if payload.Table != nil {
		payload.Table = dataset.Normalize(payload.Table)
	}
	return payload, nil
}

// ProcessAll ingests every file, skipping per-file failures so one corrupt
// upload does not abort the request. Failures are logged and reported back
// to the caller keyed by file name.
func ProcessAll(files map[string][]byte, opts Options) (Bundle, map[string]error) {
	logger := common.Logger()
	bundle := make(Bundle, len(files))
	failures := make(map[string]error)
	for name, data := range files {
		payload, err := Process(name, data, opts)
		if err != nil {
			logger.Warn("ingest: file rejected", "file", name, "error", err)
			failures[name] = err
			continue
		}
		logger.Debug("ingest: file accepted", "file", name)
		bundle[name] = payload
	}
	return bundle, failures
}

// SupportedExtensions lists the registry for the capabilities endpoint.
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".xlsx", ".xls", ".json", ".txt", ".png", ".jpg", ".jpeg"}
}

// tableFromRecords builds a text table from a header row plus data rows,
// padding ragged rows and capping at opts.MaxRows.
func tableFromRecords(header []string, rows [][]string, opts Options) (*dataset.Table, error) {
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}
	names := dedupeNames(header)
	cols := make([]dataset.Column, len(names))
	for ci, name := range names {
		cells := make([]string, len(rows))
		for ri, row := range rows {
			if ci < len(row) {
				cells[ri] = row[ci]
			}
		}
		cols[ci] = dataset.TextColumn(name, cells)
	}
	return dataset.New(cols)
}

// dedupeNames keeps column names unique by suffixing repeats, the way
// spreadsheet exports often collide on blank or repeated headers.
func dedupeNames(header []string) []string {
	seen := make(map[string]struct{}, len(header))
	out := make([]string, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		candidate := name
		for n := 2; ; n++ {
			if _, dup := seen[candidate]; !dup {
				break
			}
			candidate = name + "_" + strconv.Itoa(n)
		}
		seen[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}
