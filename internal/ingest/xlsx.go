// File path: internal/ingest/xlsx.go
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

// parseXLSX reads the first worksheet of an .xlsx workbook with a minimal
// OOXML reader: workbook + relationships to resolve the sheet path, the
// shared-string pool, then a streaming row walk. Only the first sheet is
// materialized.
func parseXLSX(name string, data []byte, opts Options) (*Payload, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fault.Wrap(fault.CorruptFile, err, "open workbook %s", name)
	}
	sheetPath := firstSheetPath(
		zipEntry(zr, "xl/workbook.xml"),
		zipEntry(zr, "xl/_rels/workbook.xml.rels"),
	)
	sheetXML := zipEntry(zr, sheetPath)
	if len(sheetXML) == 0 {
		return nil, fault.New(fault.CorruptFile, "workbook %s has no readable worksheet", name)
	}
	shared := sharedStrings(zipEntry(zr, "xl/sharedStrings.xml"))

	walker := newRowWalker(sheetXML, shared)
	header, ok := walker.next()
	if !ok || len(header) == 0 {
		return nil, fault.New(fault.CorruptFile, "worksheet in %s is empty", name)
	}
	var rows [][]string
	for {
		row, ok := walker.next()
		if !ok {
			break
		}
		rows = append(rows, row)
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			break
		}
	}
	table, err := tableFromRecords(header, rows, opts)
	if err != nil {
		return nil, fault.Wrap(fault.CorruptFile, err, "materialize %s", name)
	}
	return &Payload{Table: table}, nil
}

// parseXLS rejects the legacy binary format with a pointed message; only
// OOXML workbooks are readable.
func parseXLS(name string, _ []byte, _ Options) (*Payload, error) {
	return nil, fault.New(fault.CorruptFile, "legacy .xls workbook %s is not supported; save it as .xlsx", name)
}

func zipEntry(zr *zip.Reader, path string) []byte {
	for _, f := range zr.File {
		if f.Name != path {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		return data
	}
	return nil
}

// firstSheetPath resolves the zip path of the workbook's first sheet via
// its relationship id, falling back to the conventional sheet1.xml.
func firstSheetPath(workbookXML, relsXML []byte) string {
	fallback := "xl/worksheets/sheet1.xml"
	rid := firstSheetRID(workbookXML)
	if rid == "" {
		return fallback
	}
	target := relationshipTarget(relsXML, rid)
	if target == "" {
		return fallback
	}
	target = strings.TrimPrefix(target, "/")
	if !strings.HasPrefix(target, "xl/") {
		target = "xl/" + target
	}
	return target
}

func firstSheetRID(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "sheet" {
			for _, a := range se.Attr {
				if a.Name.Local == "id" {
					return a.Value
				}
			}
		}
	}
}

func relationshipTarget(data []byte, rid string) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id == rid {
			return target
		}
	}
}

func sharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write([]byte(el))
			}
		}
	}
}

// rowWalker streams <row> elements out of a worksheet, resolving shared
// strings and sparse cell references as it goes.
type rowWalker struct {
	dec    *xml.Decoder
	shared []string
	cells  []string
	width  int
	inRow  bool
}

func newRowWalker(sheetXML []byte, shared []string) *rowWalker {
	return &rowWalker{dec: xml.NewDecoder(bytes.NewReader(sheetXML)), shared: shared}
}

func (w *rowWalker) next() ([]string, bool) {
	for {
		tok, err := w.dec.Token()
		if err != nil {
			return nil, false
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "row":
				w.inRow = true
				w.cells = nil
				w.width = 0
			case "c":
				if !w.inRow {
					continue
				}
				var ref, typ string
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				idx := cellIndex(ref)
				if idx < 0 {
					idx = w.width
				}
				if idx+1 > w.width {
					w.width = idx + 1
				}
				val := w.cellValue(typ)
				for len(w.cells) <= idx {
					w.cells = append(w.cells, "")
				}
				w.cells[idx] = val
			}
		case xml.EndElement:
			if el.Name.Local == "row" && w.inRow {
				for len(w.cells) < w.width {
					w.cells = append(w.cells, "")
				}
				w.inRow = false
				return w.cells, true
			}
		}
	}
}

// cellValue reads up to </c>, capturing the inner <v> or inline <is><t>
// text and resolving shared-string indices.
func (w *rowWalker) cellValue(typ string) string {
	var val string
	for {
		tok, err := w.dec.Token()
		if err != nil {
			return val
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "v" || el.Name.Local == "t" {
				var sb strings.Builder
				for {
					inner, err := w.dec.Token()
					if err != nil {
						break
					}
					if end, ok := inner.(xml.EndElement); ok && (end.Name.Local == "v" || end.Name.Local == "t") {
						break
					}
					if ch, ok := inner.(xml.CharData); ok {
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if el.Name.Local == "c" {
				if typ == "s" {
					idx, err := strconv.Atoi(val)
					if err != nil || idx < 0 || idx >= len(w.shared) {
						return ""
					}
					return w.shared[idx]
				}
				return val
			}
		}
	}
}

// cellIndex turns a reference like "C12" into a zero-based column index.
func cellIndex(ref string) int {
	i := 0
	for i < len(ref) && ((ref[i] >= 'A' && ref[i] <= 'Z') || (ref[i] >= 'a' && ref[i] <= 'z')) {
		i++
	}
	if i == 0 {
		return -1
	}
	idx := 0
	for _, c := range strings.ToUpper(ref[:i]) {
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}
