// File path: internal/ingest/ingest_test.go
package ingest

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/ananyap-codes/TDSproj2/internal/dataset"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

func TestProcessRejectsUnknownExtension(t *testing.T) {
	_, err := Process("malware.exe", []byte("x"), Options{})
	if !fault.Is(err, fault.UnsupportedFileType) {
		t.Fatalf("want UnsupportedFileType, got %v", err)
	}
}

func TestProcessCSVCommaUTF8(t *testing.T) {
	data := []byte("name,amount\nwidget,\"$1,200\"\ngadget,$950\n")
	p, err := Process("sales.csv", data, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Table == nil {
		t.Fatal("expected a table payload")
	}
	if got := p.Table.ColumnNames(); !reflect.DeepEqual(got, []string{"name", "amount"}) {
		t.Fatalf("columns = %v", got)
	}
	amount, _ := p.Table.Col("amount")
	if amount.Kind != dataset.KindNumeric {
		t.Fatalf("monetary column should normalize to numeric, got %s", amount.Kind)
	}
	if amount.Floats[0] != 1200 {
		t.Fatalf("amount[0] = %v, want 1200", amount.Floats[0])
	}
}

func TestProcessCSVSemicolonLatin1(t *testing.T) {
	// "café;prix" with a Latin-1 encoded é (0xE9): invalid UTF-8, so the
	// sweep must fall through to the Latin-1 decoder and the semicolon
	// separator.
	data := []byte("caf\xe9;prix\nespresso;2\nallong\xe9;3\n")
	p, err := Process("menu.csv", data, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Table == nil || len(p.Table.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %v", p.Table)
	}
	if p.Table.Columns[0].Name != "café" {
		t.Fatalf("accented header mangled: %q", p.Table.Columns[0].Name)
	}
}

func TestProcessTSV(t *testing.T) {
	data := []byte("a\tb\n1\t2\n3\t4\n")
	p, err := Process("data.tsv", data, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(p.Table.Columns) != 2 || p.Table.Rows() != 2 {
		t.Fatalf("unexpected shape: %d cols, %d rows", len(p.Table.Columns), p.Table.Rows())
	}
}

func TestProcessJSONRecords(t *testing.T) {
	data := []byte(`[{"city":"Paris","pop":2148000},{"city":"Lyon","pop":513000}]`)
	p, err := Process("cities.json", data, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Table == nil {
		t.Fatal("array of records should materialize as a table")
	}
	pop, ok := p.Table.Col("pop")
	if !ok || pop.Kind != dataset.KindNumeric {
		t.Fatalf("pop column should be numeric, got %v", pop)
	}
}

func TestProcessJSONOpaqueShape(t *testing.T) {
	data := []byte(`{"meta":{"version":2},"items":[1,2,3]}`)
	p, err := Process("config.json", data, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Table != nil || p.Raw == nil {
		t.Fatal("non-record JSON must pass through as opaque value")
	}
}

func TestProcessJSONCorrupt(t *testing.T) {
	_, err := Process("broken.json", []byte(`{"unterminated`), Options{})
	if !fault.Is(err, fault.CorruptFile) {
		t.Fatalf("want CorruptFile, got %v", err)
	}
}

func TestProcessText(t *testing.T) {
	p, err := Process("notes.txt", []byte("hello world"), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Text != "hello world" {
		t.Fatalf("text payload = %q", p.Text)
	}
}

func TestProcessImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	p, err := Process("pic.png", buf.Bytes(), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Image == nil {
		t.Fatal("expected image payload")
	}
	if p.Image.Width != 8 || p.Image.Height != 4 || p.Image.Format != "png" {
		t.Fatalf("metadata wrong: %+v", p.Image)
	}
	if !strings.HasPrefix(p.Image.DataURI, "data:image/png;base64,") {
		t.Fatalf("data URI malformed: %.40s", p.Image.DataURI)
	}
}

func TestProcessCorruptImage(t *testing.T) {
	_, err := Process("pic.jpg", []byte("not an image at all"), Options{})
	if !fault.Is(err, fault.CorruptFile) {
		t.Fatalf("want CorruptFile, got %v", err)
	}
}

func TestProcessXLSXFirstSheet(t *testing.T) {
	data := buildXLSX(t)
	p, err := Process("book.xlsx", data, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := p.Table.ColumnNames(); !reflect.DeepEqual(got, []string{"item", "qty"}) {
		t.Fatalf("columns = %v", got)
	}
	if p.Table.Rows() != 2 {
		t.Fatalf("rows = %d, want 2", p.Table.Rows())
	}
	qty, _ := p.Table.Col("qty")
	if qty.Kind != dataset.KindNumeric || qty.Floats[1] != 7 {
		t.Fatalf("qty column wrong: %+v", qty)
	}
}

func TestProcessLegacyXLSRejected(t *testing.T) {
	_, err := Process("old.xls", []byte{0xd0, 0xcf, 0x11, 0xe0}, Options{})
	if !fault.Is(err, fault.CorruptFile) {
		t.Fatalf("want CorruptFile for legacy .xls, got %v", err)
	}
}

func TestProcessAllKeepsGoodFiles(t *testing.T) {
	files := map[string][]byte{
		"good.csv": []byte("a,b\n1,2\n"),
		"bad.zzz":  []byte("??"),
	}
	bundle, failures := ProcessAll(files, Options{})
	if len(bundle) != 1 {
		t.Fatalf("bundle size = %d, want 1", len(bundle))
	}
	if _, ok := failures["bad.zzz"]; !ok {
		t.Fatal("failure for bad.zzz should be recorded")
	}
}

func TestMaxRowsCap(t *testing.T) {
	data := []byte("a,b\n1,2\n3,4\n5,6\n7,8\n")
	p, err := Process("big.csv", data, Options{MaxRows: 2})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Table.Rows() != 2 {
		t.Fatalf("rows = %d, want capped 2", p.Table.Rows())
	}
}

func TestDedupeNames(t *testing.T) {
	got := dedupeNames([]string{"a", "a", "", "a"})
	want := []string{"a", "a_2", "column_3", "a_3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dedupeNames = %v, want %v", got, want)
	}
}

// buildXLSX assembles a minimal two-column workbook with shared strings.
func buildXLSX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := map[string]string{
		"xl/workbook.xml":            `<?xml version="1.0"?><workbook><sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?><Relationships><Relationship Id="rId1" Target="worksheets/sheet1.xml"/></Relationships>`,
		"xl/sharedStrings.xml":       `<?xml version="1.0"?><sst><si><t>item</t></si><si><t>qty</t></si><si><t>bolt</t></si><si><t>nut</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?><worksheet><sheetData>` +
			`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>` +
			`<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>3</v></c></row>` +
			`<row r="3"><c r="A3" t="s"><v>3</v></c><c r="B3"><v>7</v></c></row>` +
			`</sheetData></worksheet>`,
	}
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
