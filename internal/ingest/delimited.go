// File path: internal/ingest/delimited.go
package ingest

import (
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/ananyap-codes/TDSproj2/internal/common"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

// The candidate sweep is an explicit, fixed priority order: for each text
// encoding, try each separator; the first combination producing more than
// one column wins.
var separators = []rune{',', ';', '\t'}

var encodings = []struct {
	name    string
	decoder *encoding.Decoder
}{
	{"utf-8", nil},
	{"latin-1", charmap.ISO8859_1.NewDecoder()},
	{"windows-1252", charmap.Windows1252.NewDecoder()},
}

func parseDelimited(name string, data []byte, opts Options) (*Payload, error) {
	logger := common.Logger()
	for _, enc := range encodings {
		text, ok := decodeWith(data, enc.decoder)
		if !ok {
			continue
		}
		for _, sep := range separators {
			header, rows, err := readDelimited(text, sep)
			if err != nil || len(header) <= 1 {
				continue
			}
			logger.Debug("ingest: delimited sweep hit", "file", name, "encoding", enc.name, "separator", string(sep))
			table, err := tableFromRecords(header, rows, opts)
			if err != nil {
				return nil, fault.Wrap(fault.CorruptFile, err, "materialize %s", name)
			}
			return &Payload{Table: table}, nil
		}
	}

	// Fallback: a plain comma/UTF-8 attempt whose error is surfaced.
	header, rows, err := readDelimited(string(data), ',')
	if err != nil {
		return nil, fault.Wrap(fault.CorruptFile, err, "parse %s", name)
	}
	table, err := tableFromRecords(header, rows, opts)
	if err != nil {
		return nil, fault.Wrap(fault.CorruptFile, err, "materialize %s", name)
	}
	return &Payload{Table: table}, nil
}

// decodeWith renders raw bytes through the candidate decoder. The UTF-8
// candidate (nil decoder) only matches when the bytes validate, so mangled
// Latin-1 uploads fall through to the single-byte decoders.
func decodeWith(data []byte, dec *encoding.Decoder) (string, bool) {
	if dec == nil {
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func readDelimited(text string, sep rune) ([]string, [][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}
