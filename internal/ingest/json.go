// File path: internal/ingest/json.go
package ingest

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ananyap-codes/TDSproj2/internal/dataset"
	"github.com/ananyap-codes/TDSproj2/internal/fault"
)

// parseJSON materializes an array of uniform key-value records as a table;
// any other JSON shape passes through as an opaque structured value.
func parseJSON(name string, data []byte, opts Options) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fault.Wrap(fault.CorruptFile, err, "parse %s", name)
	}
	records, ok := value.([]interface{})
	if !ok || len(records) == 0 {
		return &Payload{Raw: value}, nil
	}
	objects := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		obj, ok := rec.(map[string]interface{})
		if !ok {
			return &Payload{Raw: value}, nil
		}
		objects = append(objects, obj)
	}

	if opts.MaxRows > 0 && len(objects) > opts.MaxRows {
		objects = objects[:opts.MaxRows]
	}
	keys := unionKeys(objects)
	cols := make([]dataset.Column, len(keys))
	for ci, key := range keys {
		cells := make([]string, len(objects))
		for ri, obj := range objects {
			cells[ri] = scalarString(obj[key])
		}
		cols[ci] = dataset.TextColumn(key, cells)
	}
	table, err := dataset.New(cols)
	if err != nil {
		return nil, fault.Wrap(fault.CorruptFile, err, "materialize %s", name)
	}
	return &Payload{Table: table}, nil
}

// unionKeys collects column names across records, keeping a stable sorted
// order so repeated ingests of the same file agree.
func unionKeys(objects []map[string]interface{}) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, obj := range objects {
		for k := range obj {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// scalarString renders a JSON value into a text cell; nested structures are
// re-encoded compactly and nulls become missing cells.
func scalarString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
