// File path: internal/dataset/normalize.go
package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Promotion thresholds. A text column becomes numeric only when at least
// numericThreshold of its non-missing cells coerce; anything less stays
// textual so a 60%-numeric column is not silently corrupted.
const (
	numericThreshold = 0.8
	dateSampleSize   = 10
)

var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`), "2006-01-02"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`), "01/02/2006"},
	{regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`), "01-02-2006"},
}

var numericStripper = strings.NewReplacer(",", "", "$", "", "%", "")

// ParseNumeric strips formatting characters and attempts float coercion.
func ParseNumeric(s string) (float64, bool) {
	cleaned := strings.TrimSpace(numericStripper.Replace(s))
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Normalize promotes every text column, in place on a copy of the table:
// dates first (pattern sample, then full-column parse with unparseable
// cells coerced to missing), then numerics behind the 80% threshold.
// Unpromoted text columns are tagged categorical when values repeat enough
// to group on.
func Normalize(t *Table) *Table {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	for i := range cols {
		if cols[i].Kind != KindText {
			continue
		}
		if looksLikeDates(&cols[i]) {
			cols[i] = toDateColumn(&cols[i])
			continue
		}
		if num, ok := toNumericColumn(&cols[i]); ok {
			cols[i] = num
			continue
		}
		if isCategorical(&cols[i]) {
			cols[i].Kind = KindCategorical
		}
	}
	return &Table{Columns: cols}
}

// looksLikeDates samples up to dateSampleSize non-missing cells; any match
// against any pattern triggers a full-column date parse.
func looksLikeDates(c *Column) bool {
	sampled := 0
	for i := 0; i < c.Len() && sampled < dateSampleSize; i++ {
		if c.Missing[i] {
			continue
		}
		sampled++
		for _, p := range datePatterns {
			if p.re.MatchString(c.Texts[i]) {
				return true
			}
		}
	}
	return false
}

func toDateColumn(c *Column) Column {
	out := Column{Name: c.Name, Kind: KindDate, Times: make([]time.Time, c.Len()), Missing: make([]bool, c.Len())}
	for i := 0; i < c.Len(); i++ {
		if c.Missing[i] {
			out.Missing[i] = true
			continue
		}
		parsed, ok := parseDate(c.Texts[i])
		if !ok {
			out.Missing[i] = true
			continue
		}
		out.Times[i] = parsed
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, p := range datePatterns {
		if !p.re.MatchString(s) {
			continue
		}
		if t, err := time.Parse(p.layout, s); err == nil {
			return t, true
		}
		// Prefix parse covers values carrying a time-of-day suffix.
		if len(s) > len(p.layout) {
			if t, err := time.Parse(p.layout, s[:len(p.layout)]); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func toNumericColumn(c *Column) (Column, bool) {
	out := Column{Name: c.Name, Kind: KindNumeric, Floats: make([]float64, c.Len()), Missing: make([]bool, c.Len())}
	nonMissing, parsed := 0, 0
	for i := 0; i < c.Len(); i++ {
		if c.Missing[i] {
			out.Missing[i] = true
			continue
		}
		nonMissing++
		f, ok := ParseNumeric(c.Texts[i])
		if !ok {
			out.Missing[i] = true
			continue
		}
		out.Floats[i] = f
		parsed++
	}
	if nonMissing == 0 || float64(parsed)/float64(nonMissing) < numericThreshold {
		return Column{}, false
	}
	return out, true
}

// isCategorical reports whether values repeat enough for grouping: at most
// half of the non-missing cells are distinct.
func isCategorical(c *Column) bool {
	distinct := make(map[string]struct{})
	nonMissing := 0
	for i := 0; i < c.Len(); i++ {
		if c.Missing[i] {
			continue
		}
		nonMissing++
		distinct[c.Texts[i]] = struct{}{}
	}
	if nonMissing == 0 {
		return false
	}
	return len(distinct)*2 <= nonMissing
}
