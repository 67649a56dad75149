package netvalue

import (
	"strings"

	"netval/internal/tabular"
)

// Record is one net-value row: the raw header→cell fields plus the cleaned
// numeric reading of the cells that parsed as numbers.
type Record struct {
	Fields map[string]string  `json:"fields"`
	Values map[string]float64 `json:"values,omitempty"`
}

// netValueHeader reports whether a column label looks like a net-value
// column. The disclosure pages label these 净值 (unit NAV) or with English
// net/value variants.
func netValueHeader(h string) bool {
	if strings.Contains(h, "净值") {
		return true
	}
	lower := strings.ToLower(h)
	return strings.Contains(lower, "net") || strings.Contains(lower, "value")
}

// ExtractNetValues flattens every table carrying a net-value column into
// records. Ragged rows are tolerated: missing cells come back as empty
// strings, surplus cells are dropped.
func ExtractNetValues(s *Snapshot) []Record {
	var records []Record
	for _, t := range s.Tables {
		relevant := false
		for _, h := range t.Headers {
			if netValueHeader(h) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		for _, row := range t.Rows {
			rec := Record{
				Fields: make(map[string]string, len(t.Headers)),
				Values: map[string]float64{},
			}
			for i, h := range t.Headers {
				var cell string
				if i < len(row) {
					cell = row[i]
				}
				rec.Fields[h] = cell
				if f, ok := tabular.CleanNumeric(cell); ok {
					rec.Values[h] = f
				}
			}
			if len(rec.Values) == 0 {
				rec.Values = nil
			}
			records = append(records, rec)
		}
	}
	return records
}

// FilterTablesByHeader returns the tables whose headers contain term,
// case-insensitively.
func FilterTablesByHeader(tables []tabular.Table, term string) []tabular.Table {
	term = strings.ToLower(term)
	var matched []tabular.Table
	for _, t := range tables {
		for _, h := range t.Headers {
			if strings.Contains(strings.ToLower(h), term) {
				matched = append(matched, t)
				break
			}
		}
	}
	return matched
}
