package netvalue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"netval/internal/tabular"
)

func TestExtractNetValues(t *testing.T) {
	snap := &Snapshot{
		Tables: []tabular.Table{
			{
				Index:   0,
				Headers: []string{"日期", "单位净值"},
				Rows: [][]string{
					{"2026-08-21", "1.0235"},
					{"2026-08-14", "--"},
				},
			},
			{
				Index:   1,
				Headers: []string{"公告", "链接"},
				Rows:    [][]string{{"a", "b"}},
			},
		},
	}

	records := ExtractNetValues(snap)
	require.Len(t, records, 2)

	require.Equal(t, "1.0235", records[0].Fields["单位净值"])
	require.InDelta(t, 1.0235, records[0].Values["单位净值"], 1e-9)

	// "--" does not parse; it must be absent, not zero.
	require.Equal(t, "--", records[1].Fields["单位净值"])
	_, parsed := records[1].Values["单位净值"]
	require.False(t, parsed)
}

func TestExtractNetValuesEnglishHeaders(t *testing.T) {
	snap := &Snapshot{
		Tables: []tabular.Table{{
			Headers: []string{"Date", "Net Value"},
			Rows:    [][]string{{"2026-08-21", "1.02"}},
		}},
	}
	require.Len(t, ExtractNetValues(snap), 1)
}

func TestExtractNetValuesRaggedRow(t *testing.T) {
	snap := &Snapshot{
		Tables: []tabular.Table{{
			Headers: []string{"日期", "单位净值", "累计净值"},
			Rows:    [][]string{{"2026-08-21", "1.0235"}},
		}},
	}

	records := ExtractNetValues(snap)
	require.Len(t, records, 1)
	require.Equal(t, "", records[0].Fields["累计净值"])
}

func TestExtractNetValuesNoMatchingTable(t *testing.T) {
	snap := &Snapshot{
		Tables: []tabular.Table{{
			Headers: []string{"公告", "日期"},
			Rows:    [][]string{{"a", "b"}},
		}},
	}
	require.Empty(t, ExtractNetValues(snap))
}

func TestFilterTablesByHeader(t *testing.T) {
	tables := []tabular.Table{
		{Index: 0, Headers: []string{"Name", "Net Value"}},
		{Index: 1, Headers: []string{"公告"}},
		{Index: 2, Headers: []string{"单位净值"}},
	}

	require.Len(t, FilterTablesByHeader(tables, "net value"), 1)
	require.Len(t, FilterTablesByHeader(tables, "净值"), 1)
	require.Empty(t, FilterTablesByHeader(tables, "missing"))
}
