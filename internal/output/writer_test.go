package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"netval/internal/netvalue"
	"netval/internal/tabular"
)

var fixedTime = time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

func testWriter(t *testing.T, bom bool) *Writer {
	t.Helper()
	return &Writer{
		Dir: filepath.Join(t.TempDir(), "out"),
		BOM: bom,
		Now: func() time.Time { return fixedTime },
		Log: zerolog.Nop(),
	}
}

func sampleTables() []tabular.Table {
	return []tabular.Table{
		{
			Index:   0,
			Headers: []string{"日期", "单位净值"},
			Rows:    [][]string{{"2026-08-21", "1.0235"}},
		},
		{
			Index: 2,
			Rows:  [][]string{{"headerless"}},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	w := testWriter(t, false)

	snap := &netvalue.Snapshot{
		ScrapedAt: fixedTime,
		URL:       "https://example.com/",
		Method:    netvalue.MethodHTTP,
		Tables:    sampleTables(),
	}

	path, err := w.WriteJSON("icbc_net_value", netvalue.NewContent(snap, ""))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(w.Dir, "icbc_net_value_20260828_103000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"url": "https://example.com/"`)
}

func TestWriteTableCSVs(t *testing.T) {
	w := testWriter(t, false)

	paths, err := w.WriteTableCSVs("icbc_net_value", sampleTables())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	// Filenames carry the document-order table index, which is not
	// contiguous once empty tables were dropped upstream.
	require.Equal(t, filepath.Join(w.Dir, "icbc_net_value_table_0_20260828_103000.csv"), paths[0])
	require.Equal(t, filepath.Join(w.Dir, "icbc_net_value_table_2_20260828_103000.csv"), paths[1])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Equal(t, "日期,单位净值\n2026-08-21,1.0235\n", string(data))

	// Headerless tables get no header row.
	data, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Equal(t, "headerless\n", string(data))
}

func TestWriteTableCSVsBOM(t *testing.T) {
	w := testWriter(t, true)

	paths, err := w.WriteTableCSVs("cmb_product_netvalue", sampleTables()[:1])
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Equal(t, utf8BOM, data[:3])
}

func TestWriteFile(t *testing.T) {
	w := testWriter(t, false)
	path := filepath.Join(t.TempDir(), "result.csv")

	require.NoError(t, w.WriteFile(path, "a,b\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a,b\n", string(data))
}
