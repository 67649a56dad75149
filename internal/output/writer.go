package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"netval/internal/scraper"
	"netval/internal/tabular"
)

const timestampLayout = "20060102_150405"

// utf8BOM makes Excel detect the encoding; the disclosure data is mostly
// CJK text and opens as mojibake without it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer saves scrape results into a run-scoped output directory with
// timestamped filenames.
type Writer struct {
	Dir string
	BOM bool // prefix CSV files with a UTF-8 BOM

	Now func() time.Time // nil means time.Now
	Log zerolog.Logger
}

func (w *Writer) timestamp() string {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return now().Format(timestampLayout)
}

func (w *Writer) ensureDir() error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteJSON writes content's JSON rendering to <prefix>_<timestamp>.json
// and returns the path.
func (w *Writer) WriteJSON(prefix string, content scraper.Content) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	data, err := content.ToJSON()
	if err != nil {
		return "", fmt.Errorf("failed to render json: %w", err)
	}

	path := filepath.Join(w.Dir, fmt.Sprintf("%s_%s.json", prefix, w.timestamp()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write json file: %w", err)
	}

	w.Log.Info().Str("path", path).Msg("json saved")
	return path, nil
}

// WriteTableCSVs writes one CSV file per table, named
// <prefix>_table_<index>_<timestamp>.csv, and returns the written paths.
// A failure on one table is logged and does not stop the rest.
func (w *Writer) WriteTableCSVs(prefix string, tables []tabular.Table) ([]string, error) {
	if err := w.ensureDir(); err != nil {
		return nil, err
	}

	ts := w.timestamp()
	var paths []string
	for _, t := range tables {
		path := filepath.Join(w.Dir, fmt.Sprintf("%s_table_%d_%s.csv", prefix, t.Index, ts))
		if err := w.writeCSV(path, t); err != nil {
			w.Log.Error().Err(err).Int("table", t.Index).Msg("failed to write table csv")
			continue
		}
		w.Log.Info().Str("path", path).Int("rows", len(t.Rows)).Msg("csv saved")
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeCSV(path string, t tabular.Table) error {
	var buf bytes.Buffer
	if w.BOM {
		buf.Write(utf8BOM)
	}

	cw := csv.NewWriter(&buf)
	if len(t.Headers) > 0 {
		if err := cw.Write(t.Headers); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteFile writes already-formatted content to an explicit path, used
// for the -o flag.
func (w *Writer) WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	w.Log.Info().Str("path", path).Msg("output written")
	return nil
}
