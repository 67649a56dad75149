package cmb

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"netval/internal/fetcher"
	"netval/internal/netvalue"
	"netval/internal/tabular"
)

// Selectors tried in order when the values render as a list instead of a
// table; each matched item becomes a one-cell row.
var listItemSelectors = []string{
	".data-list .item",
	".netvalue-list .item",
	".list-item",
	"[class*='list'] > div",
	"tbody tr",
	".row",
}

// A list selector has to match more than one element before it is trusted;
// a single hit is usually a layout wrapper, not a data item.
const minListItems = 2

// buildSnapshot parses the rendered page into a snapshot. The product
// table is the one with the most data rows; rows whose cells are all
// empty are dropped. When no table yields data the list-structure
// fallback runs, and when that also comes up empty the scrape failed.
func buildSnapshot(result *fetcher.Result, log zerolog.Logger) (*netvalue.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	snap := &netvalue.Snapshot{
		ScrapedAt: time.Now(),
		URL:       result.URL,
		Method:    netvalue.MethodBrowser,
		PageTitle: result.Title,
	}

	tables := tabular.NewExtractor(log).Extract(doc)
	if main, ok := mainTable(tables); ok {
		log.Info().Int("table", main.Index).Int("rows", len(main.Rows)).
			Msg("selected main product table")
		snap.Tables = []tabular.Table{main}
		return snap, nil
	}

	log.Info().Msg("no usable table, trying list extraction")
	rows := extractFromList(doc, log)
	if len(rows) == 0 {
		return nil, netvalue.ErrNoData
	}
	snap.Tables = []tabular.Table{{Index: 0, Rows: rows}}
	return snap, nil
}

// mainTable picks the table with the most data rows and strips rows whose
// cells are all empty strings (the page pads its grid with blank rows).
func mainTable(tables []tabular.Table) (tabular.Table, bool) {
	best := -1
	for i, t := range tables {
		if best < 0 || len(t.Rows) > len(tables[best].Rows) {
			best = i
		}
	}
	if best < 0 {
		return tabular.Table{}, false
	}

	t := tables[best]
	var kept [][]string
	for _, row := range t.Rows {
		if rowHasData(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return tabular.Table{}, false
	}
	t.Rows = kept
	return t, true
}

func rowHasData(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}

// extractFromList walks the list selector ladder and returns one-cell
// rows built from the first selector that matches enough items.
func extractFromList(doc *goquery.Document, log zerolog.Logger) [][]string {
	for _, selector := range listItemSelectors {
		items := doc.Find(selector)
		if items.Length() < minListItems {
			continue
		}

		var rows [][]string
		items.Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text != "" {
				rows = append(rows, []string{text})
			}
		})
		if len(rows) > 0 {
			log.Info().Str("selector", selector).Int("items", len(rows)).
				Msg("extracted data from list structure")
			return rows
		}
	}
	return nil
}
