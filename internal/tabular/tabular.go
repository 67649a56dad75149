package tabular

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Table is one extracted HTML table. Index is the position of the table
// among all table elements found in the document, including tables later
// dropped for having no data rows, so it stays a stable pointer into the
// source document rather than into the returned slice.
type Table struct {
	Index   int        `json:"index"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Extractor flattens every table in a parsed document into row-oriented
// data. It is stateless apart from its logger and safe for concurrent use.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor creates an Extractor that reports malformed tables on log.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract returns every table in doc that yielded at least one data row,
// in document order. Tables with no data rows carry no information and
// are dropped; survivors keep their original document-order Index.
// Extract never fails: a document without tables yields nil.
func (e *Extractor) Extract(doc *goquery.Document) []Table {
	var tables []Table
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		t := e.extractOne(i, sel)
		if len(t.Rows) == 0 {
			return
		}
		tables = append(tables, t)
	})
	return tables
}

// ExtractHTML parses r as HTML and extracts its tables.
func (e *Extractor) ExtractHTML(r io.Reader) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return e.Extract(doc), nil
}

// extractOne flattens a single table element. A failure while walking the
// table is contained here: the table comes back with empty headers and
// rows and sibling tables are unaffected.
func (e *Extractor) extractOne(index int, table *goquery.Selection) (t Table) {
	t = Table{Index: index}
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().Int("table", index).Interface("reason", r).
				Msg("malformed table, dropping its contents")
			t = Table{Index: index}
		}
	}()

	// Headers come from the explicit header section when there is one,
	// otherwise from the table's first row.
	thead := table.Find("thead")
	headerCells := thead.Find("th, td")
	if thead.Length() == 0 {
		headerCells = table.Find("tr").First().Find("th, td")
	}
	headerCells.Each(func(_ int, cell *goquery.Selection) {
		t.Headers = append(t.Headers, strings.TrimSpace(cell.Text()))
	})

	// headerRow is the row consumed as headers, excluded from the data
	// rows below. The parser moves rows written outside any section into
	// an implied tbody, so exclusion goes by node identity, not position.
	var headerRow *html.Node
	if len(t.Headers) > 0 {
		if first := table.Find("tr").First(); len(first.Nodes) > 0 {
			headerRow = first.Nodes[0]
		}
	}

	dataRows := table.Find("tbody tr")
	if dataRows.Length() == 0 {
		dataRows = table.Find("tr")
	} else if thead.Length() > 0 {
		// Explicit header section: every body row is a data row.
		headerRow = nil
	}

	dataRows.Each(func(_ int, row *goquery.Selection) {
		if headerRow != nil && len(row.Nodes) > 0 && row.Nodes[0] == headerRow {
			return
		}
		cells := row.Find("td, th")
		if cells.Length() == 0 {
			return
		}
		record := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			record = append(record, strings.TrimSpace(cell.Text()))
		})
		t.Rows = append(t.Rows, record)
	})

	return t
}

// numericCleaner strips the formatting commonly found in financial cells:
// thousands separators, currency glyphs, percent signs and the yuan unit.
var numericCleaner = strings.NewReplacer(",", "", "¥", "", "%", "", "元", "")

// CleanNumeric parses a table cell as a number after stripping financial
// formatting. ok is false when the cell does not parse, which keeps a cell
// with no value distinguishable from a cell whose literal value is zero.
func CleanNumeric(value string) (float64, bool) {
	cleaned := strings.TrimSpace(numericCleaner.Replace(value))
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
