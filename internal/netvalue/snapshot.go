package netvalue

import (
	"errors"
	"time"

	"netval/internal/tabular"
)

// ErrNoData is returned by scrapers when a page loaded but nothing worth
// exporting could be extracted from it.
var ErrNoData = errors.New("no data extracted from page")

// Fetch methods recorded on a Snapshot.
const (
	MethodHTTP    = "http"
	MethodBrowser = "browser"
)

// Section is a top-level content block captured alongside the tables,
// kept because disclosure pages wrap the numbers in prose (product terms,
// risk statements) that consumers want for context.
type Section struct {
	Tag     string   `json:"tag"`
	Classes []string `json:"class,omitempty"`
	Text    string   `json:"text"`
}

// Snapshot is everything extracted from one disclosure page.
type Snapshot struct {
	ScrapedAt time.Time         `json:"scraped_at"`
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	PageTitle string            `json:"page_title,omitempty"`
	URLParams map[string]string `json:"url_parameters,omitempty"`
	Tables    []tabular.Table   `json:"tables"`
	Sections  []Section         `json:"content_sections,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Validate checks the fields every consumer relies on.
func (s *Snapshot) Validate() error {
	if s.URL == "" {
		return errors.New("snapshot missing source URL")
	}
	if s.ScrapedAt.IsZero() {
		return errors.New("snapshot missing scrape time")
	}
	return nil
}
