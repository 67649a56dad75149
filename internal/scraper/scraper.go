package scraper

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scraper fetches one bank's net-value disclosure page and returns its
// extracted content.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, target string, opts Options) (Content, error)
}

// Content is the extracted disclosure data, renderable in every output
// format the CLI supports.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

// Options carries the per-run knobs shared by all site scrapers. The
// logger rides along here so no package keeps global logging state.
type Options struct {
	Timeout      time.Duration // page load / request timeout
	WaitTimeout  time.Duration // per-selector element wait budget
	ForceBrowser bool          // skip the plain HTTP path even when it would do
	ShowUI       bool          // disable headless mode
	ProxyURL     string
	WindowSize   string // browser window size, "width,height"
	MaxScrolls   int    // scroll-to-bottom iterations for lazy-loading pages
	ScrollDelay  time.Duration
	Logger       zerolog.Logger
}
