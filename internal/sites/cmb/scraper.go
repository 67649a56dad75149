package cmb

import (
	"context"
	"fmt"
	"time"

	"netval/internal/browser"
	"netval/internal/fetcher"
	"netval/internal/netvalue"
	"netval/internal/scraper"
)

func init() {
	scraper.Register(&Scraper{})
}

// The product table on the CMB wealth pages is rendered client-side;
// these are the containers it has been observed to land in, most specific
// last-resort wildcard last.
var tableSelectors = []string{
	"table",
	".data-table",
	".net-value-table",
	"[class*='table']",
}

// Fallback containers for the variant that renders the values as a list
// instead of a table.
var containerSelectors = []string{
	".data-list",
	".value-list",
	".netvalue-list",
	"[class*='list']",
	"[class*='data']",
}

// The page keeps loading for a moment after the load event fires.
const settleDelay = 3 * time.Second

// Scraper scrapes the CMB product net-value page. The page is fully
// JS-rendered, so this site always goes through the browser.
type Scraper struct{}

func (s *Scraper) Name() string {
	return "cmb"
}

func (s *Scraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	log := opts.Logger.With().Str("site", "cmb").Logger()

	windowSize := opts.WindowSize
	if windowSize == "" {
		windowSize = "1920,1080"
	}

	b, err := browser.New(browser.Config{
		ProxyURL:   opts.ProxyURL,
		Headless:   !opts.ShowUI,
		WindowSize: windowSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	result, err := fetcher.New(b, log).Fetch(target, fetcher.Options{
		Timeout:     opts.Timeout,
		WaitFor:     append(append([]string{}, tableSelectors...), containerSelectors...),
		WaitTimeout: opts.WaitTimeout,
		Settle:      settleDelay,
		MaxScrolls:  opts.MaxScrolls,
		ScrollDelay: opts.ScrollDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	snap, err := buildSnapshot(result, log)
	if err != nil {
		return nil, err
	}

	log.Info().Int("rows", rowCount(snap)).Dur("load_time", result.LoadTime).
		Msg("scrape complete")
	return netvalue.NewContent(snap, result.HTML), nil
}

func rowCount(snap *netvalue.Snapshot) int {
	total := 0
	for _, t := range snap.Tables {
		total += len(t.Rows)
	}
	return total
}
