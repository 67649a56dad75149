package icbc

import (
	"context"
	"fmt"
	"time"

	"netval/internal/browser"
	"netval/internal/fetcher"
	"netval/internal/httpclient"
	"netval/internal/netvalue"
	"netval/internal/scraper"
	"netval/internal/tabular"
)

func init() {
	scraper.Register(&Scraper{})
}

// Extra delay after the table shows up; the page fills late cells with a
// second round of XHRs.
const settleDelay = 2 * time.Second

const httpRetries = 3

// Scraper scrapes the ICBC net-value disclosure page. It tries a plain
// HTTP fetch first and falls back to a rendered browser fetch when the
// static page carries no tables (the disclosure detail pages are served
// as a JS-rendered SPA for some product types).
type Scraper struct{}

func (s *Scraper) Name() string {
	return "icbc"
}

func (s *Scraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	log := opts.Logger.With().Str("site", "icbc").Logger()
	ext := tabular.NewExtractor(log)

	if !opts.ForceBrowser {
		content, ok := s.scrapeHTTP(ctx, target, opts, ext)
		if ok {
			return content, nil
		}
		log.Info().Msg("static page yielded no tables, refetching with browser")
	}

	return s.scrapeBrowser(target, opts, ext)
}

// scrapeHTTP is the fast path. ok is false when the fetch failed or the
// static markup carried no data tables; both cases mean the browser path
// should decide.
func (s *Scraper) scrapeHTTP(ctx context.Context, target string, opts scraper.Options, ext *tabular.Extractor) (scraper.Content, bool) {
	log := opts.Logger.With().Str("site", "icbc").Str("method", netvalue.MethodHTTP).Logger()

	client := NewClient(httpclient.New(httpclient.Config{
		Timeout:  opts.Timeout,
		Retries:  httpRetries,
		ProxyURL: opts.ProxyURL,
	}), log)

	rawHTML, err := client.FetchPage(ctx, target)
	if err != nil {
		log.Warn().Err(err).Msg("http fetch failed")
		return nil, false
	}

	snap, err := Parse(rawHTML, target, netvalue.MethodHTTP, ext)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse static page")
		return nil, false
	}
	if len(snap.Tables) == 0 {
		return nil, false
	}

	log.Info().Int("tables", len(snap.Tables)).Msg("extracted tables from static page")
	return netvalue.NewContent(snap, rawHTML), true
}

func (s *Scraper) scrapeBrowser(target string, opts scraper.Options, ext *tabular.Extractor) (scraper.Content, error) {
	log := opts.Logger.With().Str("site", "icbc").Str("method", netvalue.MethodBrowser).Logger()

	b, err := browser.New(browser.Config{
		ProxyURL:   opts.ProxyURL,
		Headless:   !opts.ShowUI,
		WindowSize: opts.WindowSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	result, err := fetcher.New(b, log).Fetch(target, fetcher.Options{
		Timeout:     opts.Timeout,
		WaitFor:     []string{"table"},
		WaitTimeout: opts.WaitTimeout,
		Settle:      settleDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	snap, err := Parse(result.HTML, result.URL, netvalue.MethodBrowser, ext)
	if err != nil {
		return nil, err
	}
	if snap.PageTitle == "" {
		snap.PageTitle = result.Title
	}

	log.Info().Int("tables", len(snap.Tables)).Dur("load_time", result.LoadTime).
		Msg("extracted tables from rendered page")
	return netvalue.NewContent(snap, result.HTML), nil
}
