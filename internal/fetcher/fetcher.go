package fetcher

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"netval/internal/browser"
)

// Result is the rendered page snapshot. The page itself is closed before
// callers see a Result, so everything needed downstream is copied out.
type Result struct {
	HTML     string
	Title    string
	URL      string // final URL after redirects
	LoadTime time.Duration
}

// Options controls one fetch.
type Options struct {
	Timeout     time.Duration // navigation and load timeout
	WaitFor     []string      // selectors probed in order after load; first hit wins
	WaitTimeout time.Duration // wait budget per selector
	Settle      time.Duration // extra delay for late JS after the waits pass
	MaxScrolls  int           // scroll-to-bottom iterations, 0 disables
	ScrollDelay time.Duration // pause between scrolls
}

// Fetcher drives a browser page through navigation, waiting and scrolling,
// then snapshots the rendered HTML.
type Fetcher struct {
	browser *browser.Browser
	log     zerolog.Logger
}

func New(b *browser.Browser, log zerolog.Logger) *Fetcher {
	return &Fetcher{browser: b, log: log}
}

// Fetch navigates to url and returns the rendered page once it settles.
func (f *Fetcher) Fetch(url string, opts Options) (*Result, error) {
	start := time.Now()

	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	f.log.Info().Str("url", url).Msg("loading page")
	if err := page.Timeout(opts.Timeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.Timeout(opts.Timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for page load: %w", err)
	}

	if len(opts.WaitFor) > 0 {
		if sel, ok := f.waitForAny(page, opts.WaitFor, opts.WaitTimeout); ok {
			f.log.Info().Str("selector", sel).Msg("found data element")
		} else {
			f.log.Warn().Strs("selectors", opts.WaitFor).
				Msg("no data element appeared, continuing anyway")
		}
	}

	if opts.Settle > 0 {
		time.Sleep(opts.Settle)
	}

	if opts.MaxScrolls > 0 {
		f.scrollToBottom(page, opts.MaxScrolls, opts.ScrollDelay)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get page HTML: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get page info: %w", err)
	}

	return &Result{
		HTML:     html,
		Title:    info.Title,
		URL:      info.URL,
		LoadTime: time.Since(start),
	}, nil
}

// waitForAny probes selectors in order and reports the first that shows
// up. Absence is not an error: some disclosure pages render their data in
// non-table markup and the caller falls back to other extraction.
func (f *Fetcher) waitForAny(page *rod.Page, selectors []string, timeout time.Duration) (string, bool) {
	for _, sel := range selectors {
		if _, err := page.Timeout(timeout).Element(sel); err == nil {
			return sel, true
		}
	}
	return "", false
}

// scrollToBottom repeatedly scrolls to the page bottom so lazy-loaded rows
// get a chance to render, stopping once the page height stabilizes.
func (f *Fetcher) scrollToBottom(page *rod.Page, maxScrolls int, delay time.Duration) {
	last := f.pageHeight(page)
	for i := 0; i < maxScrolls; i++ {
		if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			f.log.Warn().Err(err).Msg("scroll failed")
			return
		}
		time.Sleep(delay)

		height := f.pageHeight(page)
		if height == last {
			f.log.Debug().Int("scrolls", i+1).Msg("page height stable, done scrolling")
			return
		}
		last = height
	}
	f.log.Debug().Int("scrolls", maxScrolls).Msg("scroll limit reached")
}

func (f *Fetcher) pageHeight(page *rod.Page) float64 {
	obj, err := page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0
	}
	return obj.Value.Num()
}
