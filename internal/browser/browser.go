package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// defaultUserAgent matches a current desktop Chrome; both bank sites serve
// a degraded page to anything that looks like a bot.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config controls how the underlying Chrome instance is launched.
type Config struct {
	ProxyURL   string
	Headless   bool
	WindowSize string // "width,height", e.g. "1920,1080"
	UserAgent  string // empty means defaultUserAgent
}

// Browser wraps a rod.Browser instance together with its launcher.
type Browser struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	userAgent string
}

// New launches a Chrome instance per cfg and connects to it.
func New(cfg Config) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")

	if cfg.WindowSize != "" {
		l = l.Set("window-size", cfg.WindowSize)
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Browser{browser: b, launcher: l, userAgent: ua}, nil
}

// NewPage creates a page with the automation fingerprints masked: real
// browser user agent and no navigator.webdriver flag.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent})
	_, _ = page.EvalOnNewDocument(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`)
	return page, nil
}

// Close shuts down the browser and kills the launched process.
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}
