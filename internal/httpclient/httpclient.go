package httpclient

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config controls the HTTP client used for static page fetches.
type Config struct {
	Timeout   time.Duration
	Retries   int    // retry count on transient failures
	ProxyURL  string // optional forward proxy
	UserAgent string // empty means defaultUserAgent
}

// New builds a resty client that presents itself as a desktop browser and
// retries transient upstream failures (429 and 5xx) with backoff.
func New(cfg Config) *resty.Client {
	client := resty.New()

	if jar, err := cookiejar.New(nil); err == nil {
		client.SetCookieJar(jar)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client.SetHeaders(map[string]string{
		"User-Agent":                ua,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "zh-CN,zh;q=0.9,en;q=0.5",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	})

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.ProxyURL != "" {
		client.SetProxy(cfg.ProxyURL)
	}

	client.SetRetryCount(cfg.Retries)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(8 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		switch r.StatusCode() {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	})

	return client
}
