package icbc

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client fetches the disclosure page over plain HTTP. The page is mostly
// server-rendered; retries on transient failures live in the resty client.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

func NewClient(httpClient *resty.Client, log zerolog.Logger) *Client {
	return &Client{http: httpClient, log: log}
}

// FetchPage retrieves url and returns its body.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	c.log.Info().Str("url", url).Msg("fetching page")

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("unexpected status %s", resp.Status())
	}

	c.log.Info().Int("status", resp.StatusCode()).Int("bytes", len(resp.Body())).
		Msg("page fetched")
	return resp.String(), nil
}
