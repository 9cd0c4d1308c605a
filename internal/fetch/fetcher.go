// Package fetch implements the product-page fetcher. It scrapes the
// product title and the first offscreen price from a product URL.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly"

	"github.com/kmorten/price-tracker/internal/models"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Selectors for the product page.
const (
	titleSelector = "#productTitle"
	priceSelector = ".a-price .a-offscreen"
)

// Client fetches product pages over HTTP. Each call uses a fresh
// collector; the client itself is safe for reuse.
type Client struct {
	timeout   time.Duration
	userAgent string
}

// NewClient creates a fetcher with the given per-request timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{timeout: timeout, userAgent: userAgent}
}

// Fetch retrieves the page and returns the raw observation. Missing
// title or price come back as empty fields with a nil error; only a
// transport failure is an error.
func (c *Client) Fetch(ctx context.Context, url string) (models.Observation, error) {
	if err := ctx.Err(); err != nil {
		return models.Observation{}, err
	}

	col := colly.NewCollector(colly.UserAgent(c.userAgent))
	col.SetRequestTimeout(c.timeout)

	var obs models.Observation
	col.OnHTML(titleSelector, func(e *colly.HTMLElement) {
		if obs.Name == "" {
			obs.Name = strings.TrimSpace(e.Text)
		}
	})
	col.OnHTML(priceSelector, func(e *colly.HTMLElement) {
		if obs.Price == "" {
			obs.Price = normalizePrice(e.Text)
		}
	})

	var respErr error
	col.OnError(func(_ *colly.Response, err error) {
		respErr = err
	})

	if err := col.Visit(url); err != nil {
		return models.Observation{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	col.Wait()
	if respErr != nil {
		return models.Observation{}, fmt.Errorf("failed to fetch %s: %w", url, respErr)
	}
	return obs, nil
}

// normalizePrice strips the currency symbol and thousands separators
// from scraped price text, e.g. "$1,299.99" -> "1299.99".
func normalizePrice(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return s
}
