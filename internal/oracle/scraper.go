package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"papertrader/internal/logger"
)

// NameScraper resolves display names for domestic tickers by scraping the
// public quote page. It is strictly a fallback for when the quote API does
// not carry a name; failures here only mean the caller keeps the raw ticker.
type NameScraper struct {
	baseURL string
	timeout time.Duration
}

// NewNameScraper creates a scraper against the default quote page.
func NewNameScraper(timeout time.Duration) *NameScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NameScraper{
		baseURL: "https://finance.naver.com/item/main.naver?code=",
		timeout: timeout,
	}
}

// Lookup scrapes the company name for a 6-digit domestic ticker.
func (s *NameScraper) Lookup(ctx context.Context, ticker string) (string, error) {
	if !numericTicker(ticker) {
		return "", fmt.Errorf("%w: scraper only handles numeric tickers, got %q", ErrNameUnavailable, ticker)
	}

	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	c.SetRequestTimeout(s.timeout)

	var name string
	c.OnHTML("div.wrap_company h2 a", func(e *colly.HTMLElement) {
		if name == "" {
			name = strings.TrimSpace(e.Text)
		}
	})

	if err := c.Visit(s.baseURL + ticker); err != nil {
		logger.Debug(ctx, "Name scrape failed", "ticker", ticker, "error", err)
		return "", fmt.Errorf("%w: %v", ErrNameUnavailable, err)
	}
	c.Wait()

	if name == "" {
		return "", fmt.Errorf("%w: no company name on quote page for %s", ErrNameUnavailable, ticker)
	}
	return name, nil
}
