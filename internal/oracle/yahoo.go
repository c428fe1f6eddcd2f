package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"papertrader/internal/api"
	"papertrader/internal/logger"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo fetches quotes and display names from the Yahoo Finance chart API.
type Yahoo struct {
	client  *api.Client
	limiter *rateLimiter
	names   *nameCache
	scraper *NameScraper
}

// YahooParams configures the Yahoo quote client.
type YahooParams struct {
	BaseURL      string
	Timeout      time.Duration
	RateBurst    int           // max requests in a burst
	RateInterval time.Duration // token refill interval
	NameCacheTTL time.Duration
	Scraper      *NameScraper // optional fallback for display names
}

var _ Quoter = (*Yahoo)(nil)

func NewYahoo(p YahooParams) *Yahoo {
	if p.BaseURL == "" {
		p.BaseURL = yahooBaseURL
	}
	if p.Timeout <= 0 {
		p.Timeout = 15 * time.Second
	}
	if p.RateBurst <= 0 {
		p.RateBurst = 5
	}
	if p.RateInterval <= 0 {
		p.RateInterval = 500 * time.Millisecond
	}
	if p.NameCacheTTL <= 0 {
		p.NameCacheTTL = 24 * time.Hour
	}

	client := api.NewClient(
		api.WithBaseURL(p.BaseURL),
		api.WithTimeout(p.Timeout),
		api.WithLogging(true),
	)

	return &Yahoo{
		client:  client,
		limiter: newRateLimiter(p.RateBurst, p.RateInterval),
		names:   newNameCache(p.NameCacheTTL),
		scraper: p.Scraper,
	}
}

// chartResponse mirrors the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				ShortName          string  `json:"shortName"`
				LongName           string  `json:"longName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *Yahoo) fetchChart(ctx context.Context, symbol string) (*chartResponse, error) {
	if err := y.limiter.wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("/v8/finance/chart/%s?range=1d&interval=1d", symbol)
	resp, err := y.client.GET(ctx, url, api.YahooFinanceHeaders())
	if err != nil {
		return nil, err
	}

	var cr chartResponse
	if err := resp.ParseJSON(&cr); err != nil {
		return nil, err
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}
	return &cr, nil
}

// Quote returns the regular market price for the symbol. Any failure is
// reported as ErrQuoteUnavailable; the caller decides how soft to treat it.
func (y *Yahoo) Quote(ctx context.Context, symbol string) (float64, error) {
	cr, err := y.fetchChart(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Quote lookup failed", "symbol", symbol, "error", err)
		return 0, fmt.Errorf("%w: %s: %v", ErrQuoteUnavailable, symbol, err)
	}

	price := cr.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s: missing regular market price", ErrQuoteUnavailable, symbol)
	}
	return price, nil
}

// Name resolves a display name: cache, then chart metadata, then the
// scraper fallback when one is configured.
func (y *Yahoo) Name(ctx context.Context, symbol string) (string, error) {
	if name, ok := y.names.get(symbol); ok {
		return name, nil
	}

	if cr, err := y.fetchChart(ctx, symbol); err == nil {
		meta := cr.Chart.Result[0].Meta
		name := meta.ShortName
		if name == "" {
			name = meta.LongName
		}
		if name != "" {
			y.names.set(symbol, name)
			return name, nil
		}
	}

	if y.scraper != nil {
		ticker := strings.TrimSuffix(symbol, DomesticSuffix)
		if name, err := y.scraper.Lookup(ctx, ticker); err == nil {
			y.names.set(symbol, name)
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNameUnavailable, symbol)
}
