package oracle

import (
	"context"
	"fmt"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// Kite quotes international symbols through the Zerodha Kite Connect API.
// Selected by config for accounts trading NSE-listed symbols; it has no
// display-name lookup, so Name always falls back.
type Kite struct {
	client   *kiteconnect.Client
	exchange string
}

var _ Quoter = (*Kite)(nil)

func NewKite(apiKey, accessToken, exchange string) *Kite {
	if exchange == "" {
		exchange = "NSE"
	}
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &Kite{client: kc, exchange: exchange}
}

func (k *Kite) Quote(ctx context.Context, symbol string) (float64, error) {
	instrument := k.exchange + ":" + symbol
	quotes, err := k.client.GetLTP(instrument)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrQuoteUnavailable, symbol, err)
	}

	q, ok := quotes[instrument]
	if !ok || q.LastPrice <= 0 {
		return 0, fmt.Errorf("%w: %s: no last price", ErrQuoteUnavailable, symbol)
	}
	return q.LastPrice, nil
}

func (k *Kite) Name(ctx context.Context, symbol string) (string, error) {
	return "", fmt.Errorf("%w: kite connect carries no display names", ErrNameUnavailable)
}
