// Package account holds the in-memory projection of the trading account:
// cash balance plus per-ticker holdings. The projection is never persisted;
// it is rebuilt by replaying the ledger, and every mutation goes through the
// small Apply* API so the cost-basis invariants live in one place.
package account

import (
	"context"

	"papertrader/internal/ledger"
	"papertrader/internal/logger"
)

// Holding is a ticker's current position. TotalCost is the cost basis of
// the units currently held, not cumulative historical cost; it is reduced
// proportionally on partial sells and zeroed when the position closes.
type Holding struct {
	Qty       int
	TotalCost float64
	Name      string
}

// AvgCost returns the weighted average unit cost, 0 for an empty position.
func (h *Holding) AvgCost() float64 {
	if h.Qty <= 0 {
		return 0
	}
	return h.TotalCost / float64(h.Qty)
}

// Portfolio is the single source of truth for trading decisions. It is
// fully determined by seed money plus the ordered ledger entries.
type Portfolio struct {
	SeedMoney float64
	Balance   float64
	Holdings  map[string]*Holding
}

// New returns the state of a freshly opened account.
func New(seedMoney float64) *Portfolio {
	return &Portfolio{
		SeedMoney: seedMoney,
		Balance:   seedMoney,
		Holdings:  make(map[string]*Holding),
	}
}

// holding returns the position for ticker, creating an empty one if needed.
func (p *Portfolio) holding(ticker, name string) *Holding {
	h := p.Holdings[ticker]
	if h == nil {
		h = &Holding{Name: name}
		p.Holdings[ticker] = h
	}
	return h
}

// ApplyBuy debits the balance and adds qty units at price to the position.
// Returns the trade amount.
func (p *Portfolio) ApplyBuy(ctx context.Context, ticker, name string, price float64, qty int) float64 {
	amount := price * float64(qty)
	p.apply(ctx, ledger.SideBuy, ticker, name, qty, amount)
	return amount
}

// ApplySell credits the balance and removes qty units at price, reweighting
// the cost basis of the remaining units. Returns the trade amount. The
// caller validates that qty does not exceed the held quantity.
func (p *Portfolio) ApplySell(ctx context.Context, ticker string, price float64, qty int) float64 {
	amount := price * float64(qty)
	p.apply(ctx, ledger.SideSell, ticker, "", qty, amount)
	return amount
}

// Replay folds the ordered ledger entries into the portfolio. It uses the
// recorded amounts rather than recomputing price*qty, so a replay
// reproduces balances bit for bit.
func (p *Portfolio) Replay(ctx context.Context, entries []ledger.Entry) {
	for _, e := range entries {
		ticker := ledger.NormalizeTicker(e.Ticker)
		p.apply(ctx, e.Type, ticker, e.Name, e.Qty, e.Amount)
	}
}

// apply is the single authoritative accounting rule for both live trades
// and replay.
func (p *Portfolio) apply(ctx context.Context, side, ticker, name string, qty int, amount float64) {
	h := p.holding(ticker, name)

	switch side {
	case ledger.SideBuy:
		p.Balance -= amount
		h.Qty += qty
		h.TotalCost += amount
		if name != "" {
			h.Name = name
		}
	case ledger.SideSell:
		p.Balance += amount
		priorQty := h.Qty
		h.Qty -= qty
		if h.Qty > 0 {
			avg := h.TotalCost / float64(priorQty)
			h.TotalCost -= avg * float64(qty)
		} else {
			if h.Qty < 0 {
				// A sell for more than the recorded position means a
				// corrupted or out-of-order log. Keep going, but never
				// silently: the quantity is clamped so the projection
				// stays non-negative.
				logger.Warn(ctx, "Ledger sell exceeds recorded position, clamping",
					"ticker", ticker, "recorded_qty", priorQty, "sold_qty", qty)
				h.Qty = 0
			}
			h.TotalCost = 0
		}
	default:
		logger.Warn(ctx, "Ignoring unknown trade side", "side", side, "ticker", ticker)
	}
}

// Snapshot returns a deep copy safe to read while trades mutate the
// original.
func (p *Portfolio) Snapshot() *Portfolio {
	cp := &Portfolio{
		SeedMoney: p.SeedMoney,
		Balance:   p.Balance,
		Holdings:  make(map[string]*Holding, len(p.Holdings)),
	}
	for t, h := range p.Holdings {
		hc := *h
		cp.Holdings[t] = &hc
	}
	return cp
}
