package engine

import (
	"context"
	"math"
	"sort"

	"papertrader/internal/logger"
	"papertrader/internal/oracle"
	"papertrader/internal/types"
)

// Status builds the dashboard view: every open position is re-quoted and
// valued at the current price. A failed quote values the position at 0 so
// the dashboard stays responsive; accuracy catches up on the next call.
// Rounding happens only here, never in the accounting state.
func (e *Engine) Status(ctx context.Context) *types.StatusReport {
	timer := logger.StartOperation(ctx, "engine.status")
	ctx = timer.GetContext()
	defer timer.End()

	e.mu.Lock()
	snap := e.portfolio.Snapshot()
	e.mu.Unlock()

	tickers := make([]string, 0, len(snap.Holdings))
	for t, h := range snap.Holdings {
		if h.Qty > 0 {
			tickers = append(tickers, t)
		}
	}
	sort.Strings(tickers)

	totalAsset := snap.Balance
	holdings := make([]types.HoldingView, 0, len(tickers))

	for _, ticker := range tickers {
		h := snap.Holdings[ticker]

		price, err := e.quoter.Quote(ctx, oracle.ResolveSymbol(ticker))
		if err != nil {
			logger.Warn(ctx, "Status quote unavailable, valuing at 0", "ticker", ticker, "error", err)
			price = 0
		}

		value := price * float64(h.Qty)
		totalAsset += value

		cost := h.TotalCost
		profit := value - cost
		roi := 0.0
		if cost > 0 {
			roi = profit / cost * 100
		}

		holdings = append(holdings, types.HoldingView{
			Ticker:       ticker,
			Name:         h.Name,
			Qty:          h.Qty,
			AvgPrice:     roundWhole(h.AvgCost()),
			CurrentPrice: roundWhole(price),
			ROI:          roundPct(roi),
			Valuation:    roundWhole(value),
		})
	}

	totalROI := (totalAsset - snap.SeedMoney) / snap.SeedMoney * 100

	return &types.StatusReport{
		Balance:    roundWhole(snap.Balance),
		TotalAsset: roundWhole(totalAsset),
		TotalROI:   roundPct(totalROI),
		Holdings:   holdings,
		SeedMoney:  snap.SeedMoney,
	}
}

func roundWhole(x float64) int64 {
	return int64(math.Round(x))
}

func roundPct(x float64) float64 {
	return math.Round(x*100) / 100
}
