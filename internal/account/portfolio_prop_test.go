package account

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"papertrader/internal/ledger"
)

type tradeOp struct {
	Buy    bool
	Ticker int
	Qty    int
	Price  float64
}

var propTickers = []string{"005930", "000660", "AAPL"}

func genTradeOp() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.IntRange(0, len(propTickers)-1),
		gen.IntRange(1, 50),
		gen.Float64Range(1, 5_000),
	).Map(func(vals []interface{}) tradeOp {
		return tradeOp{
			Buy:    vals[0].(bool),
			Ticker: vals[1].(int),
			Qty:    vals[2].(int),
			Price:  vals[3].(float64),
		}
	})
}

// runOps feeds ops through a fresh portfolio with the same validation the
// trading engine performs, returning the resulting state and the entries
// that were recorded along the way.
func runOps(ctx context.Context, ops []tradeOp) (*Portfolio, []ledger.Entry) {
	p := New(seed)
	var entries []ledger.Entry
	for _, op := range ops {
		ticker := propTickers[op.Ticker]
		if op.Buy {
			if op.Price*float64(op.Qty) > p.Balance {
				continue
			}
			amount := p.ApplyBuy(ctx, ticker, ticker, op.Price, op.Qty)
			entries = append(entries, ledger.Entry{
				Timestamp: time.Now().In(ledger.KST),
				Type:      ledger.SideBuy, Ticker: ticker, Name: ticker,
				Price: op.Price, Qty: op.Qty, Amount: amount,
			})
		} else {
			h := p.Holdings[ticker]
			if h == nil || h.Qty < op.Qty {
				continue
			}
			amount := p.ApplySell(ctx, ticker, op.Price, op.Qty)
			entries = append(entries, ledger.Entry{
				Timestamp: time.Now().In(ledger.KST),
				Type:      ledger.SideSell, Ticker: ticker, Name: ticker,
				Price: op.Price, Qty: op.Qty, Amount: amount,
			})
		}
	}
	return p, entries
}

func TestPortfolioProperties(t *testing.T) {
	ctx := context.Background()
	properties := gopter.NewProperties(nil)
	genOps := gen.SliceOf(genTradeOp())

	properties.Property("balance equals seed minus net trade flow", prop.ForAll(
		func(ops []tradeOp) bool {
			p, entries := runOps(ctx, ops)
			expected := float64(seed)
			for _, e := range entries {
				if e.Type == ledger.SideBuy {
					expected -= e.Amount
				} else {
					expected += e.Amount
				}
			}
			return math.Abs(p.Balance-expected) < 1e-3
		},
		genOps,
	))

	properties.Property("validated trades never produce negative state", prop.ForAll(
		func(ops []tradeOp) bool {
			p, _ := runOps(ctx, ops)
			if p.Balance < -1e-6 {
				return false
			}
			for _, h := range p.Holdings {
				if h.Qty < 0 || h.TotalCost < -1e-6 {
					return false
				}
			}
			return true
		},
		genOps,
	))

	properties.Property("closed positions carry zero cost basis", prop.ForAll(
		func(ops []tradeOp) bool {
			p, _ := runOps(ctx, ops)
			for _, h := range p.Holdings {
				if h.Qty == 0 && h.TotalCost != 0 {
					return false
				}
			}
			return true
		},
		genOps,
	))

	properties.Property("replaying the recorded entries reproduces the state", prop.ForAll(
		func(ops []tradeOp) bool {
			live, entries := runOps(ctx, ops)
			replayed := New(seed)
			replayed.Replay(ctx, entries)

			if math.Abs(live.Balance-replayed.Balance) > 1e-6 {
				return false
			}
			for ticker, lh := range live.Holdings {
				rh := replayed.Holdings[ticker]
				if rh == nil {
					if lh.Qty != 0 || lh.TotalCost != 0 {
						return false
					}
					continue
				}
				if lh.Qty != rh.Qty || math.Abs(lh.TotalCost-rh.TotalCost) > 1e-6 {
					return false
				}
			}
			return true
		},
		genOps,
	))

	properties.TestingRun(t)
}
