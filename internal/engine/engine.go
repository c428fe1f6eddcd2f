// Package engine exposes the buy/sell/status operations of the simulated
// account. It validates against the portfolio projection, quotes through
// the price oracle, mutates the projection, and appends the resulting
// record to the ledger.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"papertrader/internal/account"
	"papertrader/internal/ledger"
	"papertrader/internal/logger"
	"papertrader/internal/oracle"
	"papertrader/internal/types"
)

// Appender is the slice of the connected ledger the engine needs.
type Appender interface {
	AppendEntry(ctx context.Context, e ledger.Entry) error
}

// Engine serializes all state-mutating operations on one account. The
// check-then-mutate-then-append sequence runs as a single critical section;
// quotes are fetched outside the lock because they don't depend on mutated
// state.
type Engine struct {
	mu        sync.Mutex
	portfolio *account.Portfolio
	ledger    Appender
	quoter    oracle.Quoter
}

// New builds an engine around an already-reconstructed portfolio.
func New(portfolio *account.Portfolio, led Appender, quoter oracle.Quoter) *Engine {
	return &Engine{portfolio: portfolio, ledger: led, quoter: quoter}
}

func failReceipt(msg string) *types.Receipt {
	return &types.Receipt{Status: "fail", Message: msg}
}

// Buy purchases qty units of ticker at the current quoted price.
// The receipt is non-nil even on failure; the error carries the typed cause.
func (e *Engine) Buy(ctx context.Context, rawTicker string, qty int) (*types.Receipt, error) {
	timer := logger.StartOperation(ctx, "engine.buy")
	ctx = timer.GetContext()
	defer timer.End()

	if qty <= 0 {
		return failReceipt("quantity must be a positive integer"), ErrInvalidQuantity
	}

	ticker := ledger.NormalizeTicker(strings.TrimSpace(rawTicker))
	symbol := oracle.ResolveSymbol(ticker)

	price, err := e.quoter.Quote(ctx, symbol)
	if err != nil {
		return failReceipt("price lookup failed (network or temporary error)"),
			fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	total := price * float64(qty)
	if total > e.portfolio.Balance {
		logger.Warn(ctx, "Buy rejected, insufficient balance",
			"ticker", ticker, "qty", qty, "total", total, "balance", e.portfolio.Balance)
		return failReceipt("insufficient balance"), ErrInsufficientFunds
	}

	name := e.resolveName(ctx, ticker, symbol)

	e.portfolio.ApplyBuy(ctx, ticker, name, price, qty)
	logger.Trade(ctx, ticker, ledger.SideBuy, qty, price, e.portfolio.Balance)

	entry := ledger.Entry{
		Timestamp:    time.Now().In(ledger.KST),
		Type:         ledger.SideBuy,
		Ticker:       ticker,
		Name:         name,
		Price:        price,
		Qty:          qty,
		Amount:       total,
		BalanceAfter: e.portfolio.Balance,
	}
	if err := e.ledger.AppendEntry(ctx, entry); err != nil {
		return e.divergedReceipt(ctx, entry, err), err
	}

	return &types.Receipt{Status: "success", Message: "buy executed: " + name, Price: price}, nil
}

// Sell disposes qty units of ticker at the current quoted price, reducing
// the cost basis of the remaining units proportionally. Holding validation
// happens before any external call.
func (e *Engine) Sell(ctx context.Context, rawTicker string, qty int) (*types.Receipt, error) {
	timer := logger.StartOperation(ctx, "engine.sell")
	ctx = timer.GetContext()
	defer timer.End()

	if qty <= 0 {
		return failReceipt("quantity must be a positive integer"), ErrInvalidQuantity
	}

	ticker := ledger.NormalizeTicker(strings.TrimSpace(rawTicker))

	e.mu.Lock()
	h := e.portfolio.Holdings[ticker]
	if h == nil || h.Qty < qty {
		e.mu.Unlock()
		return failReceipt("insufficient holding quantity"), ErrInsufficientHolding
	}
	name := h.Name
	e.mu.Unlock()

	symbol := oracle.ResolveSymbol(ticker)
	price, err := e.quoter.Quote(ctx, symbol)
	if err != nil {
		return failReceipt("price lookup failed (network or temporary error)"),
			fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Re-validate: a concurrent sell may have shrunk the position while
	// the quote was in flight.
	h = e.portfolio.Holdings[ticker]
	if h == nil || h.Qty < qty {
		return failReceipt("insufficient holding quantity"), ErrInsufficientHolding
	}

	total := e.portfolio.ApplySell(ctx, ticker, price, qty)
	logger.Trade(ctx, ticker, ledger.SideSell, qty, price, e.portfolio.Balance)

	if name == "" {
		name = ticker
	}
	entry := ledger.Entry{
		Timestamp:    time.Now().In(ledger.KST),
		Type:         ledger.SideSell,
		Ticker:       ticker,
		Name:         name,
		Price:        price,
		Qty:          qty,
		Amount:       total,
		BalanceAfter: e.portfolio.Balance,
	}
	if err := e.ledger.AppendEntry(ctx, entry); err != nil {
		return e.divergedReceipt(ctx, entry, err), err
	}

	return &types.Receipt{Status: "success", Message: "sell executed: " + name, Price: price}, nil
}

// resolveName reuses the existing holding's name when one is cached, and
// only then asks the oracle, falling back to the raw ticker. Called with
// the engine lock held.
func (e *Engine) resolveName(ctx context.Context, ticker, symbol string) string {
	if h := e.portfolio.Holdings[ticker]; h != nil && h.Name != "" {
		return h.Name
	}
	if name, err := e.quoter.Name(ctx, symbol); err == nil && name != "" {
		return name
	}
	return ticker
}

// divergedReceipt reports an append that exhausted its retries after the
// in-memory mutation had already been applied. The account now reports a
// trade the log does not carry; the next cold-start replay will not
// reproduce it.
func (e *Engine) divergedReceipt(ctx context.Context, entry ledger.Entry, err error) *types.Receipt {
	logger.ErrorWithErr(ctx, "Trade applied in memory but not persisted", err,
		"ticker", entry.Ticker, "side", entry.Type, "qty", entry.Qty, "amount", entry.Amount)
	return &types.Receipt{
		Status:  "fail",
		Message: "trade executed but could not be recorded; in-memory state diverges from the ledger",
		Price:   entry.Price,
	}
}
