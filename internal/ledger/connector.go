package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"papertrader/internal/logger"
	"papertrader/internal/retry"
)

// ConnectionError means the store was unreachable after retry exhaustion.
// It is fatal: no ledger means no trading, so initialization must abort.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ledger store unreachable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PersistenceError means a single append failed after retry exhaustion.
// The in-memory trade has already been applied when this surfaces, so the
// account diverges from the replayable log until the next reconciliation.
type PersistenceError struct {
	Attempts int
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger append failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Connector establishes the link to the ledger store and owns the cold-start
// decision between "freshly empty" and "previously populated".
type Connector struct {
	Store          Store
	ConnectPolicy  retry.Policy
	AppendPolicy   retry.Policy
	ReadRetryDelay time.Duration
}

// Connect opens the store with bounded retry and reads back the full trade
// history. On a freshly empty store it writes the header row and returns no
// entries. Malformed rows are skipped with a log line, never silently.
func (c *Connector) Connect(ctx context.Context) (*Ledger, []Entry, error) {
	timer := logger.StartOperation(ctx, "ledger.connect")
	ctx = timer.GetContext()

	err := retry.Do(ctx, c.ConnectPolicy, "ledger.open", func(ctx context.Context) error {
		return c.Store.Open(ctx)
	})
	if err != nil {
		cerr := &ConnectionError{Attempts: c.ConnectPolicy.MaxAttempts, Err: err}
		timer.EndWithError(cerr)
		return nil, nil, cerr
	}

	rows, err := c.readAll(ctx)
	if err != nil {
		// A failed read is never treated as an empty store: that would
		// silently reset the account to seed money.
		cerr := &ConnectionError{Attempts: 2, Err: err}
		timer.EndWithError(cerr)
		return nil, nil, cerr
	}

	led := &Ledger{store: c.Store, appendPolicy: c.AppendPolicy}

	if len(rows) == 0 {
		logger.Info(ctx, "Ledger store is empty, writing header", "columns", len(Header))
		if err := led.appendRow(ctx, Header); err != nil {
			timer.EndWithError(err)
			return nil, nil, err
		}
		timer.End()
		return led, nil, nil
	}

	entries := decodeRows(ctx, rows[1:]) // first row is the header
	logger.Info(ctx, "Ledger history loaded", "rows", len(rows)-1, "entries", len(entries))
	timer.End()
	return led, entries, nil
}

// readAll reads the full store, allowing one bounded re-read after a short
// delay before giving up. Rate-limited sheet backends fail transiently often
// enough that a single immediate retry resolves most cold starts.
func (c *Connector) readAll(ctx context.Context) ([][]string, error) {
	rows, err := c.Store.ReadAll(ctx)
	if err == nil {
		return rows, nil
	}

	delay := c.ReadRetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	logger.Warn(ctx, "Ledger read failed, retrying once", "error", err, "delay", delay)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return c.Store.ReadAll(ctx)
}

func decodeRows(ctx context.Context, rows [][]string) []Entry {
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		e, err := DecodeRow(row)
		if err != nil {
			if errors.Is(err, ErrMalformedRow) {
				logger.Warn(ctx, "Skipping malformed ledger row", "row", i+2, "error", err)
				continue
			}
			logger.Error(ctx, "Unexpected ledger row failure", "row", i+2, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Ledger is a connected store handle with the append retry policy bound in.
type Ledger struct {
	store        Store
	appendPolicy retry.Policy
}

// AppendEntry durably appends one trade record, retried with capped
// exponential backoff. Exhaustion surfaces a PersistenceError.
func (l *Ledger) AppendEntry(ctx context.Context, e Entry) error {
	return l.appendRow(ctx, e.Row())
}

func (l *Ledger) appendRow(ctx context.Context, row []string) error {
	err := retry.Do(ctx, l.appendPolicy, "ledger.append", func(ctx context.Context) error {
		return l.store.Append(ctx, row)
	})
	if err != nil {
		return &PersistenceError{Attempts: l.appendPolicy.MaxAttempts, Err: err}
	}
	return nil
}
