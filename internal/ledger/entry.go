package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KST is the exchange-local zone used for ledger timestamps.
var KST = time.FixedZone("KST", 9*3600)

// TimeLayout is the timestamp format persisted in the ledger.
const TimeLayout = "2006-01-02 15:04:05"

// Header is the first row written to an empty store. It is never replayed
// as a trade.
var Header = []string{"timestamp", "type", "ticker", "name", "price", "qty", "amount", "balance_after"}

// Trade sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// ErrMalformedRow marks a row that cannot be decoded into an Entry. Replay
// skips such rows instead of aborting; it is a permanent condition, not a
// transient one.
var ErrMalformedRow = errors.New("malformed ledger row")

// NormalizeTicker restores the canonical ticker form. Sheet backends coerce
// numeric tickers to numbers, dropping the leading zeros of the 6-digit
// domestic exchange code, so "5930" comes back for "005930".
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" || !isDigits(ticker) {
		return ticker
	}
	for len(ticker) < 6 {
		ticker = "0" + ticker
	}
	return ticker
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Entry is one immutable trade record. Entries are created only by a
// successful buy or sell and are never edited or deleted.
type Entry struct {
	Timestamp    time.Time
	Type         string
	Ticker       string
	Name         string
	Price        float64
	Qty          int
	Amount       float64
	BalanceAfter float64
}

// Row encodes the entry as the 8-column persisted form.
func (e Entry) Row() []string {
	return []string{
		e.Timestamp.Format(TimeLayout),
		e.Type,
		e.Ticker,
		e.Name,
		strconv.FormatFloat(e.Price, 'f', -1, 64),
		strconv.Itoa(e.Qty),
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		strconv.FormatFloat(e.BalanceAfter, 'f', -1, 64),
	}
}

// DecodeRow parses a persisted row into an Entry. A row with a missing
// ticker or unparsable numeric fields returns an error wrapping
// ErrMalformedRow. An unparsable timestamp is tolerated and left zero,
// since replay does not depend on it.
func DecodeRow(row []string) (Entry, error) {
	if len(row) < 8 {
		return Entry{}, fmt.Errorf("%w: got %d columns, want 8", ErrMalformedRow, len(row))
	}

	ticker := strings.TrimSpace(row[2])
	if ticker == "" {
		return Entry{}, fmt.Errorf("%w: missing ticker", ErrMalformedRow)
	}

	side := strings.TrimSpace(row[1])
	if side != SideBuy && side != SideSell {
		return Entry{}, fmt.Errorf("%w: unknown trade type %q", ErrMalformedRow, side)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad price %q", ErrMalformedRow, row[4])
	}
	qty, err := strconv.Atoi(strings.TrimSpace(row[5]))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad qty %q", ErrMalformedRow, row[5])
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad amount %q", ErrMalformedRow, row[6])
	}
	balance, err := strconv.ParseFloat(strings.TrimSpace(row[7]), 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad balance_after %q", ErrMalformedRow, row[7])
	}

	ts, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(row[0]), KST)
	if err != nil {
		ts = time.Time{}
	}

	return Entry{
		Timestamp:    ts,
		Type:         side,
		Ticker:       ticker,
		Name:         row[3],
		Price:        price,
		Qty:          qty,
		Amount:       amount,
		BalanceAfter: balance,
	}, nil
}
