package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"papertrader/internal/retry"
)

// fakeStore is an in-memory Store with programmable failures.
type fakeStore struct {
	rows [][]string

	openErrs   int // fail this many Open calls before succeeding
	readErrs   int
	appendErrs int

	openCalls   int
	readCalls   int
	appendCalls int
}

var errFake = errors.New("store unavailable")

func (s *fakeStore) Open(ctx context.Context) error {
	s.openCalls++
	if s.openCalls <= s.openErrs {
		return errFake
	}
	return nil
}

func (s *fakeStore) ReadAll(ctx context.Context) ([][]string, error) {
	s.readCalls++
	if s.readCalls <= s.readErrs {
		return nil, errFake
	}
	out := make([][]string, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *fakeStore) Append(ctx context.Context, row []string) error {
	s.appendCalls++
	if s.appendCalls <= s.appendErrs {
		return errFake
	}
	s.rows = append(s.rows, row)
	return nil
}

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond}
}

func newConnector(s *fakeStore) *Connector {
	return &Connector{
		Store:          s,
		ConnectPolicy:  fastPolicy(3),
		AppendPolicy:   fastPolicy(3),
		ReadRetryDelay: time.Millisecond,
	}
}

func TestConnectEmptyStoreWritesHeader(t *testing.T) {
	s := &fakeStore{}
	led, entries, err := newConnector(s).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if led == nil {
		t.Fatal("Expected a connected ledger")
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries from empty store, got %d", len(entries))
	}
	if len(s.rows) != 1 {
		t.Fatalf("Expected exactly the header row, got %d rows", len(s.rows))
	}
	if s.rows[0][0] != Header[0] {
		t.Errorf("Expected header row, got %v", s.rows[0])
	}
}

func TestConnectPopulatedStoreSkipsMalformedRows(t *testing.T) {
	good := Entry{
		Timestamp: time.Now().In(KST), Type: SideBuy, Ticker: "005930",
		Name: "Samsung Electronics", Price: 70_000, Qty: 10, Amount: 700_000, BalanceAfter: 9_300_000,
	}
	s := &fakeStore{rows: [][]string{
		Header,
		good.Row(),
		{"2026-03-02 11:00:00", "HOLD", "005930", "x", "1", "1", "1", "1"}, // bad side
		{"short", "row"},
	}}

	_, entries, err := newConnector(s).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 decodable entry, got %d", len(entries))
	}
	if entries[0].Ticker != "005930" || entries[0].Qty != 10 {
		t.Errorf("Unexpected entry: %+v", entries[0])
	}
	// No header rewrite on a populated store.
	if len(s.rows) != 4 {
		t.Errorf("Store mutated during connect: %d rows", len(s.rows))
	}
}

func TestConnectRetriesOpen(t *testing.T) {
	s := &fakeStore{openErrs: 2}
	_, _, err := newConnector(s).Connect(context.Background())
	if err != nil {
		t.Fatalf("Expected recovery within retry budget, got %v", err)
	}
	if s.openCalls != 3 {
		t.Errorf("Expected 3 open attempts, got %d", s.openCalls)
	}
}

func TestConnectOpenExhaustionIsConnectionError(t *testing.T) {
	s := &fakeStore{openErrs: 10}
	_, _, err := newConnector(s).Connect(context.Background())

	var cerr *ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConnectionError, got %v", err)
	}
	if cerr.Attempts != 3 {
		t.Errorf("Expected 3 attempts recorded, got %d", cerr.Attempts)
	}
	if !errors.Is(err, errFake) {
		t.Errorf("Expected the cause to be preserved, got %v", err)
	}
}

func TestConnectRereadsOnceAfterReadFailure(t *testing.T) {
	s := &fakeStore{readErrs: 1, rows: [][]string{Header}}
	_, entries, err := newConnector(s).Connect(context.Background())
	if err != nil {
		t.Fatalf("Expected single re-read to recover, got %v", err)
	}
	if s.readCalls != 2 {
		t.Errorf("Expected 2 read calls, got %d", s.readCalls)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestConnectReadFailureIsNeverTreatedAsEmpty(t *testing.T) {
	s := &fakeStore{readErrs: 5, rows: [][]string{Header}}
	_, _, err := newConnector(s).Connect(context.Background())

	var cerr *ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConnectionError, got %v", err)
	}
	// A misread populated store must never come back as a fresh account.
	if s.appendCalls != 0 {
		t.Errorf("Header written over unreadable store: %d appends", s.appendCalls)
	}
}

func TestAppendEntryRetriesUntilSuccess(t *testing.T) {
	s := &fakeStore{}
	led, _, err := newConnector(s).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	s.appendErrs = s.appendCalls + 2 // fail the next two appends
	e := Entry{Type: SideBuy, Ticker: "005930", Price: 70_000, Qty: 1, Amount: 70_000}
	if err := led.AppendEntry(context.Background(), e); err != nil {
		t.Fatalf("Expected append to recover, got %v", err)
	}
	if len(s.rows) != 2 {
		t.Errorf("Expected header plus one trade row, got %d rows", len(s.rows))
	}
}

func TestAppendExhaustionIsPersistenceError(t *testing.T) {
	s := &fakeStore{}
	led, _, err := newConnector(s).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	s.appendErrs = s.appendCalls + 100
	err = led.AppendEntry(context.Background(), Entry{Type: SideSell, Ticker: "005930", Qty: 1})

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	if perr.Attempts != 3 {
		t.Errorf("Expected 3 attempts recorded, got %d", perr.Attempts)
	}
}
