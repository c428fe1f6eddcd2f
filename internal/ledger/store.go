package ledger

import "context"

// Store is an ordered, append-only sequence of rows behind a single logical
// handle. Implementations back it with whatever durable medium they like
// (remote sheet service, local CSV file); ordering of appends is the only
// contract.
type Store interface {
	// Open establishes the link to the store. It is retried by the
	// Connector; a single call should fail fast on connectivity problems.
	Open(ctx context.Context) error

	// ReadAll returns every row oldest-first, including the header row if
	// one has been written. An empty store returns an empty slice, never
	// an error.
	ReadAll(ctx context.Context) ([][]string, error)

	// Append durably adds one row after all existing rows.
	Append(ctx context.Context, row []string) error
}
