package engine

import "errors"

// Validation and soft failures. None of these leaves the portfolio
// partially updated; only an exhausted append retry (ledger.PersistenceError)
// can surface after a mutation.
var (
	ErrPriceUnavailable    = errors.New("price unavailable")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientHolding = errors.New("insufficient holding quantity")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
)
