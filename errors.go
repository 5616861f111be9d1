package tradebook

import "errors"

// Domain errors returned by account operations. Every validation failure
// aborts the operation before any state mutation, so a caller that sees one
// of these can rely on the account being exactly as it was. Match them with
// errors.Is; the returned errors carry additional context.
var (
	// ErrInsufficientFunds is returned when a withdrawal or purchase would
	// drive the cash balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings is returned when a sale requests more shares of
	// a symbol than the account currently holds.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrInvalidSymbol is returned when the price oracle does not recognize
	// the requested symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidQuantity is returned when a quantity or amount argument is
	// not strictly positive.
	ErrInvalidQuantity = errors.New("invalid quantity")
)
