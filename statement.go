package tradebook

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// HoldingLine is one position of a statement, priced by the oracle.
type HoldingLine struct {
	Symbol   string
	Quantity Quantity
	Price    Money
	Value    Money
}

// Statement is a snapshot of the account as of a given instant: cash,
// holdings with their market value, total portfolio value, and profit or
// loss relative to the initial deposit.
type Statement struct {
	Time           time.Time
	Currency       string
	Cash           Money
	Holdings       []HoldingLine
	PortfolioValue Money
	ProfitLoss     Money
}

// Statement computes the account statement as of the given instant. A zero
// asOf means the latest state. Holdings are sorted by symbol and zero
// positions are omitted.
func (a *Account) Statement(asOf time.Time) (*Statement, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	cash, holdings := a.stateAt(asOf)

	s := &Statement{
		Time:     asOf,
		Currency: a.currency,
		Cash:     cash,
	}
	if asOf.IsZero() {
		s.Time = a.now()
	}

	total := cash
	for _, symbol := range slices.Sorted(maps.Keys(holdings)) {
		qty := holdings[symbol]
		if qty.IsZero() {
			continue
		}
		price, err := a.oracle.Price(symbol)
		if err != nil {
			return nil, fmt.Errorf("cannot value position in %s: %w", symbol, err)
		}
		value := price.Mul(qty)
		s.Holdings = append(s.Holdings, HoldingLine{
			Symbol:   symbol,
			Quantity: qty,
			Price:    price,
			Value:    value,
		})
		total = total.Add(value)
	}
	s.PortfolioValue = total
	s.ProfitLoss = total.Sub(a.initial)
	return s, nil
}
