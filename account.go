package tradebook

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"
)

// DefaultCurrency is used when the initial deposit does not carry a currency.
const DefaultCurrency = "USD"

// Account is the aggregate root of the package. It owns the append-only
// transaction log and derives cash balance and holdings from it by replay.
//
// All operations validate their preconditions against the account state as of
// the transaction instant and either apply completely or not at all. The
// account guards the validate-then-append sequence with a mutex, so a single
// instance can be shared by concurrent callers.
type Account struct {
	mu           sync.RWMutex
	currency     string
	oracle       PriceOracle
	now          func() time.Time
	initial      Money
	transactions []Transaction
}

// Option configures an Account at construction time.
type Option func(*Account)

// WithClock replaces the clock used to timestamp transactions created with a
// zero time. Useful for deterministic tests and replays.
func WithClock(now func() time.Time) Option {
	return func(a *Account) { a.now = now }
}

// New creates an account funded with one initial deposit, recorded as the
// first transaction of the log. The deposit must be strictly positive
// (ErrInvalidQuantity otherwise) and fixes the account currency.
func New(initial Money, oracle PriceOracle, opts ...Option) (*Account, error) {
	if oracle == nil {
		return nil, errors.New("a price oracle is required")
	}
	currency := initial.Currency()
	if currency == "" {
		currency = DefaultCurrency
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, err
	}

	a := &Account{
		currency: currency,
		oracle:   oracle,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}

	tx, err := NewDeposit(time.Time{}, "initial deposit", initial).Validate(a)
	if err != nil {
		return nil, fmt.Errorf("invalid initial deposit: %w", err)
	}
	dep := tx.(Deposit)
	a.initial = dep.Amount
	a.transactions = append(a.transactions, dep)
	return a, nil
}

// Currency returns the account currency code.
func (a *Account) Currency() string { return a.currency }

// InitialDeposit returns the amount the account was created with. It is set
// once at construction and never changes.
func (a *Account) InitialDeposit() Money { return a.initial }

// fixCurrency resolves an empty currency to the account currency and rejects
// any other currency: the account holds cash in a single currency.
func (a *Account) fixCurrency(m Money) (Money, error) {
	switch m.Currency() {
	case "":
		return M(m.value, a.currency), nil
	case a.currency:
		return m, nil
	default:
		return m, fmt.Errorf("currency %s does not match account currency %s", m.Currency(), a.currency)
	}
}

// stateAt replays the transaction log up to and including asOf and returns
// the resulting cash balance and holdings. A zero asOf replays the whole log.
// Callers must hold the account lock.
func (a *Account) stateAt(asOf time.Time) (Money, map[string]Quantity) {
	cash := M(0, a.currency)
	holdings := make(map[string]Quantity)
	for _, tx := range a.transactions {
		if !asOf.IsZero() && tx.When().After(asOf) {
			// The log is kept in chronological order, so it is safe to break.
			break
		}
		cash = cash.Add(tx.CashImpact())
		switch v := tx.(type) {
		case Buy:
			holdings[v.Symbol] = holdings[v.Symbol].Add(v.Quantity)
		case Sell:
			holdings[v.Symbol] = holdings[v.Symbol].Sub(v.Quantity)
		}
	}
	return cash, holdings
}

// append adds a validated transaction to the log and restores chronological
// order. The sort is stable, so transactions on the same instant keep their
// insertion order.
func (a *Account) append(tx Transaction) {
	a.transactions = append(a.transactions, tx)
	sort.SliceStable(a.transactions, func(i, j int) bool {
		return a.transactions[i].When().Before(a.transactions[j].When())
	})
}

// Record validates a transaction against the current account state and
// appends it to the log. It is the single write path of the account: the
// convenience methods below and the log decoder all funnel through it.
func (a *Account) Record(tx Transaction) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	validated, err := tx.Validate(a)
	if err != nil {
		return tx, fmt.Errorf("invalid %s transaction: %w", tx.What(), err)
	}
	a.append(validated)
	return validated, nil
}

// Deposit adds cash to the account. The amount must be strictly positive.
// A zero instant is resolved to the account clock.
func (a *Account) Deposit(amount Money, at time.Time) (Deposit, error) {
	tx, err := a.Record(NewDeposit(at, "", amount))
	if err != nil {
		return Deposit{}, err
	}
	return tx.(Deposit), nil
}

// Withdraw removes cash from the account. It fails with ErrInsufficientFunds
// when the amount exceeds the cash balance as of the transaction instant.
func (a *Account) Withdraw(amount Money, at time.Time) (Withdraw, error) {
	tx, err := a.Record(NewWithdraw(at, "", amount))
	if err != nil {
		return Withdraw{}, err
	}
	return tx.(Withdraw), nil
}

// Buy purchases quantity shares of symbol at the oracle price. It fails with
// ErrInvalidQuantity for a non-positive quantity, ErrInvalidSymbol when the
// oracle rejects the symbol, and ErrInsufficientFunds when the cost exceeds
// the cash balance.
func (a *Account) Buy(symbol string, quantity Quantity, at time.Time) (Buy, error) {
	tx, err := a.Record(NewBuy(at, "", symbol, quantity, Money{}, Money{}))
	if err != nil {
		return Buy{}, err
	}
	return tx.(Buy), nil
}

// Sell sells quantity shares of symbol at the oracle price. It fails with
// ErrInsufficientHoldings when the position as of the transaction instant is
// smaller than the quantity sold.
func (a *Account) Sell(symbol string, quantity Quantity, at time.Time) (Sell, error) {
	tx, err := a.Record(NewSell(at, "", symbol, quantity, Money{}, Money{}))
	if err != nil {
		return Sell{}, err
	}
	return tx.(Sell), nil
}

// CashBalance returns the cash balance as of the given instant. A zero asOf
// means the latest state.
func (a *Account) CashBalance(asOf time.Time) Money {
	a.mu.RLock()
	defer a.mu.RUnlock()
	cash, _ := a.stateAt(asOf)
	return cash
}

// Position returns the number of shares of symbol held as of the given
// instant.
func (a *Account) Position(symbol string, asOf time.Time) Quantity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, holdings := a.stateAt(asOf)
	return holdings[symbol]
}

// Holdings returns a snapshot of the holdings as of the given instant. The
// returned map is a copy and omits zero positions.
func (a *Account) Holdings(asOf time.Time) map[string]Quantity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, holdings := a.stateAt(asOf)
	for symbol, qty := range holdings {
		if qty.IsZero() {
			delete(holdings, symbol)
		}
	}
	return holdings
}

// PortfolioValue returns the cash balance plus the market value of all
// holdings as of the given instant, priced by the oracle. It fails with
// ErrInvalidSymbol only if a held symbol is no longer priceable.
func (a *Account) PortfolioValue(asOf time.Time) (Money, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	cash, holdings := a.stateAt(asOf)

	total := cash
	for _, symbol := range slices.Sorted(maps.Keys(holdings)) {
		qty := holdings[symbol]
		if qty.IsZero() {
			continue
		}
		price, err := a.oracle.Price(symbol)
		if err != nil {
			return Money{}, fmt.Errorf("cannot value position in %s: %w", symbol, err)
		}
		total = total.Add(price.Mul(qty))
	}
	return total, nil
}

// ProfitLoss returns the portfolio value as of the given instant minus the
// initial deposit.
func (a *Account) ProfitLoss(asOf time.Time) (Money, error) {
	value, err := a.PortfolioValue(asOf)
	if err != nil {
		return Money{}, err
	}
	return value.Sub(a.initial), nil
}

// OldestTransactionTime returns the instant of the earliest transaction in
// the log, the zero time if the log is empty.
func (a *Account) OldestTransactionTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.transactions) == 0 {
		return time.Time{}
	}
	return a.transactions[0].When()
}

// NewestTransactionTime returns the instant of the latest transaction in the
// log, the zero time if the log is empty.
func (a *Account) NewestTransactionTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.transactions) == 0 {
		return time.Time{}
	}
	return a.transactions[len(a.transactions)-1].When()
}

// Transactions returns a restartable iterator over the transactions accepted
// by at least one of the filters, in chronological order. The iterator works
// on a snapshot of the log, so iterating and recording may interleave.
func (a *Account) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		a.mu.RLock()
		txs := slices.Clone(a.transactions)
		a.mu.RUnlock()

		for i, tx := range txs {
			accept := false
			for _, filter := range filters {
				if filter(tx) {
					accept = true
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// History returns a restartable iterator over the transactions whose instant
// lies in [since, until]. Either bound may be the zero time to leave the
// range open on that side.
func (a *Account) History(since, until time.Time) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range a.Transactions(Between(since, until)) {
			if !yield(tx) {
				return
			}
		}
	}
}

// AcceptAll is a transaction filter that accepts every transaction.
func AcceptAll(Transaction) bool { return true }

// ByKind returns a predicate that filters transactions by command type.
func ByKind(kind TxType) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.What() == kind }
}

// BySymbol returns a predicate that filters trades by ticker symbol.
func BySymbol(symbol string) func(Transaction) bool {
	return func(tx Transaction) bool {
		switch v := tx.(type) {
		case Buy:
			return v.Symbol == symbol
		case Sell:
			return v.Symbol == symbol
		default:
			return false
		}
	}
}

// Between returns a predicate that filters transactions by instant, with
// inclusive bounds. A zero bound leaves the range open on that side.
func Between(since, until time.Time) func(Transaction) bool {
	return func(tx Transaction) bool {
		if !since.IsZero() && tx.When().Before(since) {
			return false
		}
		if !until.IsZero() && tx.When().After(until) {
			return false
		}
		return true
	}
}
