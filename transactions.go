package tradebook

import (
	"fmt"
	"time"

	"github.com/Lucas-Abner/tradebook/id"
)

// TxType is a typed string for identifying transaction commands.
type TxType string

// Command types used for identifying transactions.
const (
	TxDeposit  TxType = "deposit"
	TxWithdraw TxType = "withdraw"
	TxBuy      TxType = "buy"
	TxSell     TxType = "sell"
)

// IsTrade reports whether the command moves shares as well as cash.
func (t TxType) IsTrade() bool { return t == TxBuy || t == TxSell }

// IsCashFlow reports whether the command represents external cash moving in
// or out of the account.
func (t TxType) IsCashFlow() bool { return t == TxDeposit || t == TxWithdraw }

// Transaction defines the common interface for all financial events recorded
// in an account's log. Implementations are immutable value types.
type Transaction interface {
	What() TxType   // What returns the command type of the transaction (e.g., "buy", "sell").
	When() time.Time // When returns the instant at which the transaction occurred.
	Ref() string    // Ref returns the transaction's time-sortable identifier.
	Equal(Transaction) bool
	CashImpact() Money // CashImpact is signed: positive credits cash, negative debits it.
	Validate(a *Account) (Transaction, error)
}

type baseTx struct {
	ID      string    `json:"id,omitempty"`   // ID is a ULID assigned at creation.
	Command TxType    `json:"command"`        // Command specifies the type of transaction.
	Time    time.Time `json:"time"`           // Time is the instant the transaction took place.
	Memo    string    `json:"memo,omitempty"` // Memo provides an optional note for the transaction.
}

func newBaseTx(command TxType, at time.Time, memo string) baseTx {
	return baseTx{ID: id.New(), Command: command, Time: at.UTC(), Memo: memo}
}

// What returns the command name for the transaction.
func (t baseTx) What() TxType { return t.Command }

// When returns the instant of the transaction.
func (t baseTx) When() time.Time { return t.Time }

// Ref returns the transaction identifier.
func (t baseTx) Ref() string { return t.ID }

// Rationale returns the memo associated with the transaction.
func (t baseTx) Rationale() string { return t.Memo }

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("time", t.Time.UTC())
	w.Optional("id", t.ID)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// validate applies quick fixes to the base fields: a zero time becomes the
// account's current time, and a missing identifier is assigned. It is meant
// to be called from the concrete transaction validation methods.
func (t *baseTx) validate(a *Account) {
	if t.Time.IsZero() {
		t.Time = a.now()
	}
	t.Time = t.Time.UTC()
	if t.ID == "" {
		t.ID = id.New()
	}
}

func (t baseTx) equal(o baseTx) bool {
	return t.ID == o.ID && t.Command == o.Command && t.Time.Equal(o.Time) && t.Memo == o.Memo
}

// tradeTx is a component for share-moving transactions (buy, sell).
type tradeTx struct {
	baseTx
	Symbol   string   `json:"symbol"`   // Symbol is the ticker of the traded security.
	Quantity Quantity `json:"quantity"` // Quantity is the (unsigned) number of shares traded.
}

// MarshalJSON implements the json.Marshaler interface for tradeTx.
func (t tradeTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	return w.MarshalJSON()
}

func (t tradeTx) equal(o tradeTx) bool {
	return t.baseTx.equal(o.baseTx) && t.Symbol == o.Symbol && t.Quantity.Equal(o.Quantity)
}

// validate checks the trade fields common to buys and sells.
func (t *tradeTx) validate(a *Account) error {
	t.baseTx.validate(a)
	if t.Symbol == "" {
		return fmt.Errorf("%w: ticker symbol is missing", ErrInvalidSymbol)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: %s quantity must be positive, got %s", ErrInvalidQuantity, t.Command, t.Quantity)
	}
	return nil
}

// Deposit represents external cash added to the account.
type Deposit struct {
	baseTx
	Amount Money // Amount is the quantity of cash deposited.
}

// NewDeposit creates a new Deposit transaction. A zero time is resolved to
// the account clock during validation.
func NewDeposit(at time.Time, memo string, amount Money) Deposit {
	return Deposit{baseTx: newBaseTx(TxDeposit, at, memo), Amount: amount}
}

// MarshalJSON implements the json.Marshaler interface for Deposit.
func (t Deposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.baseTx.equal(o.baseTx) && t.Amount.Equal(o.Amount)
}

// CashImpact returns the deposited amount: cash in.
func (t Deposit) CashImpact() Money { return t.Amount }

// Validate checks the Deposit transaction's fields. The amount must be
// strictly positive and in the account currency.
func (t Deposit) Validate(a *Account) (Transaction, error) {
	t.baseTx.validate(a)
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("%w: deposit amount must be positive, got %s", ErrInvalidQuantity, t.Amount)
	}
	amount, err := a.fixCurrency(t.Amount)
	if err != nil {
		return t, fmt.Errorf("invalid deposit: %w", err)
	}
	t.Amount = amount
	return t, nil
}

// Withdraw represents external cash removed from the account.
type Withdraw struct {
	baseTx
	Amount Money // Amount is the (unsigned) quantity of cash withdrawn.
}

// NewWithdraw creates a new Withdraw transaction.
func NewWithdraw(at time.Time, memo string, amount Money) Withdraw {
	return Withdraw{baseTx: newBaseTx(TxWithdraw, at, memo), Amount: amount}
}

// MarshalJSON implements the json.Marshaler interface for Withdraw.
func (t Withdraw) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t Withdraw) Equal(other Transaction) bool {
	o, ok := other.(Withdraw)
	return ok && t.baseTx.equal(o.baseTx) && t.Amount.Equal(o.Amount)
}

// CashImpact returns the negated withdrawal amount: cash out.
func (t Withdraw) CashImpact() Money { return t.Amount.Neg() }

// Validate checks the Withdraw transaction's fields. It ensures the amount is
// positive and that the cash balance on the transaction instant covers it.
func (t Withdraw) Validate(a *Account) (Transaction, error) {
	t.baseTx.validate(a)
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("%w: withdraw amount must be positive, got %s", ErrInvalidQuantity, t.Amount)
	}
	amount, err := a.fixCurrency(t.Amount)
	if err != nil {
		return t, fmt.Errorf("invalid withdraw: %w", err)
	}
	t.Amount = amount

	cash, _ := a.stateAt(t.Time)
	if cash.LessThan(t.Amount) {
		return t, fmt.Errorf("%w: cannot withdraw %s, cash balance is %s", ErrInsufficientFunds, t.Amount, cash)
	}
	return t, nil
}

// Buy represents a purchase of shares paid from the cash balance.
type Buy struct {
	tradeTx
	Price  Money // Price is the price paid per share.
	Amount Money // Amount is the total cost of the purchase.
}

// NewBuy creates a new Buy transaction. If amount is zero it is resolved to
// price times quantity during validation.
func NewBuy(at time.Time, memo, symbol string, quantity Quantity, price, amount Money) Buy {
	return Buy{
		tradeTx: tradeTx{baseTx: newBaseTx(TxBuy, at, memo), Symbol: symbol, Quantity: quantity},
		Price:   price,
		Amount:  amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.tradeTx)
	w.Append("price", t.Price)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.tradeTx.equal(o.tradeTx) && t.Price.Equal(o.Price) && t.Amount.Equal(o.Amount)
}

// CashImpact returns the negated total cost: cash out.
func (t Buy) CashImpact() Money { return t.Amount.Neg() }

// SignedQuantity returns the quantity with a positive sign: shares in.
func (t Buy) SignedQuantity() Quantity { return t.Quantity }

// Validate checks the Buy transaction's fields. It ensures the quantity and
// price are positive, that the oracle recognizes the symbol, and that the
// cash balance on the transaction instant covers the cost.
func (t Buy) Validate(a *Account) (Transaction, error) {
	if err := t.tradeTx.validate(a); err != nil {
		return t, err
	}
	quote, err := a.oracle.Price(t.Symbol)
	if err != nil {
		return t, err
	}
	if t.Price.IsZero() {
		t.Price = quote
	}
	if !t.Price.IsPositive() {
		return t, fmt.Errorf("buy price must be positive, got %s", t.Price)
	}
	price, err := a.fixCurrency(t.Price)
	if err != nil {
		return t, fmt.Errorf("invalid buy: %w", err)
	}
	t.Price = price
	if t.Amount.IsZero() {
		t.Amount = t.Price.Mul(t.Quantity)
	}
	amount, err := a.fixCurrency(t.Amount)
	if err != nil {
		return t, fmt.Errorf("invalid buy: %w", err)
	}
	t.Amount = amount

	cash, _ := a.stateAt(t.Time)
	if cash.LessThan(t.Amount) {
		return t, fmt.Errorf("%w: cannot buy %s %s for %s, cash balance is %s",
			ErrInsufficientFunds, t.Quantity, t.Symbol, t.Amount, cash)
	}
	return t, nil
}

// Sell represents a sale of held shares credited to the cash balance.
type Sell struct {
	tradeTx
	Price  Money // Price is the price received per share.
	Amount Money // Amount is the total proceeds from the sale.
}

// NewSell creates a new Sell transaction. If amount is zero it is resolved to
// price times quantity during validation.
func NewSell(at time.Time, memo, symbol string, quantity Quantity, price, amount Money) Sell {
	return Sell{
		tradeTx: tradeTx{baseTx: newBaseTx(TxSell, at, memo), Symbol: symbol, Quantity: quantity},
		Price:   price,
		Amount:  amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.tradeTx)
	w.Append("price", t.Price)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.tradeTx.equal(o.tradeTx) && t.Price.Equal(o.Price) && t.Amount.Equal(o.Amount)
}

// CashImpact returns the total proceeds: cash in.
func (t Sell) CashImpact() Money { return t.Amount }

// SignedQuantity returns the quantity with a negative sign: shares out.
func (t Sell) SignedQuantity() Quantity { return t.Quantity.Neg() }

// Validate checks the Sell transaction's fields. The position on the
// transaction instant must cover the quantity sold; the position is checked
// before the oracle is consulted, so selling shares that were never bought
// reports the holdings problem rather than a pricing one.
func (t Sell) Validate(a *Account) (Transaction, error) {
	if err := t.tradeTx.validate(a); err != nil {
		return t, err
	}

	_, holdings := a.stateAt(t.Time)
	pos := holdings[t.Symbol]
	if pos.LessThan(t.Quantity) {
		return t, fmt.Errorf("%w: cannot sell %s %s, position is only %s",
			ErrInsufficientHoldings, t.Quantity, t.Symbol, pos)
	}

	quote, err := a.oracle.Price(t.Symbol)
	if err != nil {
		return t, err
	}
	if t.Price.IsZero() {
		t.Price = quote
	}
	if !t.Price.IsPositive() {
		return t, fmt.Errorf("sell price must be positive, got %s", t.Price)
	}
	price, err := a.fixCurrency(t.Price)
	if err != nil {
		return t, fmt.Errorf("invalid sell: %w", err)
	}
	t.Price = price
	if t.Amount.IsZero() {
		t.Amount = t.Price.Mul(t.Quantity)
	}
	amount, err := a.fixCurrency(t.Amount)
	if err != nil {
		return t, fmt.Errorf("invalid sell: %w", err)
	}
	t.Amount = amount
	return t, nil
}
