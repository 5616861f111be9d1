package tradebook

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts and quantities are persisted as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// amountTx is a temporary struct to decode the flattened Money fields of a
// transaction line.
type amountTx struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (t amountTx) Money() Money { return M(t.Amount, t.Currency) }

// DecodeTransaction decodes a single transaction line, dispatching on the
// command field.
func DecodeTransaction(data []byte) (Transaction, error) {
	var probe struct {
		Command TxType `json:"command"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid transaction line: %w", err)
	}

	switch probe.Command {
	case TxDeposit:
		var tmp struct {
			baseTx
			amountTx
		}
		if err := json.Unmarshal(data, &tmp); err != nil {
			return nil, fmt.Errorf("invalid deposit line: %w", err)
		}
		return Deposit{baseTx: tmp.baseTx, Amount: tmp.Money()}, nil

	case TxWithdraw:
		var tmp struct {
			baseTx
			amountTx
		}
		if err := json.Unmarshal(data, &tmp); err != nil {
			return nil, fmt.Errorf("invalid withdraw line: %w", err)
		}
		return Withdraw{baseTx: tmp.baseTx, Amount: tmp.Money()}, nil

	case TxBuy:
		var tmp struct {
			tradeTx
			Price amountTx `json:"price"`
			amountTx
		}
		if err := json.Unmarshal(data, &tmp); err != nil {
			return nil, fmt.Errorf("invalid buy line: %w", err)
		}
		return Buy{tradeTx: tmp.tradeTx, Price: tmp.Price.Money(), Amount: tmp.Money()}, nil

	case TxSell:
		var tmp struct {
			tradeTx
			Price amountTx `json:"price"`
			amountTx
		}
		if err := json.Unmarshal(data, &tmp); err != nil {
			return nil, fmt.Errorf("invalid sell line: %w", err)
		}
		return Sell{tradeTx: tmp.tradeTx, Price: tmp.Price.Money(), Amount: tmp.Money()}, nil

	default:
		return nil, fmt.Errorf("unknown transaction command %q", probe.Command)
	}
}

// EncodeTransaction writes one transaction as a single JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot encode %s transaction: %w", tx.What(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// EncodeAccount writes the account's transaction log as JSON lines, in
// chronological order.
func EncodeAccount(w io.Writer, a *Account) error {
	for _, tx := range a.Transactions(AcceptAll) {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeAccount rebuilds an account from its transaction log. The first line
// must be the initial deposit. Every line is re-validated through Record, so
// a log edited to overdraw cash or oversell a position is rejected.
func DecodeAccount(r io.Reader, oracle PriceOracle, opts ...Option) (*Account, error) {
	if oracle == nil {
		return nil, fmt.Errorf("a price oracle is required")
	}

	scanner := bufio.NewScanner(r)
	var a *Account
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		tx, err := DecodeTransaction(data)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if a == nil {
			dep, ok := tx.(Deposit)
			if !ok {
				return nil, fmt.Errorf("line %d: log must start with the initial deposit, got %s", line, tx.What())
			}
			a, err = newAccountFrom(dep, oracle, opts...)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}

		if _, err := a.Record(tx); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read transaction log: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("empty transaction log")
	}
	return a, nil
}

// newAccountFrom builds an account around a decoded initial deposit,
// preserving its identifier and instant.
func newAccountFrom(initial Deposit, oracle PriceOracle, opts ...Option) (*Account, error) {
	currency := initial.Amount.Currency()
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

	tx, err := a.Record(initial)
	if err != nil {
		return nil, fmt.Errorf("invalid initial deposit: %w", err)
	}
	a.initial = tx.(Deposit).Amount
	return a, nil
}
