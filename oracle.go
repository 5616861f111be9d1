package tradebook

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PriceOracle quotes the current share price of a ticker symbol. An account
// consults its oracle to price trades and to value holdings.
//
// Implementations must return an error wrapping ErrInvalidSymbol for symbols
// they cannot quote.
type PriceOracle interface {
	Price(symbol string) (Money, error)
}

// PriceFunc adapts an ordinary function into a PriceOracle.
type PriceFunc func(symbol string) (Money, error)

func (f PriceFunc) Price(symbol string) (Money, error) { return f(symbol) }

// StaticPrices is a PriceOracle backed by a fixed price table.
type StaticPrices map[string]Money

// Price returns the table entry for symbol, or an error wrapping
// ErrInvalidSymbol when the symbol is not listed.
func (p StaticPrices) Price(symbol string) (Money, error) {
	price, ok := p[symbol]
	if !ok {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return price, nil
}

// DefaultPrices returns the built-in test price table.
func DefaultPrices() StaticPrices {
	return StaticPrices{
		"AAPL":  M(150, "USD"),
		"TSLA":  M(800, "USD"),
		"GOOGL": M(2800, "USD"),
	}
}

// priceFile is the on-disk format of a static price table.
type priceFile struct {
	Currency string            `yaml:"currency"`
	Prices   map[string]string `yaml:"prices"`
}

// DecodePrices reads a YAML price table:
//
//	currency: USD
//	prices:
//	  AAPL: 150
//	  TSLA: "800.50"
//
// Prices are decimal strings in the table currency, and must be strictly
// positive.
func DecodePrices(r io.Reader) (StaticPrices, error) {
	var file priceFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("cannot decode price table: %w", err)
	}
	if file.Currency == "" {
		file.Currency = DefaultCurrency
	}
	if err := ValidateCurrency(file.Currency); err != nil {
		return nil, fmt.Errorf("cannot decode price table: %w", err)
	}

	prices := make(StaticPrices, len(file.Prices))
	for symbol, value := range file.Prices {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", symbol, err)
		}
		if !d.IsPositive() {
			return nil, fmt.Errorf("invalid price for %s: must be positive, got %s", symbol, d)
		}
		prices[symbol] = M(d, file.Currency)
	}
	return prices, nil
}
