// Package cmd implements the tbk subcommands.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/Lucas-Abner/tradebook"
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&createCmd{}, "account")

	c.Register(&depositCmd{}, "transactions")
	c.Register(&withdrawCmd{}, "transactions")
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")

	c.Register(&statementCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
}

var accountFile = flag.String("account-file", "account.jsonl", "Path to the account transaction log (JSONL format)")
var pricesFile = flag.String("prices-file", "", "Path to a YAML price table. Defaults to the built-in table.")

// openOracle builds the price oracle, from the prices file if one is set.
func openOracle() (tradebook.PriceOracle, error) {
	if *pricesFile == "" {
		return tradebook.DefaultPrices(), nil
	}
	f, err := os.Open(*pricesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open price table: %w", err)
	}
	defer f.Close()
	return tradebook.DecodePrices(f)
}

// openAccount loads the account from the account file.
func openAccount() (*tradebook.Account, error) {
	oracle, err := openOracle()
	if err != nil {
		return nil, err
	}
	a, err := tradebook.LoadAccount(*accountFile, oracle)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("account file %q does not exist, run 'tbk create' first", *accountFile)
	}
	return a, err
}

// closeAccount rewrites the account file with the account's log.
func closeAccount(a *tradebook.Account) error {
	return tradebook.SaveAccount(*accountFile, a)
}

// parseTime parses a transaction instant flag. An empty value means now, a
// bare date means midnight UTC on that date.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
