package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Lucas-Abner/tradebook"
	"github.com/Lucas-Abner/tradebook/renderer"
	"github.com/google/subcommands"
)

// recordTransaction loads the account, records the transaction built by
// record, and rewrites the account file.
func recordTransaction(record func(a *tradebook.Account, at time.Time) (tradebook.Transaction, error), at string) subcommands.ExitStatus {
	instant, err := parseTime(at)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	account, err := openAccount()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := record(account, instant)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := closeAccount(account); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Println(renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

// --- Deposit Command ---

type depositCmd struct {
	amount string
	at     string
	memo   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add cash to the account" }
func (*depositCmd) Usage() string {
	return `tbk deposit -a <amount> [-at <time>] [-m <memo>]

  Adds cash to the account. The amount must be strictly positive.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount of cash to deposit")
	f.StringVar(&c.at, "at", "", "Transaction time (YYYY-MM-DD or RFC 3339), defaults to now")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return recordTransaction(func(a *tradebook.Account, at time.Time) (tradebook.Transaction, error) {
		amount, err := tradebook.ParseMoney(c.amount, a.Currency())
		if err != nil {
			return nil, err
		}
		return a.Record(tradebook.NewDeposit(at, c.memo, amount))
	}, c.at)
}

// --- Withdraw Command ---

type withdrawCmd struct {
	amount string
	at     string
	memo   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "remove cash from the account" }
func (*withdrawCmd) Usage() string {
	return `tbk withdraw -a <amount> [-at <time>] [-m <memo>]

  Removes cash from the account. Fails if the amount exceeds the cash balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount of cash to withdraw")
	f.StringVar(&c.at, "at", "", "Transaction time (YYYY-MM-DD or RFC 3339), defaults to now")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return recordTransaction(func(a *tradebook.Account, at time.Time) (tradebook.Transaction, error) {
		amount, err := tradebook.ParseMoney(c.amount, a.Currency())
		if err != nil {
			return nil, err
		}
		return a.Record(tradebook.NewWithdraw(at, c.memo, amount))
	}, c.at)
}

// --- Buy Command ---

type buyCmd struct {
	symbol   string
	quantity string
	at       string
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `tbk buy -s <symbol> -q <quantity> [-at <time>] [-m <memo>]

  Purchases shares at the oracle price. The total cost is debited from the
  cash balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.at, "at", "", "Transaction time (YYYY-MM-DD or RFC 3339), defaults to now")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return recordTransaction(func(a *tradebook.Account, at time.Time) (tradebook.Transaction, error) {
		quantity, err := tradebook.ParseQuantity(c.quantity)
		if err != nil {
			return nil, err
		}
		return a.Record(tradebook.NewBuy(at, c.memo, c.symbol, quantity, tradebook.Money{}, tradebook.Money{}))
	}, c.at)
}

// --- Sell Command ---

type sellCmd struct {
	symbol   string
	quantity string
	at       string
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `tbk sell -s <symbol> -q <quantity> [-at <time>] [-m <memo>]

  Sells held shares at the oracle price. The proceeds are credited to the
  cash balance.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.at, "at", "", "Transaction time (YYYY-MM-DD or RFC 3339), defaults to now")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return recordTransaction(func(a *tradebook.Account, at time.Time) (tradebook.Transaction, error) {
		quantity, err := tradebook.ParseQuantity(c.quantity)
		if err != nil {
			return nil, err
		}
		return a.Record(tradebook.NewSell(at, c.memo, c.symbol, quantity, tradebook.Money{}, tradebook.Money{}))
	}, c.at)
}
