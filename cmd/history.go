package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Lucas-Abner/tradebook"
	"github.com/Lucas-Abner/tradebook/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	since  string
	until  string
	symbol string
	head   int
	tail   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the transactions recorded in the account" }
func (*historyCmd) Usage() string {
	return `tbk history [-s <since>] [-u <until>] [-sym <symbol>] [-head <n> | -tail <n>]

  Lists transactions in chronological order, with options for filtering and
  limiting the output.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.since, "s", "", "Only transactions at or after this time (YYYY-MM-DD or RFC 3339)")
	f.StringVar(&c.until, "u", "", "Only transactions at or before this time (YYYY-MM-DD or RFC 3339)")
	f.StringVar(&c.symbol, "sym", "", "Only trades in this ticker symbol")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	since, err := parseTime(c.since)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	until, err := parseTime(c.until)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	account, err := openAccount()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var transactions []tradebook.Transaction
	for tx := range account.History(since, until) {
		if c.symbol != "" && !tradebook.BySymbol(c.symbol)(tx) {
			continue
		}
		transactions = append(transactions, tx)
	}

	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}
	if c.tail > 0 && len(transactions) > c.tail {
		transactions = transactions[len(transactions)-c.tail:]
	}

	printMarkdown(renderer.HistoryMarkdown(transactions))
	return subcommands.ExitSuccess
}
