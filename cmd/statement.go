package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Lucas-Abner/tradebook/renderer"
	"github.com/google/subcommands"
)

type statementCmd struct {
	at string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "show cash, holdings, value and profit" }
func (*statementCmd) Usage() string {
	return `tbk statement [-at <time>]

  Shows the account state as of the given instant: cash balance, holdings
  with their market value, total portfolio value, and profit or loss.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.at, "at", "", "Report time (YYYY-MM-DD or RFC 3339), defaults to now")
}

func (c *statementCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseTime(c.at)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	account, err := openAccount()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	statement, err := account.Statement(asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.StatementMarkdown(statement))
	return subcommands.ExitSuccess
}
