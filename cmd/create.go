package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Lucas-Abner/tradebook"
	"github.com/google/subcommands"
)

type createCmd struct {
	amount   string
	currency string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new account with an initial deposit" }
func (*createCmd) Usage() string {
	return `tbk create -a <amount> [-c <currency>]

  Creates a new account funded with the given initial deposit and writes its
  transaction log to the account file.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Initial deposit amount")
	f.StringVar(&c.currency, "c", tradebook.DefaultCurrency, "Account currency code")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if _, err := os.Stat(*accountFile); err == nil {
		fmt.Fprintf(os.Stderr, "Error: account file %q already exists\n", *accountFile)
		return subcommands.ExitFailure
	}

	amount, err := tradebook.ParseMoney(c.amount, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	oracle, err := openOracle()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	account, err := tradebook.New(amount, oracle)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := closeAccount(account); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Created account %s with an initial deposit of %s\n", *accountFile, account.InitialDeposit())
	return subcommands.ExitSuccess
}
