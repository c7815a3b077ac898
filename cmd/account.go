package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type accountCmd struct {
	accountType string
	currency    string
}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "declare a new account or list existing ones" }
func (*accountCmd) Usage() string {
	return `mc account [-t <type>] [-c <currency>] [<name>]

  With a name, declares a new account. Without, lists all accounts.

Usage Examples:
$ mc account -t checking -c USD checking
$ mc account
`
}

func (c *accountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.accountType, "t", "checking", "Account type (checking, savings, cash, card).")
	f.StringVar(&c.currency, "c", "", "Native currency of the account. Defaults to the base currency.")
}

func (c *accountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if f.NArg() == 0 {
		ledger, err := s.LoadLedger()
		if err != nil {
			return fail(err)
		}
		var b strings.Builder
		fmt.Fprint(&b, "# Accounts\n\n| Name | Type | Currency |\n|:---|:---|:---|\n")
		for account := range ledger.Accounts() {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", account.Name, account.Type, account.Currency)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	name := f.Arg(0)
	currency := c.currency
	if currency == "" {
		if currency, err = s.BaseCurrency(); err != nil {
			return fail(err)
		}
	}
	if _, err := s.AddAccount(name, c.accountType, currency); err != nil {
		return fail(err)
	}
	fmt.Printf("Added account %q (%s, %s)\n", name, c.accountType, currency)
	return subcommands.ExitSuccess
}
