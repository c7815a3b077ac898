package cmd

import (
	"context"
	"flag"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/alphavelocity/moneyclip/renderer"
	"github.com/google/subcommands"
)

type balancesCmd struct {
	date     string
	currency string
	asJSON   bool
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "report account balances" }
func (*balancesCmd) Usage() string {
	return `mc balances [-d <date>] [-c <currency>] [-json]

  Reports every account balance as of a date, in the account's native
  currency. With -c, balances are also converted to that currency at the
  report date.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Report date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.currency, "c", "", "Also convert each balance to this currency.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := date.Today()
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	rows, err := moneyclip.Balances(b.ledger, b.conv, c.currency, on)
	if err != nil {
		return fail(err)
	}
	if c.asJSON {
		return printJSON(rows)
	}
	printMarkdown(renderer.BalancesMarkdown(rows, c.currency, on))
	return subcommands.ExitSuccess
}

type cashflowCmd struct {
	months int
	end    string
	asJSON bool
}

func (*cashflowCmd) Name() string     { return "cashflow" }
func (*cashflowCmd) Synopsis() string { return "report monthly income and expenses" }
func (*cashflowCmd) Usage() string {
	return `mc cashflow [-months <n>] [-m <end_month>] [-json]

  Aggregates inflows and outflows per calendar month in base currency,
  most recent month first. Each transaction converts at its own date.
`
}

func (c *cashflowCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "months", 6, "Number of months to report.")
	f.StringVar(&c.end, "m", "", "Last month of the report (YYYY-MM). Defaults to the current month.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *cashflowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	end, err := parseMonthFlag(c.end)
	if err != nil {
		return fail(err)
	}
	if c.months < 1 {
		return usageError("-months must be at least 1")
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	rows, err := moneyclip.Cashflow(b.ledger, b.conv, c.months, end)
	if err != nil {
		return fail(err)
	}
	if c.asJSON {
		return printJSON(rows)
	}
	printMarkdown(renderer.CashflowMarkdown(rows))
	return subcommands.ExitSuccess
}

type spendCmd struct {
	month  string
	asJSON bool
}

func (*spendCmd) Name() string     { return "spend" }
func (*spendCmd) Synopsis() string { return "report spending by category for a month" }
func (*spendCmd) Usage() string {
	return `mc spend [-m <month>] [-json]

  Aggregates one month's outflows per category in base currency, largest
  first. Spending without a category shows up in its own bucket.
`
}

func (c *spendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month to report (YYYY-MM). Defaults to the current month.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *spendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		return fail(err)
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	rows, err := moneyclip.SpendByCategory(b.ledger, b.conv, month)
	if err != nil {
		return fail(err)
	}
	if c.asJSON {
		return printJSON(rows)
	}
	printMarkdown(renderer.SpendMarkdown(rows, month))
	return subcommands.ExitSuccess
}
