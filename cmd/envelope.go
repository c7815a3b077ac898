package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/alphavelocity/moneyclip/renderer"
	"github.com/google/subcommands"
)

// parseMonthFlag parses a -m flag value, defaulting to the current month.
func parseMonthFlag(value string) (date.Month, error) {
	if value == "" {
		return date.Today().Month(), nil
	}
	return date.ParseMonth(value)
}

type fundCmd struct {
	month string
}

func (*fundCmd) Name() string     { return "fund" }
func (*fundCmd) Synopsis() string { return "allocate money to an envelope" }
func (*fundCmd) Usage() string {
	return `mc fund [-m <month>] <category> <amount>

  Adds to the funded amount of a category's envelope for a month. Amounts
  are in the base currency and must not be negative.

Usage Examples:
$ mc fund groceries 500
$ mc fund -m 2025-04 rent 1200
`
}

func (c *fundCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Budget month (YYYY-MM). Defaults to the current month.")
}

func (c *fundCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageError("want exactly two arguments: <category> <amount>")
	}
	month, err := parseMonthFlag(c.month)
	if err != nil {
		return fail(err)
	}
	amount, err := moneyclip.MParse(f.Arg(1), "")
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", f.Arg(1), err))
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	category := f.Arg(0)
	if err := b.env.Fund(category, month, amount); err != nil {
		return fail(err)
	}
	if err := saveEnvelope(b, category, month); err != nil {
		return fail(err)
	}
	fmt.Printf("Funded %s %s\n", category, month)
	return subcommands.ExitSuccess
}

type moveCmd struct {
	month string
}

func (*moveCmd) Name() string     { return "move" }
func (*moveCmd) Synopsis() string { return "move budget between two envelopes" }
func (*moveCmd) Usage() string {
	return `mc move [-m <month>] <from-category> <to-category> <amount>

  Moves budget between two envelopes of the same month, atomically. The
  source may go negative; that shows up as overspent in the status.
`
}

func (c *moveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Budget month (YYYY-MM). Defaults to the current month.")
}

func (c *moveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError("want exactly three arguments: <from-category> <to-category> <amount>")
	}
	month, err := parseMonthFlag(c.month)
	if err != nil {
		return fail(err)
	}
	amount, err := moneyclip.MParse(f.Arg(2), "")
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", f.Arg(2), err))
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	from, to := f.Arg(0), f.Arg(1)
	if err := b.env.Move(from, to, month, amount); err != nil {
		return fail(err)
	}
	if err := saveEnvelope(b, from, month); err != nil {
		return fail(err)
	}
	if err := saveEnvelope(b, to, month); err != nil {
		return fail(err)
	}
	fmt.Printf("Moved %s from %s to %s in %s\n", f.Arg(2), from, to, month)
	return subcommands.ExitSuccess
}

// saveEnvelope persists the stored components of one envelope.
func saveEnvelope(b *books, category string, month date.Month) error {
	funded, movedIn, movedOut, ok := b.env.Funded(category, month)
	if !ok {
		return nil
	}
	return b.store.SaveEnvelope(category, month, funded, movedIn, movedOut)
}

type envelopeCmd struct {
	month  string
	asJSON bool
}

func (*envelopeCmd) Name() string     { return "envelope" }
func (*envelopeCmd) Synopsis() string { return "show envelope availability for a month" }
func (*envelopeCmd) Usage() string {
	return `mc envelope [-m <month>] [-json] [<category>...]

  Shows the full envelope breakdown for a month: rollover, funding, moves,
  spending, and availability. Without categories, all of them are shown.
`
}

func (c *envelopeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Budget month (YYYY-MM). Defaults to the current month.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *envelopeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		return fail(err)
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	categories := f.Args()
	if len(categories) == 0 {
		for name := range b.ledger.Categories() {
			categories = append(categories, name)
		}
	}

	var statuses []moneyclip.EnvelopeStatus
	for _, category := range categories {
		status, err := b.env.Status(category, month)
		if err != nil {
			return fail(err)
		}
		statuses = append(statuses, status)
	}

	if c.asJSON {
		return printJSON(statuses)
	}
	printMarkdown(renderer.EnvelopesMarkdown(statuses, month))
	return subcommands.ExitSuccess
}
