package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/alphavelocity/moneyclip/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type rateCmd struct {
	date   string
	list   bool
	asJSON bool
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "record an exchange rate observation, or list them" }
func (*rateCmd) Usage() string {
	return `mc rate [-d <date>] <base> <quote> <rate>
mc rate -list [-json]

  Records one FX observation: on <date>, 1 <base> bought <rate> <quote>.
  Recording the same pair and date again supersedes the earlier value.

Usage Examples:
$ mc rate -d 2025-03-10 USD EUR 0.92
$ mc rate -list
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Observation date (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&c.list, "list", false, "List all stored observations instead of recording one.")
	f.BoolVar(&c.asJSON, "json", false, "With -list, print JSON instead of a table.")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if c.list {
		rates, err := s.LoadRates()
		if err != nil {
			return fail(err)
		}
		var observations []moneyclip.RateObservation
		for obs := range rates.Rates() {
			observations = append(observations, obs)
		}
		if c.asJSON {
			return printJSON(observations)
		}
		printMarkdown(renderer.RatesMarkdown(observations))
		return subcommands.ExitSuccess
	}

	if f.NArg() != 3 {
		return usageError("want exactly three arguments: <base> <quote> <rate>")
	}
	on := date.Today()
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	base, quote := f.Arg(0), f.Arg(1)
	if err := moneyclip.ValidateCurrency(base); err != nil {
		return fail(err)
	}
	if err := moneyclip.ValidateCurrency(quote); err != nil {
		return fail(err)
	}
	rate, err := decimal.NewFromString(f.Arg(2))
	if err != nil {
		return fail(fmt.Errorf("invalid rate %q: %w", f.Arg(2), err))
	}
	// Run the observation through the in-memory store first so non-positive
	// rates are rejected before touching the database.
	if err := moneyclip.NewRateStore().AddRate(base, quote, on, rate); err != nil {
		return fail(err)
	}
	if err := s.AddRate(base, quote, on, rate); err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s/%s %s on %s\n", base, quote, rate, on)
	return subcommands.ExitSuccess
}

type fetchCmd struct {
	from string
	to   string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download reference exchange rates for the books" }
func (*fetchCmd) Usage() string {
	return `mc fetch [-s <start_date>] [-d <end_date>]

  Downloads daily reference rates from frankfurter.dev for every currency
  appearing in the books, against the base currency, and stores them. The
  range defaults to the oldest transaction date through today.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "s", "", "Start of the range (YYYY-MM-DD). Defaults to the oldest transaction.")
	f.StringVar(&c.to, "d", "", "End of the range (YYYY-MM-DD). Defaults to today.")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	from := b.ledger.OldestTransactionDate()
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			return fail(err)
		}
	}
	to := date.Today()
	if c.to != "" {
		if to, err = date.Parse(c.to); err != nil {
			return fail(err)
		}
	}
	if from.IsZero() {
		from = to
	}

	base := b.conv.BaseCurrency()
	seen := make(map[string]bool)
	var quotes []string
	for ccy := range b.ledger.AllCurrencies() {
		if !seen[ccy] {
			seen[ccy] = true
			quotes = append(quotes, ccy)
		}
	}
	for asset := range b.lots.Assets() {
		if !seen[asset.Currency] {
			seen[asset.Currency] = true
			quotes = append(quotes, asset.Currency)
		}
	}

	if err := moneyclip.FetchRates(b.rates, base, quotes, from, to); err != nil {
		return fail(err)
	}
	if err := b.store.SaveRates(b.rates); err != nil {
		return fail(err)
	}
	fmt.Printf("Fetched %s rates from %s to %s\n", base, from, to)
	return subcommands.ExitSuccess
}

type convertCmd struct {
	date string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount between currencies" }
func (*convertCmd) Usage() string {
	return `mc convert [-d <date>] <amount> <from> <to>

  Converts an amount using the stored rates as of a date: direct rate first,
  then the inverse, then triangulation through the base currency.

Usage Examples:
$ mc convert 100 EUR USD
$ mc convert -d 2025-03-10 6325.20 INR USD
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Conversion date (YYYY-MM-DD). Defaults to today.")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError("want exactly three arguments: <amount> <from> <to>")
	}
	on := date.Today()
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	amount, err := moneyclip.MParse(f.Arg(0), f.Arg(1))
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", f.Arg(0), err))
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	rate, err := b.conv.Rate(f.Arg(1), f.Arg(2), on)
	if err != nil {
		return fail(err)
	}
	converted, err := b.conv.Convert(amount, f.Arg(2), on)
	if err != nil {
		return fail(err)
	}
	if rate.Via != "" {
		fmt.Printf("%s = %s (rate %s observed %s, via %s)\n",
			amount, converted, rate.Value, rate.Observed, rate.Via)
	} else {
		fmt.Printf("%s = %s (rate %s observed %s)\n", amount, converted, rate.Value, rate.Observed)
	}
	return subcommands.ExitSuccess
}
