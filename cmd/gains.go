package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/alphavelocity/moneyclip/date"
	"github.com/alphavelocity/moneyclip/renderer"
	"github.com/google/subcommands"
)

type gainsCmd struct {
	year   int
	asJSON bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "report realized capital gains" }
func (*gainsCmd) Usage() string {
	return `mc gains [-y <year>] [-json] [<ticker>]

  Reports realized gains in base currency, one row per consumed lot
  portion. Filters by sale year and optionally by ticker.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Only sales in this year. Defaults to all years.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		return usageError("want at most one argument: <ticker>")
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	gains := b.lots.RealizedGains(f.Arg(0), c.year)

	if c.asJSON {
		return printJSON(gains)
	}
	printMarkdown(renderer.GainsMarkdown(gains))
	return subcommands.ExitSuccess
}

type holdingCmd struct {
	date string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "show open lots and their value" }
func (*holdingCmd) Usage() string {
	return `mc holding [-d <date>]

  Shows the open position of every asset, valued at the most recent stored
  price and converted to the base currency as of the given date.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD). Defaults to today.")
}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := date.Today()
	if c.date != "" {
		var err error
		if asOf, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	var out strings.Builder
	fmt.Fprintf(&out, "# Holdings as of %s\n\n", asOf)
	fmt.Fprintln(&out, "| Ticker | Open Quantity | Price | Value |")
	fmt.Fprintln(&out, "|:---|---:|---:|---:|")
	for asset := range b.lots.Assets() {
		open, err := b.lots.OpenQuantity(asset.Ticker)
		if err != nil {
			return fail(err)
		}
		if open.IsZero() {
			continue
		}
		day, price, ok := b.rates.PriceAsOf(asset.Ticker, asset.Currency, asOf)
		if !ok {
			fmt.Fprintf(&out, "| %s | %s | no price | |\n", asset.Ticker, open)
			continue
		}
		value, err := b.lots.Value(asset.Ticker, price, asOf)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(&out, "| %s | %s | %s (%s) | %s |\n", asset.Ticker, open, price, day, value)
	}
	printMarkdown(out.String())
	return subcommands.ExitSuccess
}
