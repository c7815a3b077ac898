package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/google/subcommands"
)

type priceCmd struct {
	date string
	url  string
	path string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "record or fetch an asset price" }
func (*priceCmd) Usage() string {
	return `mc price [-d <date>] <ticker> <price>
mc price -url <url> -path <jsonpath> <ticker>

  Records a price observation for an asset, in its trade currency. With
  -url and -path, today's price is fetched from a quote source instead: the
  JSONPath expression selects the price inside the JSON response.

Usage Examples:
$ mc price -d 2025-06-30 VWCE 110
$ mc price -url "https://example.com/quote/VWCE" -path "$.price" VWCE
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Observation date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.url, "url", "", "Quote source URL to fetch the price from.")
	f.StringVar(&c.path, "path", "", "JSONPath selecting the price in the quote response.")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.url == "") != (c.path == "") {
		return usageError("-url and -path must be used together")
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	if c.url != "" {
		if f.NArg() != 1 {
			return usageError("want exactly one argument: <ticker>")
		}
		ticker := f.Arg(0)
		asset, err := b.lots.Asset(ticker)
		if err != nil {
			return fail(err)
		}
		src := moneyclip.QuoteSource{URL: c.url, Path: c.path}
		if err := moneyclip.FetchPrice(b.rates, b.lots, ticker, src); err != nil {
			return fail(err)
		}
		on, price, ok := b.rates.PriceAsOf(ticker, asset.Currency, date.Today())
		if !ok {
			return fail(fmt.Errorf("no price stored for %s", ticker))
		}
		if err := b.store.AddPrice(ticker, on, price, c.url); err != nil {
			return fail(err)
		}
		fmt.Printf("Fetched %s price %s on %s\n", ticker, price, on)
		return subcommands.ExitSuccess
	}

	if f.NArg() != 2 {
		return usageError("want exactly two arguments: <ticker> <price>")
	}
	on := date.Today()
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	ticker := f.Arg(0)
	asset, err := b.lots.Asset(ticker)
	if err != nil {
		return fail(err)
	}
	price, err := moneyclip.MParse(f.Arg(1), asset.Currency)
	if err != nil {
		return fail(fmt.Errorf("invalid price %q: %w", f.Arg(1), err))
	}
	if err := b.rates.AddPrice(ticker, on, price); err != nil {
		return fail(err)
	}
	if err := b.store.AddPrice(ticker, on, price, "manual"); err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s price %s on %s\n", ticker, price, on)
	return subcommands.ExitSuccess
}
