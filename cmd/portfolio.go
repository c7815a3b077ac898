package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/google/subcommands"
)

type assetCmd struct {
	name     string
	currency string
}

func (*assetCmd) Name() string     { return "asset" }
func (*assetCmd) Synopsis() string { return "declare a tradable asset or list existing ones" }
func (*assetCmd) Usage() string {
	return `mc asset [-n <name>] [-c <currency>] [<ticker>]

  With a ticker, declares a tradable asset. Without, lists all assets.

Usage Examples:
$ mc asset -n "Vanguard FTSE All-World" -c EUR VWCE
$ mc asset
`
}

func (c *assetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Human-readable asset name. Defaults to the ticker.")
	f.StringVar(&c.currency, "c", "", "Trade currency of the asset. Defaults to the base currency.")
}

func (c *assetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if f.NArg() == 0 {
		rates, err := s.LoadRates()
		if err != nil {
			return fail(err)
		}
		base, err := s.BaseCurrency()
		if err != nil {
			return fail(err)
		}
		conv, err := moneyclip.NewConverter(rates, base)
		if err != nil {
			return fail(err)
		}
		lots, err := s.LoadLots(conv)
		if err != nil {
			return fail(err)
		}
		var b strings.Builder
		fmt.Fprint(&b, "# Assets\n\n| Ticker | Name | Currency |\n|:---|:---|:---|\n")
		for asset := range lots.Assets() {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", asset.Ticker, asset.Name, asset.Currency)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	ticker := f.Arg(0)
	name := c.name
	if name == "" {
		name = ticker
	}
	currency := c.currency
	if currency == "" {
		if currency, err = s.BaseCurrency(); err != nil {
			return fail(err)
		}
	}
	if _, err := s.AddAsset(ticker, name, currency); err != nil {
		return fail(err)
	}
	fmt.Printf("Added asset %s (%s, %s)\n", ticker, name, currency)
	return subcommands.ExitSuccess
}

type buyCmd struct {
	date string
	note string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record an asset purchase" }
func (*buyCmd) Usage() string {
	return `mc buy [-d <date>] [-n <note>] <ticker> <quantity> <unit-price>

  Records a purchase as a new tax lot. The unit price is in the asset's
  trade currency.

Usage Examples:
$ mc buy -d 2025-01-10 AAPL 10 100
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.note, "n", "", "Free-form note.")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError("want exactly three arguments: <ticker> <quantity> <unit-price>")
	}
	on := date.Today()
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	quantity, err := moneyclip.QParse(f.Arg(1))
	if err != nil {
		return fail(fmt.Errorf("invalid quantity %q: %w", f.Arg(1), err))
	}
	price, err := moneyclip.MParse(f.Arg(2), "")
	if err != nil {
		return fail(fmt.Errorf("invalid unit price %q: %w", f.Arg(2), err))
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	ticker := f.Arg(0)
	if err := b.lots.Buy(ticker, on, quantity, price); err != nil {
		return fail(err)
	}
	if _, err := b.store.AddTrade(ticker, on, "buy", quantity, price, c.note); err != nil {
		return fail(err)
	}
	fmt.Printf("Bought %s %s at %s on %s\n", f.Arg(1), ticker, f.Arg(2), on)
	return subcommands.ExitSuccess
}

type sellCmd struct {
	date string
	note string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record an asset sale and report the realized gains" }
func (*sellCmd) Usage() string {
	return `mc sell [-d <date>] [-n <note>] <ticker> <quantity> <unit-price>

  Records a sale. Open lots are consumed oldest first and one realized gain
  is reported per consumed lot portion, in the base currency. The sale is
  rejected outright when the open quantity is insufficient or a needed
  exchange rate is missing.

Usage Examples:
$ mc sell -d 2025-06-10 AAPL 15 150
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.note, "n", "", "Free-form note.")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError("want exactly three arguments: <ticker> <quantity> <unit-price>")
	}
	on := date.Today()
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	quantity, err := moneyclip.QParse(f.Arg(1))
	if err != nil {
		return fail(fmt.Errorf("invalid quantity %q: %w", f.Arg(1), err))
	}
	price, err := moneyclip.MParse(f.Arg(2), "")
	if err != nil {
		return fail(fmt.Errorf("invalid unit price %q: %w", f.Arg(2), err))
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	ticker := f.Arg(0)
	gains, err := b.lots.Sell(ticker, on, quantity, price.Mul(quantity))
	if err != nil {
		return fail(err)
	}
	if _, err := b.store.AddTrade(ticker, on, "sell", quantity, price, c.note); err != nil {
		return fail(err)
	}
	fmt.Printf("Sold %s %s at %s on %s\n", f.Arg(1), ticker, f.Arg(2), on)
	for _, g := range gains {
		fmt.Printf("  lot %s: %s sold, gain %s\n", g.LotDate, g.Quantity, g.Gain.SignedString())
	}
	return subcommands.ExitSuccess
}
