package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/alphavelocity/moneyclip"
	"github.com/google/subcommands"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `mc import <file.csv>

  Imports transactions from a CSV file with the canonical header
  (date,payee,amount,category,account,currency,note). Uncategorized rows
  run through the categorization rules. Bad rows are skipped and reported,
  never fatal.

Usage Examples:
$ mc import bank-export.csv
`
}

func (*importCmd) SetFlags(_ *flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one argument: <file.csv>")
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer file.Close()

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	// Import into the in-memory ledger first; every accepted row is then
	// persisted. Imported rows are the ones with an id above the pre-import
	// maximum, since the ledger assigns ids sequentially.
	var maxID int64
	for tx := range b.ledger.Transactions() {
		if tx.ID > maxID {
			maxID = tx.ID
		}
	}
	report, err := moneyclip.ImportTransactions(b.ledger, b.rules, file)
	if err != nil {
		return fail(err)
	}

	for tx := range b.ledger.Transactions() {
		if tx.ID <= maxID {
			continue
		}
		if _, err := b.store.AddTransaction(tx); err != nil {
			return fail(err)
		}
	}

	fmt.Printf("Imported %d transaction(s), skipped %d\n", report.Imported, len(report.Skipped))
	for _, skip := range report.Skipped {
		fmt.Fprintf(os.Stderr, "  skipped %v\n", skip)
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	format string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the books to stdout" }
func (*exportCmd) Usage() string {
	return `mc export [-f <csv|json|rates>]

  Writes the transactions as CSV or JSON, or the stored FX observations as
  JSON lines, to stdout.

Usage Examples:
$ mc export -f csv > transactions.csv
$ mc export -f rates > rates.jsonl
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "csv", "Output format: csv, json, or rates.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	switch c.format {
	case "csv", "json":
		ledger, err := s.LoadLedger()
		if err != nil {
			return fail(err)
		}
		if c.format == "csv" {
			err = moneyclip.ExportTransactionsCSV(ledger, os.Stdout)
		} else {
			err = moneyclip.ExportTransactionsJSON(ledger, os.Stdout)
		}
		if err != nil {
			return fail(err)
		}
	case "rates":
		rates, err := s.LoadRates()
		if err != nil {
			return fail(err)
		}
		if err := moneyclip.ExportRatesJSONL(rates, os.Stdout); err != nil {
			return fail(err)
		}
	default:
		return usageError(fmt.Sprintf("unknown export format %q", c.format))
	}
	return subcommands.ExitSuccess
}
