package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/alphavelocity/moneyclip/renderer"
	"github.com/google/subcommands"
)

type addCmd struct {
	date     string
	account  string
	category string
	currency string
	note     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction" }
func (*addCmd) Usage() string {
	return `mc add -a <account> [-d <date>] [-c <category>] [-ccy <currency>] [-n <note>] <payee> <amount>

  Records one signed cash movement. Negative amounts are outflows. When no
  category is given, categorization rules are applied to the payee and note.

Usage Examples:
$ mc add -a checking -c groceries "Whole Foods" -54.20
$ mc add -a checking "Salary" 3000
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.account, "a", "", "Account the movement happened on.")
	f.StringVar(&c.category, "c", "", "Budget category. Empty means uncategorized.")
	f.StringVar(&c.currency, "ccy", "", "Currency of the amount. Defaults to the account's.")
	f.StringVar(&c.note, "n", "", "Free-form note.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageError("want exactly two arguments: <payee> <amount>")
	}
	on := date.Today()
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	amount, err := moneyclip.MParse(f.Arg(1), c.currency)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", f.Arg(1), err))
	}

	b, err := openBooks()
	if err != nil {
		return fail(err)
	}
	defer b.Close()

	tx := moneyclip.Transaction{
		Date:     on,
		Account:  c.account,
		Amount:   amount,
		Payee:    f.Arg(0),
		Category: c.category,
		Note:     c.note,
	}
	if tx.Category == "" {
		tx.Category, tx.Payee = b.rules.Apply(tx.Payee, tx.Note)
	}
	// Validate through the ledger first; only accepted movements reach the
	// database.
	validated, err := b.ledger.Append(tx)
	if err != nil {
		return fail(err)
	}
	id, err := b.store.AddTransaction(validated)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded transaction %d: %s %s at %s\n", id, validated.Payee, validated.Amount, validated.Date)
	return subcommands.ExitSuccess
}

type txCmd struct {
	account  string
	category string
	month    string
	head     int
	tail     int
	asJSON   bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `mc tx [-a <account>] [-c <category>] [-m <month>] [-head <n> | -tail <n>] [-json]

  Lists transactions in chronological order, with options for filtering and
  limiting the output.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Only transactions on this account.")
	f.StringVar(&c.category, "c", "", "Only transactions in this category.")
	f.StringVar(&c.month, "m", "", "Only transactions in this month (YYYY-MM).")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		return usageError("-head and -tail flags cannot be used together")
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()
	ledger, err := s.LoadLedger()
	if err != nil {
		return fail(err)
	}

	var filters []func(moneyclip.Transaction) bool
	if c.account != "" {
		filters = append(filters, moneyclip.ByAccount(c.account))
	}
	if c.category != "" {
		filters = append(filters, moneyclip.ByCategory(c.category))
	}
	if c.month != "" {
		month, err := date.ParseMonth(c.month)
		if err != nil {
			return fail(err)
		}
		filters = append(filters, moneyclip.InMonth(month))
	}

	var transactions []moneyclip.Transaction
	for tx := range ledger.Transactions(filters...) {
		transactions = append(transactions, tx)
	}
	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}
	if c.tail > 0 && len(transactions) > c.tail {
		transactions = transactions[len(transactions)-c.tail:]
	}

	if c.asJSON {
		return printJSON(transactions)
	}
	printMarkdown(renderer.TransactionsMarkdown(transactions))
	return subcommands.ExitSuccess
}

type recatCmd struct{}

func (*recatCmd) Name() string     { return "recat" }
func (*recatCmd) Synopsis() string { return "re-assign the category of a recorded transaction" }
func (*recatCmd) Usage() string {
	return `mc recat <transaction-id> [<category>]

  Changes the category of one transaction. Without a category argument the
  transaction becomes uncategorized. Category is the only mutable field of a
  recorded transaction.
`
}

func (*recatCmd) SetFlags(_ *flag.FlagSet) {}

func (c *recatCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		return usageError("want <transaction-id> [<category>]")
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid transaction id %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	category := f.Arg(1)

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()
	ledger, err := s.LoadLedger()
	if err != nil {
		return fail(err)
	}
	if err := ledger.SetCategory(id, category); err != nil {
		return fail(err)
	}
	if err := s.SetTransactionCategory(id, category); err != nil {
		return fail(err)
	}
	if category == "" {
		fmt.Printf("Transaction %d is now uncategorized\n", id)
	} else {
		fmt.Printf("Transaction %d is now in %q\n", id, category)
	}
	return subcommands.ExitSuccess
}
