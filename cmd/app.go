// Package cmd implements the CLI application to manage the books.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/store"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands is the list of all subcommands. A main package registers them on
// a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&initCmd{},
	&accountCmd{},
	&categoryCmd{},
	&addCmd{},
	&txCmd{},
	&recatCmd{},
	&fundCmd{},
	&moveCmd{},
	&envelopeCmd{},
	&rateCmd{},
	&fetchCmd{},
	&convertCmd{},
	&assetCmd{},
	&buyCmd{},
	&sellCmd{},
	&priceCmd{},
	&holdingCmd{},
	&gainsCmd{},
	&importCmd{},
	&exportCmd{},
	&ruleCmd{},
	&balancesCmd{},
	&cashflowCmd{},
	&spendCmd{},
	&doctorCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var dbFile = flag.String("db", "", "path to the books database (defaults to $MONEYCLIP_DB, then the user config dir)")

// Verbose enables debug logging. Read by the main package after flag parsing.
var Verbose = flag.Bool("v", false, "enable debug logging")

// openStore is the central function to open the bookkeeping database.
func openStore() (*store.Store, error) {
	path := *dbFile
	if path == "" {
		path = store.DefaultPath()
	}
	return store.Open(path)
}

// books bundles the store with the fully loaded in-memory engines. Most
// commands need several of them wired together, so they are loaded as one
// unit.
type books struct {
	store  *store.Store
	ledger *moneyclip.Ledger
	rates  *moneyclip.RateStore
	conv   *moneyclip.Converter
	env    *moneyclip.EnvelopeEngine
	lots   *moneyclip.LotLedger
	rules  *moneyclip.RuleSet
}

// openBooks opens the database and rebuilds every engine from it.
func openBooks() (*books, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	b, err := loadBooks(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return b, nil
}

// loadBooks rebuilds every engine from an already-open store. The store
// stays open either way; the caller owns it.
func loadBooks(s *store.Store) (*books, error) {
	b := &books{store: s}
	var err error
	if b.ledger, err = s.LoadLedger(); err != nil {
		return nil, err
	}
	if b.rates, err = s.LoadRates(); err != nil {
		return nil, err
	}
	base, err := s.BaseCurrency()
	if err != nil {
		return nil, err
	}
	if b.conv, err = moneyclip.NewConverter(b.rates, base); err != nil {
		return nil, err
	}
	if b.env, err = s.LoadEnvelopes(b.ledger, b.conv); err != nil {
		return nil, err
	}
	if b.lots, err = s.LoadLots(b.conv); err != nil {
		return nil, err
	}
	if b.rules, err = s.LoadRules(b.ledger); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *books) Close() error { return b.store.Close() }

// printMarkdown renders markdown to the terminal. When rendering fails the
// raw markdown is still printed, so output is never lost.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// fail reports an error on stderr and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

func usageError(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	return subcommands.ExitUsageError
}
