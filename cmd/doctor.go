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

type doctorCmd struct {
	date   string
	asJSON bool
}

func (*doctorCmd) Name() string     { return "doctor" }
func (*doctorCmd) Synopsis() string { return "scan the books for inconsistencies" }
func (*doctorCmd) Usage() string {
	return `mc doctor [-d <date>] [-json]

  Scans for problems the individual commands cannot reject up front:
  missing exchange rates, overspent envelopes, and uncategorized spending.
  Exits non-zero when issues are found.
`
}

func (c *doctorCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Scan date (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *doctorCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := date.Today()
	if c.date != "" {
		var err error
		if asOf, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	// The raw-row scan comes first: rows it flags would make the engine
	// rebuild below fail, and the findings should still reach the user.
	issues, err := s.Doctor()
	if err != nil {
		return fail(err)
	}
	b, err := loadBooks(s)
	if err != nil {
		printMarkdown(renderer.DoctorMarkdown(issues))
		return fail(fmt.Errorf("cannot rebuild the books: %w", err))
	}
	issues = append(issues, moneyclip.Doctor(b.ledger, b.conv, b.env, asOf)...)
	if c.asJSON {
		if status := printJSON(issues); status != subcommands.ExitSuccess {
			return status
		}
	} else {
		printMarkdown(renderer.DoctorMarkdown(issues))
	}
	if len(issues) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
