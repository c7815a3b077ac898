package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type initCmd struct {
	base     string
	rollover string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the books database and set global options" }
func (*initCmd) Usage() string {
	return `mc init [-base <currency>] [-rollover <floor|carry-debt>]

  Creates the database if needed and stores the base currency and the
  envelope rollover policy. Safe to re-run: only the given flags change.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "Base currency for budgets, reports, and gains.")
	f.StringVar(&c.rollover, "rollover", "", "Envelope rollover policy: floor or carry-debt.")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if c.base != "" {
		if err := s.SetBaseCurrency(c.base); err != nil {
			return fail(err)
		}
	}
	if c.rollover != "" {
		if err := s.SetRolloverPolicy(c.rollover); err != nil {
			return fail(err)
		}
	}

	base, err := s.BaseCurrency()
	if err != nil {
		return fail(err)
	}
	policy, err := s.RolloverPolicy()
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Books at %s (base %s, rollover %s)\n", s.Path(), base, policy)
	return subcommands.ExitSuccess
}
