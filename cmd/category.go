package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type categoryCmd struct{}

func (*categoryCmd) Name() string     { return "category" }
func (*categoryCmd) Synopsis() string { return "declare budget categories or list existing ones" }
func (*categoryCmd) Usage() string {
	return `mc category [<name>...]

  Declares one or more budget categories. Without arguments, lists them.
`
}

func (*categoryCmd) SetFlags(_ *flag.FlagSet) {}

func (c *categoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if f.NArg() == 0 {
		ledger, err := s.LoadLedger()
		if err != nil {
			return fail(err)
		}
		var b strings.Builder
		fmt.Fprint(&b, "# Categories\n\n")
		for name := range ledger.Categories() {
			fmt.Fprintf(&b, "* %s\n", name)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	for _, name := range f.Args() {
		if _, err := s.AddCategory(name); err != nil {
			return fail(err)
		}
		fmt.Printf("Added category %q\n", name)
	}
	return subcommands.ExitSuccess
}
