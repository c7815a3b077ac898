package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type ruleCmd struct {
	category string
	payee    string
	remove   int64
}

func (*ruleCmd) Name() string     { return "rule" }
func (*ruleCmd) Synopsis() string { return "manage categorization rules" }
func (*ruleCmd) Usage() string {
	return `mc rule -c <category> [-payee <rewrite>] <pattern>
mc rule -rm <id>
mc rule

  Adds a categorization rule: imported and recorded transactions without a
  category get the rule's category (and optionally a cleaned-up payee) when
  the regular expression matches their payee or note. First matching rule
  wins. Without arguments, lists the rules.

Usage Examples:
$ mc rule -c groceries -payee "Whole Foods" "(?i)wholefds"
$ mc rule -rm 3
`
}

func (c *ruleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Category assigned when the pattern matches.")
	f.StringVar(&c.payee, "payee", "", "Rewritten payee when the pattern matches.")
	f.Int64Var(&c.remove, "rm", 0, "Remove the rule with this id.")
}

func (c *ruleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if c.remove != 0 {
		if err := s.RemoveRule(c.remove); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed rule %d\n", c.remove)
		return subcommands.ExitSuccess
	}

	ledger, err := s.LoadLedger()
	if err != nil {
		return fail(err)
	}
	rules, err := s.LoadRules(ledger)
	if err != nil {
		return fail(err)
	}

	if f.NArg() == 0 {
		var b strings.Builder
		fmt.Fprint(&b, "# Rules\n\n| Id | Pattern | Category | Payee Rewrite |\n|---:|:---|:---|:---|\n")
		for _, rule := range rules.Rules() {
			fmt.Fprintf(&b, "| %d | `%s` | %s | %s |\n", rule.ID, rule.Pattern, rule.Category, rule.PayeeRewrite)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	if f.NArg() != 1 {
		return usageError("want exactly one argument: <pattern>")
	}
	// Validate through the in-memory rule set first: pattern compilation,
	// category existence, and the no-effect check all happen there.
	if _, err := rules.Add(f.Arg(0), c.category, c.payee); err != nil {
		return fail(err)
	}
	id, err := s.AddRule(f.Arg(0), c.category, c.payee)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Added rule %d\n", id)
	return subcommands.ExitSuccess
}
