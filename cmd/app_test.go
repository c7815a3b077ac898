package cmd

import (
	"strings"
	"testing"

	"github.com/alphavelocity/moneyclip/date"
)

func TestCommandNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Commands {
		name := c.Name()
		if seen[name] {
			t.Errorf("duplicate command name %q", name)
		}
		seen[name] = true
		if c.Synopsis() == "" {
			t.Errorf("command %q has no synopsis", name)
		}
		if !strings.Contains(c.Usage(), "mc "+name) {
			t.Errorf("usage of %q does not mention 'mc %s'", name, name)
		}
	}
}

func TestParseMonthFlag(t *testing.T) {
	month, err := parseMonthFlag("2025-03")
	if err != nil {
		t.Fatal(err)
	}
	if got := month.String(); got != "2025-03" {
		t.Errorf("parseMonthFlag(2025-03) = %s", got)
	}

	month, err = parseMonthFlag("")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := month, date.Today().Month(); got != want {
		t.Errorf("empty flag = %s, want current month %s", got, want)
	}

	if _, err := parseMonthFlag("march"); err == nil {
		t.Error("expected error for bad month")
	}
}
