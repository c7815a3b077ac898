package moneyclip

import (
	"errors"
	"testing"
)

func testRules(t *testing.T) (*Ledger, *RuleSet) {
	t.Helper()
	l := NewLedger()
	for _, c := range []string{"groceries", "transport", "utilities"} {
		if err := l.AddCategory(c); err != nil {
			t.Fatal(err)
		}
	}
	return l, NewRuleSet(l)
}

func TestRuleAddValidation(t *testing.T) {
	_, rules := testRules(t)

	if _, err := rules.Add("(unclosed", "groceries", ""); err == nil {
		t.Error("invalid regexp was accepted")
	}
	var unknown *UnknownEntityError
	if _, err := rules.Add("WHOLEFDS", "vacation", ""); !errors.As(err, &unknown) {
		t.Errorf("unknown category = %v, want UnknownEntityError", err)
	}
	if _, err := rules.Add("WHOLEFDS", "", ""); err == nil {
		t.Error("no-effect rule was accepted")
	}
	if _, err := rules.Add("WHOLEFDS", "groceries", ""); err != nil {
		t.Errorf("valid rule rejected: %v", err)
	}
}

func TestRulesApplyFirstMatchWins(t *testing.T) {
	_, rules := testRules(t)
	mustAdd := func(pattern, category, rewrite string) {
		t.Helper()
		if _, err := rules.Add(pattern, category, rewrite); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(`(?i)wholefds`, "groceries", "Whole Foods")
	mustAdd(`(?i)whole`, "transport", "Should Not Win")
	mustAdd(`(?i)^uber`, "transport", "")

	tests := []struct {
		payee, note  string
		wantCategory string
		wantPayee    string
	}{
		{"WHOLEFDS MKT 123", "", "groceries", "Whole Foods"},
		{"UBER *TRIP", "", "transport", "UBER *TRIP"},
		{"Unknown Shop", "", "", "Unknown Shop"},
	}
	for _, tt := range tests {
		category, payee := rules.Apply(tt.payee, tt.note)
		if category != tt.wantCategory || payee != tt.wantPayee {
			t.Errorf("Apply(%q) = (%q, %q), want (%q, %q)", tt.payee, category, payee, tt.wantCategory, tt.wantPayee)
		}
	}
}

func TestRulesApplyMatchesNote(t *testing.T) {
	_, rules := testRules(t)
	if _, err := rules.Add("electricity", "utilities", ""); err != nil {
		t.Fatal(err)
	}
	category, _ := rules.Apply("ACME CORP", "electricity bill march")
	if category != "utilities" {
		t.Errorf("note match category = %q, want utilities", category)
	}
}

func TestRuleRemove(t *testing.T) {
	_, rules := testRules(t)
	r, err := rules.Add("WHOLEFDS", "groceries", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := rules.Remove(r.ID); err != nil {
		t.Fatalf("Remove() = %v", err)
	}
	if got := len(rules.Rules()); got != 0 {
		t.Errorf("rules after remove = %d, want 0", got)
	}
	var unknown *UnknownEntityError
	if err := rules.Remove(r.ID); !errors.As(err, &unknown) {
		t.Errorf("Remove(gone) = %v, want UnknownEntityError", err)
	}
}
