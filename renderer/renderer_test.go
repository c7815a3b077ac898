package renderer

import (
	"strings"
	"testing"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
)

func TestBalancesMarkdown(t *testing.T) {
	rows := []moneyclip.BalanceRow{
		{Account: "checking", Native: moneyclip.M(1000, "USD"), Converted: moneyclip.M(1000, "USD")},
		{Account: "paris", Native: moneyclip.M(80, "EUR"), Converted: moneyclip.M(100, "USD")},
	}
	out := BalancesMarkdown(rows, "USD", date.New(2025, 3, 31))
	for _, want := range []string{"# Balances as of 2025-03-31", "| checking |", "| paris |"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	// Without a target currency there is no converted column.
	out = BalancesMarkdown(rows, "", date.New(2025, 3, 31))
	if strings.Contains(out, "In USD") {
		t.Errorf("unexpected converted column:\n%s", out)
	}
}

func TestEnvelopesMarkdown(t *testing.T) {
	statuses := []moneyclip.EnvelopeStatus{{
		Category:   "groceries",
		Month:      date.MustParseMonth("2025-03"),
		RolloverIn: moneyclip.M(25, "USD"),
		Funded:     moneyclip.M(500, "USD"),
		MovedIn:    moneyclip.M(0, "USD"),
		MovedOut:   moneyclip.M(0, "USD"),
		Spent:      moneyclip.M(150, "USD"),
		Available:  moneyclip.M(375, "USD"),
	}}
	out := EnvelopesMarkdown(statuses, date.MustParseMonth("2025-03"))
	if !strings.Contains(out, "groceries") || !strings.Contains(out, "Available") {
		t.Errorf("bad envelope table:\n%s", out)
	}
}

func TestDoctorMarkdownEmpty(t *testing.T) {
	if out := DoctorMarkdown(nil); !strings.Contains(out, "No issues found") {
		t.Errorf("clean scan rendering:\n%s", out)
	}
	out := DoctorMarkdown([]moneyclip.Issue{{Kind: "missing_fx", Detail: "EUR 2024-12-20"}})
	if !strings.Contains(out, "missing_fx") {
		t.Errorf("issue rendering:\n%s", out)
	}
}

func TestGainsMarkdownTotals(t *testing.T) {
	gains := []moneyclip.RealizedGain{
		{Ticker: "AAPL", SellDate: date.New(2025, 6, 10), LotDate: date.New(2025, 1, 10),
			Quantity: moneyclip.Q(10), Proceeds: moneyclip.M(1500, "USD"),
			CostBasis: moneyclip.M(1000, "USD"), Gain: moneyclip.M(500, "USD")},
		{Ticker: "AAPL", SellDate: date.New(2025, 6, 10), LotDate: date.New(2025, 2, 10),
			Quantity: moneyclip.Q(5), Proceeds: moneyclip.M(750, "USD"),
			CostBasis: moneyclip.M(600, "USD"), Gain: moneyclip.M(150, "USD")},
	}
	out := GainsMarkdown(gains)
	if !strings.Contains(out, "+$650.00") {
		t.Errorf("total gain missing in:\n%s", out)
	}
}
