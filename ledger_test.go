package moneyclip

import (
	"errors"
	"slices"
	"testing"

	"github.com/alphavelocity/moneyclip/date"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	if err := l.AddAccount("checking", "checking", "USD"); err != nil {
		t.Fatal(err)
	}
	if err := l.AddAccount("paris", "checking", "EUR"); err != nil {
		t.Fatal(err)
	}
	if err := l.AddCategory("groceries"); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestLedgerChronologicalOrder(t *testing.T) {
	l := testLedger(t)

	// Appended out of order, read back sorted. Same-day entries keep their
	// insertion order.
	days := []date.Date{
		date.New(2025, 3, 15),
		date.New(2025, 3, 1),
		date.New(2025, 3, 15),
		date.New(2025, 2, 20),
	}
	for i, d := range days {
		if _, err := l.Append(Transaction{Date: d, Account: "checking", Amount: M(-int64(i+1), "USD"), Payee: "p"}); err != nil {
			t.Fatal(err)
		}
	}

	var got []date.Date
	var ids []int64
	for tx := range l.Transactions() {
		got = append(got, tx.Date)
		ids = append(ids, tx.ID)
	}
	want := []date.Date{date.New(2025, 2, 20), date.New(2025, 3, 1), date.New(2025, 3, 15), date.New(2025, 3, 15)}
	if !slices.Equal(got, want) {
		t.Errorf("dates = %v, want %v", got, want)
	}
	// The two 3-15 entries were appended as #1 then #3.
	if ids[2] != 1 || ids[3] != 3 {
		t.Errorf("same-day order = %v, want insertion order preserved", ids)
	}
}

func TestLedgerAppendValidation(t *testing.T) {
	l := testLedger(t)
	on := date.New(2025, 3, 1)

	var unknown *UnknownEntityError
	if _, err := l.Append(Transaction{Date: on, Account: "savings", Amount: M(1, "USD")}); !errors.As(err, &unknown) {
		t.Errorf("unknown account = %v, want UnknownEntityError", err)
	}
	if _, err := l.Append(Transaction{Date: on, Account: "checking", Amount: M(1, "USD"), Category: "vacation"}); !errors.As(err, &unknown) {
		t.Errorf("unknown category = %v, want UnknownEntityError", err)
	}
	if _, err := l.Append(Transaction{Date: on, Account: "checking", Amount: M(1, "EUR")}); err == nil {
		t.Error("currency mismatch with account was accepted")
	}
	if _, err := l.Append(Transaction{Account: "checking", Amount: M(1, "USD")}); err == nil {
		t.Error("transaction without a date was accepted")
	}

	// An empty currency takes the account's.
	tx, err := l.Append(Transaction{Date: on, Account: "paris", Amount: M(5, "")})
	if err != nil {
		t.Fatal(err)
	}
	if tx.Amount.Currency() != "EUR" {
		t.Errorf("defaulted currency = %s, want EUR", tx.Amount.Currency())
	}
}

func TestLedgerBalanceAsOf(t *testing.T) {
	l := testLedger(t)
	for _, e := range []struct {
		on     date.Date
		amount int
	}{
		{date.New(2025, 3, 1), 1000},
		{date.New(2025, 3, 10), -300},
		{date.New(2025, 3, 20), -100},
	} {
		if _, err := l.Append(Transaction{Date: e.on, Account: "checking", Amount: M(int64(e.amount), "USD")}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		on   date.Date
		want int64
	}{
		{date.New(2025, 2, 28), 0},
		{date.New(2025, 3, 1), 1000},
		{date.New(2025, 3, 15), 700},
		{date.New(2025, 4, 1), 600},
	}
	for _, tt := range tests {
		got, err := l.Balance("checking", tt.on)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(M(tt.want, "USD")) {
			t.Errorf("Balance(%v) = %v, want %d", tt.on, got, tt.want)
		}
	}
}

func TestLedgerSetCategory(t *testing.T) {
	l := testLedger(t)
	tx, err := l.Append(Transaction{Date: date.New(2025, 3, 1), Account: "checking", Amount: M(-10, "USD"), Payee: "store"})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetCategory(tx.ID, "groceries"); err != nil {
		t.Fatalf("SetCategory() = %v", err)
	}
	count := 0
	for range l.Transactions(ByCategory("groceries")) {
		count++
	}
	if count != 1 {
		t.Errorf("categorized transactions = %d, want 1", count)
	}

	var unknown *UnknownEntityError
	if err := l.SetCategory(tx.ID, "vacation"); !errors.As(err, &unknown) {
		t.Errorf("SetCategory(unknown) = %v, want UnknownEntityError", err)
	}
	if err := l.SetCategory(999, "groceries"); !errors.As(err, &unknown) {
		t.Errorf("SetCategory(missing tx) = %v, want UnknownEntityError", err)
	}
}

func TestLedgerFiltersCompose(t *testing.T) {
	l := testLedger(t)
	if err := l.AddCategory("dining"); err != nil {
		t.Fatal(err)
	}
	for _, e := range []struct {
		on       date.Date
		amount   int
		category string
	}{
		{date.New(2025, 3, 5), -20, "groceries"},
		{date.New(2025, 3, 6), -30, "dining"},
		{date.New(2025, 4, 2), -40, "groceries"},
		{date.New(2025, 3, 7), 500, "groceries"}, // refund, not spending
	} {
		if _, err := l.Append(Transaction{Date: e.on, Account: "checking", Amount: M(int64(e.amount), "USD"), Category: e.category}); err != nil {
			t.Fatal(err)
		}
	}

	march := date.MustParseMonth("2025-03")
	var got []Transaction
	for tx := range l.Transactions(ByCategory("groceries"), InMonth(march), Spending()) {
		got = append(got, tx)
	}
	if len(got) != 1 || !got[0].Amount.Equal(M(-20, "USD")) {
		t.Errorf("filtered = %v, want the single March groceries outflow", got)
	}
}

func TestLedgerDuplicateNames(t *testing.T) {
	l := testLedger(t)
	if err := l.AddAccount("checking", "savings", "USD"); err == nil {
		t.Error("duplicate account name was accepted")
	}
	if err := l.AddCategory("groceries"); err == nil {
		t.Error("duplicate category name was accepted")
	}
	if err := l.AddAccount("crypto", "checking", "ZZZ"); err == nil {
		t.Error("unknown account currency was accepted")
	}
}

func TestLedgerAllCurrencies(t *testing.T) {
	l := testLedger(t)
	got := slices.Collect(l.AllCurrencies())
	if want := []string{"EUR", "USD"}; !slices.Equal(got, want) {
		t.Errorf("AllCurrencies = %v, want %v", got, want)
	}
}
