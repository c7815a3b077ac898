package moneyclip

import (
	"fmt"
	"sort"

	"github.com/alphavelocity/moneyclip/date"
)

// this file computes the read-only reports: account balances, monthly
// cashflow, and spending by category. Reports never mutate state; they are
// derived on demand from the ledger and the converter.

// BalanceRow is one account's balance, natively and optionally re-expressed
// in a target currency.
type BalanceRow struct {
	Account   string `json:"account"`
	Native    Money  `json:"native"`
	Converted Money  `json:"converted,omitempty"`
}

// Balances reports every account balance as of a date, in account name
// order. When target is non-empty each balance is also converted to that
// currency at the report date.
func Balances(ledger *Ledger, conv *Converter, target string, on date.Date) ([]BalanceRow, error) {
	var rows []BalanceRow
	for account := range ledger.Accounts() {
		native, err := ledger.Balance(account.Name, on)
		if err != nil {
			return nil, err
		}
		row := BalanceRow{Account: account.Name, Native: native}
		if target != "" {
			converted, err := conv.Convert(native, target, on)
			if err != nil {
				return nil, err
			}
			row.Converted = converted
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CashflowRow is one month's inflow and outflow, most recent first in the
// report. Outflow is reported positive.
type CashflowRow struct {
	Month   date.Month `json:"month"`
	Income  Money      `json:"income"`
	Expense Money      `json:"expense"`
}

// Cashflow aggregates inflows and outflows per calendar month over the last
// months ending at end, inclusive. Amounts convert to the base currency at
// each transaction's own date.
func Cashflow(ledger *Ledger, conv *Converter, months int, end date.Month) ([]CashflowRow, error) {
	if months < 1 {
		return nil, fmt.Errorf("cashflow needs at least one month, got %d", months)
	}
	base := conv.BaseCurrency()
	byMonth := make(map[date.Month]*CashflowRow)
	start := end
	for i := 1; i < months; i++ {
		start = start.Prev()
	}
	for tx := range ledger.Transactions() {
		m := tx.Date.Month()
		if m.Before(start) || m.After(end) {
			continue
		}
		amount, err := conv.ToBase(tx.Amount, tx.Date)
		if err != nil {
			return nil, err
		}
		row, ok := byMonth[m]
		if !ok {
			row = &CashflowRow{Month: m, Income: M(0, base), Expense: M(0, base)}
			byMonth[m] = row
		}
		if amount.IsNegative() {
			row.Expense = row.Expense.Add(amount.Neg())
		} else {
			row.Income = row.Income.Add(amount)
		}
	}
	rows := make([]CashflowRow, 0, len(byMonth))
	for _, row := range byMonth {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[j].Month.Before(rows[i].Month) })
	return rows, nil
}

// SpendRow is one category's outflow total for a month, reported positive.
type SpendRow struct {
	Category string `json:"category"`
	Spent    Money  `json:"spent"`
}

// Uncategorized is the display bucket for spending with no category.
const Uncategorized = "(uncategorized)"

// SpendByCategory aggregates a month's outflows per category in base
// currency, largest first. Uncategorized spending is grouped under its own
// bucket rather than dropped, so totals always reconcile with Cashflow.
func SpendByCategory(ledger *Ledger, conv *Converter, month date.Month) ([]SpendRow, error) {
	byCategory := make(map[string]Money)
	for tx := range ledger.Transactions(InMonth(month), Spending()) {
		amount, err := conv.ToBase(tx.Amount.Abs(), tx.Date)
		if err != nil {
			return nil, err
		}
		category := tx.Category
		if category == "" {
			category = Uncategorized
		}
		byCategory[category] = byCategory[category].Add(amount)
	}
	rows := make([]SpendRow, 0, len(byCategory))
	for category, spent := range byCategory {
		rows = append(rows, SpendRow{Category: category, Spent: spent})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Spent.Equal(rows[j].Spent) {
			return rows[j].Spent.LessThan(rows[i].Spent)
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}
