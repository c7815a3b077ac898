// Package renderer turns engine results into markdown reports for the CLI.
package renderer

import (
	"fmt"
	"strings"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
)

// BalancesMarkdown renders account balances as a markdown table. The
// converted column appears only when a target currency was requested.
func BalancesMarkdown(rows []moneyclip.BalanceRow, target string, on date.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Balances as of %s\n\n", on)
	if target != "" {
		fmt.Fprintln(&b, "| Account | Balance | In", target, "|")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, row := range rows {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", row.Account, row.Native, row.Converted)
		}
	} else {
		fmt.Fprintln(&b, "| Account | Balance |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, row := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", row.Account, row.Native)
		}
	}
	return b.String()
}

// CashflowMarkdown renders monthly income and expenses.
func CashflowMarkdown(rows []moneyclip.CashflowRow) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Cashflow\n\n")
	fmt.Fprintln(&b, "| Month | Income | Expense | Net |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			row.Month, row.Income, row.Expense, row.Income.Sub(row.Expense).SignedString())
	}
	return b.String()
}

// SpendMarkdown renders per-category spending for a month, largest first.
func SpendMarkdown(rows []moneyclip.SpendRow, month date.Month) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Spending by category, %s\n\n", month)
	fmt.Fprintln(&b, "| Category | Spent |")
	fmt.Fprintln(&b, "|:---|---:|")
	total := moneyclip.Money{}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Category, row.Spent)
		total = total.Add(row.Spent)
	}
	if len(rows) > 0 {
		fmt.Fprintf(&b, "| **Total** | **%s** |\n", total)
	}
	return b.String()
}

// EnvelopesMarkdown renders the full status breakdown of a month's
// envelopes.
func EnvelopesMarkdown(statuses []moneyclip.EnvelopeStatus, month date.Month) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Envelopes, %s\n\n", month)
	fmt.Fprintln(&b, "| Category | Rollover | Funded | Moved In | Moved Out | Spent | Available |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, st := range statuses {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			st.Category, st.RolloverIn, st.Funded, st.MovedIn, st.MovedOut, st.Spent,
			st.Available.SignedString())
	}
	return b.String()
}

// GainsMarkdown renders realized gains, one row per consumed lot portion.
func GainsMarkdown(gains []moneyclip.RealizedGain) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Realized Gains\n\n")
	fmt.Fprintln(&b, "| Ticker | Sold | Lot | Quantity | Proceeds | Cost Basis | Gain |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
	total := moneyclip.Money{}
	for _, g := range gains {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			g.Ticker, g.SellDate, g.LotDate, g.Quantity, g.Proceeds, g.CostBasis,
			g.Gain.SignedString())
		total = total.Add(g.Gain)
	}
	if len(gains) > 0 {
		fmt.Fprintf(&b, "| **Total** | | | | | | **%s** |\n", total.SignedString())
	}
	return b.String()
}

// TransactionsMarkdown renders a transaction listing.
func TransactionsMarkdown(txs []moneyclip.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| Date | Account | Payee | Category | Amount | Note |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|:---|")
	for _, tx := range txs {
		category := tx.Category
		if category == "" {
			category = moneyclip.Uncategorized
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.Account, tx.Payee, category, tx.Amount.SignedString(), tx.Note)
	}
	return b.String()
}

// RatesMarkdown renders stored FX observations.
func RatesMarkdown(rates []moneyclip.RateObservation) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Exchange Rates\n\n")
	fmt.Fprintln(&b, "| Date | Pair | Rate |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	for _, r := range rates {
		fmt.Fprintf(&b, "| %s | %s/%s | %s |\n", r.Date, r.Base, r.Quote, r.Rate)
	}
	return b.String()
}

// DoctorMarkdown renders a consistency scan result.
func DoctorMarkdown(issues []moneyclip.Issue) string {
	if len(issues) == 0 {
		return "# Doctor\n\nNo issues found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Doctor: %d issue(s)\n\n", len(issues))
	fmt.Fprintln(&b, "| Issue | Detail |")
	fmt.Fprintln(&b, "|:---|:---|")
	for _, issue := range issues {
		fmt.Fprintf(&b, "| %s | %s |\n", issue.Kind, issue.Detail)
	}
	return b.String()
}
