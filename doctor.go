package moneyclip

import (
	"fmt"

	"github.com/alphavelocity/moneyclip/date"
)

// Issue is one finding from a consistency scan. When the finding wraps a
// failure, Err carries the typed error so callers can tell, say, a fixable
// rate gap from a real inconsistency.
type Issue struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Err    error  `json:"-"`
}

// Doctor scans the books for inconsistencies that individual operations
// cannot reject up front: FX coverage gaps, negative envelope availability,
// and uncategorized spending. An empty result means a clean bill.
func Doctor(ledger *Ledger, conv *Converter, env *EnvelopeEngine, asOf date.Date) []Issue {
	var issues []Issue
	issues = append(issues, missingRates(ledger, conv)...)
	issues = append(issues, overspentEnvelopes(ledger, env, asOf)...)
	issues = append(issues, uncategorizedSpending(ledger)...)
	return issues
}

// missingRates finds non-base transactions whose date has no usable FX
// observation. Each (currency, date) gap is reported once.
func missingRates(ledger *Ledger, conv *Converter) []Issue {
	base := conv.BaseCurrency()
	seen := make(map[string]struct{})
	var issues []Issue
	for tx := range ledger.Transactions() {
		ccy := tx.Amount.Currency()
		if ccy == base {
			continue
		}
		key := ccy + " " + tx.Date.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, err := conv.Rate(ccy, base, tx.Date); err != nil {
			issues = append(issues, Issue{Kind: "missing_fx", Detail: key, Err: err})
		}
	}
	return issues
}

// overspentEnvelopes reports envelopes whose availability is negative in
// the month containing asOf.
func overspentEnvelopes(ledger *Ledger, env *EnvelopeEngine, asOf date.Date) []Issue {
	month := asOf.Month()
	var issues []Issue
	for category := range ledger.Categories() {
		status, err := env.Status(category, month)
		if err != nil {
			issues = append(issues, Issue{
				Kind:   "envelope_error",
				Detail: fmt.Sprintf("%s %s: %v", category, month, err),
				Err:    err,
			})
			continue
		}
		if status.Available.IsNegative() {
			issues = append(issues, Issue{
				Kind:   "overspent_envelope",
				Detail: fmt.Sprintf("%s %s available %s", category, month, status.Available),
			})
		}
	}
	return issues
}

// uncategorizedSpending reports outflows that no category or rule claimed.
func uncategorizedSpending(ledger *Ledger) []Issue {
	var issues []Issue
	for tx := range ledger.Transactions(ByCategory(""), Spending()) {
		issues = append(issues, Issue{
			Kind:   "uncategorized",
			Detail: fmt.Sprintf("%s %s %s", tx.Date, tx.Payee, tx.Amount),
		})
	}
	return issues
}
