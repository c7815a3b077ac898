package moneyclip

import (
	"fmt"

	"github.com/alphavelocity/moneyclip/date"
)

// The engine reports failures as values of the types below. They carry the
// offending identifiers and dates so callers can display or fix the data;
// none of them is retried internally and a missing rate never defaults to 1.

// InvalidAmountError reports an amount that violates an operation's sign
// requirement (e.g. funding a negative amount).
type InvalidAmountError struct {
	Op     string
	Amount Money
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("%s: invalid amount %s", e.Op, e.Amount)
}

// RateUnavailableError reports that no FX observation exists on or before
// the required date for the required pair, directly, inverted, or
// triangulated through the base currency.
type RateUnavailableError struct {
	From string
	To   string
	On   date.Date
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no FX rate from %s to %s on or before %s", e.From, e.To, e.On)
}

// InsufficientLotsError reports a sell that exceeds the open quantity for a
// ticker. The lot queue is left untouched.
type InsufficientLotsError struct {
	Ticker    string
	On        date.Date
	Requested Quantity
	Open      Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("sell %s of %s on %s exceeds open quantity %s", e.Requested, e.Ticker, e.On, e.Open)
}

// UnknownEntityError reports a reference to a nonexistent account, category,
// ticker, or currency code.
type UnknownEntityError struct {
	Kind string // "account", "category", "ticker", "currency"
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}
