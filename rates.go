package moneyclip

import (
	"iter"
	"maps"
	"slices"

	"github.com/alphavelocity/moneyclip/date"
	"github.com/shopspring/decimal"
)

// pair identifies a directed currency pair: 1 base = rate quote.
type pair struct {
	base  string
	quote string
}

// RateStore holds historical FX rate observations per currency pair and
// historical security prices per ticker. It is an explicit value handed to
// the Converter at construction, never a process-wide singleton, so tests
// can supply deterministic fixed rate sets.
//
// Observations are reference values published once daily: a stored rate is
// valid until superseded, and lookup falls back to the most recent
// observation on or before the requested date. There is no forward
// fallback — a future rate would leak information not available on the
// transaction date.
type RateStore struct {
	rates  map[pair]*date.History[decimal.Decimal]
	prices map[string]*date.History[decimal.Decimal]
}

// NewRateStore returns an empty rate store.
func NewRateStore() *RateStore {
	return &RateStore{
		rates:  make(map[pair]*date.History[decimal.Decimal]),
		prices: make(map[string]*date.History[decimal.Decimal]),
	}
}

// AddRate records an FX observation: 1 base = rate quote on the given day.
// A re-published rate for the same (pair, day) supersedes the old one.
func (s *RateStore) AddRate(base, quote string, on date.Date, rate decimal.Decimal) error {
	if err := ValidateCurrency(base); err != nil {
		return err
	}
	if err := ValidateCurrency(quote); err != nil {
		return err
	}
	if !rate.IsPositive() {
		return &InvalidAmountError{Op: "add-rate " + base + quote, Amount: M(rate, quote)}
	}
	p := pair{base: base, quote: quote}
	h, ok := s.rates[p]
	if !ok {
		h = &date.History[decimal.Decimal]{}
		s.rates[p] = h
	}
	h.Append(on, rate)
	return nil
}

// RateAsOf returns the observation for (base, quote) on the given day or the
// most recent one before it, along with the observation date.
func (s *RateStore) RateAsOf(base, quote string, on date.Date) (date.Date, decimal.Decimal, bool) {
	h, ok := s.rates[pair{base: base, quote: quote}]
	if !ok {
		return date.Date{}, decimal.Decimal{}, false
	}
	return h.ValueAsOf(on)
}

// AddPrice records a price observation for a ticker. The price carries the
// asset's trade currency.
func (s *RateStore) AddPrice(ticker string, on date.Date, price Money) error {
	if err := ValidateCurrency(price.Currency()); err != nil {
		return err
	}
	if !price.IsPositive() {
		return &InvalidAmountError{Op: "add-price " + ticker, Amount: price}
	}
	h, ok := s.prices[ticker]
	if !ok {
		h = &date.History[decimal.Decimal]{}
		s.prices[ticker] = h
	}
	h.Append(on, price.Amount())
	return nil
}

// PriceAsOf returns the price for a ticker on the given day or the most
// recent one before it, expressed in the supplied currency.
func (s *RateStore) PriceAsOf(ticker, currency string, on date.Date) (date.Date, Money, bool) {
	h, ok := s.prices[ticker]
	if !ok {
		return date.Date{}, Money{}, false
	}
	day, v, ok := h.ValueAsOf(on)
	if !ok {
		return date.Date{}, Money{}, false
	}
	return day, M(v, currency), true
}

// RateObservation is a single stored FX observation, exposed for listing
// and persistence.
type RateObservation struct {
	Base  string          `json:"base"`
	Quote string          `json:"quote"`
	Date  date.Date       `json:"date"`
	Rate  decimal.Decimal `json:"rate"`
}

// Rates iterates over all stored FX observations in pair order, each pair's
// series in chronological order.
func (s *RateStore) Rates() iter.Seq[RateObservation] {
	return func(yield func(RateObservation) bool) {
		pairs := slices.Collect(maps.Keys(s.rates))
		slices.SortFunc(pairs, func(a, b pair) int {
			if a.base != b.base {
				return cmpString(a.base, b.base)
			}
			return cmpString(a.quote, b.quote)
		})
		for _, p := range pairs {
			for on, rate := range s.rates[p].Values() {
				if !yield(RateObservation{Base: p.base, Quote: p.quote, Date: on, Rate: rate}) {
					return
				}
			}
		}
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
