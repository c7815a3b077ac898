package moneyclip

import (
	"github.com/alphavelocity/moneyclip/date"
	"github.com/shopspring/decimal"
)

// Rate describes the exchange rate a conversion used, with enough metadata
// for audit display: the observation date actually used (which may precede
// the requested date) and the hub currency when the rate was triangulated.
type Rate struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	On       date.Date       `json:"on"`       // requested date
	Observed date.Date       `json:"observed"` // observation date used
	Value    decimal.Decimal `json:"rate"`     // exact, unrounded
	Via      string          `json:"via,omitempty"`
}

// Converter converts Money values between currencies as of a specific date,
// using rates from an injected RateStore. Lookups are synchronous against
// already-materialized data; a missing rate fails immediately with
// RateUnavailableError, it is never retried and never defaults to 1.
type Converter struct {
	rates *RateStore
	base  string
}

// NewConverter returns a converter normalizing to the given base currency.
func NewConverter(rates *RateStore, base string) (*Converter, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, err
	}
	return &Converter{rates: rates, base: base}, nil
}

// BaseCurrency returns the configured base currency.
func (c *Converter) BaseCurrency() string { return c.base }

// Rate resolves the exchange rate from one currency to another as of a date.
// Resolution order: direct pair, inverse pair (reciprocal), then
// triangulation through the base currency: rate(A,B) = rate(A,base)/rate(B,base).
func (c *Converter) Rate(from, to string, asOf date.Date) (Rate, error) {
	if err := ValidateCurrency(from); err != nil {
		return Rate{}, err
	}
	if err := ValidateCurrency(to); err != nil {
		return Rate{}, err
	}
	if from == to {
		return Rate{From: from, To: to, On: asOf, Observed: asOf, Value: decimal.NewFromInt(1)}, nil
	}

	if on, rate, ok := c.rates.RateAsOf(from, to, asOf); ok {
		return Rate{From: from, To: to, On: asOf, Observed: on, Value: rate}, nil
	}
	if on, rate, ok := c.rates.RateAsOf(to, from, asOf); ok {
		return Rate{From: from, To: to, On: asOf, Observed: on, Value: decimal.NewFromInt(1).Div(rate)}, nil
	}

	// Triangulate: both legs quoted against the base currency.
	fromLeg, okFrom := c.againstBase(from, asOf)
	toLeg, okTo := c.againstBase(to, asOf)
	if okFrom && okTo {
		observed := fromLeg.Observed
		if toLeg.Observed.Before(observed) {
			observed = toLeg.Observed
		}
		return Rate{
			From:     from,
			To:       to,
			On:       asOf,
			Observed: observed,
			Value:    fromLeg.Value.Div(toLeg.Value),
			Via:      c.base,
		}, nil
	}
	return Rate{}, &RateUnavailableError{From: from, To: to, On: asOf}
}

// againstBase resolves the rate from ccy to the base currency, directly or
// by reciprocal.
func (c *Converter) againstBase(ccy string, asOf date.Date) (Rate, bool) {
	if ccy == c.base {
		return Rate{From: ccy, To: c.base, Observed: asOf, Value: decimal.NewFromInt(1)}, true
	}
	if on, rate, ok := c.rates.RateAsOf(ccy, c.base, asOf); ok {
		return Rate{From: ccy, To: c.base, Observed: on, Value: rate}, true
	}
	if on, rate, ok := c.rates.RateAsOf(c.base, ccy, asOf); ok {
		return Rate{From: ccy, To: c.base, Observed: on, Value: decimal.NewFromInt(1).Div(rate)}, true
	}
	return Rate{}, false
}

// Convert re-expresses a Money value in another currency as of a date.
// The identity conversion returns the amount unchanged. Otherwise the exact
// rate is applied and the result rounded half-even to the target currency's
// minor-unit precision, once, at this final step.
func (c *Converter) Convert(m Money, to string, asOf date.Date) (Money, error) {
	if m.Currency() == to {
		return m, nil
	}
	rate, err := c.Rate(m.Currency(), to, asOf)
	if err != nil {
		return Money{}, err
	}
	return M(m.Amount().Mul(rate.Value), to).Round(), nil
}

// ToBase converts a Money value to the base currency as of a date.
func (c *Converter) ToBase(m Money, asOf date.Date) (Money, error) {
	return c.Convert(m, c.base, asOf)
}
