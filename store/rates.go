package store

import (
	"fmt"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/shopspring/decimal"
)

// AddRate stores one FX observation, superseding any earlier value for the
// same (day, pair).
func (s *Store) AddRate(base, quote string, on date.Date, rate decimal.Decimal) error {
	_, err := s.db.Exec(`INSERT INTO fx_rates(date, base, quote, rate) VALUES (?, ?, ?, ?)
		ON CONFLICT(date, base, quote) DO UPDATE SET rate=excluded.rate`,
		on.String(), base, quote, rate.String())
	return err
}

// SaveRates writes every observation in the rate store.
func (s *Store) SaveRates(rates *moneyclip.RateStore) error {
	for obs := range rates.Rates() {
		if err := s.AddRate(obs.Base, obs.Quote, obs.Date, obs.Rate); err != nil {
			return err
		}
	}
	return nil
}

// AddPrice stores one price observation for a ticker.
func (s *Store) AddPrice(ticker string, on date.Date, price moneyclip.Money, source string) error {
	assetID, err := s.assetID(ticker)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO prices(asset_id, as_of, price, source) VALUES (?, ?, ?, ?)
		ON CONFLICT(asset_id, as_of) DO UPDATE SET price=excluded.price, source=excluded.source`,
		assetID, on.String(), price.Amount().String(), source)
	return err
}

// LoadRates reads all FX and price observations into a fresh rate store.
// Prices re-take each asset's trade currency on load.
func (s *Store) LoadRates() (*moneyclip.RateStore, error) {
	rates := moneyclip.NewRateStore()

	rows, err := s.db.Query(`SELECT date, base, quote, rate FROM fx_rates ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var day, base, quote, rate string
		if err := rows.Scan(&day, &base, &quote, &rate); err != nil {
			return nil, err
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("bad stored rate %q for %s%s on %s: %w", rate, base, quote, day, err)
		}
		if err := rates.AddRate(base, quote, on, value); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	priceRows, err := s.db.Query(
		`SELECT a.ticker, a.currency, p.as_of, p.price
		 FROM prices p JOIN assets a ON p.asset_id = a.id
		 ORDER BY p.as_of`)
	if err != nil {
		return nil, err
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var ticker, currency, day, price string
		if err := priceRows.Scan(&ticker, &currency, &day, &price); err != nil {
			return nil, err
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		m, err := moneyclip.MParse(price, currency)
		if err != nil {
			return nil, fmt.Errorf("bad stored price %q for %s on %s: %w", price, ticker, day, err)
		}
		if err := rates.AddPrice(ticker, on, m); err != nil {
			return nil, err
		}
	}
	return rates, priceRows.Err()
}
