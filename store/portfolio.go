package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
)

// AddAsset inserts a tradable asset row.
func (s *Store) AddAsset(ticker, name, currency string) (int64, error) {
	if err := moneyclip.ValidateCurrency(currency); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO assets(ticker, name, currency) VALUES (?, ?, ?)`,
		ticker, name, currency)
	if err != nil {
		return 0, fmt.Errorf("cannot add asset %q: %w", ticker, err)
	}
	return res.LastInsertId()
}

func (s *Store) assetID(ticker string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM assets WHERE ticker=?`, ticker).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &moneyclip.UnknownEntityError{Kind: "ticker", Name: ticker}
	}
	return id, err
}

// AddTrade records a buy or sell. The trade is expected to be already
// accepted by the lot ledger; the store is the durable journal that Sell
// replays to rebuild lots and realized gains.
func (s *Store) AddTrade(ticker string, on date.Date, side string, quantity moneyclip.Quantity, price moneyclip.Money, note string) (int64, error) {
	if side != "buy" && side != "sell" {
		return 0, fmt.Errorf("invalid trade side %q", side)
	}
	assetID, err := s.assetID(ticker)
	if err != nil {
		return 0, err
	}
	var noteArg any
	if note != "" {
		noteArg = note
	}
	res, err := s.db.Exec(
		`INSERT INTO trades(date, asset_id, quantity, price, side, note) VALUES (?, ?, ?, ?, ?, ?)`,
		on.String(), assetID, quantity.String(), price.Amount().String(), side, noteArg)
	if err != nil {
		return 0, fmt.Errorf("cannot add trade: %w", err)
	}
	return res.LastInsertId()
}

// LoadLots rebuilds the lot ledger by replaying all trades in date order
// through the engine. Realized gains come out of the replay identical to
// the ones reported when the sales were recorded, because both sides
// derive from the same stored observations.
func (s *Store) LoadLots(conv *moneyclip.Converter) (*moneyclip.LotLedger, error) {
	lots := moneyclip.NewLotLedger(conv)

	assetRows, err := s.db.Query(`SELECT ticker, name, currency FROM assets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer assetRows.Close()
	for assetRows.Next() {
		var ticker, name, currency string
		if err := assetRows.Scan(&ticker, &name, &currency); err != nil {
			return nil, err
		}
		if err := lots.AddAsset(ticker, name, currency); err != nil {
			return nil, err
		}
	}
	if err := assetRows.Err(); err != nil {
		return nil, err
	}

	tradeRows, err := s.db.Query(
		`SELECT a.ticker, a.currency, t.date, t.side, t.quantity, t.price
		 FROM trades t JOIN assets a ON t.asset_id = a.id
		 ORDER BY t.date, t.id`)
	if err != nil {
		return nil, err
	}
	defer tradeRows.Close()
	for tradeRows.Next() {
		var ticker, currency, day, side, quantity, price string
		if err := tradeRows.Scan(&ticker, &currency, &day, &side, &quantity, &price); err != nil {
			return nil, err
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		qty, err := moneyclip.QParse(quantity)
		if err != nil {
			return nil, fmt.Errorf("bad stored quantity %q: %w", quantity, err)
		}
		amount, err := moneyclip.MParse(price, currency)
		if err != nil {
			return nil, fmt.Errorf("bad stored price %q: %w", price, err)
		}
		switch side {
		case "buy":
			err = lots.Buy(ticker, on, qty, amount)
		case "sell":
			// The stored price is per unit; Sell takes total proceeds.
			_, err = lots.Sell(ticker, on, qty, amount.Mul(qty))
		default:
			err = fmt.Errorf("invalid stored trade side %q", side)
		}
		if err != nil {
			return nil, fmt.Errorf("replaying %s %s %s on %s: %w", side, quantity, ticker, day, err)
		}
	}
	return lots, tradeRows.Err()
}

// AddRule inserts a categorization rule row.
func (s *Store) AddRule(pattern, category, payeeRewrite string) (int64, error) {
	var categoryID any
	if category != "" {
		id, err := s.categoryID(category)
		if err != nil {
			return 0, err
		}
		categoryID = id
	}
	var rewrite any
	if payeeRewrite != "" {
		rewrite = payeeRewrite
	}
	res, err := s.db.Exec(`INSERT INTO rules(pattern, category_id, payee_rewrite) VALUES (?, ?, ?)`,
		pattern, categoryID, rewrite)
	if err != nil {
		return 0, fmt.Errorf("cannot add rule: %w", err)
	}
	return res.LastInsertId()
}

// RemoveRule deletes a rule row by id.
func (s *Store) RemoveRule(id int64) error {
	res, err := s.db.Exec(`DELETE FROM rules WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &moneyclip.UnknownEntityError{Kind: "rule", Name: fmt.Sprint(id)}
	}
	return nil
}

// LoadRules rebuilds the rule set in stored order.
func (s *Store) LoadRules(ledger *moneyclip.Ledger) (*moneyclip.RuleSet, error) {
	rules := moneyclip.NewRuleSet(ledger)
	rows, err := s.db.Query(
		`SELECT r.pattern, COALESCE(c.name, ''), COALESCE(r.payee_rewrite, '')
		 FROM rules r LEFT JOIN categories c ON r.category_id = c.id
		 ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pattern, category, rewrite string
		if err := rows.Scan(&pattern, &category, &rewrite); err != nil {
			return nil, err
		}
		if _, err := rules.Add(pattern, category, rewrite); err != nil {
			return nil, err
		}
	}
	return rules, rows.Err()
}
