package store

import (
	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
)

// SaveEnvelope upserts the stored components of one envelope, in base
// currency.
func (s *Store) SaveEnvelope(category string, month date.Month, funded, movedIn, movedOut moneyclip.Money) error {
	categoryID, err := s.categoryID(category)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO envelopes(month, category_id, funded, moved_in, moved_out) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(month, category_id) DO UPDATE SET
		   funded=excluded.funded, moved_in=excluded.moved_in, moved_out=excluded.moved_out`,
		month.String(), categoryID,
		funded.Amount().String(), movedIn.Amount().String(), movedOut.Amount().String())
	return err
}

// SaveEnvelopes persists the whole engine state.
func (s *Store) SaveEnvelopes(env *moneyclip.EnvelopeEngine) error {
	for _, key := range env.Envelopes() {
		funded, movedIn, movedOut, ok := env.Funded(key.Category, key.Month)
		if !ok {
			continue
		}
		if err := s.SaveEnvelope(key.Category, key.Month, funded, movedIn, movedOut); err != nil {
			return err
		}
	}
	return nil
}

// LoadEnvelopes rebuilds an envelope engine from stored state. Moves are
// re-applied as one-sided totals per envelope, which preserves every
// status breakdown exactly.
func (s *Store) LoadEnvelopes(ledger *moneyclip.Ledger, conv *moneyclip.Converter) (*moneyclip.EnvelopeEngine, error) {
	policy, err := s.RolloverPolicy()
	if err != nil {
		return nil, err
	}
	env := moneyclip.NewEnvelopeEngine(ledger, conv, policy)

	rows, err := s.db.Query(
		`SELECT c.name, e.month, e.funded, e.moved_in, e.moved_out
		 FROM envelopes e JOIN categories c ON e.category_id = c.id
		 ORDER BY e.month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	base := conv.BaseCurrency()
	for rows.Next() {
		var category, monthStr, funded, movedIn, movedOut string
		if err := rows.Scan(&category, &monthStr, &funded, &movedIn, &movedOut); err != nil {
			return nil, err
		}
		month, err := date.ParseMonth(monthStr)
		if err != nil {
			return nil, err
		}
		fundedM, err := moneyclip.MParse(funded, base)
		if err != nil {
			return nil, err
		}
		movedInM, err := moneyclip.MParse(movedIn, base)
		if err != nil {
			return nil, err
		}
		movedOutM, err := moneyclip.MParse(movedOut, base)
		if err != nil {
			return nil, err
		}
		if err := env.Restore(category, month, fundedM, movedInM, movedOutM); err != nil {
			return nil, err
		}
	}
	return env, rows.Err()
}
