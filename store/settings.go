package store

import (
	"database/sql"
	"errors"

	"github.com/alphavelocity/moneyclip"
)

const (
	settingBaseCurrency   = "base_currency"
	settingRolloverPolicy = "rollover"

	// DefaultBaseCurrency applies until `fx set-base` is run.
	DefaultBaseCurrency = "USD"
)

// Setting returns the value for key, or fallback when unset.
func (s *Store) Setting(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting stores a key/value pair, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}

// BaseCurrency returns the configured base currency.
func (s *Store) BaseCurrency() (string, error) {
	return s.Setting(settingBaseCurrency, DefaultBaseCurrency)
}

// SetBaseCurrency validates and stores the base currency.
func (s *Store) SetBaseCurrency(code string) error {
	if err := moneyclip.ValidateCurrency(code); err != nil {
		return err
	}
	return s.SetSetting(settingBaseCurrency, code)
}

// RolloverPolicy returns the configured envelope rollover policy,
// defaulting to flooring negative months at zero.
func (s *Store) RolloverPolicy() (moneyclip.RolloverPolicy, error) {
	value, err := s.Setting(settingRolloverPolicy, moneyclip.RolloverFloor.String())
	if err != nil {
		return 0, err
	}
	return moneyclip.ParseRolloverPolicy(value)
}

// SetRolloverPolicy validates and stores the envelope rollover policy.
func (s *Store) SetRolloverPolicy(value string) error {
	if _, err := moneyclip.ParseRolloverPolicy(value); err != nil {
		return err
	}
	return s.SetSetting(settingRolloverPolicy, value)
}
