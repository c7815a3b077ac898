package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
)

// AddAccount inserts a new account row.
func (s *Store) AddAccount(name, accountType, currency string) (int64, error) {
	if err := moneyclip.ValidateCurrency(currency); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO accounts(name, type, currency) VALUES (?, ?, ?)`,
		name, accountType, currency)
	if err != nil {
		return 0, fmt.Errorf("cannot add account %q: %w", name, err)
	}
	return res.LastInsertId()
}

// AddCategory inserts a new category row.
func (s *Store) AddCategory(name string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO categories(name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("cannot add category %q: %w", name, err)
	}
	return res.LastInsertId()
}

// accountID resolves an account name.
func (s *Store) accountID(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM accounts WHERE name=?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &moneyclip.UnknownEntityError{Kind: "account", Name: name}
	}
	return id, err
}

// categoryID resolves a category name.
func (s *Store) categoryID(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM categories WHERE name=?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &moneyclip.UnknownEntityError{Kind: "category", Name: name}
	}
	return id, err
}

// AddTransaction inserts a transaction row and returns its id. The
// transaction is expected to be already validated by the ledger.
func (s *Store) AddTransaction(tx moneyclip.Transaction) (int64, error) {
	accountID, err := s.accountID(tx.Account)
	if err != nil {
		return 0, err
	}
	var categoryID any
	if tx.Category != "" {
		id, err := s.categoryID(tx.Category)
		if err != nil {
			return 0, err
		}
		categoryID = id
	}
	var note any
	if tx.Note != "" {
		note = tx.Note
	}
	res, err := s.db.Exec(
		`INSERT INTO transactions(date, account_id, amount, payee, category_id, currency, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.String(), accountID, tx.Amount.Amount().String(), tx.Payee,
		categoryID, tx.Amount.Currency(), note)
	if err != nil {
		return 0, fmt.Errorf("cannot add transaction: %w", err)
	}
	return res.LastInsertId()
}

// SetTransactionCategory re-assigns the category of a stored transaction.
func (s *Store) SetTransactionCategory(txID int64, category string) error {
	var categoryID any
	if category != "" {
		id, err := s.categoryID(category)
		if err != nil {
			return err
		}
		categoryID = id
	}
	res, err := s.db.Exec(`UPDATE transactions SET category_id=? WHERE id=?`, categoryID, txID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &moneyclip.UnknownEntityError{Kind: "transaction", Name: fmt.Sprint(txID)}
	}
	return nil
}

// LoadLedger reads every account, category, and transaction and replays
// them through the in-memory ledger, re-running all of its validation.
func (s *Store) LoadLedger() (*moneyclip.Ledger, error) {
	ledger := moneyclip.NewLedger()

	rows, err := s.db.Query(`SELECT name, type, currency FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name, accountType, currency string
		if err := rows.Scan(&name, &accountType, &currency); err != nil {
			return nil, err
		}
		if err := ledger.AddAccount(name, accountType, currency); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.db.Query(`SELECT name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var name string
		if err := catRows.Scan(&name); err != nil {
			return nil, err
		}
		if err := ledger.AddCategory(name); err != nil {
			return nil, err
		}
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	txRows, err := s.db.Query(
		`SELECT t.id, t.date, a.name, t.amount, t.payee,
		        COALESCE(c.name, ''), t.currency, COALESCE(t.note, '')
		 FROM transactions t
		 JOIN accounts a ON t.account_id = a.id
		 LEFT JOIN categories c ON t.category_id = c.id
		 ORDER BY t.date, t.id`)
	if err != nil {
		return nil, err
	}
	defer txRows.Close()
	for txRows.Next() {
		var (
			id                                           int64
			day, account, amount, payee, category, ccy, note string
		)
		if err := txRows.Scan(&id, &day, &account, &amount, &payee, &category, &ccy, &note); err != nil {
			return nil, err
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		m, err := moneyclip.MParse(amount, ccy)
		if err != nil {
			return nil, fmt.Errorf("bad stored amount %q for transaction %d: %w", amount, id, err)
		}
		if _, err := ledger.Append(moneyclip.Transaction{
			ID: id, Date: on, Account: account, Amount: m,
			Payee: payee, Category: category, Note: note,
		}); err != nil {
			return nil, err
		}
	}
	return ledger, txRows.Err()
}
