package store

import (
	"fmt"

	"github.com/alphavelocity/moneyclip"
)

// Doctor scans the raw rows for inconsistencies the in-memory engines can
// never hold, because their entry points reject them on the way in. A
// hand-edited or migrated database can still contain such rows, and they
// would make the replay on load fail; this scan names them.
func (s *Store) Doctor() ([]moneyclip.Issue, error) {
	rows, err := s.db.Query(
		`SELECT t.date, t.payee, t.currency, a.name, a.currency
		 FROM transactions t JOIN accounts a ON t.account_id = a.id
		 WHERE t.currency <> a.currency
		 ORDER BY t.date, t.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []moneyclip.Issue
	for rows.Next() {
		var day, payee, ccy, account, accountCcy string
		if err := rows.Scan(&day, &payee, &ccy, &account, &accountCcy); err != nil {
			return nil, err
		}
		issues = append(issues, moneyclip.Issue{
			Kind:   "currency_mismatch",
			Detail: fmt.Sprintf("%s %s is in %s but account %q holds %s", day, payee, ccy, account, accountCcy),
		})
	}
	return issues, rows.Err()
}
