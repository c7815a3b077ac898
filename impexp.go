package moneyclip

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alphavelocity/moneyclip/date"
)

// this file contains the import/export formats for transactions.
// Both sides stay human readable and easy to diff.

// csvHeader is the canonical column order for transaction CSV files:
// everything after amount is optional per row.
var csvHeader = []string{"date", "payee", "amount", "category", "account", "currency", "note"}

// ImportReport summarizes one CSV import run. Bad rows are skipped, not
// fatal: a single malformed line must not abort a 10k-row bank export.
type ImportReport struct {
	Imported int
	Skipped  []ImportError
}

// ImportError records why one CSV row was skipped.
type ImportError struct {
	Line int
	Err  error
}

func (e ImportError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// ImportTransactions reads transactions from a CSV stream with the
// canonical header and appends them to the ledger. Uncategorized rows run
// through the rule set (rules may be nil) for category assignment and
// payee rewriting. An empty currency takes the account's.
func ImportTransactions(ledger *Ledger, rules *RuleSet, r io.Reader) (ImportReport, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1 // columns after amount are optional

	if _, err := rd.Read(); err != nil {
		return ImportReport{}, fmt.Errorf("cannot read CSV header: %w", err)
	}

	var report ImportReport
	line := 1
	for {
		line++
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped = append(report.Skipped, ImportError{Line: line, Err: err})
			continue
		}
		tx, err := parseCSVTransaction(rec)
		if err != nil {
			report.Skipped = append(report.Skipped, ImportError{Line: line, Err: err})
			continue
		}
		if tx.Category == "" && rules != nil {
			tx.Category, tx.Payee = rules.Apply(tx.Payee, tx.Note)
		}
		if _, err := ledger.Append(tx); err != nil {
			report.Skipped = append(report.Skipped, ImportError{Line: line, Err: err})
			continue
		}
		report.Imported++
	}
	return report, nil
}

func parseCSVTransaction(rec []string) (Transaction, error) {
	if len(rec) < 3 {
		return Transaction{}, fmt.Errorf("want at least %d columns (date,payee,amount), got %d", 3, len(rec))
	}
	field := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	on, err := date.Parse(field(0))
	if err != nil {
		return Transaction{}, err
	}
	amount, err := MParse(field(2), field(5))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid amount %q: %w", field(2), err)
	}
	return Transaction{
		Date:     on,
		Payee:    field(1),
		Amount:   amount,
		Category: field(3),
		Account:  field(4),
		Note:     field(6),
	}, nil
}

// ExportTransactionsCSV writes all ledger transactions to w in the
// canonical CSV format, chronological order.
func ExportTransactionsCSV(ledger *Ledger, w io.Writer) error {
	wr := csv.NewWriter(w)
	if err := wr.Write(csvHeader); err != nil {
		return err
	}
	for tx := range ledger.Transactions() {
		rec := []string{
			tx.Date.String(),
			tx.Payee,
			tx.Amount.Amount().String(),
			tx.Category,
			tx.Account,
			tx.Amount.Currency(),
			tx.Note,
		}
		if err := wr.Write(rec); err != nil {
			return err
		}
	}
	wr.Flush()
	return wr.Error()
}

// ExportTransactionsJSON writes all ledger transactions to w as an
// indented JSON array, chronological order.
func ExportTransactionsJSON(ledger *Ledger, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var txs []Transaction
	for tx := range ledger.Transactions() {
		txs = append(txs, tx)
	}
	return enc.Encode(txs)
}

// ExportRatesJSONL writes all stored FX observations to w, one JSON object
// per line, ready to be merged into another store.
func ExportRatesJSONL(store *RateStore, w io.Writer) error {
	enc := json.NewEncoder(w)
	for obs := range store.Rates() {
		if err := enc.Encode(obs); err != nil {
			return err
		}
	}
	return nil
}
