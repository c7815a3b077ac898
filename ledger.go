package moneyclip

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/alphavelocity/moneyclip/date"
)

// Account is a cash account. Its currency is fixed at creation; every
// transaction it owns is denominated in it.
type Account struct {
	ID       int64     `json:"id,omitempty"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Currency string    `json:"currency"`
	Created  date.Date `json:"created,omitempty"`
}

// Category is a budget category referenced by transactions and envelopes.
type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Transaction is a single signed cash movement on an account. It is
// immutable once recorded, except for category re-assignment by rules.
type Transaction struct {
	ID       int64     `json:"id,omitempty"`
	Date     date.Date `json:"date"`
	Account  string    `json:"account"`
	Amount   Money     `json:"amount"`
	Payee    string    `json:"payee"`
	Category string    `json:"category,omitempty"` // empty means uncategorized
	Note     string    `json:"note,omitempty"`
}

// Ledger is a logically append-only collection of accounts, categories, and
// transactions. Transactions are always kept in chronological order (stable:
// same-day entries keep their insertion order).
//
// Reads may run concurrently; mutations take the write lock so no query can
// observe a partially-applied change.
type Ledger struct {
	mu           sync.RWMutex
	accounts     map[string]Account
	categories   map[string]Category
	transactions []Transaction
	nextID       int64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:   make(map[string]Account),
		categories: make(map[string]Category),
		nextID:     1,
	}
}

// AddAccount creates an account. The name must be unique and the currency a
// known ISO code.
func (l *Ledger) AddAccount(name, accountType, currency string) error {
	if err := ValidateCurrency(currency); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[name]; exists {
		return fmt.Errorf("account %q already exists", name)
	}
	l.accounts[name] = Account{Name: name, Type: accountType, Currency: currency, Created: date.Today()}
	return nil
}

// Account returns the account with this name.
func (l *Ledger) Account(name string) (Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.accounts[name]
	if !ok {
		return Account{}, &UnknownEntityError{Kind: "account", Name: name}
	}
	return a, nil
}

// AddCategory creates a category. The name must be unique.
func (l *Ledger) AddCategory(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.categories[name]; exists {
		return fmt.Errorf("category %q already exists", name)
	}
	l.categories[name] = Category{Name: name}
	return nil
}

// HasCategory reports whether a category exists.
func (l *Ledger) HasCategory(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.categories[name]
	return ok
}

// Categories iterates over category names in lexical order.
func (l *Ledger) Categories() iter.Seq[string] {
	l.mu.RLock()
	names := slices.Collect(maps.Keys(l.categories))
	l.mu.RUnlock()
	slices.Sort(names)
	return slices.Values(names)
}

// Accounts iterates over accounts in name order.
func (l *Ledger) Accounts() iter.Seq[Account] {
	l.mu.RLock()
	names := slices.Collect(maps.Keys(l.accounts))
	accounts := make([]Account, 0, len(names))
	slices.Sort(names)
	for _, n := range names {
		accounts = append(accounts, l.accounts[n])
	}
	l.mu.RUnlock()
	return slices.Values(accounts)
}

// Append records a transaction and maintains the chronological order.
// The account and category (when set) must exist, and the amount's currency
// must match the account's; an empty amount currency takes the account's.
func (l *Ledger) Append(tx Transaction) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[tx.Account]
	if !ok {
		return Transaction{}, &UnknownEntityError{Kind: "account", Name: tx.Account}
	}
	if tx.Category != "" {
		if _, ok := l.categories[tx.Category]; !ok {
			return Transaction{}, &UnknownEntityError{Kind: "category", Name: tx.Category}
		}
	}
	if tx.Amount.Currency() == "" {
		tx.Amount = M(tx.Amount.Amount(), account.Currency)
	} else if tx.Amount.Currency() != account.Currency {
		return Transaction{}, fmt.Errorf("transaction currency %s does not match account %q currency %s",
			tx.Amount.Currency(), account.Name, account.Currency)
	}
	if tx.Date.IsZero() {
		return Transaction{}, fmt.Errorf("transaction has no date")
	}
	if tx.ID == 0 {
		tx.ID = l.nextID
	}
	if tx.ID >= l.nextID {
		l.nextID = tx.ID + 1
	}
	l.transactions = append(l.transactions, tx)
	l.stableSort()
	return tx, nil
}

// SetCategory re-assigns the category of an existing transaction. This is
// the only mutation allowed on a recorded transaction.
func (l *Ledger) SetCategory(txID int64, category string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if category != "" {
		if _, ok := l.categories[category]; !ok {
			return &UnknownEntityError{Kind: "category", Name: category}
		}
	}
	for i := range l.transactions {
		if l.transactions[i].ID == txID {
			l.transactions[i].Category = category
			return nil
		}
	}
	return &UnknownEntityError{Kind: "transaction", Name: fmt.Sprint(txID)}
}

// stableSort sorts the ledger by transaction date. The sort is stable, so
// transactions on the same day keep their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// Transactions returns an iterator over transactions in chronological order.
// All provided filters must accept a transaction for it to be yielded.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	l.mu.RLock()
	txs := slices.Clone(l.transactions)
	l.mu.RUnlock()
	return func(yield func(Transaction) bool) {
		for _, tx := range txs {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// ByCategory returns a predicate filtering transactions by category name.
func ByCategory(name string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Category == name }
}

// ByAccount returns a predicate filtering transactions by account name.
func ByAccount(name string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Account == name }
}

// InMonth returns a predicate filtering transactions by calendar month.
func InMonth(m date.Month) func(Transaction) bool {
	return func(tx Transaction) bool { return m.Contains(tx.Date) }
}

// OnOrBefore returns a predicate keeping transactions up to a date, inclusive.
func OnOrBefore(on date.Date) func(Transaction) bool {
	return func(tx Transaction) bool { return !tx.Date.After(on) }
}

// Spending returns a predicate keeping only outflows (negative amounts).
func Spending() func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Amount.IsNegative() }
}

// OldestTransactionDate returns the date of the earliest transaction, or the
// zero Date if the ledger is empty.
func (l *Ledger) OldestTransactionDate() date.Date {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[0].Date
}

// Balance computes the balance of an account on a specific date, in the
// account's own currency.
func (l *Ledger) Balance(account string, on date.Date) (Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.accounts[account]
	if !ok {
		return Money{}, &UnknownEntityError{Kind: "account", Name: account}
	}
	balance := M(0, a.Currency)
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			// The ledger is sorted by date, so it's safe to break.
			break
		}
		if tx.Account == account {
			balance = balance.Add(tx.Amount)
		}
	}
	return balance, nil
}

// AllCurrencies iterates over all currencies that appear on accounts, in
// lexical order.
func (l *Ledger) AllCurrencies() iter.Seq[string] {
	l.mu.RLock()
	visited := make(map[string]struct{})
	for _, a := range l.accounts {
		visited[a.Currency] = struct{}{}
	}
	l.mu.RUnlock()
	currencies := slices.Collect(maps.Keys(visited))
	slices.Sort(currencies)
	return slices.Values(currencies)
}
