package store

import (
	"path/filepath"
	"testing"

	"github.com/alphavelocity/moneyclip"
	"github.com/alphavelocity/moneyclip/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "books.sqlite"))
	require.NoError(t, err, "open store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMigratesSchema(t *testing.T) {
	s := openTestStore(t)

	// Opening again against the same file is a no-op migration.
	s2, err := Open(s.Path())
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)

	base, err := s.BaseCurrency()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseCurrency, base, "default base currency")

	require.NoError(t, s.SetBaseCurrency("EUR"))
	base, err = s.BaseCurrency()
	require.NoError(t, err)
	assert.Equal(t, "EUR", base)

	assert.Error(t, s.SetBaseCurrency("NOPE"), "unknown currency must be rejected")

	policy, err := s.RolloverPolicy()
	require.NoError(t, err)
	assert.Equal(t, moneyclip.RolloverFloor, policy, "default rollover policy")

	require.NoError(t, s.SetRolloverPolicy("carry-debt"))
	policy, err = s.RolloverPolicy()
	require.NoError(t, err)
	assert.Equal(t, moneyclip.RolloverCarryDebt, policy)
	assert.Error(t, s.SetRolloverPolicy("strict"))
}

func TestLedgerRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AddAccount("checking", "checking", "USD")
	require.NoError(t, err)
	_, err = s.AddAccount("checking", "checking", "USD")
	assert.Error(t, err, "duplicate account name")
	_, err = s.AddCategory("groceries")
	require.NoError(t, err)

	txID, err := s.AddTransaction(moneyclip.Transaction{
		Date:     date.New(2025, 3, 10),
		Account:  "checking",
		Amount:   moneyclip.M(decimal.RequireFromString("-54.20"), "USD"),
		Payee:    "Whole Foods",
		Category: "groceries",
		Note:     "weekly shop",
	})
	require.NoError(t, err)
	_, err = s.AddTransaction(moneyclip.Transaction{
		Date:    date.New(2025, 3, 1),
		Account: "checking",
		Amount:  moneyclip.M(3000, "USD"),
		Payee:   "Salary",
	})
	require.NoError(t, err)

	ledger, err := s.LoadLedger()
	require.NoError(t, err)

	var txs []moneyclip.Transaction
	for tx := range ledger.Transactions() {
		txs = append(txs, tx)
	}
	require.Len(t, txs, 2)
	assert.Equal(t, "Salary", txs[0].Payee, "chronological order on load")
	assert.Equal(t, "Whole Foods", txs[1].Payee)
	assert.Equal(t, "groceries", txs[1].Category)
	assert.Equal(t, "weekly shop", txs[1].Note)
	assert.True(t, txs[1].Amount.Equal(moneyclip.M(decimal.RequireFromString("-54.20"), "USD")))

	// Recategorize through the store and reload.
	require.NoError(t, s.SetTransactionCategory(txID, ""))
	ledger, err = s.LoadLedger()
	require.NoError(t, err)
	for tx := range ledger.Transactions(moneyclip.ByCategory("groceries")) {
		t.Errorf("category not cleared: %+v", tx)
	}
}

func TestRatesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	day := date.New(2025, 3, 10)

	require.NoError(t, s.AddRate("USD", "EUR", day, decimal.RequireFromString("0.92")))
	// A re-published rate supersedes.
	require.NoError(t, s.AddRate("USD", "EUR", day, decimal.RequireFromString("0.93")))

	rates, err := s.LoadRates()
	require.NoError(t, err)
	_, rate, ok := rates.RateAsOf("USD", "EUR", day)
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.93")))
}

func TestTradesReplay(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AddAsset("AAPL", "Apple", "USD")
	require.NoError(t, err)
	_, err = s.AddTrade("AAPL", date.New(2025, 1, 10), "buy", moneyclip.Q(10), moneyclip.M(100, "USD"), "")
	require.NoError(t, err)
	_, err = s.AddTrade("AAPL", date.New(2025, 2, 10), "buy", moneyclip.Q(10), moneyclip.M(120, "USD"), "")
	require.NoError(t, err)
	_, err = s.AddTrade("AAPL", date.New(2025, 6, 10), "sell", moneyclip.Q(15), moneyclip.M(150, "USD"), "")
	require.NoError(t, err)
	_, err = s.AddTrade("AAPL", date.New(2025, 6, 10), "short", moneyclip.Q(1), moneyclip.M(1, "USD"), "")
	assert.Error(t, err, "invalid side")

	rates := moneyclip.NewRateStore()
	conv, err := moneyclip.NewConverter(rates, "USD")
	require.NoError(t, err)

	lots, err := s.LoadLots(conv)
	require.NoError(t, err)

	open, err := lots.OpenQuantity("AAPL")
	require.NoError(t, err)
	assert.True(t, open.Equal(moneyclip.Q(5)), "open quantity after replay")

	gains := lots.RealizedGains("AAPL", 2025)
	require.Len(t, gains, 2, "one gain per consumed lot portion")
	assert.True(t, gains[0].Gain.Equal(moneyclip.M(500, "USD")))
	assert.True(t, gains[1].Gain.Equal(moneyclip.M(150, "USD")))
}

func TestEnvelopesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AddCategory("groceries")
	require.NoError(t, err)

	march := date.MustParseMonth("2025-03")
	require.NoError(t, s.SaveEnvelope("groceries", march,
		moneyclip.M(500, "USD"), moneyclip.M(50, "USD"), moneyclip.M(20, "USD")))

	ledger, err := s.LoadLedger()
	require.NoError(t, err)
	conv, err := moneyclip.NewConverter(moneyclip.NewRateStore(), "USD")
	require.NoError(t, err)

	env, err := s.LoadEnvelopes(ledger, conv)
	require.NoError(t, err)

	status, err := env.Status("groceries", march)
	require.NoError(t, err)
	assert.True(t, status.Funded.Equal(moneyclip.M(500, "USD")))
	assert.True(t, status.MovedIn.Equal(moneyclip.M(50, "USD")))
	assert.True(t, status.MovedOut.Equal(moneyclip.M(20, "USD")))
	assert.True(t, status.Available.Equal(moneyclip.M(530, "USD")))
}

func TestDoctorFindsCurrencyMismatch(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AddAccount("checking", "checking", "USD")
	require.NoError(t, err)
	_, err = s.AddTransaction(moneyclip.Transaction{
		Date:    date.New(2025, 3, 10),
		Account: "checking",
		Amount:  moneyclip.M(100, "USD"),
		Payee:   "Salary",
	})
	require.NoError(t, err)

	issues, err := s.Doctor()
	require.NoError(t, err)
	assert.Empty(t, issues, "consistent rows")

	// A hand-edited row the validating APIs would have rejected.
	_, err = s.db.Exec(
		`INSERT INTO transactions(date, account_id, amount, payee, currency)
		 VALUES ('2025-03-11', (SELECT id FROM accounts WHERE name='checking'), '-30', 'Bakery', 'EUR')`)
	require.NoError(t, err)

	issues, err = s.Doctor()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "currency_mismatch", issues[0].Kind)
	assert.Contains(t, issues[0].Detail, "Bakery")
	assert.Contains(t, issues[0].Detail, "EUR")

	// The same row makes the replay on load fail; the scan is the only way
	// to see it.
	_, err = s.LoadLedger()
	assert.Error(t, err)
}

func TestRulesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AddCategory("groceries")
	require.NoError(t, err)

	id, err := s.AddRule(`(?i)wholefds`, "groceries", "Whole Foods")
	require.NoError(t, err)

	ledger, err := s.LoadLedger()
	require.NoError(t, err)
	rules, err := s.LoadRules(ledger)
	require.NoError(t, err)

	category, payee := rules.Apply("WHOLEFDS MKT 123", "")
	assert.Equal(t, "groceries", category)
	assert.Equal(t, "Whole Foods", payee)

	require.NoError(t, s.RemoveRule(id))
	assert.Error(t, s.RemoveRule(id), "removing twice")
}
