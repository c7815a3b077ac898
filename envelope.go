package moneyclip

import (
	"fmt"
	"sync"

	"github.com/alphavelocity/moneyclip/date"
)

// RolloverPolicy defines how a month's leftover availability carries into
// the next month.
type RolloverPolicy int

const (
	// RolloverFloor carries leftover forward but floors negative
	// availability at zero: overspending does not become next month's debt.
	RolloverFloor RolloverPolicy = iota
	// RolloverCarryDebt carries negative availability forward as debt.
	RolloverCarryDebt
)

func (p RolloverPolicy) String() string {
	switch p {
	case RolloverFloor:
		return "floor"
	case RolloverCarryDebt:
		return "carry-debt"
	default:
		return "unknown"
	}
}

// ParseRolloverPolicy parses a string into a RolloverPolicy.
func ParseRolloverPolicy(s string) (RolloverPolicy, error) {
	switch s {
	case "floor":
		return RolloverFloor, nil
	case "carry-debt":
		return RolloverCarryDebt, nil
	default:
		return 0, fmt.Errorf("unknown rollover policy: %q", s)
	}
}

// carry applies the policy to a month's final availability.
func (p RolloverPolicy) carry(available Money) Money {
	if p == RolloverFloor && available.IsNegative() {
		return M(0, available.Currency())
	}
	return available
}

type envelopeKey struct {
	category string
	month    date.Month
}

// envelopeState is the stored part of an envelope: the accumulated funding
// and move totals. Spending is always derived live from the ledger.
type envelopeState struct {
	funded   Money
	movedIn  Money
	movedOut Money
}

// EnvelopeStatus is the full breakdown of an envelope for one month, all in
// base currency. The invariant holds by construction:
// Available = RolloverIn + Funded + MovedIn - MovedOut - Spent.
type EnvelopeStatus struct {
	Category   string     `json:"category"`
	Month      date.Month `json:"month"`
	RolloverIn Money      `json:"rollover_in"`
	Funded     Money      `json:"funded"`
	MovedIn    Money      `json:"moved_in"`
	MovedOut   Money      `json:"moved_out"`
	Spent      Money      `json:"spent"`
	Available  Money      `json:"available"`
}

// EnvelopeEngine keeps per (category, month) budget state and derives
// availability from the ledger through the converter. All envelope amounts
// live in the base currency.
//
// Fund and Move are commutative within a month: the stored state is a sum,
// so final totals do not depend on call order. Reads may run concurrently;
// each mutation holds the write lock so a concurrent Status never observes
// half of a Move.
type EnvelopeEngine struct {
	mu     sync.RWMutex
	ledger *Ledger
	conv   *Converter
	policy RolloverPolicy
	states map[envelopeKey]*envelopeState
}

// NewEnvelopeEngine creates an envelope engine over a ledger and converter.
func NewEnvelopeEngine(ledger *Ledger, conv *Converter, policy RolloverPolicy) *EnvelopeEngine {
	return &EnvelopeEngine{
		ledger: ledger,
		conv:   conv,
		policy: policy,
		states: make(map[envelopeKey]*envelopeState),
	}
}

// state returns the envelope for (category, month), creating it on first touch.
func (e *EnvelopeEngine) state(category string, month date.Month) *envelopeState {
	key := envelopeKey{category: category, month: month}
	st, ok := e.states[key]
	if !ok {
		base := e.conv.BaseCurrency()
		st = &envelopeState{funded: M(0, base), movedIn: M(0, base), movedOut: M(0, base)}
		e.states[key] = st
	}
	return st
}

// checkAmount validates that an envelope amount is denominated in the base
// currency. An empty currency is taken as base.
func (e *EnvelopeEngine) checkAmount(amount Money) (Money, error) {
	base := e.conv.BaseCurrency()
	if amount.Currency() == "" {
		return M(amount.Amount(), base), nil
	}
	if amount.Currency() != base {
		return Money{}, fmt.Errorf("envelope amounts are kept in %s, got %s", base, amount.Currency())
	}
	return amount, nil
}

// Fund adds to the envelope's funded amount for a month. The amount must be
// non-negative.
func (e *EnvelopeEngine) Fund(category string, month date.Month, amount Money) error {
	if !e.ledger.HasCategory(category) {
		return &UnknownEntityError{Kind: "category", Name: category}
	}
	amount, err := e.checkAmount(amount)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return &InvalidAmountError{Op: "fund " + category, Amount: amount}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.state(category, month)
	st.funded = st.funded.Add(amount)
	return nil
}

// Move shifts budget between two envelopes in the same month, atomically.
// The amount must be strictly positive. Availability of the source is not
// checked: provisional over-allocation is permitted and surfaces as a
// negative Available in Status.
func (e *EnvelopeEngine) Move(fromCategory, toCategory string, month date.Month, amount Money) error {
	if !e.ledger.HasCategory(fromCategory) {
		return &UnknownEntityError{Kind: "category", Name: fromCategory}
	}
	if !e.ledger.HasCategory(toCategory) {
		return &UnknownEntityError{Kind: "category", Name: toCategory}
	}
	amount, err := e.checkAmount(amount)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return &InvalidAmountError{Op: "move " + fromCategory + " to " + toCategory, Amount: amount}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	from := e.state(fromCategory, month)
	to := e.state(toCategory, month)
	from.movedOut = from.movedOut.Add(amount)
	to.movedIn = to.movedIn.Add(amount)
	return nil
}

// Spent derives the month's spending for a category live from the ledger:
// the sum of outflows in that category within the month, each converted to
// base currency at its own transaction date. It is never cached, so month
// boundaries and FX timing stay exact even after rates are backfilled.
func (e *EnvelopeEngine) Spent(category string, month date.Month) (Money, error) {
	if !e.ledger.HasCategory(category) {
		return Money{}, &UnknownEntityError{Kind: "category", Name: category}
	}
	total := M(0, e.conv.BaseCurrency())
	for tx := range e.ledger.Transactions(ByCategory(category), InMonth(month), Spending()) {
		converted, err := e.conv.ToBase(tx.Amount.Abs(), tx.Date)
		if err != nil {
			return Money{}, fmt.Errorf("spent %s %s: %w", category, month, err)
		}
		total = total.Add(converted)
	}
	return total, nil
}

// Status returns the full envelope breakdown for (category, month) in base
// currency. RolloverIn is recomputed deterministically from the category's
// first active month forward; it is never a stored mutation, so computing
// the status of month M+1 always reflects the policy applied to month M.
func (e *EnvelopeEngine) Status(category string, month date.Month) (EnvelopeStatus, error) {
	if !e.ledger.HasCategory(category) {
		return EnvelopeStatus{}, &UnknownEntityError{Kind: "category", Name: category}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	rollover := M(0, e.conv.BaseCurrency())
	if first, ok := e.firstMonth(category); ok && first.Before(month) {
		for m := first; m.Before(month); m = m.Next() {
			status, err := e.statusWith(category, m, rollover)
			if err != nil {
				return EnvelopeStatus{}, err
			}
			rollover = e.policy.carry(status.Available)
		}
	}
	return e.statusWith(category, month, rollover)
}

// statusWith assembles the breakdown of one month given its rollover input.
func (e *EnvelopeEngine) statusWith(category string, month date.Month, rolloverIn Money) (EnvelopeStatus, error) {
	base := e.conv.BaseCurrency()
	funded, movedIn, movedOut := M(0, base), M(0, base), M(0, base)
	if st, ok := e.states[envelopeKey{category: category, month: month}]; ok {
		funded, movedIn, movedOut = st.funded, st.movedIn, st.movedOut
	}
	spent, err := e.Spent(category, month)
	if err != nil {
		return EnvelopeStatus{}, err
	}
	return EnvelopeStatus{
		Category:   category,
		Month:      month,
		RolloverIn: rolloverIn,
		Funded:     funded,
		MovedIn:    movedIn,
		MovedOut:   movedOut,
		Spent:      spent,
		Available:  rolloverIn.Add(funded).Add(movedIn).Sub(movedOut).Sub(spent),
	}, nil
}

// firstMonth returns the earliest month with envelope state or categorized
// spending for the category. Must be called with at least the read lock held.
func (e *EnvelopeEngine) firstMonth(category string) (date.Month, bool) {
	var first date.Month
	found := false
	for key := range e.states {
		if key.category != category {
			continue
		}
		if !found || key.month.Before(first) {
			first, found = key.month, true
		}
	}
	for tx := range e.ledger.Transactions(ByCategory(category)) {
		// Transactions are chronological; the first one is the earliest.
		m := tx.Date.Month()
		if !found || m.Before(first) {
			first, found = m, true
		}
		break
	}
	return first, found
}

// Funded returns the stored funding totals for (category, month) without
// the derived fields. Used by persistence.
func (e *EnvelopeEngine) Funded(category string, month date.Month) (funded, movedIn, movedOut Money, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, exists := e.states[envelopeKey{category: category, month: month}]
	if !exists {
		return Money{}, Money{}, Money{}, false
	}
	return st.funded, st.movedIn, st.movedOut, true
}

// Restore sets the stored components of one envelope directly. Used by
// persistence to rebuild the engine; amounts must be in base currency.
func (e *EnvelopeEngine) Restore(category string, month date.Month, funded, movedIn, movedOut Money) error {
	if !e.ledger.HasCategory(category) {
		return &UnknownEntityError{Kind: "category", Name: category}
	}
	for _, m := range []Money{funded, movedIn, movedOut} {
		if _, err := e.checkAmount(m); err != nil {
			return err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.state(category, month)
	st.funded, st.movedIn, st.movedOut = funded, movedIn, movedOut
	return nil
}

// EnvelopeKey identifies an envelope: one budget bucket per category per month.
type EnvelopeKey struct {
	Category string
	Month    date.Month
}

// Envelopes returns the keys of all envelopes that hold stored state.
func (e *EnvelopeEngine) Envelopes() []EnvelopeKey {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]EnvelopeKey, 0, len(e.states))
	for key := range e.states {
		out = append(out, EnvelopeKey{Category: key.category, Month: key.month})
	}
	return out
}
