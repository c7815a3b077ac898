package moneyclip

import (
	"fmt"
	"regexp"
	"sync"
)

// Rule matches imported transactions by payee or note and assigns a
// category, a rewritten payee, or both. Rules are evaluated in insertion
// order; the first matching rule wins per field.
type Rule struct {
	ID           int64  `json:"id,omitempty"`
	Pattern      string `json:"pattern"`
	Category     string `json:"category,omitempty"`
	PayeeRewrite string `json:"payee_rewrite,omitempty"`

	re *regexp.Regexp
}

// RuleSet is an ordered list of import rules.
type RuleSet struct {
	mu     sync.RWMutex
	ledger *Ledger
	rules  []Rule
	nextID int64
}

// NewRuleSet creates an empty rule set validating categories against ledger.
func NewRuleSet(ledger *Ledger) *RuleSet {
	return &RuleSet{ledger: ledger, nextID: 1}
}

// Add appends a rule. The pattern must be a valid regular expression and
// compiles once, here; the category (when set) must exist.
func (s *RuleSet) Add(pattern, category, payeeRewrite string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}
	if category != "" && !s.ledger.HasCategory(category) {
		return Rule{}, &UnknownEntityError{Kind: "category", Name: category}
	}
	if category == "" && payeeRewrite == "" {
		return Rule{}, fmt.Errorf("rule %q has no effect: set a category or a payee rewrite", pattern)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rule := Rule{ID: s.nextID, Pattern: pattern, Category: category, PayeeRewrite: payeeRewrite, re: re}
	s.nextID++
	s.rules = append(s.rules, rule)
	return rule, nil
}

// Remove deletes a rule by id.
func (s *RuleSet) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rules {
		if r.ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return nil
		}
	}
	return &UnknownEntityError{Kind: "rule", Name: fmt.Sprint(id)}
}

// Rules returns the rules in evaluation order.
func (s *RuleSet) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Apply runs the rules against a payee and note. It returns the category of
// the first matching rule that sets one, and the payee after the first
// matching rewrite. An unmatched input comes back unchanged with an empty
// category.
func (s *RuleSet) Apply(payee, note string) (category, newPayee string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	newPayee = payee
	rewritten := false
	for _, r := range s.rules {
		if !r.re.MatchString(payee) && (note == "" || !r.re.MatchString(note)) {
			continue
		}
		if category == "" && r.Category != "" {
			category = r.Category
		}
		if !rewritten && r.PayeeRewrite != "" {
			newPayee = r.PayeeRewrite
			rewritten = true
		}
		if category != "" && rewritten {
			break
		}
	}
	return category, newPayee
}
