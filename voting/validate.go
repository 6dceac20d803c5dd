package voting

import "fmt"

// DefaultCreditBudget is the reference per-voter credit budget. A budget of 1
// degenerates the system to one-person-one-vote-per-option.
const DefaultCreditBudget int64 = 100

// Rules carries the tunable voting parameters.
type Rules struct {
	// CreditBudget is the total spendable quadratic-cost units per voter.
	CreditBudget int64
}

// DefaultRules returns rules with the reference credit budget.
func DefaultRules() Rules {
	return Rules{CreditBudget: DefaultCreditBudget}
}

// IsOverspent reports whether the vote's quadratic cost exceeds the budget.
func (r Rules) IsOverspent(vote Vote) bool {
	return vote.Cost() > r.CreditBudget
}

// HasForeignOption reports whether the vote references any option absent
// from the poll.
func HasForeignOption(poll *Poll, vote Vote) bool {
	for opt := range vote {
		if !poll.Has(opt) {
			return true
		}
	}
	return false
}

// Validate checks a single vote against the poll and the credit budget.
// It returns the vote unchanged on success and has no side effects.
func (r Rules) Validate(poll *Poll, vote Vote) (Vote, error) {
	if r.IsOverspent(vote) {
		return nil, fmt.Errorf("%w: cost %d > budget %d", ErrOverspent, vote.Cost(), r.CreditBudget)
	}
	for opt := range vote {
		if !poll.Has(opt) {
			return nil, fmt.Errorf("%w: %q", ErrForeignOption, opt)
		}
	}
	return vote, nil
}
