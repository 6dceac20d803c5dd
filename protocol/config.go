package protocol

import (
	"fmt"

	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// DefaultSlotCount is the reference VoteHolder length. With uniformly random
// slot choice, 10000 slots keep accidental index collisions statistically
// rare for small voter groups.
const DefaultSlotCount = 10000

// Config carries the protocol parameters agreed by all parties for a round.
type Config struct {
	// SlotCount is the fixed VoteHolder length N.
	SlotCount int `json:"slot_count"`

	// Rules are the shared voting rules, re-applied at tally time.
	Rules voting.Rules `json:"rules"`
}

// DefaultConfig returns the reference protocol parameters.
func DefaultConfig() Config {
	return Config{
		SlotCount: DefaultSlotCount,
		Rules:     voting.DefaultRules(),
	}
}

// Validate checks the config is usable for a round.
func (c Config) Validate() error {
	if c.SlotCount <= 0 {
		return fmt.Errorf("slot count must be positive, got %d", c.SlotCount)
	}
	if c.Rules.CreditBudget <= 0 {
		return fmt.Errorf("credit budget must be positive, got %d", c.Rules.CreditBudget)
	}
	return nil
}
