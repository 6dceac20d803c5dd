package services

import (
	"context"
	"errors"
	"sync"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
)

// ErrOutcomeNotFound indicates no outcome has been published for a round.
var ErrOutcomeNotFound = errors.New("no outcome for round")

// OutcomeStore persists published round outcomes.
type OutcomeStore interface {
	// SaveOutcome stores the published artifact of a completed round.
	SaveOutcome(ctx context.Context, roundID RoundID, outcome *protocol.Outcome) error

	// Outcome returns a previously published outcome, or ErrOutcomeNotFound.
	Outcome(ctx context.Context, roundID RoundID) (*protocol.Outcome, error)
}

// MemoryStore is an in-memory OutcomeStore for tests and single-process
// deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	outcomes map[RoundID]*protocol.Outcome
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{outcomes: make(map[RoundID]*protocol.Outcome)}
}

// SaveOutcome stores the outcome in memory.
func (s *MemoryStore) SaveOutcome(_ context.Context, roundID RoundID, outcome *protocol.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[roundID] = outcome
	return nil
}

// Outcome returns the stored outcome for a round.
func (s *MemoryStore) Outcome(_ context.Context, roundID RoundID) (*protocol.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcome, ok := s.outcomes[roundID]
	if !ok {
		return nil, ErrOutcomeNotFound
	}
	return outcome, nil
}
