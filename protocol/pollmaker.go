package protocol

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ribnys/hoon-quadratic-voting/crypto"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// ErrCollision indicates that the number of non-zero slots after unmasking
// does not match the number of signatures. Fatal to the whole tally; the
// only recovery is re-running the round with fresh keys or more slots.
var ErrCollision = errors.New("unmasked slot count does not match signature count")

// Start executes Pollmaker-Init: it seeds a fresh VoteHolder with noise
// derived from a new private key and returns the AnonymizingPoll to hand to
// the first voter. The returned key stays with the pollmaker and is never
// transmitted with the poll.
func Start(cfg Config, poll *voting.Poll) (*AnonymizingPoll, crypto.Key, error) {
	if err := cfg.Validate(); err != nil {
		return nil, crypto.Key{}, err
	}
	if poll.Len() == 0 {
		return nil, crypto.Key{}, fmt.Errorf("%w: poll has no options", voting.ErrEmptyBatch)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, crypto.Key{}, fmt.Errorf("generating pollmaker key: %w", err)
	}

	ap := &AnonymizingPoll{
		Poll: poll,
		Box: BallotBox{
			Insurances: []Insurance{},
			Signatures: []Signature{},
			Holder:     VoteHolder(crypto.DeriveMasks(key, cfg.SlotCount)),
		},
	}

	return ap, key, nil
}

// TallyAnonymous executes Pollmaker-Tally: strip every issued key's noise
// chain from the final poll, detect collisions, decode the residual ballots,
// re-validate them, and produce the publishable outcome.
//
// Key order is irrelevant since subtraction commutes. Chain derivation, which
// dominates cost, runs in parallel across keys.
func TallyAnonymous(cfg Config, final *AnonymizingPoll, pollmakerKey crypto.Key, voterKeys []crypto.Key) (*Outcome, error) {
	keys := make([]crypto.Key, 0, len(voterKeys)+1)
	keys = append(keys, pollmakerKey)
	keys = append(keys, voterKeys...)
	for i, key := range keys {
		if !key.Valid() {
			return nil, fmt.Errorf("key %d is empty", i)
		}
	}

	residual := unmask(final.Box.Holder, keys)

	// A slot left exactly zero after all chains are stripped means "no vote
	// present"; ballot encoding guarantees every real ballot is non-zero.
	candidates := make([]*big.Int, 0, len(final.Box.Signatures))
	for _, slot := range residual {
		if slot.Sign() != 0 {
			candidates = append(candidates, slot)
		}
	}

	// Unconditional collision check before any decoding. It cannot prove the
	// absence of collisions, only count mismatches; it is the cheapest
	// feasible detector.
	if len(candidates) != len(final.Box.Signatures) {
		return nil, fmt.Errorf("%w: %d non-zero slots, %d signatures",
			ErrCollision, len(candidates), len(final.Box.Signatures))
	}

	votes := make([]voting.Vote, len(candidates))
	for i, atom := range candidates {
		vote, err := voting.DecodeBallot(final.Poll, atom)
		if err != nil {
			return nil, fmt.Errorf("recovered ballot %d: %w", i, err)
		}
		votes[i] = vote
	}

	// Re-validate every recovered vote; a garbled recovery surfaces as a
	// validation error instead of silently skewing the result.
	result, err := cfg.Rules.Tally(final.Poll, votes)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Insurances: append([]Insurance{}, final.Box.Insurances...),
		Signatures: append([]Signature{}, final.Box.Signatures...),
		Result:     result,
	}, nil
}

// unmask subtracts every key's chain element-wise from the holder. Each
// chain must be derived sequentially, so parallelism is across keys.
func unmask(holder VoteHolder, keys []crypto.Key) VoteHolder {
	n := len(holder)

	perKey := make([]VoteHolder, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key crypto.Key) {
			defer wg.Done()
			perKey[i] = VoteHolder(crypto.DeriveMasks(key, n))
		}(i, key)
	}
	wg.Wait()

	residual := holder.Clone()
	for _, chain := range perKey {
		for j, mask := range chain {
			residual[j].Sub(residual[j], mask)
		}
	}
	return residual
}
