package protocol

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ribnys/hoon-quadratic-voting/crypto"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// insuranceSecretBytes is the entropy committed into each Insurance.
const insuranceSecretBytes = 32

// Cast executes one Voter-Turn. It consumes the AnonymizingPoll received
// from the previous party and returns the updated poll for the next party,
// together with the voter's private receipt. The input poll is never
// mutated; if the vote fails validation the turn aborts and nothing is
// emitted.
//
// The receipt's Key must reach the pollmaker over a channel disjoint from
// the poll's path. Delivering the key alongside the poll defeats anonymity.
func Cast(cfg Config, current *AnonymizingPoll, vote voting.Vote) (*AnonymizingPoll, *CastReceipt, error) {
	slotIdx, err := randIndex(len(current.Box.Holder))
	if err != nil {
		return nil, nil, err
	}
	sigPos, err := randIndex(len(current.Box.Signatures) + 1)
	if err != nil {
		return nil, nil, err
	}
	return castAt(cfg, current, vote, slotIdx, sigPos)
}

// castAt is Cast with the slot index and signature position fixed. Split out
// so collision scenarios can be constructed deterministically in tests.
func castAt(cfg Config, current *AnonymizingPoll, vote voting.Vote, slotIdx, sigPos int) (*AnonymizingPoll, *CastReceipt, error) {
	if _, err := cfg.Rules.Validate(current.Poll, vote); err != nil {
		return nil, nil, err
	}
	if slotIdx < 0 || slotIdx >= len(current.Box.Holder) {
		return nil, nil, fmt.Errorf("slot index %d out of range", slotIdx)
	}

	stateDigest, err := current.Digest()
	if err != nil {
		return nil, nil, fmt.Errorf("hashing poll state: %w", err)
	}

	pseudonym, err := crypto.NewPseudonym()
	if err != nil {
		return nil, nil, fmt.Errorf("generating pseudonym: %w", err)
	}
	marker := Signature(pseudonym.Marker())

	secret := make([]byte, insuranceSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, nil, fmt.Errorf("reading entropy: %w", err)
	}

	vd, err := voteDigest(current.Poll, vote)
	if err != nil {
		return nil, nil, err
	}
	insurance := makeInsurance(secret, marker, stateDigest, vd)

	atom, err := voting.EncodeBallot(current.Poll, vote)
	if err != nil {
		return nil, nil, err
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("generating mask key: %w", err)
	}

	next := current.Clone()

	// Mask every slot with this voter's chain; the chosen slot additionally
	// receives the encoded ballot on top of its generic noise.
	chain := crypto.NewMaskChain(key)
	for _, slot := range next.Box.Holder {
		slot.Add(slot, chain.Next())
	}
	next.Box.Holder[slotIdx].Add(next.Box.Holder[slotIdx], atom)

	next.Box.Insurances = append([]Insurance{insurance}, next.Box.Insurances...)
	next.Box.Signatures = insertSignature(next.Box.Signatures, marker, sigPos)

	receipt := &CastReceipt{
		Key:          key,
		Secret:       secret,
		Signature:    marker,
		PseudonymKey: pseudonym.PrivateBytes(),
		Insurance:    insurance,
		StateDigest:  stateDigest,
		Vote:         vote.Clone(),
	}

	return next, receipt, nil
}

// insertSignature places a marker at the given position in the list. The
// position must be uniformly random: a fixed insertion end would let an
// observer read vote order off list position.
func insertSignature(sigs []Signature, marker Signature, pos int) []Signature {
	if pos < 0 || pos > len(sigs) {
		pos = len(sigs)
	}
	out := make([]Signature, 0, len(sigs)+1)
	out = append(out, sigs[:pos]...)
	out = append(out, marker)
	out = append(out, sigs[pos:]...)
	return out
}

// randIndex draws a uniform index in [0, n).
func randIndex(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cannot draw index over %d elements", n)
	}
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("reading entropy: %w", err)
	}
	return int(idx.Int64()), nil
}
