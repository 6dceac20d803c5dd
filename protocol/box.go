package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ribnys/hoon-quadratic-voting/crypto"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// Signature is a voter's published pseudonymous marker: the public half of a
// throwaway keypair, inserted at a random position in the ballot box so list
// order reveals nothing about turn order.
type Signature []byte

// Insurance is a voter's hash commitment over their signature, vote, a fresh
// secret, and the poll state they observed. Published with the result, it
// lets the voter later prove their actual vote by revealing the committed
// pieces, without anyone else's cooperation.
type Insurance crypto.Digest

// MarshalText renders the insurance as hex.
func (i Insurance) MarshalText() ([]byte, error) {
	return crypto.Digest(i).MarshalText()
}

// UnmarshalText restores an insurance from hex.
func (i *Insurance) UnmarshalText(data []byte) error {
	return (*crypto.Digest)(i).UnmarshalText(data)
}

// VoteHolder is the shared noise-bearing slot array. Every slot carries the
// sum of all parties' chain elements for that index, plus at most one encoded
// ballot. Arithmetic is unbounded; no slot is ever reduced mod anything.
type VoteHolder []*big.Int

// Clone deep-copies the holder.
func (h VoteHolder) Clone() VoteHolder {
	out := make(VoteHolder, len(h))
	for i, slot := range h {
		out[i] = new(big.Int).Set(slot)
	}
	return out
}

// BallotBox accumulates the per-voter artifacts of a round.
type BallotBox struct {
	Insurances []Insurance `json:"insurances"`
	Signatures []Signature `json:"signatures"`
	Holder     VoteHolder  `json:"holder"`
}

// Clone deep-copies the box.
func (b BallotBox) Clone() BallotBox {
	out := BallotBox{
		Insurances: make([]Insurance, len(b.Insurances)),
		Signatures: make([]Signature, len(b.Signatures)),
		Holder:     b.Holder.Clone(),
	}
	copy(out.Insurances, b.Insurances)
	for i, sig := range b.Signatures {
		out.Signatures[i] = append(Signature(nil), sig...)
	}
	return out
}

// AnonymizingPoll is the value passed from party to party during a round.
// Exactly one party owns it at any time; each turn consumes the previous
// value and emits a new one.
type AnonymizingPoll struct {
	Poll *voting.Poll `json:"poll"`
	Box  BallotBox    `json:"box"`
}

// Clone deep-copies the poll value. The embedded Poll is immutable and
// shared by reference.
func (ap *AnonymizingPoll) Clone() *AnonymizingPoll {
	return &AnonymizingPoll{
		Poll: ap.Poll,
		Box:  ap.Box.Clone(),
	}
}

// Validate checks the structural integrity of a poll value received from
// another party. JSON decoding can leave nil pointers anywhere: a missing
// poll, no holder, or null slots. Every service must validate a received
// value before operating on it.
func (ap *AnonymizingPoll) Validate() error {
	if ap == nil || ap.Poll == nil || ap.Poll.Len() == 0 {
		return errors.New("poll value carries no poll")
	}
	if len(ap.Box.Holder) == 0 {
		return errors.New("poll value carries no slots")
	}
	for i, slot := range ap.Box.Holder {
		if slot == nil {
			return fmt.Errorf("slot %d is null", i)
		}
	}
	return nil
}

// Digest returns the digest of the poll's current state, as observed by a
// voter at cast time. It feeds the voter's Insurance commitment.
func (ap *AnonymizingPoll) Digest() (crypto.Digest, error) {
	raw, err := json.Marshal(ap)
	if err != nil {
		return crypto.Digest{}, err
	}
	return crypto.HashBytes(raw), nil
}

// Outcome is the published artifact of a completed round.
type Outcome struct {
	Insurances []Insurance   `json:"insurances"`
	Signatures []Signature   `json:"signatures"`
	Result     voting.Result `json:"result"`
}
