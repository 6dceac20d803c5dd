package protocol

import (
	"github.com/ribnys/hoon-quadratic-voting/crypto"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// CastReceipt is everything a voter keeps after their turn. The Key travels
// to the pollmaker over a channel disjoint from the poll's path; the rest
// stays private until (and unless) the voter chooses to reveal their vote.
type CastReceipt struct {
	// Key is this voter's mask seed, owed to the pollmaker out of band.
	Key crypto.Key `json:"key"`

	// Secret is the fresh entropy committed into the Insurance.
	Secret []byte `json:"secret"`

	// Signature is the published pseudonymous marker.
	Signature Signature `json:"signature"`

	// PseudonymKey is the private half of the marker keypair, for proving
	// marker ownership later.
	PseudonymKey []byte `json:"pseudonym_key"`

	// Insurance is the commitment as published in the ballot box.
	Insurance Insurance `json:"insurance"`

	// StateDigest is the digest of the AnonymizingPoll the voter observed
	// before casting, bound into the Insurance.
	StateDigest crypto.Digest `json:"state_digest"`

	// Vote is the voter's own vote, kept for the reveal.
	Vote voting.Vote `json:"vote"`
}

// voteDigest hashes a vote canonically through its ballot encoding, so the
// digest is identical for any two maps representing the same vote.
func voteDigest(poll *voting.Poll, vote voting.Vote) (crypto.Digest, error) {
	atom, err := voting.EncodeBallot(poll, vote)
	if err != nil {
		return crypto.Digest{}, err
	}
	return crypto.HashBytes(atom.Bytes()), nil
}

// makeInsurance computes the commitment hash over the voter's secret, their
// marker, the observed poll state, and their vote.
func makeInsurance(secret []byte, marker Signature, state crypto.Digest, vote crypto.Digest) Insurance {
	return Insurance(crypto.HashParts(secret, marker, state[:], vote[:]))
}

// VerifyInsurance checks a voluntary reveal against a published Insurance
// entry: the voter discloses their secret, marker, observed state digest, and
// vote, and anyone can recompute the commitment independently.
func VerifyInsurance(ins Insurance, secret []byte, marker Signature, state crypto.Digest, poll *voting.Poll, vote voting.Vote) (bool, error) {
	vd, err := voteDigest(poll, vote)
	if err != nil {
		return false, err
	}
	return crypto.Digest(makeInsurance(secret, marker, state, vd)).Equal(crypto.Digest(ins)), nil
}
