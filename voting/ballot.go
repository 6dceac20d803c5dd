package voting

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Ballot wire layout, version 1: one version byte followed by one big-endian
// uint32 count per poll option, in poll order. The leading version byte keeps
// every encoded ballot non-zero; a fully unmasked slot equal to zero therefore
// always means "no vote present", never a legitimate ballot.
const (
	ballotVersion   = 0x01
	ballotCountSize = 4
)

// ballotSize returns the exact encoded length in bytes for a poll.
func ballotSize(poll *Poll) int {
	return 1 + poll.Len()*ballotCountSize
}

// EncodeBallot serializes a vote into a single arbitrary-precision integer
// using the poll's option order as the field layout. The result is non-zero
// for every vote, including an all-zero one.
func EncodeBallot(poll *Poll, vote Vote) (*big.Int, error) {
	buf := make([]byte, ballotSize(poll))
	buf[0] = ballotVersion

	for i, opt := range poll.Options() {
		n := vote[opt.Option]
		if n < 0 || n > int64(^uint32(0)) {
			return nil, fmt.Errorf("%w: count %d for %q out of range", ErrBadBallot, n, opt.Option)
		}
		binary.BigEndian.PutUint32(buf[1+i*ballotCountSize:], uint32(n))
	}

	return new(big.Int).SetBytes(buf), nil
}

// DecodeBallot deserializes an integer into a vote using the poll's option
// list as the decoding template. Fails with ErrBadBallot if the integer is
// not a valid version-1 encoding for this poll.
func DecodeBallot(poll *Poll, atom *big.Int) (Vote, error) {
	if atom.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive integer", ErrBadBallot)
	}

	size := ballotSize(poll)
	raw := atom.Bytes()
	if len(raw) != size {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrBadBallot, len(raw), size)
	}
	if raw[0] != ballotVersion {
		return nil, fmt.Errorf("%w: unknown version 0x%02x", ErrBadBallot, raw[0])
	}

	vote := make(Vote)
	for i, opt := range poll.Options() {
		n := binary.BigEndian.Uint32(raw[1+i*ballotCountSize:])
		if n != 0 {
			vote[opt.Option] = int64(n)
		}
	}

	return vote, nil
}
