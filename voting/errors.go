package voting

import "errors"

var (
	// ErrOverspent indicates a vote whose quadratic credit cost exceeds the
	// budget. Fatal to that vote; never retried.
	ErrOverspent = errors.New("vote exceeds credit budget")

	// ErrForeignOption indicates a vote referencing an option absent from the
	// poll. Fatal to that vote.
	ErrForeignOption = errors.New("vote references option not in poll")

	// ErrEmptyBatch indicates a tally over an empty vote batch or a poll
	// without options. Defensive guard; callers should not reach this state.
	ErrEmptyBatch = errors.New("nothing to tally")

	// ErrBadBallot indicates an integer that does not deserialize under the
	// poll's ballot schema. Fatal to the whole tally: it signals protocol
	// corruption, not a malformed individual vote.
	ErrBadBallot = errors.New("ballot does not decode under poll schema")
)
