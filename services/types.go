package services

import (
	"github.com/google/uuid"

	"github.com/ribnys/hoon-quadratic-voting/crypto"
	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// RoundID identifies a single anonymized voting round.
type RoundID = uuid.UUID

// NewRoundID generates a fresh round identifier.
func NewRoundID() RoundID {
	return uuid.New()
}

// RoundInfo describes a round to prospective voters.
type RoundInfo struct {
	RoundID RoundID         `json:"round_id"`
	Config  protocol.Config `json:"config"`
	Poll    *voting.Poll    `json:"poll"`
	Voters  int             `json:"voters"`
}

// TurnRequest carries the AnonymizingPoll from one party to the next.
type TurnRequest struct {
	RoundID RoundID                   `json:"round_id"`
	Poll    *protocol.AnonymizingPoll `json:"poll"`
}

// KeySubmission delivers one voter's mask key to the pollmaker. It travels
// on its own request, disjoint from the poll handoff path.
type KeySubmission struct {
	RoundID RoundID    `json:"round_id"`
	Key     crypto.Key `json:"key"`
}

// OutcomeResponse wraps a published round outcome.
type OutcomeResponse struct {
	RoundID RoundID           `json:"round_id"`
	Outcome *protocol.Outcome `json:"outcome"`
}

// StatusResponse reports a service-side acknowledgement.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
