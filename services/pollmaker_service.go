package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ribnys/hoon-quadratic-voting/crypto"
	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// PollmakerService runs one anonymized voting round end to end: it seeds the
// AnonymizingPoll, hands it to the first voter, collects voter keys out of
// band, receives the final poll back, tallies, and publishes the outcome.
//
// The pollmaker's own key never leaves the service.
type PollmakerService struct {
	cfg   protocol.Config
	poll  *voting.Poll
	round RoundID
	store OutcomeStore
	log   *slog.Logger

	mu        sync.Mutex
	key       crypto.Key
	initial   *protocol.AnonymizingPoll
	handedOff bool
	voterKeys []crypto.Key
	finalPoll *protocol.AnonymizingPoll
	outcome   *protocol.Outcome
}

// NewPollmakerService seeds a fresh round over the given poll.
func NewPollmakerService(cfg protocol.Config, poll *voting.Poll, store OutcomeStore, log *slog.Logger) (*PollmakerService, error) {
	initial, key, err := protocol.Start(cfg, poll)
	if err != nil {
		return nil, fmt.Errorf("starting round: %w", err)
	}

	round := NewRoundID()
	log.Info("Round started", "roundID", round, "options", poll.Len(), "slots", cfg.SlotCount)

	return &PollmakerService{
		cfg:     cfg,
		poll:    poll,
		round:   round,
		store:   store,
		log:     log.With("roundID", round),
		key:     key,
		initial: initial,
	}, nil
}

// RoundID returns the round identifier.
func (s *PollmakerService) RoundID() RoundID {
	return s.round
}

// RegisterRoutes registers the pollmaker's HTTP endpoints.
func (s *PollmakerService) RegisterRoutes(r chi.Router) {
	r.Get("/round", s.handleRoundInfo)
	r.Get("/round/poll", s.handlePollHandoff)
	r.Post("/round/keys", s.handleKeySubmission)
	r.Post("/round/box", s.handleBallotBox)
	r.Post("/round/tally", s.handleTally)
	r.Get("/round/outcome", s.handleOutcome)
	r.Get("/round/config", s.handleConfig)
}

// HandoffPoll releases the initial AnonymizingPoll to the first voter,
// exactly once. Ownership transfers with the call.
func (s *PollmakerService) HandoffPoll() (*protocol.AnonymizingPoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handedOff {
		return nil, errors.New("poll already handed off")
	}
	s.handedOff = true
	return s.initial, nil
}

// SubmitKey records one voter's mask key, delivered out of band.
func (s *PollmakerService) SubmitKey(key crypto.Key) error {
	if !key.Valid() {
		return errors.New("submitted key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome != nil {
		return errors.New("round already tallied")
	}
	s.voterKeys = append(s.voterKeys, key)
	s.log.Info("Voter key received", "keys", len(s.voterKeys))
	return nil
}

// ReceiveBox accepts the final AnonymizingPoll from the last voter. A
// malformed box is rejected without occupying the round, so the genuine box
// can still arrive.
func (s *PollmakerService) ReceiveBox(final *protocol.AnonymizingPoll) error {
	if err := final.Validate(); err != nil {
		return fmt.Errorf("malformed ballot box: %w", err)
	}
	if len(final.Box.Holder) != s.cfg.SlotCount {
		return fmt.Errorf("ballot box has %d slots, want %d", len(final.Box.Holder), s.cfg.SlotCount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalPoll != nil {
		return errors.New("ballot box already received")
	}
	s.finalPoll = final
	s.log.Info("Ballot box received", "signatures", len(final.Box.Signatures))
	return nil
}

// Tally unmasks the ballot box and publishes the outcome. It requires the
// final poll and one key per signature; key arrival order is irrelevant.
func (s *PollmakerService) Tally(ctx context.Context) (*protocol.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome != nil {
		return s.outcome, nil
	}
	if s.finalPoll == nil {
		return nil, errors.New("ballot box not yet received")
	}
	if have, want := len(s.voterKeys), len(s.finalPoll.Box.Signatures); have != want {
		return nil, fmt.Errorf("have %d voter keys, need %d", have, want)
	}

	outcome, err := protocol.TallyAnonymous(s.cfg, s.finalPoll, s.key, s.voterKeys)
	if err != nil {
		s.log.Error("Tally failed", "err", err)
		return nil, err
	}

	if err := s.store.SaveOutcome(ctx, s.round, outcome); err != nil {
		return nil, fmt.Errorf("publishing outcome: %w", err)
	}

	s.outcome = outcome
	s.log.Info("Outcome published", "ballots", len(outcome.Signatures))
	return outcome, nil
}

func (s *PollmakerService) handleRoundInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	voters := len(s.voterKeys)
	s.mu.Unlock()

	writeJSON(w, &RoundInfo{
		RoundID: s.round,
		Config:  s.cfg,
		Poll:    s.poll,
		Voters:  voters,
	})
}

func (s *PollmakerService) handlePollHandoff(w http.ResponseWriter, r *http.Request) {
	poll, err := s.HandoffPoll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, &TurnRequest{RoundID: s.round, Poll: poll})
}

func (s *PollmakerService) handleKeySubmission(w http.ResponseWriter, r *http.Request) {
	var submission KeySubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if submission.RoundID != s.round {
		http.Error(w, "unknown round", http.StatusNotFound)
		return
	}
	if err := s.SubmitKey(submission.Key); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, &StatusResponse{Success: true})
}

func (s *PollmakerService) handleBallotBox(w http.ResponseWriter, r *http.Request) {
	var turn TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if turn.RoundID != s.round {
		http.Error(w, "unknown round", http.StatusNotFound)
		return
	}
	if err := s.ReceiveBox(turn.Poll); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, &StatusResponse{Success: true})
}

func (s *PollmakerService) handleTally(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.Tally(r.Context())
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, protocol.ErrCollision) || errors.Is(err, voting.ErrBadBallot) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, &OutcomeResponse{RoundID: s.round, Outcome: outcome})
}

func (s *PollmakerService) handleOutcome(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.store.Outcome(r.Context(), s.round)
	if errors.Is(err, ErrOutcomeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, &OutcomeResponse{RoundID: s.round, Outcome: outcome})
}

func (s *PollmakerService) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, &s.cfg)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
