package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ribnys/hoon-quadratic-voting/api/httpserver"
	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// Orchestrator runs a complete round in a single process: one pollmaker and
// a chain of voters, each behind its own loopback HTTP listener. It exists
// for demos and integration tests; production deployments run each party as
// its own binary on its own machine.
type Orchestrator struct {
	log *slog.Logger

	servers []*http.Server
}

// NewOrchestrator creates an orchestrator that logs through the given logger.
func NewOrchestrator(log *slog.Logger) *Orchestrator {
	return &Orchestrator{log: log}
}

// RunRound executes one full round with the given votes, one voter per vote,
// and returns the published outcome. Voters take their turns in order, each
// over its own HTTP service.
func (o *Orchestrator) RunRound(ctx context.Context, cfg protocol.Config, poll *voting.Poll, votes []voting.Vote) (*protocol.Outcome, error) {
	defer o.Shutdown(ctx)

	if len(votes) == 0 {
		return nil, voting.ErrEmptyBatch
	}

	pollmaker, err := NewPollmakerService(cfg, poll, NewMemoryStore(), o.log)
	if err != nil {
		return nil, err
	}

	pollmakerURL, err := o.serve(newRouter(pollmaker))
	if err != nil {
		return nil, fmt.Errorf("starting pollmaker: %w", err)
	}

	// Voters start last-to-first so each knows its successor's URL. The
	// last voter has no successor and returns the box to the pollmaker.
	voterURLs := make([]string, len(votes))
	for i := len(votes) - 1; i >= 0; i-- {
		next := ""
		if i < len(votes)-1 {
			next = voterURLs[i+1]
		}

		voter, err := NewVoterService(VoterConfig{
			Name:         fmt.Sprintf("voter-%d", i+1),
			Vote:         votes[i],
			PollmakerURL: pollmakerURL,
			NextURL:      next,
		}, o.log)
		if err != nil {
			return nil, err
		}

		voterURLs[i], err = o.serve(newRouter(voter))
		if err != nil {
			return nil, fmt.Errorf("starting voter %d: %w", i+1, err)
		}
	}

	// Hand the poll to the first voter. Each voter forwards synchronously,
	// so this one request drives the whole chain through to the pollmaker's
	// ballot box endpoint.
	turn, err := pollmaker.HandoffPoll()
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 2 * time.Minute}
	if err := postJSON(ctx, client, voterURLs[0]+"/turn", &TurnRequest{RoundID: pollmaker.RoundID(), Poll: turn}); err != nil {
		return nil, fmt.Errorf("driving voter chain: %w", err)
	}

	outcome, err := pollmaker.Tally(ctx)
	if err != nil {
		return nil, fmt.Errorf("tallying round: %w", err)
	}
	return outcome, nil
}

// newRouter builds a service router with the same panic recovery the
// production server shell applies.
func newRouter(registrars ...httpserver.RouteRegistrar) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	for _, registrar := range registrars {
		registrar.RegisterRoutes(mux)
	}
	return mux
}

// serve starts an HTTP server for the handler on a fresh loopback port and
// returns its base URL.
func (o *Orchestrator) serve(handler http.Handler) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			o.log.Error("Orchestrated server failed", "err", err)
		}
	}()

	o.servers = append(o.servers, server)
	return "http://" + listener.Addr().String(), nil
}

// Shutdown stops every server the orchestrator started.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	for _, server := range o.servers {
		if err := server.Shutdown(ctx); err != nil {
			o.log.Error("Shutdown failed", "err", err)
		}
	}
	o.servers = nil
}
