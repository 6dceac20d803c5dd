package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// VoterConfig configures a single voting party.
type VoterConfig struct {
	// Name identifies the voter in logs only. It never reaches the wire.
	Name string

	// Vote is the ballot this party will cast when its turn arrives.
	Vote voting.Vote

	// PollmakerURL is the base URL of the pollmaker service. Mask keys are
	// submitted there, on a request disjoint from the poll handoff.
	PollmakerURL string

	// NextURL is the base URL of the next party in the chain. Empty means
	// this voter is last and returns the ballot box to the pollmaker.
	NextURL string

	// Audit, if set, archives the cast receipt for later disclosure.
	Audit *AuditStore
}

// VoterService is one party in the sequential anonymization chain. It waits
// for the poll to arrive on /turn, casts its vote, submits its mask key to
// the pollmaker, and passes the poll along.
type VoterService struct {
	cfg        VoterConfig
	httpClient *http.Client
	log        *slog.Logger

	mu   sync.Mutex
	cast bool
}

// NewVoterService creates a voting party from its configuration.
func NewVoterService(cfg VoterConfig, log *slog.Logger) (*VoterService, error) {
	if cfg.PollmakerURL == "" {
		return nil, errors.New("pollmaker URL is required")
	}
	if len(cfg.Vote) == 0 {
		return nil, errors.New("vote is required")
	}
	return &VoterService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With("voter", cfg.Name),
	}, nil
}

// RegisterRoutes registers the voter's HTTP endpoints.
func (v *VoterService) RegisterRoutes(r chi.Router) {
	r.Post("/turn", v.handleTurn)
	r.Get("/status", v.handleStatus)
}

// TakeTurn casts this party's vote into the received poll and submits the
// mask key to the pollmaker. It returns the updated poll for the next party.
// A party casts at most once per process lifetime.
func (v *VoterService) TakeTurn(ctx context.Context, turn *TurnRequest) (*TurnRequest, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cast {
		return nil, errors.New("already cast in this round")
	}
	if err := turn.Poll.Validate(); err != nil {
		return nil, fmt.Errorf("rejecting turn: %w", err)
	}

	info, err := v.fetchRoundInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching round info: %w", err)
	}
	if info.RoundID != turn.RoundID {
		return nil, fmt.Errorf("turn is for round %s, pollmaker serves %s", turn.RoundID, info.RoundID)
	}

	next, receipt, err := protocol.Cast(info.Config, turn.Poll, v.cfg.Vote)
	if err != nil {
		return nil, fmt.Errorf("casting vote: %w", err)
	}

	if v.cfg.Audit != nil {
		if err := v.cfg.Audit.SaveReceipt(turn.RoundID, receipt); err != nil {
			return nil, fmt.Errorf("archiving receipt: %w", err)
		}
	}

	// The key travels to the pollmaker directly, never with the poll.
	submission := &KeySubmission{RoundID: turn.RoundID, Key: receipt.Key}
	if err := postJSON(ctx, v.httpClient, v.cfg.PollmakerURL+"/round/keys", submission); err != nil {
		return nil, fmt.Errorf("submitting mask key: %w", err)
	}

	v.cast = true
	v.log.Info("Vote cast", "roundID", turn.RoundID, "cost", v.cfg.Vote.Cost())

	return &TurnRequest{RoundID: turn.RoundID, Poll: next}, nil
}

// Forward passes the poll to the next party, or back to the pollmaker if
// this voter is last in the chain.
func (v *VoterService) Forward(ctx context.Context, turn *TurnRequest) error {
	target := v.cfg.PollmakerURL + "/round/box"
	if v.cfg.NextURL != "" {
		target = v.cfg.NextURL + "/turn"
	}
	if err := postJSON(ctx, v.httpClient, target, turn); err != nil {
		return fmt.Errorf("forwarding poll: %w", err)
	}
	v.log.Info("Poll forwarded", "target", target)
	return nil
}

func (v *VoterService) handleTurn(w http.ResponseWriter, r *http.Request) {
	var turn TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	next, err := v.TakeTurn(r.Context(), &turn)
	if err != nil {
		v.log.Error("Turn failed", "err", err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	if err := v.Forward(r.Context(), next); err != nil {
		v.log.Error("Forward failed", "err", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, &StatusResponse{Success: true})
}

func (v *VoterService) handleStatus(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	cast := v.cast
	v.mu.Unlock()
	writeJSON(w, &StatusResponse{Success: cast})
}

func (v *VoterService) fetchRoundInfo(ctx context.Context) (*RoundInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.cfg.PollmakerURL+"/round", nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("pollmaker returned %d: %s", resp.StatusCode, body)
	}

	var info RoundInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// postJSON posts a JSON payload and treats any 4xx or 5xx as an error.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, msg)
	}
	return nil
}
