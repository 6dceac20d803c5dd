package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPollmaker(t *testing.T) (*PollmakerService, *httptest.Server) {
	t.Helper()
	pm, err := NewPollmakerService(testutil.NewTestConfig(), testutil.SamplePoll(), NewMemoryStore(), discardLogger())
	require.NoError(t, err)

	router := chi.NewRouter()
	pm.RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return pm, server
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPollmakerRoundEndpoints(t *testing.T) {
	pm, server := newTestPollmaker(t)

	var info RoundInfo
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/round", &info))
	assert.Equal(t, pm.RoundID(), info.RoundID)
	assert.Equal(t, 1000, info.Config.SlotCount)
	assert.Equal(t, 5, info.Poll.Len())
	assert.Zero(t, info.Voters)

	var cfg protocol.Config
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/round/config", &cfg))
	assert.Equal(t, info.Config, cfg)

	// Nothing published yet.
	assert.Equal(t, http.StatusNotFound, getJSON(t, server.URL+"/round/outcome", nil))

	// The initial poll hands off exactly once.
	var turn TurnRequest
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/round/poll", &turn))
	assert.Equal(t, pm.RoundID(), turn.RoundID)
	assert.Len(t, turn.Poll.Box.Holder, cfg.SlotCount)
	assert.Empty(t, turn.Poll.Box.Signatures)
	assert.Equal(t, http.StatusConflict, getJSON(t, server.URL+"/round/poll", nil))
}

func TestPollmakerRejectsForeignRoundKey(t *testing.T) {
	_, server := newTestPollmaker(t)

	var receipt *protocol.CastReceipt
	{
		cfg := testutil.NewTestConfig()
		initial, _, err := protocol.Start(cfg, testutil.SamplePoll())
		require.NoError(t, err)
		_, receipt, err = protocol.Cast(cfg, initial, testutil.SampleVotes()[0])
		require.NoError(t, err)
	}

	submission := &KeySubmission{RoundID: NewRoundID(), Key: receipt.Key}
	err := postJSON(context.Background(), http.DefaultClient, server.URL+"/round/keys", submission)
	assert.ErrorContains(t, err, "404")
}

func TestPollmakerTallyNeedsBallotBox(t *testing.T) {
	pm, server := newTestPollmaker(t)

	resp, err := http.Post(server.URL+"/round/tally", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	_, err = pm.Tally(context.Background())
	assert.ErrorContains(t, err, "ballot box")
}

func TestVoterTakesTurnAgainstPollmaker(t *testing.T) {
	pm, server := newTestPollmaker(t)

	voter, err := NewVoterService(VoterConfig{
		Name:         "alice",
		Vote:         testutil.SampleVotes()[0],
		PollmakerURL: server.URL,
	}, discardLogger())
	require.NoError(t, err)

	initial, err := pm.HandoffPoll()
	require.NoError(t, err)
	turn := &TurnRequest{RoundID: pm.RoundID(), Poll: initial}

	next, err := voter.TakeTurn(context.Background(), turn)
	require.NoError(t, err)
	assert.Len(t, next.Poll.Box.Signatures, 1)
	assert.Len(t, next.Poll.Box.Insurances, 1)

	// The mask key arrived at the pollmaker on its own request.
	var info RoundInfo
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/round", &info))
	assert.Equal(t, 1, info.Voters)

	// One turn per party.
	_, err = voter.TakeTurn(context.Background(), turn)
	assert.ErrorContains(t, err, "already cast")
}

func TestVoterRejectsTurnWithoutPoll(t *testing.T) {
	pm, server := newTestPollmaker(t)

	voter, err := NewVoterService(VoterConfig{
		Name:         "carol",
		Vote:         testutil.SampleVotes()[0],
		PollmakerURL: server.URL,
	}, discardLogger())
	require.NoError(t, err)

	// A turn body with a missing or null poll must be rejected, not cast.
	_, err = voter.TakeTurn(context.Background(), &TurnRequest{RoundID: pm.RoundID()})
	assert.ErrorContains(t, err, "rejecting turn")

	_, err = voter.TakeTurn(context.Background(), &TurnRequest{
		RoundID: pm.RoundID(),
		Poll:    &protocol.AnonymizingPoll{Poll: testutil.SamplePoll()},
	})
	assert.ErrorContains(t, err, "rejecting turn")

	// The rejected turns must not have consumed the voter's single cast.
	initial, err := pm.HandoffPoll()
	require.NoError(t, err)
	_, err = voter.TakeTurn(context.Background(), &TurnRequest{RoundID: pm.RoundID(), Poll: initial})
	require.NoError(t, err)
}

func TestPollmakerRejectsMalformedBox(t *testing.T) {
	pm, _ := newTestPollmaker(t)

	initial, err := pm.HandoffPoll()
	require.NoError(t, err)

	nulled := initial.Clone()
	nulled.Box.Holder[0] = nil
	assert.ErrorContains(t, pm.ReceiveBox(nulled), "malformed ballot box")
	assert.ErrorContains(t, pm.ReceiveBox(nil), "malformed ballot box")
	assert.ErrorContains(t, pm.ReceiveBox(&protocol.AnonymizingPoll{Poll: initial.Poll}), "malformed ballot box")

	truncated := initial.Clone()
	truncated.Box.Holder = truncated.Box.Holder[:10]
	assert.ErrorContains(t, pm.ReceiveBox(truncated), "slots")

	// Rejected boxes must not occupy the round: the genuine box still lands,
	// and tallying it does not panic.
	final, receipt, err := protocol.Cast(testutil.NewTestConfig(), initial, testutil.SampleVotes()[0])
	require.NoError(t, err)
	require.NoError(t, pm.SubmitKey(receipt.Key))
	require.NoError(t, pm.ReceiveBox(final))

	outcome, err := pm.Tally(context.Background())
	require.NoError(t, err)
	assert.Len(t, outcome.Signatures, 1)
}

type panickyRegistrar struct{}

func (panickyRegistrar) RegisterRoutes(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func TestOrchestratorRouterRecoversFromPanics(t *testing.T) {
	server := httptest.NewServer(newRouter(panickyRegistrar{}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/boom")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestVoterRejectsForeignRoundTurn(t *testing.T) {
	pm, server := newTestPollmaker(t)

	voter, err := NewVoterService(VoterConfig{
		Name:         "bob",
		Vote:         testutil.SampleVotes()[1],
		PollmakerURL: server.URL,
	}, discardLogger())
	require.NoError(t, err)

	initial, err := pm.HandoffPoll()
	require.NoError(t, err)

	_, err = voter.TakeTurn(context.Background(), &TurnRequest{RoundID: NewRoundID(), Poll: initial})
	assert.Error(t, err)
}

func TestOrchestratedRoundOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("full round over loopback HTTP")
	}

	cfg := testutil.NewTestConfig(testutil.WithSlotCount(protocol.DefaultSlotCount))
	orchestrator := NewOrchestrator(discardLogger())

	outcome, err := orchestrator.RunRound(context.Background(), cfg, testutil.SamplePoll(), testutil.SampleVotes())
	require.NoError(t, err)

	assert.Equal(t, testutil.SampleResult(), outcome.Result)
	assert.Len(t, outcome.Signatures, 3)
	assert.Len(t, outcome.Insurances, 3)

	seen := make(map[string]bool)
	for _, sig := range outcome.Signatures {
		seen[string(sig)] = true
	}
	assert.Len(t, seen, 3)
}
