package testutil

import (
	"fmt"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// TestConfigOption customizes a protocol config for a test.
type TestConfigOption func(*protocol.Config)

// WithSlotCount sets the VoteHolder length.
func WithSlotCount(n int) TestConfigOption {
	return func(cfg *protocol.Config) {
		cfg.SlotCount = n
	}
}

// WithCreditBudget sets the per-voter credit budget.
func WithCreditBudget(budget int64) TestConfigOption {
	return func(cfg *protocol.Config) {
		cfg.Rules.CreditBudget = budget
	}
}

// NewTestConfig returns a protocol config sized for fast tests. The default
// slot count is far below production but large enough that random collisions
// stay rare for a handful of voters.
func NewTestConfig(options ...TestConfigOption) protocol.Config {
	cfg := protocol.Config{
		SlotCount: 1000,
		Rules:     voting.DefaultRules(),
	}
	for _, option := range options {
		option(&cfg)
	}
	return cfg
}

// SamplePoll returns the five-option color poll used across tests.
func SamplePoll() *voting.Poll {
	poll, err := voting.NewPoll([]voting.PollOption{
		{Option: "red", Description: "the color red"},
		{Option: "blue", Description: "the color blue"},
		{Option: "green", Description: "the color green"},
		{Option: "purple", Description: "the color purple"},
		{Option: "orange", Description: "the color orange"},
	})
	if err != nil {
		panic(fmt.Sprintf("sample poll: %v", err))
	}
	return poll
}

// SampleVotes returns three valid votes over SamplePoll.
func SampleVotes() []voting.Vote {
	return []voting.Vote{
		{"blue": 1, "green": 4, "purple": 9},
		{"red": 2, "blue": 1, "green": 4, "purple": 3, "orange": 8},
		{"red": 9, "blue": 1, "purple": 1, "orange": 4},
	}
}

// SampleResult returns the expected tally of SampleVotes over SamplePoll.
func SampleResult() voting.Result {
	return voting.Result{
		"red":    11,
		"blue":   3,
		"green":  8,
		"purple": 13,
		"orange": 12,
	}
}

// NewTestPoll builds a poll from bare option names.
func NewTestPoll(options ...voting.Option) *voting.Poll {
	pollOptions := make([]voting.PollOption, len(options))
	for i, opt := range options {
		pollOptions[i] = voting.PollOption{Option: opt, Description: string(opt)}
	}
	poll, err := voting.NewPoll(pollOptions)
	if err != nil {
		panic(fmt.Sprintf("test poll: %v", err))
	}
	return poll
}
