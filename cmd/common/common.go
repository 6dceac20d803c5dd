// Package common provides shared helpers for the voting CLI commands:
// logger construction and parsing of poll and vote flag values.
package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ribnys/hoon-quadratic-voting/voting"
)

// NewLogger builds the process logger. JSON output is meant for production,
// text for local runs.
func NewLogger(debug, json bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// ParsePoll parses a comma-separated option list into a poll. Each entry is
// either "name" or "name:description".
//
//	red,blue:the color blue,green
func ParsePoll(s string) (*voting.Poll, error) {
	if s == "" {
		return nil, fmt.Errorf("no poll options given")
	}

	var options []voting.PollOption
	for _, entry := range strings.Split(s, ",") {
		name, description, _ := strings.Cut(strings.TrimSpace(entry), ":")
		if name == "" {
			return nil, fmt.Errorf("empty option in %q", s)
		}
		options = append(options, voting.PollOption{
			Option:      voting.Option(name),
			Description: description,
		})
	}
	return voting.NewPoll(options)
}

// ParseVote parses a comma-separated list of "option=count" pairs.
//
//	blue=1,green=4,purple=9
func ParseVote(s string) (voting.Vote, error) {
	if s == "" {
		return nil, fmt.Errorf("no vote given")
	}

	vote := make(voting.Vote)
	for _, entry := range strings.Split(s, ",") {
		name, countStr, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed vote entry %q", entry)
		}
		count, err := strconv.ParseInt(countStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed count in %q: %w", entry, err)
		}
		vote[voting.Option(name)] = count
	}
	return vote, nil
}

// ParseVotes parses a semicolon-separated list of votes, one per voter.
//
//	blue=1,green=4;red=2,orange=8
func ParseVotes(s string) ([]voting.Vote, error) {
	var votes []voting.Vote
	for _, entry := range strings.Split(s, ";") {
		vote, err := ParseVote(entry)
		if err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}
	return votes, nil
}
