// Command demo runs a complete anonymized round in one process. It starts a
// pollmaker and one voter service per vote on loopback HTTP, drives the box
// through the chain, and prints the published outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ribnys/hoon-quadratic-voting/cmd/common"
	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/services"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

const (
	defaultOptions = "red,blue,green,purple,orange"
	defaultVotes   = "blue=1,green=4,purple=9;" +
		"red=2,blue=1,green=4,purple=3,orange=8;" +
		"red=9,blue=1,purple=1,orange=4"
)

func main() {
	var (
		options  = flag.String("options", defaultOptions, "poll options, comma-separated name[:description] entries")
		voteSpec = flag.String("votes", defaultVotes, "votes, semicolon-separated option=count lists, one per voter")
		budget   = flag.Int64("budget", voting.DefaultCreditBudget, "per-voter credit budget")
		slots    = flag.Int("slots", protocol.DefaultSlotCount, "ballot box slot count")
		debug    = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log := common.NewLogger(*debug, false)

	poll, err := common.ParsePoll(*options)
	if err != nil {
		log.Error("Invalid --options", "err", err)
		os.Exit(1)
	}
	votes, err := common.ParseVotes(*voteSpec)
	if err != nil {
		log.Error("Invalid --votes", "err", err)
		os.Exit(1)
	}

	cfg := protocol.Config{
		SlotCount: *slots,
		Rules:     voting.Rules{CreditBudget: *budget},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	outcome, err := services.NewOrchestrator(log).RunRound(ctx, cfg, poll, votes)
	if err != nil {
		log.Error("Round failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Round complete in %s with %d ballots\n", time.Since(start).Round(time.Millisecond), len(outcome.Signatures))
	fmt.Println("Result:")
	for _, opt := range poll.Options() {
		fmt.Printf("  %-12s %d\n", opt.Option, outcome.Result[opt.Option])
	}
	fmt.Println("Published signatures:")
	for _, sig := range outcome.Signatures {
		fmt.Printf("  %x\n", sig)
	}
}
