// Command voter runs one voting party. It waits for the ballot box on
// POST /turn, casts its configured vote, submits its mask key directly to
// the pollmaker, and forwards the box to the next party in the chain, or
// back to the pollmaker if this party is last.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ribnys/hoon-quadratic-voting/api/httpserver"
	"github.com/ribnys/hoon-quadratic-voting/cmd/common"
	"github.com/ribnys/hoon-quadratic-voting/services"
)

func main() {
	var (
		addr         = flag.String("addr", ":8091", "HTTP listen address")
		name         = flag.String("name", "voter", "voter name, for logs only")
		pollmakerURL = flag.String("pollmaker", "", "pollmaker base URL")
		nextURL      = flag.String("next", "", "next party base URL (empty if this party is last)")
		voteSpec     = flag.String("vote", "", "vote to cast, comma-separated option=count pairs")
		auditPath    = flag.String("audit-db", "", "path for the local receipt archive (optional)")
		debug        = flag.Bool("debug", false, "enable debug logging")
		jsonLog      = flag.Bool("json-log", false, "log as JSON")
	)
	flag.Parse()

	log := common.NewLogger(*debug, *jsonLog)

	vote, err := common.ParseVote(*voteSpec)
	if err != nil {
		log.Error("Invalid --vote", "err", err)
		os.Exit(1)
	}

	var audit *services.AuditStore
	if *auditPath != "" {
		audit, err = services.OpenAuditStore(*auditPath)
		if err != nil {
			log.Error("Audit store setup failed", "err", err)
			os.Exit(1)
		}
		defer audit.Close()
	}

	service, err := services.NewVoterService(services.VoterConfig{
		Name:         *name,
		Vote:         vote,
		PollmakerURL: *pollmakerURL,
		NextURL:      *nextURL,
		Audit:        audit,
	}, log)
	if err != nil {
		log.Error("Voter setup failed", "err", err)
		os.Exit(1)
	}

	srv, err := httpserver.New(&httpserver.Config{
		ListenAddr:               *addr,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              30 * time.Second,
		WriteTimeout:             60 * time.Second,
	}, service)
	if err != nil {
		log.Error("Server setup failed", "err", err)
		os.Exit(1)
	}

	srv.RunInBackground()
	log.Info("Voter running", "name", *name, "addr", *addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")
	srv.Shutdown()
}
