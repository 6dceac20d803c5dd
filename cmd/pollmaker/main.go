// Command pollmaker runs the pollmaker service for one anonymized voting
// round. It seeds the masked ballot box, releases it to the first voter via
// GET /round/poll, collects mask keys on POST /round/keys, accepts the final
// box on POST /round/box, and publishes the outcome after POST /round/tally.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ribnys/hoon-quadratic-voting/api/httpserver"
	"github.com/ribnys/hoon-quadratic-voting/cmd/common"
	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/services"
	"github.com/ribnys/hoon-quadratic-voting/voting"
)

func main() {
	var (
		addr    = flag.String("addr", ":8090", "HTTP listen address")
		options = flag.String("options", "", "poll options, comma-separated name[:description] entries")
		budget  = flag.Int64("budget", voting.DefaultCreditBudget, "per-voter credit budget")
		slots   = flag.Int("slots", protocol.DefaultSlotCount, "ballot box slot count")
		debug   = flag.Bool("debug", false, "enable debug logging")
		jsonLog = flag.Bool("json-log", false, "log as JSON")

		pgHost     = flag.String("postgres-host", "", "PostgreSQL host (empty keeps outcomes in memory)")
		pgPort     = flag.Int("postgres-port", 5432, "PostgreSQL port")
		pgUser     = flag.String("postgres-user", "postgres", "PostgreSQL user")
		pgPassword = flag.String("postgres-password", "", "PostgreSQL password")
		pgDatabase = flag.String("postgres-db", "voting", "PostgreSQL database")
	)
	flag.Parse()

	log := common.NewLogger(*debug, *jsonLog)

	poll, err := common.ParsePoll(*options)
	if err != nil {
		log.Error("Invalid --options", "err", err)
		os.Exit(1)
	}

	var store services.OutcomeStore = services.NewMemoryStore()
	if *pgHost != "" {
		pgStore, err := services.NewPostgresStore(&services.PostgresConfig{
			Host:     *pgHost,
			Port:     *pgPort,
			User:     *pgUser,
			Password: *pgPassword,
			Database: *pgDatabase,
		})
		if err != nil {
			log.Error("PostgreSQL setup failed", "err", err)
			os.Exit(1)
		}
		defer pgStore.Close()
		store = pgStore
	}

	cfg := protocol.Config{
		SlotCount: *slots,
		Rules:     voting.Rules{CreditBudget: *budget},
	}
	service, err := services.NewPollmakerService(cfg, poll, store, log)
	if err != nil {
		log.Error("Pollmaker setup failed", "err", err)
		os.Exit(1)
	}

	srv, err := httpserver.New(&httpserver.Config{
		ListenAddr:               *addr,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              30 * time.Second,
		WriteTimeout:             30 * time.Second,
	}, service)
	if err != nil {
		log.Error("Server setup failed", "err", err)
		os.Exit(1)
	}

	srv.RunInBackground()
	log.Info("Pollmaker running", "roundID", service.RoundID(), "addr", *addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")
	srv.Shutdown()
}
