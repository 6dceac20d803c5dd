package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
)

// PostgresStore implements OutcomeStore with PostgreSQL persistence, for
// pollmakers that publish outcomes beyond the lifetime of the process.
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString returns the PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

// NewPostgresStore opens a PostgreSQL-backed outcome store and runs its
// migration.
func NewPostgresStore(config *PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(ctx); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS round_outcomes (
			round_id   TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// SaveOutcome stores the published artifact of a completed round. Outcomes
// are immutable; saving twice for the same round is rejected.
func (s *PostgresStore) SaveOutcome(ctx context.Context, roundID RoundID, outcome *protocol.Outcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encoding outcome: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO round_outcomes (round_id, payload) VALUES ($1, $2)`,
		roundID.String(), payload)
	if err != nil {
		return fmt.Errorf("inserting outcome: %w", err)
	}
	return nil
}

// Outcome returns a previously published outcome.
func (s *PostgresStore) Outcome(ctx context.Context, roundID RoundID) (*protocol.Outcome, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM round_outcomes WHERE round_id = $1`,
		roundID.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOutcomeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying outcome: %w", err)
	}

	var outcome protocol.Outcome
	if err := json.Unmarshal(payload, &outcome); err != nil {
		return nil, fmt.Errorf("decoding outcome: %w", err)
	}
	return &outcome, nil
}

// Close releases the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
