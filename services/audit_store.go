package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
)

// ErrReceiptNotFound indicates no receipt is stored for a round.
var ErrReceiptNotFound = errors.New("no receipt for round")

var receiptsBucket = []byte("receipts")

// AuditStore is a voter's local receipt archive, backed by a single-file
// bbolt database. A voter who keeps their receipt can later reveal their
// vote against the published Insurance list, or prove ownership of their
// signature marker; a voter who loses it simply loses that ability.
type AuditStore struct {
	db *bolt.DB
}

// OpenAuditStore opens (or creates) a receipt archive at the given path.
func OpenAuditStore(path string) (*AuditStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening audit store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(receiptsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing audit store: %w", err)
	}

	return &AuditStore{db: db}, nil
}

// SaveReceipt stores the receipt for a round. One receipt per round: casting
// twice in one round is a protocol violation, so overwriting is refused.
func (s *AuditStore) SaveReceipt(roundID RoundID, receipt *protocol.CastReceipt) error {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(receiptsBucket)
		if bucket.Get([]byte(roundID.String())) != nil {
			return fmt.Errorf("receipt for round %s already stored", roundID)
		}
		return bucket.Put([]byte(roundID.String()), payload)
	})
}

// Receipt returns the stored receipt for a round.
func (s *AuditStore) Receipt(roundID RoundID) (*protocol.CastReceipt, error) {
	var receipt protocol.CastReceipt
	err := s.db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(receiptsBucket).Get([]byte(roundID.String()))
		if payload == nil {
			return ErrReceiptNotFound
		}
		return json.Unmarshal(payload, &receipt)
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// Rounds lists the round IDs with stored receipts.
func (s *AuditStore) Rounds() ([]RoundID, error) {
	var rounds []RoundID
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(receiptsBucket).ForEach(func(k, _ []byte) error {
			id, err := uuid.Parse(string(k))
			if err != nil {
				return err
			}
			rounds = append(rounds, id)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rounds, nil
}

// Close releases the underlying database file.
func (s *AuditStore) Close() error {
	return s.db.Close()
}
