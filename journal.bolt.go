package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// LendingJournal is an append-only record of borrow and return events.
type LendingJournal interface {
	Append(ctx context.Context, event LendingEvent) error
	List(ctx context.Context) ([]LendingEvent, error)
}

type boltLendingJournal struct {
	logger *zap.Logger
	client *bolt.DB
	config *JournalConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.Journal.FilePath, 0o600, &bolt.Options{Timeout: config.Journal.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the journal database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.Journal.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.Journal.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up journal bucket: %v", err)
	}
	return db, nil
}

// NewBoltLendingJournal provides a bolt-backed lending journal.
func NewBoltLendingJournal(logger *zap.Logger, journalConfig *JournalConfig, client *bolt.DB) *boltLendingJournal {
	return &boltLendingJournal{
		logger: logger,
		client: client,
		config: journalConfig,
	}
}

// Close shuts down the bolt-based journal.
func (bj *boltLendingJournal) Close() error {
	return bj.client.Close()
}

// Append records one lending event under the bucket monotonic sequence.
func (bj *boltLendingJournal) Append(_ context.Context, event LendingEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return bj.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bj.config.BucketName))
		seq, errS := bucket.NextSequence()
		if errS != nil {
			return errS
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bucket.Put(key, eventBytes)
	})
}

// List returns every journaled event in append order.
func (bj *boltLendingJournal) List(_ context.Context) ([]LendingEvent, error) {
	tx, err := bj.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(bj.config.BucketName)).Cursor()

	events := []LendingEvent{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var event LendingEvent
		if err = json.Unmarshal(v, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
