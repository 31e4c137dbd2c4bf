package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Predefined Queue IDs, one per lending action.
const (
	BorrowQueue = "lending.borrowed"
	ReturnQueue = "lending.returned"
)

// LendingEvent describes one mutation of the collection, queued for the
// journal consumer.
type LendingEvent struct {
	Action string `json:"action"`
	Book   Book   `json:"book"`
	At     string `json:"at"`
}

// Ensure implementations satisfy Queuer.
var (
	_ Queuer = (*redisQueue)(nil)
	_ Queuer = (*noQueue)(nil)
)

// Queuer describes a queue of lending events.
type Queuer interface {
	Push(ctx context.Context, qid string, event LendingEvent) error
	Pop(ctx context.Context, qids ...string) (string, LendingEvent, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues a lending event onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, event LendingEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, eventBytes).Err()
}

// Pop returns the first dequeued event from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, LendingEvent, error) {
	var event LendingEvent
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, event, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &event); err != nil {
		return qid, event, err
	}
	qid = infos[0]
	return qid, event, nil
}

// noQueue discards every event. It backs the service when the lending
// journal is disabled.
type noQueue struct{}

func NewNoQueue() Queuer {
	return &noQueue{}
}

func (q *noQueue) Push(_ context.Context, _ string, _ LendingEvent) error {
	return nil
}

func (q *noQueue) Pop(_ context.Context, _ ...string) (string, LendingEvent, error) {
	return "", LendingEvent{}, errors.New("lending journal queue is disabled")
}
