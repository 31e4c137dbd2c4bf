package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// journalConsumer drains the lending event queues into the journal. A
// failed append is logged and the event is dropped: journaling is best
// effort and must never block or fail a user-facing operation.
type journalConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	journal LendingJournal
}

func NewJournalConsumer(logger *zap.Logger, q Queuer, journal LendingJournal) Consumer {
	return &journalConsumer{logger, q, journal}
}

func (jc *journalConsumer) Consume(ctx context.Context, qids ...string) error {
	var event LendingEvent
	var err error
	var qid string
	for {
		qid, event, err = jc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			jc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			jc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		switch qid {
		case BorrowQueue, ReturnQueue:
			if err = jc.journal.Append(ctx, event); err != nil {
				jc.logger.Error("consumer: failed to journal event", zap.Any("event", event), zap.Error(err))
			}
		default:
			jc.logger.Warn("consumer: received event on unknown queue id", zap.String("qid", qid), zap.Any("event", event))
		}
	}
}
