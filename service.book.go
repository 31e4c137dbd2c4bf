package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LibraryServiceProvider is the orchestration layer between user actions,
// validation, the storage and the rendering.
type LibraryServiceProvider interface {
	Add(ctx context.Context, title, author, dueDate string) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	GetOne(ctx context.Context, id int64) (Book, error)
	Delete(ctx context.Context, id int64) (Book, error)
	Return(ctx context.Context, id int64) (bool, error)
	Statistics(ctx context.Context) (LendingStats, error)
	Refresh(ctx context.Context) error
	Cached() []Book
}

// LibraryService owns an in-memory copy of the collection which acts as
// a read cache of the storage. The cache is replaced wholesale after
// every successful mutation, never merged incrementally, and is left
// untouched when a storage call fails.
type LibraryService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	storage BookStorage
	queue   Queuer
	mu      sync.RWMutex
	books   []Book
}

func NewLibraryService(logger *zap.Logger, config *Config, clock Clocker, storage BookStorage, queue Queuer) *LibraryService {
	return &LibraryService{
		logger:  logger,
		config:  config,
		clock:   clock,
		storage: storage,
		queue:   queue,
		books:   []Book{},
	}
}

// Add validates the user input then persists a new lending record. On
// validation failure nothing is mutated and the typed error carries the
// exact user-facing message. On success the cached collection is
// refreshed from the storage and the full stored record returned.
func (ls *LibraryService) Add(ctx context.Context, title, author, dueDate string) (Book, error) {
	now := ls.clock.Now()
	if err := ValidateBookRequest(title, author, dueDate, now); err != nil {
		return Book{}, err
	}

	book := Book{
		Title:        strings.TrimSpace(title),
		Author:       strings.TrimSpace(author),
		DueDate:      strings.TrimSpace(dueDate),
		BorrowedDate: now.UTC().Format(time.RFC3339),
		CreatedAt:    now.UTC().Format(time.RFC3339),
	}

	created, err := ls.storage.Add(ctx, book)
	if err != nil {
		return Book{}, err
	}

	if err = ls.queue.Push(ctx, BorrowQueue, LendingEvent{Action: "borrowed", Book: created, At: book.BorrowedDate}); err != nil {
		ls.logger.Error("service: failed to push event to queue", zap.String("qid", BorrowQueue), zap.Error(err))
	}

	if err = ls.Refresh(ctx); err != nil {
		ls.logger.Error("service: failed to refresh books after create", zap.Error(err))
	}
	return created, nil
}

// GetAll pulls the full collection from the storage and replaces the
// cached copy on success.
func (ls *LibraryService) GetAll(ctx context.Context) ([]Book, error) {
	books, err := ls.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	ls.books = books
	ls.mu.Unlock()
	return books, nil
}

func (ls *LibraryService) GetOne(ctx context.Context, id int64) (Book, error) {
	return ls.storage.GetOne(ctx, id)
}

// Delete removes the record with the given id and refreshes the cached
// collection. It returns the removed record so callers can echo it.
func (ls *LibraryService) Delete(ctx context.Context, id int64) (Book, error) {
	book, err := ls.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if err = ls.storage.Delete(ctx, id); err != nil {
		return Book{}, err
	}

	if err = ls.queue.Push(ctx, ReturnQueue, LendingEvent{Action: "returned", Book: book, At: ls.clock.Now().UTC().Format(time.RFC3339)}); err != nil {
		ls.logger.Error("service: failed to push event to queue", zap.String("qid", ReturnQueue), zap.Error(err))
	}

	if err = ls.Refresh(ctx); err != nil {
		ls.logger.Error("service: failed to refresh books after delete", zap.Error(err))
	}
	return book, nil
}

// Return handles an interactive return. When the id is not part of the
// cached collection the call is a no-op reporting false, so the caller
// skips any confirmation or deletion. Otherwise it behaves like Delete.
func (ls *LibraryService) Return(ctx context.Context, id int64) (bool, error) {
	ls.mu.RLock()
	known := false
	for _, book := range ls.books {
		if book.ID == id {
			known = true
			break
		}
	}
	ls.mu.RUnlock()

	if !known {
		return false, nil
	}
	_, err := ls.Delete(ctx, id)
	return true, err
}

func (ls *LibraryService) Statistics(ctx context.Context) (LendingStats, error) {
	return ls.storage.Statistics(ctx)
}

// Refresh re-pulls the whole collection from the storage.
func (ls *LibraryService) Refresh(ctx context.Context) error {
	_, err := ls.GetAll(ctx)
	return err
}

// Cached returns a copy of the in-memory collection.
func (ls *LibraryService) Cached() []Book {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	books := make([]Book, len(ls.books))
	copy(books, ls.books)
	return books
}
