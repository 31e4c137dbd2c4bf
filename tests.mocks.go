package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc        func(ctx context.Context, book Book) (Book, error)
	GetOneFunc     func(ctx context.Context, id int64) (Book, error)
	DeleteFunc     func(ctx context.Context, id int64) error
	GetAllFunc     func(ctx context.Context) ([]Book, error)
	StatisticsFunc func(ctx context.Context) (LendingStats, error)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	return m.AddFunc(ctx, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id int64) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// Statistics mocks the behavior of aggregating counters by the repository.
func (m *MockBookStorage) Statistics(ctx context.Context) (LendingStats, error) {
	return m.StatisticsFunc(ctx)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// MockQueue implements a fake Queuer which records pushed events.
type MockQueue struct {
	PushFunc func(ctx context.Context, qid string, event LendingEvent) error
	PopFunc  func(ctx context.Context, qids ...string) (string, LendingEvent, error)
}

// Push mocks the behavior of queueing a lending event.
func (m *MockQueue) Push(ctx context.Context, qid string, event LendingEvent) error {
	return m.PushFunc(ctx, qid, event)
}

// Pop mocks the behavior of dequeueing a lending event.
func (m *MockQueue) Pop(ctx context.Context, qids ...string) (string, LendingEvent, error) {
	return m.PopFunc(ctx, qids...)
}
