package main

import "context"

// Book represents a single lending record. A book enters the collection
// when it is borrowed and leaves it when it is returned. There is no
// update operation: records are immutable until deletion.
type Book struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	DueDate      string `json:"dueDate"`
	BorrowedDate string `json:"borrowedDate"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// LendingStats holds the aggregate counters of the collection. Overdue
// is derived from due dates at query time, never stored on the record.
type LendingStats struct {
	Total   int64 `json:"total"`
	Overdue int64 `json:"overdue"`
	OnTime  int64 `json:"onTime"`
}

// BookStorage defines possible operations on the books collection.
// Add assigns a fresh unique id and returns the stored record. Delete
// fails with ErrBookNotFound when the id does not exist, so deleting a
// missing record never succeeds silently. GetAll returns the records
// in unspecified order, sorting is a rendering concern.
type BookStorage interface {
	Add(ctx context.Context, book Book) (Book, error)
	GetOne(ctx context.Context, id int64) (Book, error)
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]Book, error)
	Statistics(ctx context.Context) (LendingStats, error)
}

// Closer is implemented by storages holding resources to release at shutdown.
type Closer interface {
	Close() error
}
