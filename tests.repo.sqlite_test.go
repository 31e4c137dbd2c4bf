package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestSQLiteStore returns a sqlite store backed by a temporary database file.
func newTestSQLiteStore(t *testing.T) *sqliteBookStorage {
	t.Helper()
	testConfig := &Config{
		SQLite: SQLiteConfig{
			FilePath: filepath.Join(t.TempDir(), "books.db"),
		},
	}
	db, err := GetSQLiteClient(testConfig)
	require.NoError(t, err, "failed in creating a test sqlite store")
	return NewSQLiteBookStorage(zap.NewNop(), NewMockClocker(), db)
}

// TestSQLiteStore covers the full lifecycle against a real database file.
func TestSQLiteStore(t *testing.T) {
	ss := newTestSQLiteStore(t)
	defer ss.Close()
	ctx := context.Background()

	testBook := Book{
		Title:        "SQLite test book title",
		Author:       "Alan Donovan",
		DueDate:      "2023-07-10",
		BorrowedDate: "2023-07-02T00:00:00Z",
		CreatedAt:    "2023-07-02T00:00:00Z",
	}

	var createdID int64

	t.Run("Add Book", func(t *testing.T) {
		// ensures we can insert new book record with a generated id.
		created, err := ss.Add(ctx, testBook)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		createdID = created.ID
	})

	t.Run("Get Existent Book", func(t *testing.T) {
		// ensures we can fetch specific book.
		book, err := ss.GetOne(ctx, createdID)
		assert.NoError(t, err)
		assert.Equal(t, testBook.Title, book.Title)
		assert.Equal(t, testBook.Author, book.Author)
		assert.Equal(t, testBook.DueDate, book.DueDate)
		assert.Equal(t, testBook.BorrowedDate, book.BorrowedDate)
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		// ensures fetching non-existent book fails.
		book, err := ss.GetOne(ctx, 99)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Delete Existent Book", func(t *testing.T) {
		// ensures deleting existent book succeed.
		err := ss.Delete(ctx, createdID)
		assert.NoError(t, err)
		book, err := ss.GetOne(ctx, createdID)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Delete NonExistent Book", func(t *testing.T) {
		// ensures deleting non existent book returns an error.
		err := ss.Delete(ctx, createdID)
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("Ids Never Reused", func(t *testing.T) {
		// ensures the autoincrement keeps growing after a delete.
		created, err := ss.Add(ctx, testBook)
		assert.NoError(t, err)
		assert.Greater(t, created.ID, createdID)
	})

	t.Run("Get All Books", func(t *testing.T) {
		// ensures we get exact number of stored books.
		_, err := ss.Add(ctx, Book{Title: "Another", Author: "B", DueDate: "2023-08-01"})
		assert.NoError(t, err)
		books, err := ss.GetAll(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(books))
	})
}

// TestSQLiteStore_Statistics ensures the counters derive from a date-only
// comparison against the clock date.
func TestSQLiteStore_Statistics(t *testing.T) {
	ss := newTestSQLiteStore(t)
	defer ss.Close()
	ctx := context.Background()

	_, err := ss.Add(ctx, Book{Title: "Overdue", Author: "A", DueDate: "2023-07-01"})
	assert.NoError(t, err)
	_, err = ss.Add(ctx, Book{Title: "Due today", Author: "B", DueDate: "2023-07-02"})
	assert.NoError(t, err)
	_, err = ss.Add(ctx, Book{Title: "Due later", Author: "C", DueDate: "2023-08-01"})
	assert.NoError(t, err)

	stats, err := ss.Statistics(ctx)
	assert.NoError(t, err)
	assert.Equal(t, LendingStats{Total: 3, Overdue: 1, OnTime: 2}, stats)
}

// TestSQLiteStore_Empty ensures listing and counting an empty table works.
func TestSQLiteStore_Empty(t *testing.T) {
	ss := newTestSQLiteStore(t)
	defer ss.Close()
	ctx := context.Background()

	books, err := ss.GetAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, books)

	stats, err := ss.Statistics(ctx)
	assert.NoError(t, err)
	assert.Equal(t, LendingStats{}, stats)
}
