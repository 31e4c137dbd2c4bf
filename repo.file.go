package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

type fileBookStorage struct {
	logger *zap.Logger
	clock  Clocker
	path   string
	mu     sync.RWMutex
	books  map[int64]Book
	nextID int64
}

// NewFileBookStorage provides a books storage backed by a single JSON
// file. The whole collection is loaded once at construction and the
// file is rewritten wholesale on every mutation. Ids keep growing from
// the highest value found in the file, so a given id is never reused
// within the lifetime of the collection.
func NewFileBookStorage(logger *zap.Logger, clock Clocker, path string) (*fileBookStorage, error) {
	fs := &fileBookStorage{
		logger: logger,
		clock:  clock,
		path:   path,
		books:  make(map[int64]Book),
		nextID: 1,
	}
	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("failed to load books file: %w", err)
	}
	return fs, nil
}

// load reads the persisted collection if the file exists.
func (fs *fileBookStorage) load() error {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var books []Book
	if err = json.Unmarshal(data, &books); err != nil {
		return err
	}
	for _, book := range books {
		fs.books[book.ID] = book
		if book.ID >= fs.nextID {
			fs.nextID = book.ID + 1
		}
	}
	return nil
}

// dump rewrites the full collection to disk. Caller must hold the lock.
func (fs *fileBookStorage) dump() error {
	books := make([]Book, 0, len(fs.books))
	for _, book := range fs.books {
		books = append(books, book)
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(fs.path, data, 0o644)
}

// Add inserts a new book record and persists the whole collection. When
// the dump fails the in-memory map is restored so a failed create never
// leaves a half-applied state behind.
func (fs *fileBookStorage) Add(_ context.Context, book Book) (Book, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	book.ID = fs.nextID
	fs.nextID++
	fs.books[book.ID] = book
	if err := fs.dump(); err != nil {
		delete(fs.books, book.ID)
		fs.nextID--
		return Book{}, err
	}
	return book, nil
}

// GetOne retrieves a book record based on its ID.
func (fs *fileBookStorage) GetOne(_ context.Context, id int64) (Book, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	book, ok := fs.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return book, nil
}

// Delete removes a book record based on its ID. Removing an id which
// does not exist fails with ErrBookNotFound.
func (fs *fileBookStorage) Delete(_ context.Context, id int64) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	book, ok := fs.books[id]
	if !ok {
		return ErrBookNotFound
	}
	delete(fs.books, id)
	if err := fs.dump(); err != nil {
		fs.books[id] = book
		return err
	}
	return nil
}

// GetAll retrieves a list of all books stored in the file.
func (fs *fileBookStorage) GetAll(_ context.Context) ([]Book, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	books := make([]Book, 0, len(fs.books))
	for _, book := range fs.books {
		books = append(books, book)
	}
	return books, nil
}

// Statistics derives the aggregate counters from the current collection.
func (fs *fileBookStorage) Statistics(_ context.Context) (LendingStats, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	now := fs.clock.Now()
	stats := LendingStats{Total: int64(len(fs.books))}
	for _, book := range fs.books {
		if IsOverdueDate(book.DueDate, now) {
			stats.Overdue++
		}
	}
	stats.OnTime = stats.Total - stats.Overdue
	return stats, nil
}

// Close implements Closer. The file store holds no open handle.
func (fs *fileBookStorage) Close() error {
	return nil
}
