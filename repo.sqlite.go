package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// bookRecord is the sqlite row shape of a lending record. It mirrors the
// books table: autoincremented id plus a created_at timestamp tracked
// separately from the borrowed date.
type bookRecord struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Title        string `gorm:"column:title;not null"`
	Author       string `gorm:"column:author;not null"`
	DueDate      string `gorm:"column:due_date;not null"`
	BorrowedDate string `gorm:"column:borrowed_date"`
	CreatedAt    string `gorm:"column:created_at"`
}

func (bookRecord) TableName() string {
	return "books"
}

func (rec bookRecord) toBook() Book {
	return Book{
		ID:           rec.ID,
		Title:        rec.Title,
		Author:       rec.Author,
		DueDate:      rec.DueDate,
		BorrowedDate: rec.BorrowedDate,
		CreatedAt:    rec.CreatedAt,
	}
}

func toBookRecord(book Book) bookRecord {
	return bookRecord{
		ID:           book.ID,
		Title:        book.Title,
		Author:       book.Author,
		DueDate:      book.DueDate,
		BorrowedDate: book.BorrowedDate,
		CreatedAt:    book.CreatedAt,
	}
}

type sqliteBookStorage struct {
	logger *zap.Logger
	clock  Clocker
	db     *gorm.DB
}

// GetSQLiteClient opens the database file and migrates the books table.
func GetSQLiteClient(config *Config) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(config.SQLite.FilePath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create the database folder: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(config.SQLite.FilePath), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}
	if err = db.AutoMigrate(&bookRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate the books table: %w", err)
	}
	return db, nil
}

// NewSQLiteBookStorage provides an instance of sqlite-based book storage.
func NewSQLiteBookStorage(logger *zap.Logger, clock Clocker, db *gorm.DB) *sqliteBookStorage {
	return &sqliteBookStorage{
		logger: logger,
		clock:  clock,
		db:     db,
	}
}

// Close shuts down the sqlite-based book storage.
func (ss *sqliteBookStorage) Close() error {
	sqlDB, err := ss.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add inserts a new book record. The id comes back from the
// autoincremented primary key.
func (ss *sqliteBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	rec := toBookRecord(book)
	rec.ID = 0
	if err := ss.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return Book{}, err
	}
	return rec.toBook(), nil
}

// GetOne retrieves a book record based on its ID.
func (ss *sqliteBookStorage) GetOne(ctx context.Context, id int64) (Book, error) {
	var rec bookRecord
	err := ss.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return rec.toBook(), nil
}

// Delete removes a book record based on its ID. A delete which touches
// no row reports ErrBookNotFound.
func (ss *sqliteBookStorage) Delete(ctx context.Context, id int64) error {
	tx := ss.db.WithContext(ctx).Delete(&bookRecord{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetAll retrieves a list of all books stored in the database.
func (ss *sqliteBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	var recs []bookRecord
	if err := ss.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	books := make([]Book, 0, len(recs))
	for _, rec := range recs {
		books = append(books, rec.toBook())
	}
	return books, nil
}

// Statistics derives the aggregate counters with a single query. The
// date-only comparison happens in SQL against the clock's current date
// so total, overdue and on-time always agree.
func (ss *sqliteBookStorage) Statistics(ctx context.Context) (LendingStats, error) {
	var row struct {
		Total   int64
		Overdue int64
	}
	today := ss.clock.Now().Format(DueDateLayout)
	err := ss.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN date(due_date) < date(?) THEN 1 ELSE 0 END), 0) AS overdue
		FROM books`, today).Scan(&row).Error
	if err != nil {
		return LendingStats{}, err
	}
	return LendingStats{
		Total:   row.Total,
		Overdue: row.Overdue,
		OnTime:  row.Total - row.Overdue,
	}, nil
}
