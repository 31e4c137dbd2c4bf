package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HBooks      string = "library:books"
	BooksNextID string = "library:books:next_id"
)

type redisBookStorage struct {
	logger *zap.Logger
	clock  Clocker
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, clock Clocker, client *redis.Client) *redisBookStorage {
	return &redisBookStorage{
		logger: logger,
		clock:  clock,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Add inserts a new book record. Ids come from a dedicated counter so
// they stay unique for the lifetime of the collection even after deletes.
func (rs *redisBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	id, err := rs.client.Incr(ctx, BooksNextID).Result()
	if err != nil {
		return Book{}, err
	}
	book.ID = id
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	if err = rs.client.HSet(ctx, HBooks, strconv.FormatInt(id, 10), bookBytes).Err(); err != nil {
		return Book{}, err
	}
	return book, nil
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id int64) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, strconv.FormatInt(id, 10)).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Delete removes a book record based on its ID. A removal touching no
// field reports ErrBookNotFound.
func (rs *redisBookStorage) Delete(ctx context.Context, id int64) error {
	removed, err := rs.client.HDel(ctx, HBooks, strconv.FormatInt(id, 10)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetAll retrieves a list of all books stored in the redis database.
func (rs *redisBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	mapBooks, err := rs.client.HVals(ctx, HBooks).Result()
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for _, bookJSONString := range mapBooks {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// Statistics derives the aggregate counters from the stored records.
func (rs *redisBookStorage) Statistics(ctx context.Context) (LendingStats, error) {
	books, err := rs.GetAll(ctx)
	if err != nil {
		return LendingStats{}, err
	}
	now := rs.clock.Now()
	stats := LendingStats{Total: int64(len(books))}
	for _, book := range books {
		if IsOverdueDate(book.DueDate, now) {
			stats.Overdue++
		}
	}
	stats.OnTime = stats.Total - stats.Overdue
	return stats, nil
}

// Close shuts down the redis-based book storage.
func (rs *redisBookStorage) Close() error {
	return rs.client.Close()
}
