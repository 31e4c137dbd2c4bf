package main

import (
	"context"
	"net"
	"reflect"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		var e error
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		e = client.Ping(context.Background()).Err()
		return e
	})

	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

func TestRedisStore(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	rs := NewRedisBookStorage(zap.NewNop(), NewMockClocker(), redis.NewClient(&redis.Options{Addr: addr}))
	testBook := Book{
		Title:        "Redis test book title",
		Author:       "Alan Donovan",
		DueDate:      "2023-07-10",
		BorrowedDate: "2023-07-02T00:00:00Z",
		CreatedAt:    "2023-07-02T00:00:00Z",
	}

	var createdID int64

	t.Run("Add Book", func(t *testing.T) {
		// ensures we can insert new book record and get a counter-based id.
		created, err := rs.Add(context.Background(), testBook)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		createdID = created.ID
		testBook.ID = created.ID
	})

	t.Run("Get Existent Book", func(t *testing.T) {
		// ensures we can fetch specific book.
		book, err := rs.GetOne(context.Background(), createdID)
		assert.NoError(t, err)
		if !reflect.DeepEqual(testBook, book) {
			t.Errorf("Got %v but Expected %v.", book, testBook)
		}
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		// ensures fetching non-existent book fails.
		book, err := rs.GetOne(context.Background(), 99)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Delete Existent Book", func(t *testing.T) {
		// ensures deleting existent book succeed.
		err := rs.Delete(context.Background(), createdID)
		assert.NoError(t, err)
		book, err := rs.GetOne(context.Background(), createdID)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Delete NonExistent Book", func(t *testing.T) {
		// ensures deleting non existent book returns an error.
		err := rs.Delete(context.Background(), createdID)
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("Ids Never Reused", func(t *testing.T) {
		// ensures the counter keeps growing after a delete.
		created, err := rs.Add(context.Background(), testBook)
		assert.NoError(t, err)
		assert.Greater(t, created.ID, createdID)
	})

	t.Run("Get All Books", func(t *testing.T) {
		// ensures we get exact number of stored books.
		_, err := rs.Add(context.Background(), testBook)
		assert.NoError(t, err)
		books, err := rs.GetAll(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 2, len(books))
	})

	t.Run("Statistics", func(t *testing.T) {
		// ensures counters derive from the clock date.
		_, err := rs.Add(context.Background(), Book{Title: "Late", Author: "A", DueDate: "2023-07-01"})
		assert.NoError(t, err)
		stats, err := rs.Statistics(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, LendingStats{Total: 3, Overdue: 1, OnTime: 2}, stats)
	})
}

// TestRedisQueue ensures lending events round-trip through the redis lists.
func TestRedisQueue(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	queue := NewRedisQueue(redis.NewClient(&redis.Options{Addr: addr}))

	event := LendingEvent{
		Action: "borrowed",
		Book:   Book{ID: 1, Title: "The Go Programming Language", Author: "Alan Donovan", DueDate: "2023-07-10"},
		At:     "2023-07-02T00:00:00Z",
	}
	assert.NoError(t, queue.Push(context.Background(), BorrowQueue, event))

	qid, got, err := queue.Pop(context.Background(), BorrowQueue, ReturnQueue)
	assert.NoError(t, err)
	assert.Equal(t, BorrowQueue, qid)
	assert.Equal(t, event, got)
}
