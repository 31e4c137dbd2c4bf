package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPageAPI(t *testing.T, repo *MockBookStorage) *APIHandler {
	t.Helper()
	renderer, err := NewViewRenderer(NewMockClocker())
	require.NoError(t, err)
	ls := NewLibraryService(zap.NewNop(), nil, NewMockClocker(), repo, NewNoQueue())
	return NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), nil, renderer, ls)
}

// TestHomeHandler ensures the page lists the collection sorted by due date.
func TestHomeHandler(t *testing.T) {
	mockRepo := &MockBookStorage{
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			return []Book{
				{ID: 1, Title: "Later", Author: "A", DueDate: "2023-08-01"},
				{ID: 2, Title: "Sooner", Author: "B", DueDate: "2023-07-05"},
			}, nil
		},
		StatisticsFunc: func(ctx context.Context) (LendingStats, error) {
			return LendingStats{Total: 2, OnTime: 2}, nil
		},
	}
	api := newTestPageAPI(t, mockRepo)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	api.Home(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html; charset=UTF-8", res.Header.Get("Content-Type"))
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)

	page := string(data)
	assert.Contains(t, page, "Sooner")
	assert.Contains(t, page, "Later")
	assert.Less(t, strings.Index(page, "Sooner"), strings.Index(page, "Later"))
	assert.Contains(t, page, "2 borrowed / 0 overdue / 2 on time")
}

// TestHomeHandler_StorageFailure ensures the page falls back to the
// cached collection with a visible message instead of erroring out.
func TestHomeHandler_StorageFailure(t *testing.T) {
	fail := false
	mockRepo := &MockBookStorage{
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			if fail {
				return nil, errors.New("storage failure")
			}
			return []Book{{ID: 1, Title: "Cached copy", Author: "A", DueDate: "2023-07-10"}}, nil
		},
		StatisticsFunc: func(ctx context.Context) (LendingStats, error) {
			return LendingStats{}, errors.New("storage failure")
		},
	}
	api := newTestPageAPI(t, mockRepo)

	// warm the cache then break the storage.
	require.NoError(t, api.library.Refresh(context.Background()))
	fail = true

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	api.Home(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)

	page := string(data)
	assert.Contains(t, page, "Cached copy")
	assert.Contains(t, page, "Failed to load books from the storage.")
}

// TestAddBookFormHandler ensures the borrow form follows the
// redirect-after-post flow in both outcomes.
func TestAddBookFormHandler(t *testing.T) {
	t.Run("should pass: valid submission redirects clean", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			AddFunc: func(ctx context.Context, book Book) (Book, error) {
				book.ID = 1
				return book, nil
			},
			GetAllFunc: func(ctx context.Context) ([]Book, error) {
				return []Book{}, nil
			},
		}
		api := newTestPageAPI(t, mockRepo)

		form := url.Values{"title": {"The Go Programming Language"}, "author": {"Alan Donovan"}, "dueDate": {"2023-07-10"}}
		req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		api.AddBookForm(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
	})

	t.Run("should fail: rejected input redirects with message", func(t *testing.T) {
		mockRepo := &MockBookStorage{}
		api := newTestPageAPI(t, mockRepo)

		form := url.Values{"title": {""}, "author": {"Alan Donovan"}, "dueDate": {"2023-07-10"}}
		req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		api.AddBookForm(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/?error="+url.QueryEscape("Title, author, and due date are required"), res.Header.Get("Location"))
	})

	t.Run("should fail: storage failure redirects with message", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			AddFunc: func(ctx context.Context, book Book) (Book, error) {
				return Book{}, errors.New("storage failure")
			},
		}
		api := newTestPageAPI(t, mockRepo)

		form := url.Values{"title": {"Title"}, "author": {"Alan Donovan"}, "dueDate": {"2023-07-10"}}
		req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		api.AddBookForm(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/?error="+url.QueryEscape("Failed to register the book."), res.Header.Get("Location"))
	})
}

// TestReturnBookFormHandler ensures an unknown id is a silent no-op and
// a known one removes the record before redirecting.
func TestReturnBookFormHandler(t *testing.T) {
	deleted := false
	mockRepo := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id int64) (Book, error) {
			return Book{ID: id, Title: "Known"}, nil
		},
		DeleteFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			return []Book{{ID: 5, Title: "Known"}}, nil
		},
	}
	api := newTestPageAPI(t, mockRepo)

	t.Run("unknown id is a no-op", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/books/99/return", nil)
		w := httptest.NewRecorder()
		api.ReturnBookForm(w, req, httprouter.Params{{Key: "id", Value: "99"}})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
		assert.False(t, deleted)
	})

	t.Run("malformed id is a no-op", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/books/abc/return", nil)
		w := httptest.NewRecorder()
		api.ReturnBookForm(w, req, httprouter.Params{{Key: "id", Value: "abc"}})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
		assert.False(t, deleted)
	})

	t.Run("known id is removed", func(t *testing.T) {
		require.NoError(t, api.library.Refresh(context.Background()))
		req := httptest.NewRequest(http.MethodPost, "/books/5/return", nil)
		w := httptest.NewRecorder()
		api.ReturnBookForm(w, req, httprouter.Params{{Key: "id", Value: "5"}})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
		assert.True(t, deleted)
	})
}
