package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestValidateBookRequest ensures each user input check surfaces
// the exact user-facing message and in the expected order.
func TestValidateBookRequest(t *testing.T) {
	now := NewMockClocker().Now()
	testCases := []struct {
		name     string
		title    string
		author   string
		dueDate  string
		expected error
	}{
		{
			name:     "valid future date",
			title:    "The Go Programming Language",
			author:   "Alan Donovan",
			dueDate:  "2023-07-10",
			expected: nil,
		},
		{
			name:     "valid today date",
			title:    "The Go Programming Language",
			author:   "Alan Donovan",
			dueDate:  "2023-07-02",
			expected: nil,
		},
		{
			name:     "missing title",
			title:    "",
			author:   "Alan Donovan",
			dueDate:  "2023-07-10",
			expected: ErrMissingFields,
		},
		{
			name:     "whitespace only author",
			title:    "The Go Programming Language",
			author:   "   ",
			dueDate:  "2023-07-10",
			expected: ErrMissingFields,
		},
		{
			name:     "missing due date",
			title:    "The Go Programming Language",
			author:   "Alan Donovan",
			dueDate:  "",
			expected: ErrMissingFields,
		},
		{
			name:     "missing fields takes precedence over bad date",
			title:    "",
			author:   "",
			dueDate:  "not-a-date",
			expected: ErrMissingFields,
		},
		{
			name:     "unparseable due date",
			title:    "The Go Programming Language",
			author:   "Alan Donovan",
			dueDate:  "07/10/2023",
			expected: ErrInvalidDueDate,
		},
		{
			name:     "past due date",
			title:    "The Go Programming Language",
			author:   "Alan Donovan",
			dueDate:  "2023-07-01",
			expected: ErrPastDueDate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBookRequest(tc.title, tc.author, tc.dueDate, now)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.expected, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, tc.expected.Error(), err.Error())
		})
	}
}

// TestIsValidationError ensures only typed validation errors are flagged.
func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrMissingFields))
	assert.True(t, IsValidationError(fmt.Errorf("add book: %w", ErrPastDueDate)))
	assert.False(t, IsValidationError(nil))
	assert.False(t, IsValidationError(errors.New("storage failure")))
	assert.False(t, IsValidationError(ErrBookNotFound))
}

// TestRequireFutureOrTodayDate ensures the date comparison ignores
// the time-of-day on both sides.
func TestRequireFutureOrTodayDate(t *testing.T) {
	now := time.Date(2023, 7, 2, 23, 59, 59, 0, time.UTC)
	assert.True(t, RequireFutureOrTodayDate("2023-07-02", now))
	assert.True(t, RequireFutureOrTodayDate("2023-07-03", now))
	assert.True(t, RequireFutureOrTodayDate(" 2023-07-03 ", now))
	assert.False(t, RequireFutureOrTodayDate("2023-07-01", now))
	assert.False(t, RequireFutureOrTodayDate("garbage", now))
}

// TestIsOverdueDate ensures a book is overdue only once the day after
// its due date started and that broken values are never flagged.
func TestIsOverdueDate(t *testing.T) {
	now := NewMockClocker().Now()
	assert.True(t, IsOverdueDate("2023-07-01", now))
	assert.False(t, IsOverdueDate("2023-07-02", now))
	assert.False(t, IsOverdueDate("2023-07-03", now))
	assert.False(t, IsOverdueDate("not-a-date", now))
}

// TestParseBookID ensures malformed or non-positive path ids map to a missing book.
func TestParseBookID(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected int64
		wantErr  bool
	}{
		{name: "valid", value: "42", expected: 42, wantErr: false},
		{name: "non numeric", value: "abc", wantErr: true},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-7", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "float", value: "1.5", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseBookID(tc.value)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBookNotFound)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, id)
		})
	}
}
