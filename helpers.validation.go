package main

import (
	"errors"
	"strings"
	"time"
)

// DueDateLayout is the calendar date format used on the wire and in storage.
const DueDateLayout = "2006-01-02"

var ErrBookNotFound = errors.New("book not found")

// ValidationError flags a rejected user input. The message is the exact
// user-facing text, recoverable by correcting the submitted fields.
type ValidationError string

func (v ValidationError) Error() string {
	return string(v)
}

const (
	ErrMissingFields  = ValidationError("Title, author, and due date are required")
	ErrInvalidDueDate = ValidationError("Due date must be a valid date (YYYY-MM-DD)")
	ErrPastDueDate    = ValidationError("Due date cannot be in the past")
)

// IsValidationError tells whether err belongs to the validation taxonomy.
func IsValidationError(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// RequireAllFields reports whether title, author and due date are all
// non-empty once surrounding whitespace is removed.
func RequireAllFields(title, author, dueDate string) bool {
	return strings.TrimSpace(title) != "" &&
		strings.TrimSpace(author) != "" &&
		strings.TrimSpace(dueDate) != ""
}

// RequireFutureOrTodayDate reports whether the date portion of dueDate is
// today or later. Both sides are truncated to midnight in the zone of now
// before comparison, so the time-of-day never influences the result.
func RequireFutureOrTodayDate(dueDate string, now time.Time) bool {
	due, err := time.ParseInLocation(DueDateLayout, strings.TrimSpace(dueDate), now.Location())
	if err != nil {
		return false
	}
	return !DateOnly(due).Before(DateOnly(now))
}

// ValidateBookRequest runs the input checks in order. The first failing
// check determines the single error surfaced to the caller, with the
// required-fields error taking precedence over any due date error.
func ValidateBookRequest(title, author, dueDate string, now time.Time) error {
	if !RequireAllFields(title, author, dueDate) {
		return ErrMissingFields
	}
	if _, err := time.ParseInLocation(DueDateLayout, strings.TrimSpace(dueDate), now.Location()); err != nil {
		return ErrInvalidDueDate
	}
	if !RequireFutureOrTodayDate(dueDate, now) {
		return ErrPastDueDate
	}
	return nil
}

// DateOnly strips the time-of-day from t, keeping its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsOverdueDate reports whether the stored due date is strictly before the
// date portion of now. Unparseable values are never flagged overdue.
func IsOverdueDate(dueDate string, now time.Time) bool {
	due, err := time.ParseInLocation(DueDateLayout, strings.TrimSpace(dueDate), now.Location())
	if err != nil {
		return false
	}
	return DateOnly(due).Before(DateOnly(now))
}
