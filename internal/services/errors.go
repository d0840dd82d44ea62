package services

import (
	"errors"
	"time"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTagNotFound     = errors.New("tag not found")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrTaskTagNotFound = errors.New("tag is not attached to task")
	ErrForbidden       = errors.New("forbidden")
	ErrTagNameTaken    = errors.New("tag name already exists")
	ErrTaskTagExists   = errors.New("tag already attached to task")
)

// ValidationError is a client mistake. Key is the message id shown to the
// user.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func invalid(key, reason string) error {
	return &ValidationError{Key: key, Reason: reason}
}

// Clock returns the current instant. Tests substitute a fixed one.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func orSystemClock(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}
