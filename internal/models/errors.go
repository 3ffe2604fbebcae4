package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrAlreadySubscribed = errors.New("email already subscribed")

// ValidationError carries every failed rule for a submission, in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// PersistenceError means an accepted submission could not be stored.
type PersistenceError struct {
	Resource string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Resource, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
