package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no record matches the requested id
var ErrNotFound = errors.New("not found")

// Issue describes one rejected input field
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing input
type ValidationError struct {
	Issues []Issue
}

// NewValidationError creates a validation error with a single issue
func NewValidationError(path, message string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Path: path, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StoreError wraps a data access failure
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
