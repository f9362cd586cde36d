// Package service defines the backend-agnostic interface for todo list exchanges.
package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnauthorized is returned when something in front of the endpoint rejects
// the request before the endpoint answers it.
var ErrUnauthorized = errors.New("unauthorized")

// ListID is the server-issued handle for a todo list.
type ListID string

// Task represents a single task item as reported by the server.
type Task struct {
	UUID      string
	Name      string
	Completed bool
}

// Filter selects which tasks a listing returns.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterCompleted   Filter = "completed"
	FilterUncompleted Filter = "uncompleted"
)

// ParseFilter parses a filter control value.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterCompleted, FilterUncompleted:
		return Filter(s), nil
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// AppError is an error reported by the server in the response body.
type AppError struct {
	Timestamp time.Time
	Status    int
	Reason    string // HTTP reason phrase, the "error" field
	Message   string

	// NoStatus and NoMessage are set when the body lacked the member.
	NoStatus  bool
	NoMessage bool
}

// Error renders the alert text. Absent members read "undefined".
func (e *AppError) Error() string {
	status := strconv.Itoa(e.Status)
	if e.NoStatus {
		status = "undefined"
	}
	message := e.Message
	if e.NoMessage {
		message = "undefined"
	}
	return fmt.Sprintf("Status %s \"%s\"", status, message)
}
