// Package wire encodes requests for and decodes responses from the todo list
// behavior endpoint.
//
// Every request is a flat JSON object whose "@type" member names the request
// kind. Responses are either a kind-specific success object, an error object
// with a truthy "error" member, or an empty body.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// TypeKey is the discriminant member of every request object.
const TypeKey = "@type"

// Type names a request kind.
type Type string

const (
	TypeFindOrCreateList     Type = "FindOrCreateListRequest"
	TypeListTasks            Type = "ListTasksRequest"
	TypeFilterTasks          Type = "FilterTasksRequest"
	TypeAddTask              Type = "AddTaskRequest"
	TypeDeleteTask           Type = "DeleteTaskRequest"
	TypeToggleTaskCompletion Type = "ToggleTaskCompletionRequest"
)

// ErrUnknownType is returned when a request carries an unrecognised "@type".
var ErrUnknownType = errors.New("unknown request type")

// Request is implemented by every request kind.
type Request interface {
	Type() Type
}

// FindOrCreateListRequest asks for the existing list, or a new one.
type FindOrCreateListRequest struct{}

// ListTasksRequest asks for all tasks of a list.
type ListTasksRequest struct {
	TodoListUUID string `json:"todoListUuid"`
}

// FilterTasksRequest asks for the tasks of a list with the given completion state.
type FilterTasksRequest struct {
	TodoListUUID string `json:"todoListUuid"`
	Completed    bool   `json:"completed"`
}

// AddTaskRequest adds a named task to a list.
type AddTaskRequest struct {
	TodoListUUID string `json:"todoListUuid"`
	TaskName     string `json:"taskName"`
}

// DeleteTaskRequest deletes a task from a list.
type DeleteTaskRequest struct {
	TodoListUUID string `json:"todoListUuid"`
	TaskUUID     string `json:"taskUuid"`
}

// ToggleTaskCompletionRequest flips the completion state of a task.
type ToggleTaskCompletionRequest struct {
	TodoListUUID string `json:"todoListUuid"`
	TaskUUID     string `json:"taskUuid"`
}

func (FindOrCreateListRequest) Type() Type     { return TypeFindOrCreateList }
func (ListTasksRequest) Type() Type            { return TypeListTasks }
func (FilterTasksRequest) Type() Type          { return TypeFilterTasks }
func (AddTaskRequest) Type() Type              { return TypeAddTask }
func (DeleteTaskRequest) Type() Type           { return TypeDeleteTask }
func (ToggleTaskCompletionRequest) Type() Type { return TypeToggleTaskCompletion }

// Encode marshals a request into a flat object with "@type" as its first member.
func Encode(req Request) ([]byte, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", req.Type(), err)
	}
	tag, err := json.Marshal(string(req.Type()))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", req.Type(), err)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"` + TypeKey + `":`)
	buf.Write(tag)
	if fields := bytes.TrimSpace(body[1 : len(body)-1]); len(fields) > 0 {
		buf.WriteByte(',')
		buf.Write(fields)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeRequest reads the "@type" member of data and unmarshals the object
// into the matching request kind.
func DecodeRequest(data []byte) (Request, error) {
	var head map[string]json.RawMessage
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	raw, ok := head[TypeKey]
	if !ok {
		return nil, fmt.Errorf("decode request: missing %s", TypeKey)
	}
	var t Type
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode request: %s: %w", TypeKey, err)
	}

	switch t {
	case TypeFindOrCreateList:
		return FindOrCreateListRequest{}, nil
	case TypeListTasks:
		return decodeAs[ListTasksRequest](t, data)
	case TypeFilterTasks:
		return decodeAs[FilterTasksRequest](t, data)
	case TypeAddTask:
		return decodeAs[AddTaskRequest](t, data)
	case TypeDeleteTask:
		return decodeAs[DeleteTaskRequest](t, data)
	case TypeToggleTaskCompletion:
		return decodeAs[ToggleTaskCompletionRequest](t, data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func decodeAs[R Request](t Type, data []byte) (Request, error) {
	var r R
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t, err)
	}
	return r, nil
}
