package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Response is the decoded body of one exchange.
type Response interface {
	isResponse()
}

// Empty is an empty response body. It carries no "error" member and is
// therefore a success, even for exchanges whose server side failed silently.
type Empty struct{}

// Ack is a non-empty, non-error body for an exchange that returns nothing.
type Ack struct{}

// ListResponse answers FindOrCreateListRequest.
type ListResponse struct {
	TodoListUUID string `json:"todoListUuid"`
}

// TaskAddedResponse answers AddTaskRequest.
type TaskAddedResponse struct {
	TaskUUID string `json:"taskUuid"`
}

// TasksResponse answers ListTasksRequest and FilterTasksRequest.
type TasksResponse struct {
	Tasks []TaskInfo `json:"tasks"`
}

// TaskInfo is one task in a TasksResponse.
type TaskInfo struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// ErrorResponse is a body whose "error" member is truthy.
type ErrorResponse struct {
	Timestamp time.Time
	Status    int
	Error     string
	Message   string

	// NoStatus and NoMessage record members absent from the body.
	NoStatus  bool
	NoMessage bool
}

func (Empty) isResponse()              {}
func (Ack) isResponse()                {}
func (*ListResponse) isResponse()      {}
func (*TaskAddedResponse) isResponse() {}
func (*TasksResponse) isResponse()     {}
func (*ErrorResponse) isResponse()     {}

// DecodeResponse decodes the body returned for a request of kind t.
//
// A body with a truthy "error" member decodes to *ErrorResponse regardless of
// t. An empty body decodes to Empty for DeleteTask and ToggleTaskCompletion;
// kinds that need a payload reject it with a *SchemaError. Success payloads
// are validated against the schema of their kind before decoding.
func DecodeResponse(t Type, body []byte) (Response, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		if needsPayload(t) {
			return nil, &SchemaError{Type: t, Message: "empty response body"}
		}
		return Empty{}, nil
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", t, err)
	}
	if obj, ok := v.(map[string]any); ok && truthy(obj["error"]) {
		return errorResponseFrom(obj), nil
	}

	switch t {
	case TypeDeleteTask, TypeToggleTaskCompletion:
		return Ack{}, nil
	case TypeFindOrCreateList:
		return validateAndDecode[ListResponse](t, v, body)
	case TypeAddTask:
		return validateAndDecode[TaskAddedResponse](t, v, body)
	case TypeListTasks, TypeFilterTasks:
		return validateAndDecode[TasksResponse](t, v, body)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func needsPayload(t Type) bool {
	return t != TypeDeleteTask && t != TypeToggleTaskCompletion
}

func validateAndDecode[R any, P interface {
	*R
	Response
}](t Type, v any, body []byte) (Response, error) {
	if err := validate(t, v); err != nil {
		return nil, err
	}
	var r R
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", t, err)
	}
	return P(&r), nil
}

// truthy reports whether v would count as true in a boolean context of the
// browser client: false, 0, NaN, "" and null are false, everything else is true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return true
}

func errorResponseFrom(obj map[string]any) *ErrorResponse {
	resp := &ErrorResponse{}

	switch ts := obj["timestamp"].(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			resp.Timestamp = parsed
		}
	case float64:
		resp.Timestamp = time.UnixMilli(int64(ts)).UTC()
	}

	_, hasStatus := obj["status"]
	_, hasMessage := obj["message"]
	resp.NoStatus = !hasStatus
	resp.NoMessage = !hasMessage

	switch status := obj["status"].(type) {
	case float64:
		resp.Status = int(status)
	case string:
		fmt.Sscanf(status, "%d", &resp.Status)
	}

	switch e := obj["error"].(type) {
	case string:
		resp.Error = e
	default:
		resp.Error = fmt.Sprint(e)
	}

	if msg, ok := obj["message"]; ok && msg != nil {
		if s, ok := msg.(string); ok {
			resp.Message = s
		} else {
			resp.Message = fmt.Sprint(msg)
		}
	}
	return resp
}
