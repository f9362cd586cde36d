package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"todoclient/internal/service"
	"todoclient/internal/wire"
)

// EndpointPath is the path the fake endpoint serves.
const EndpointPath = "/todolist"

// RawResponse replaces the endpoint's answer to one request.
type RawResponse struct {
	Status int
	Body   string
}

// Endpoint is an in-memory behavior endpoint over a FakeService, served by
// httptest. It records every request it receives.
type Endpoint struct {
	Service *FakeService
	server  *httptest.Server

	mu       sync.Mutex
	requests []wire.Request
	headers  []http.Header
	override func(wire.Request) (RawResponse, bool)
}

// NewEndpoint starts an endpoint over svc. It is closed when the test ends.
func NewEndpoint(t *testing.T, svc *FakeService) *Endpoint {
	t.Helper()
	e := &Endpoint{Service: svc}
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, e)
	e.server = httptest.NewServer(mux)
	t.Cleanup(e.server.Close)
	return e
}

// URL returns the full endpoint URL.
func (e *Endpoint) URL() string {
	return e.server.URL + EndpointPath
}

// Requests returns the decoded requests received so far.
func (e *Endpoint) Requests() []wire.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]wire.Request(nil), e.requests...)
}

// Headers returns the headers of the requests received so far.
func (e *Endpoint) Headers() []http.Header {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]http.Header(nil), e.headers...)
}

// Override makes fn answer requests before the service does. Returning
// false from fn falls through to the service.
func (e *Endpoint) Override(fn func(wire.Request) (RawResponse, bool)) {
	e.mu.Lock()
	e.override = fn
	e.mu.Unlock()
}

// ServeHTTP implements http.Handler.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	req, err := wire.DecodeRequest(data)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}

	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.headers = append(e.headers, r.Header.Clone())
	override := e.override
	e.mu.Unlock()

	if override != nil {
		if raw, ok := override(req); ok {
			if raw.Status == 0 {
				raw.Status = http.StatusOK
			}
			w.WriteHeader(raw.Status)
			io.WriteString(w, raw.Body)
			return
		}
	}

	resp, err := e.dispatch(r.Context(), req)
	if err != nil {
		var appErr *service.AppError
		if !errors.As(err, &appErr) {
			appErr = &service.AppError{
				Timestamp: time.Now().UTC(),
				Status:    http.StatusInternalServerError,
				Reason:    http.StatusText(http.StatusInternalServerError),
				Message:   err.Error(),
			}
		}
		writeError(w, appErr)
		return
	}
	if resp == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (e *Endpoint) dispatch(ctx context.Context, req wire.Request) (any, error) {
	svc := e.Service
	switch r := req.(type) {
	case wire.FindOrCreateListRequest:
		id, err := svc.FindOrCreateList(ctx)
		if err != nil {
			return nil, err
		}
		return wire.ListResponse{TodoListUUID: string(id)}, nil
	case wire.ListTasksRequest:
		tasks, err := svc.ListTasks(ctx, service.ListID(r.TodoListUUID))
		if err != nil {
			return nil, err
		}
		return tasksResponse(tasks), nil
	case wire.FilterTasksRequest:
		tasks, err := svc.FilterTasks(ctx, service.ListID(r.TodoListUUID), r.Completed)
		if err != nil {
			return nil, err
		}
		return tasksResponse(tasks), nil
	case wire.AddTaskRequest:
		id, err := svc.AddTask(ctx, service.ListID(r.TodoListUUID), r.TaskName)
		if err != nil {
			return nil, err
		}
		return wire.TaskAddedResponse{TaskUUID: id}, nil
	case wire.DeleteTaskRequest:
		return nil, svc.DeleteTask(ctx, service.ListID(r.TodoListUUID), r.TaskUUID)
	case wire.ToggleTaskCompletionRequest:
		return nil, svc.ToggleTaskCompletion(ctx, service.ListID(r.TodoListUUID), r.TaskUUID)
	}
	return nil, badRequest("unsupported request")
}

func tasksResponse(tasks []service.Task) wire.TasksResponse {
	out := wire.TasksResponse{Tasks: make([]wire.TaskInfo, len(tasks))}
	for i, t := range tasks {
		out.Tasks[i] = wire.TaskInfo{UUID: t.UUID, Name: t.Name, Completed: t.Completed}
	}
	return out
}

func writeError(w http.ResponseWriter, e *service.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	json.NewEncoder(w).Encode(map[string]any{
		"timestamp": e.Timestamp.Format(time.RFC3339Nano),
		"status":    e.Status,
		"error":     e.Reason,
		"message":   e.Message,
	})
}
