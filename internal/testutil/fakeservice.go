// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"todoclient/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It follows the server rules of the todo list sample: one list is found or
// created, whitespace task names are rejected, unknown task ids are ignored
// by delete and toggle, and unknown lists are reported as errors.
type FakeService struct {
	mu    sync.RWMutex
	lists []service.ListID
	tasks map[service.ListID][]service.Task
	calls map[string]int

	// Error injection for testing
	FindOrCreateListErr error
	ListTasksErr        error
	FilterTasksErr      error
	AddTaskErr          error
	DeleteTaskErr       error
	ToggleErr           error
}

// NewFakeService creates a new FakeService without any list.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks: make(map[service.ListID][]service.Task),
		calls: make(map[string]int),
	}
}

// AddList adds a list to the fake service.
func (f *FakeService) AddList(id service.ListID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, id)
	if f.tasks[id] == nil {
		f.tasks[id] = []service.Task{}
	}
}

// AddTaskDirect adds a task to a list without going through the service
// methods or counting a call.
func (f *FakeService) AddTaskDirect(list service.ListID, id, name string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[list] = append(f.tasks[list], service.Task{UUID: id, Name: name, Completed: completed})
}

// Tasks returns a copy of the stored tasks of a list.
func (f *FakeService) Tasks(list service.ListID) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks[list]...)
}

// Calls returns how many times the named method was called.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) count(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// FindOrCreateList implements service.Service.
func (f *FakeService) FindOrCreateList(ctx context.Context) (service.ListID, error) {
	f.count("FindOrCreateList")
	if f.FindOrCreateListErr != nil {
		return "", f.FindOrCreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.lists) > 0 {
		return f.lists[0], nil
	}
	id := service.ListID(uuid.NewString())
	f.lists = append(f.lists, id)
	f.tasks[id] = []service.Task{}
	return id, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, list service.ListID) ([]service.Task, error) {
	f.count("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	tasks, ok := f.tasks[list]
	if !ok {
		return nil, listNotFound(list)
	}
	return append([]service.Task{}, tasks...), nil
}

// FilterTasks implements service.Service.
func (f *FakeService) FilterTasks(ctx context.Context, list service.ListID, completed bool) ([]service.Task, error) {
	f.count("FilterTasks")
	if f.FilterTasksErr != nil {
		return nil, f.FilterTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	tasks, ok := f.tasks[list]
	if !ok {
		return nil, listNotFound(list)
	}
	out := []service.Task{}
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, list service.ListID, name string) (string, error) {
	f.count("AddTask")
	if f.AddTaskErr != nil {
		return "", f.AddTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[list]; !ok {
		return "", listNotFound(list)
	}
	if strings.TrimSpace(name) == "" {
		return "", badRequest("Please specify a non-null, non-whitespace task name!")
	}
	id := uuid.NewString()
	f.tasks[list] = append(f.tasks[list], service.Task{UUID: id, Name: name})
	return id, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, list service.ListID, taskID string) error {
	f.count("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks, ok := f.tasks[list]
	if !ok {
		return listNotFound(list)
	}
	for i, t := range tasks {
		if t.UUID == taskID {
			f.tasks[list] = append(tasks[:i:i], tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

// ToggleTaskCompletion implements service.Service.
func (f *FakeService) ToggleTaskCompletion(ctx context.Context, list service.ListID, taskID string) error {
	f.count("ToggleTaskCompletion")
	if f.ToggleErr != nil {
		return f.ToggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks, ok := f.tasks[list]
	if !ok {
		return listNotFound(list)
	}
	for i := range tasks {
		if tasks[i].UUID == taskID {
			tasks[i].Completed = !tasks[i].Completed
			return nil
		}
	}
	return nil
}

func badRequest(message string) *service.AppError {
	return &service.AppError{
		Timestamp: time.Now().UTC(),
		Status:    400,
		Reason:    "Bad Request",
		Message:   message,
	}
}

func listNotFound(list service.ListID) *service.AppError {
	return badRequest(fmt.Sprintf("Repository doesn't contain a TodoList of id %s", list))
}
