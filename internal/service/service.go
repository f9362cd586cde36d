package service

import "context"

// Service defines the exchanges with the todo list behavior endpoint.
// Every method is one request/response round trip.
// Server-reported failures are returned as *AppError.
type Service interface {
	// FindOrCreateList returns the id of the existing list, creating one if
	// the server has none.
	FindOrCreateList(ctx context.Context) (ListID, error)

	// ListTasks returns all tasks of a list in server order.
	ListTasks(ctx context.Context, list ListID) ([]Task, error)

	// FilterTasks returns the tasks whose completion state equals completed.
	FilterTasks(ctx context.Context, list ListID, completed bool) ([]Task, error)

	// AddTask adds a task and returns its uuid.
	AddTask(ctx context.Context, list ListID, name string) (string, error)

	// DeleteTask deletes a task. Unknown task ids are ignored by the server.
	DeleteTask(ctx context.Context, list ListID, taskID string) error

	// ToggleTaskCompletion flips the completion state of a task.
	ToggleTaskCompletion(ctx context.Context, list ListID, taskID string) error
}
