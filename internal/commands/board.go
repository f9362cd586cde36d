package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todoclient/internal/client"
	"todoclient/internal/exitcode"
	"todoclient/internal/service"
	"todoclient/internal/view"
)

// boardRun drives the todo client for one command invocation. Server errors
// are printed to errOut as they are alerted.
type boardRun struct {
	client  *client.Client
	session *client.Session
	board   *view.Board
	errOut  io.Writer
}

// openBoard restores the todo list onto a fresh board.
// On failure it returns a nil run and the exit code.
func openBoard(ctx context.Context, svc service.Service, errOut io.Writer) (*boardRun, int) {
	board := view.NewBoard()
	alerter := view.AlerterFunc(func(message string) {
		fmt.Fprintf(errOut, "error: %s\n", message)
	})
	c, err := client.New(svc, board, alerter, client.WithFallDuration(0))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.BackendError
	}
	b := &boardRun{client: c, session: client.NewSession(), board: board, errOut: errOut}
	if err := c.RestoreList(ctx, b.session); err != nil {
		return nil, b.fail(err)
	}
	return b, exitcode.Success
}

// fail maps an operation error to an exit code. Server errors were already
// printed by the alerter.
func (b *boardRun) fail(err error) int {
	var appErr *service.AppError
	switch {
	case errors.As(err, &appErr):
		return exitcode.AppError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(b.errOut, "error: auth error: %v (run: todo login)\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(b.errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// click routes a button press on the node through the client.
func (b *boardRun) click(ctx context.Context, nodeID, class string) error {
	return b.client.DeleteOrCompleteTask(ctx, b.session, view.Target{NodeID: nodeID, Class: class})
}

func taskOf(n view.Node) service.Task {
	return service.Task{UUID: n.ID, Name: n.Name, Completed: n.Completed}
}
