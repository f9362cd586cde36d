// Package client implements the todo list client: it translates user gestures
// into exchanges with the behavior endpoint and mirrors the results onto a
// view.Board.
//
// Operations are synchronous and may be called concurrently. Nothing orders
// or cancels concurrent operations: their exchanges and board updates may
// complete in any order.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"todoclient/internal/logging"
	"todoclient/internal/service"
	"todoclient/internal/view"
)

// ErrNoList is returned by operations that need a list before RestoreList
// has acquired one.
var ErrNoList = errors.New("no todo list loaded")

// Session holds the id of the active todo list. The id is set once by
// RestoreList and never reassigned.
type Session struct {
	mu     sync.RWMutex
	listID service.ListID
}

// NewSession returns a session without a list.
func NewSession() *Session {
	return &Session{}
}

// ListID returns the active list id, if one has been acquired.
func (s *Session) ListID() (service.ListID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listID, s.listID != ""
}

// adopt stores id unless a list is already active, and returns the active id.
func (s *Session) adopt(id service.ListID) service.ListID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listID == "" {
		s.listID = id
	}
	return s.listID
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for transport failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFallDuration sets how long a deleted node falls before it is removed.
func WithFallDuration(d time.Duration) Option {
	return func(c *Client) {
		c.fall = d
	}
}

// Client is the todo list client.
type Client struct {
	svc     service.Service
	board   *view.Board
	alerter view.Alerter
	logger  *log.Logger
	fall    time.Duration
}

// New creates a client rendering onto board. Every argument is required.
func New(svc service.Service, board *view.Board, alerter view.Alerter, opts ...Option) (*Client, error) {
	switch {
	case svc == nil:
		return nil, errors.New("client: nil service")
	case board == nil:
		return nil, errors.New("client: nil board")
	case alerter == nil:
		return nil, errors.New("client: nil alerter")
	}
	c := &Client{
		svc:     svc,
		board:   board,
		alerter: alerter,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Board returns the board the client renders onto.
func (c *Client) Board() *view.Board {
	return c.board
}

// RestoreList finds or creates the todo list, stores its id in s and renders
// its tasks.
func (c *Client) RestoreList(ctx context.Context, s *Session) error {
	id, err := c.svc.FindOrCreateList(ctx)
	if err != nil {
		return c.fail("FindOrCreateList", err)
	}
	s.adopt(id)
	return c.RestoreTasksOf(ctx, s)
}

// RestoreTasksOf fetches every task of the active list and appends a node for
// each. It does not clear the board first.
func (c *Client) RestoreTasksOf(ctx context.Context, s *Session) error {
	list, ok := s.ListID()
	if !ok {
		return ErrNoList
	}
	tasks, err := c.svc.ListTasks(ctx, list)
	if err != nil {
		return c.fail("ListTasks", err)
	}
	c.showTasks(tasks)
	return nil
}

// AddTask adds a task named by the board's input field. An empty field is a
// silent no-op. On success one node is appended and the field is cleared.
func (c *Client) AddTask(ctx context.Context, s *Session) error {
	name := c.board.Input()
	if name == "" {
		return nil
	}
	list, ok := s.ListID()
	if !ok {
		return ErrNoList
	}
	id, err := c.svc.AddTask(ctx, list, name)
	if err != nil {
		return c.fail("AddTask", err)
	}
	c.board.Append(id, name, false)
	c.board.SetInput("")
	return nil
}

// DeleteOrCompleteTask routes a click to DeleteTask or CompleteTask by the
// class of its target. Clicks on anything else are ignored.
func (c *Client) DeleteOrCompleteTask(ctx context.Context, s *Session, target view.Target) error {
	switch target.Class {
	case view.ClassDelete:
		return c.DeleteTask(ctx, s, target.NodeID)
	case view.ClassComplete:
		return c.CompleteTask(ctx, s, target.NodeID)
	}
	return nil
}

// DeleteTask deletes the task shown by the node. On success the node falls
// and is removed once the transition ends.
func (c *Client) DeleteTask(ctx context.Context, s *Session, nodeID string) error {
	list, ok := s.ListID()
	if !ok {
		return ErrNoList
	}
	if err := c.svc.DeleteTask(ctx, list, nodeID); err != nil {
		return c.fail("DeleteTask", err)
	}
	c.board.Fall(nodeID, c.fall)
	return nil
}

// CompleteTask toggles the completion of the task shown by the node. On
// success the node's completed class is toggled.
func (c *Client) CompleteTask(ctx context.Context, s *Session, nodeID string) error {
	list, ok := s.ListID()
	if !ok {
		return ErrNoList
	}
	if err := c.svc.ToggleTaskCompletion(ctx, list, nodeID); err != nil {
		return c.fail("ToggleTaskCompletion", err)
	}
	c.board.ToggleCompleted(nodeID)
	return nil
}

// FilterTasks removes every node and re-renders the active list filtered by
// value: "all", "completed" or "uncompleted". Any other value leaves the
// board empty, sends nothing, keeps the filter control as it was and returns
// an error.
func (c *Client) FilterTasks(ctx context.Context, s *Session, value string) error {
	c.board.Clear()

	filter, err := service.ParseFilter(value)
	if err != nil {
		return err
	}
	c.board.SetFilter(filter)

	if filter == service.FilterAll {
		return c.RestoreTasksOf(ctx, s)
	}
	return c.filterTasksByCompletion(ctx, s, filter == service.FilterCompleted)
}

func (c *Client) filterTasksByCompletion(ctx context.Context, s *Session, completed bool) error {
	list, ok := s.ListID()
	if !ok {
		return ErrNoList
	}
	tasks, err := c.svc.FilterTasks(ctx, list, completed)
	if err != nil {
		return c.fail("FilterTasks", err)
	}
	c.showTasks(tasks)
	return nil
}

func (c *Client) showTasks(tasks []service.Task) {
	for _, t := range tasks {
		c.board.Append(t.UUID, t.Name, t.Completed)
	}
}

// fail alerts server-reported errors and logs everything else.
// The error is returned unchanged either way.
func (c *Client) fail(exchange string, err error) error {
	var appErr *service.AppError
	if errors.As(err, &appErr) {
		c.alerter.Alert(appErr.Error())
		return err
	}
	c.logger.Error("exchange failed", "exchange", exchange, "err", err)
	return fmt.Errorf("%s: %w", exchange, err)
}
