// Package behaviorhttp implements the service.Service interface by posting
// tagged JSON requests to a single behavior endpoint.
package behaviorhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"todoclient/internal/config"
	"todoclient/internal/logging"
	"todoclient/internal/service"
	"todoclient/internal/wire"
)

const (
	// DefaultTimeout bounds an exchange when none is configured.
	DefaultTimeout = config.DefaultTimeout

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20

	contentTypeJSON = "application/json"
)

// Client implements service.Service against one endpoint URL.
type Client struct {
	http     *http.Client
	endpoint string
	timeout  time.Duration
	logger   *log.Logger
}

// New creates a client for the endpoint in cfg.
// If a token is stored in the config directory, every request carries it as
// a bearer token.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("no endpoint configured")
	}

	token, err := cfg.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	httpClient := http.DefaultClient
	if token != nil {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	}

	c := NewWithHTTPClient(httpClient, cfg.Endpoint, logger)
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, endpoint string, logger *log.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		logger:   logger,
	}
}

// FindOrCreateList implements service.Service.
func (c *Client) FindOrCreateList(ctx context.Context) (service.ListID, error) {
	resp, err := c.post(ctx, wire.FindOrCreateListRequest{})
	if err != nil {
		return "", err
	}
	list, ok := resp.(*wire.ListResponse)
	if !ok {
		return "", unexpected(wire.TypeFindOrCreateList, resp)
	}
	return service.ListID(list.TodoListUUID), nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, list service.ListID) ([]service.Task, error) {
	resp, err := c.post(ctx, wire.ListTasksRequest{TodoListUUID: string(list)})
	if err != nil {
		return nil, err
	}
	return tasksFrom(wire.TypeListTasks, resp)
}

// FilterTasks implements service.Service.
func (c *Client) FilterTasks(ctx context.Context, list service.ListID, completed bool) ([]service.Task, error) {
	resp, err := c.post(ctx, wire.FilterTasksRequest{TodoListUUID: string(list), Completed: completed})
	if err != nil {
		return nil, err
	}
	return tasksFrom(wire.TypeFilterTasks, resp)
}

// AddTask implements service.Service.
func (c *Client) AddTask(ctx context.Context, list service.ListID, name string) (string, error) {
	resp, err := c.post(ctx, wire.AddTaskRequest{TodoListUUID: string(list), TaskName: name})
	if err != nil {
		return "", err
	}
	added, ok := resp.(*wire.TaskAddedResponse)
	if !ok {
		return "", unexpected(wire.TypeAddTask, resp)
	}
	return added.TaskUUID, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, list service.ListID, taskID string) error {
	_, err := c.post(ctx, wire.DeleteTaskRequest{TodoListUUID: string(list), TaskUUID: taskID})
	return err
}

// ToggleTaskCompletion implements service.Service.
func (c *Client) ToggleTaskCompletion(ctx context.Context, list service.ListID, taskID string) error {
	_, err := c.post(ctx, wire.ToggleTaskCompletionRequest{TodoListUUID: string(list), TaskUUID: taskID})
	return err
}

// post performs one exchange. The HTTP status is not consulted: a body with
// a truthy "error" member is the only server-reported failure, and is
// returned as *service.AppError.
func (c *Client) post(ctx context.Context, req wire.Request) (wire.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := wire.Encode(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("Content-Type", contentTypeJSON)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, wrapError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return nil, wrapError(err)
	}

	c.logger.Debug("exchange", "type", req.Type(), "status", httpResp.StatusCode, "bytes", len(body))

	resp, err := wire.DecodeResponse(req.Type(), body)
	if err != nil {
		switch httpResp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: status %d", service.ErrUnauthorized, httpResp.StatusCode)
		}
		return nil, err
	}
	if _, ok := resp.(wire.Empty); ok {
		c.logger.Debug("empty response treated as success", "type", req.Type(), "status", httpResp.StatusCode)
	}
	if er, ok := resp.(*wire.ErrorResponse); ok {
		return nil, &service.AppError{
			Timestamp: er.Timestamp,
			Status:    er.Status,
			Reason:    er.Error,
			Message:   er.Message,
			NoStatus:  er.NoStatus,
			NoMessage: er.NoMessage,
		}
	}
	return resp, nil
}

func tasksFrom(t wire.Type, resp wire.Response) ([]service.Task, error) {
	tr, ok := resp.(*wire.TasksResponse)
	if !ok {
		return nil, unexpected(t, resp)
	}
	tasks := make([]service.Task, len(tr.Tasks))
	for i, info := range tr.Tasks {
		tasks[i] = service.Task{UUID: info.UUID, Name: info.Name, Completed: info.Completed}
	}
	return tasks, nil
}

func unexpected(t wire.Type, resp wire.Response) error {
	return fmt.Errorf("unexpected %T for %s", resp, t)
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("cancelled")
	}
	return fmt.Errorf("transport: %w", err)
}
