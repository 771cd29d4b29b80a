// Package client is a Go client for the TaskFlow REST API. It keeps a local,
// ordered copy of the task list and splices mutation results into it so the
// list never needs a full reload after a successful write.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 10 * time.Second

// ConnectionStatus is the last known reachability of the API.
type ConnectionStatus string

const (
	StatusChecking     ConnectionStatus = "checking"
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
)

// CreateInput holds the fields accepted on create.
type CreateInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateInput holds the fields to change. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Health is the body of the health endpoint.
type Health struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type envelope[T any] struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    T            `json:"data"`
	Errors  []FieldError `json:"errors"`
	Count   int          `json:"count"`
}

// Client talks to the API rooted at baseURL (for example
// "http://localhost:5000/api").
type Client struct {
	baseURL string
	timeout time.Duration

	mu     sync.RWMutex
	tasks  []domain.Task
	status ConnectionStatus
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		tasks:   []domain.Task{},
		status:  StatusChecking,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tasks returns a copy of the local task list in its current order.
func (c *Client) Tasks() []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Status returns the last known connection status.
func (c *Client) Status() ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Health probes the API. It only updates the connection status and leaves
// the task list untouched.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.do(ctx, fiber.Get(c.baseURL+"/health"), &h); err != nil {
		c.setStatus(StatusDisconnected)
		return Health{}, err
	}
	c.setStatus(StatusConnected)
	return h, nil
}

// Reload replaces the local list with the server's list.
func (c *Client) Reload(ctx context.Context) ([]domain.Task, error) {
	var env envelope[[]domain.Task]
	if err := c.do(ctx, fiber.Get(c.baseURL+"/tasks"), &env); err != nil {
		c.setStatus(StatusDisconnected)
		return nil, err
	}

	tasks := env.Data
	if tasks == nil {
		tasks = []domain.Task{}
	}

	c.mu.Lock()
	c.tasks = tasks
	c.status = StatusConnected
	c.mu.Unlock()

	return c.Tasks(), nil
}

// Create creates a task and prepends it to the local list.
func (c *Client) Create(ctx context.Context, in CreateInput) (domain.Task, error) {
	var env envelope[domain.Task]
	if err := c.do(ctx, fiber.Post(c.baseURL+"/tasks").JSON(in), &env); err != nil {
		return domain.Task{}, err
	}

	c.mu.Lock()
	c.tasks = append([]domain.Task{env.Data}, c.tasks...)
	c.mu.Unlock()
	return env.Data, nil
}

// Update changes a task and replaces it in the local list.
func (c *Client) Update(ctx context.Context, id string, in UpdateInput) (domain.Task, error) {
	var env envelope[domain.Task]
	if err := c.do(ctx, fiber.Put(c.taskURL(id)).JSON(in), &env); err != nil {
		return domain.Task{}, err
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == env.Data.ID {
			c.tasks[i] = env.Data
		}
	}
	c.mu.Unlock()
	return env.Data, nil
}

// ToggleStatus flips a task between Pending and Completed.
func (c *Client) ToggleStatus(ctx context.Context, t domain.Task) (domain.Task, error) {
	next := string(t.Status.Toggle())
	return c.Update(ctx, t.ID, UpdateInput{Status: &next})
}

// Delete deletes a task and removes it from the local list.
func (c *Client) Delete(ctx context.Context, id string) (domain.Task, error) {
	var env envelope[domain.Task]
	if err := c.do(ctx, fiber.Delete(c.taskURL(id)), &env); err != nil {
		return domain.Task{}, err
	}

	c.mu.Lock()
	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if t.ID != env.Data.ID && t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.mu.Unlock()
	return env.Data, nil
}

func (c *Client) taskURL(id string) string {
	return c.baseURL + "/tasks/" + url.PathEscape(id)
}

func (c *Client) setStatus(s ConnectionStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

type result struct {
	code int
	body []byte
	errs []error
}

// do sends the request and decodes a 2xx body into out. Failures come back as
// *Error. Cancelling ctx returns immediately; the abandoned request is still
// bounded by the timeout and releases its agent when it finishes.
func (c *Client) do(ctx context.Context, a *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return networkError(err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	a.Timeout(timeout)

	done := make(chan result, 1)
	go func() {
		code, body, errs := a.Bytes()
		done <- result{code: code, body: body, errs: errs}
	}()

	var res result
	select {
	case <-ctx.Done():
		return networkError(ctx.Err())
	case res = <-done:
	}

	code, body := res.code, res.body
	if len(res.errs) > 0 {
		return networkError(errors.Join(res.errs...))
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		apiErr := &Error{Status: code, Message: unexpectedMessage}
		var failure envelope[any]
		if err := json.Unmarshal(body, &failure); err == nil {
			if failure.Message != "" {
				apiErr.Message = failure.Message
			}
			apiErr.Errors = failure.Errors
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Status: code, Message: unexpectedMessage, Err: err}
	}
	return nil
}
