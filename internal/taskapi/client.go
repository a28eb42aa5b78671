// Package taskapi implements board.Repository against a JSON task collection
// served over HTTP at {base}/tasks.
package taskapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/Iron-Ham/kanban/internal/board"
	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/logging"
	"github.com/Iron-Ham/kanban/internal/task"
)

const (
	// collectionPath is the task collection resource, relative to the base URL.
	collectionPath = "/tasks"

	// defaultMaxResponseSize bounds how much of a response body is read.
	defaultMaxResponseSize = 4 << 20

	// HeaderRequestID carries the per-request correlation id.
	HeaderRequestID = "X-Request-ID"
)

var _ board.Repository = (*Client)(nil)

// StatusError reports a response with a non-success status code.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to the remote task collection. Every error it returns wraps
// errors.ErrOperationFailed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	maxBody    int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxResponseSize bounds the number of response body bytes read.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// New creates a Client for the collection served under baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{},
		logger:     logging.NopLogger(),
		maxBody:    defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("taskapi")
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// taskBody is the request payload for create and update.
type taskBody struct {
	ID          task.ID    `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Stage       task.Stage `json:"stage"`
}

// FetchAll lists the whole collection in the order the store returns it.
func (c *Client) FetchAll(ctx context.Context) ([]task.Task, error) {
	body, err := c.do(ctx, http.MethodGet, collectionPath, nil)
	if err != nil {
		return nil, err
	}

	var tasks []task.Task
	if err := sonic.ConfigStd.Unmarshal(body, &tasks); err != nil {
		return nil, c.malformed(http.MethodGet, collectionPath, err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Create posts a new task and returns the store's copy, including its id.
func (c *Client) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	payload := taskBody{Title: draft.Title, Description: draft.Description, Stage: draft.Stage}
	body, err := c.do(ctx, http.MethodPost, collectionPath, payload)
	if err != nil {
		return task.Task{}, err
	}

	var created task.Task
	if err := sonic.ConfigStd.Unmarshal(body, &created); err != nil {
		return task.Task{}, c.malformed(http.MethodPost, collectionPath, err)
	}
	return created, nil
}

// Update replaces every editable field of task id.
func (c *Client) Update(ctx context.Context, id task.ID, draft task.Draft) (task.Task, error) {
	path := itemPath(id)
	payload := taskBody{ID: id, Title: draft.Title, Description: draft.Description, Stage: draft.Stage}
	body, err := c.do(ctx, http.MethodPut, path, payload)
	if err != nil {
		return task.Task{}, err
	}

	// Some stores answer an update without a body.
	if len(bytes.TrimSpace(body)) == 0 {
		return task.Task{ID: id, Title: draft.Title, Description: draft.Description, Stage: draft.Stage}, nil
	}

	var updated task.Task
	if err := sonic.ConfigStd.Unmarshal(body, &updated); err != nil {
		return task.Task{}, c.malformed(http.MethodPut, path, err)
	}
	return updated, nil
}

// Delete removes task id.
func (c *Client) Delete(ctx context.Context, id task.ID) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(id), nil)
	return err
}

func itemPath(id task.ID) string {
	return collectionPath + "/" + url.PathEscape(id.String())
}

// do sends one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	requestID := uuid.NewString()
	log := c.logger.With("request_id", requestID, "method", method, "path", path)

	var reqBody io.Reader
	if payload != nil {
		data, err := sonic.ConfigStd.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal request: %w", apperrors.ErrOperationFailed, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", apperrors.ErrOperationFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", "error", err.Error())
		return nil, fmt.Errorf("%w: send request: %w", apperrors.ErrOperationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", apperrors.ErrOperationFailed, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s %s: response exceeds %d bytes",
			apperrors.ErrOperationFailed, method, path, c.maxBody)
	}

	log.Debug("request completed", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrOperationFailed, &StatusError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(truncate(string(body), 200)),
		})
	}
	return body, nil
}

func (c *Client) malformed(method, path string, err error) error {
	c.logger.Warn("malformed response", "method", method, "path", path, "error", err.Error())
	return fmt.Errorf("%w: %s %s: malformed response: %w", apperrors.ErrOperationFailed, method, path, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
