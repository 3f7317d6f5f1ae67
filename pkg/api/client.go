package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultBaseURL is where the backend listens when nothing is configured.
const DefaultBaseURL = "http://localhost:8000/api"

const (
	goalsPath    = "/goals"
	todosPath    = "/todos"
	calendarPath = "/calendar"
	statsPath    = "/stats"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api: %s %s: %d %s: %s", e.Method, e.Path, e.Code, http.StatusText(e.Code), body)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client issues JSON requests against the backend. It does not retry, cache or
// batch.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport (tests use httptest clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero keeps requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// New builds a Client for baseURL, falling back to DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url %q must be http or https", baseURL)
	}
	c := &Client{baseURL: baseURL, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListGoals fetches every goal.
func (c *Client) ListGoals(ctx context.Context) ([]Goal, error) {
	goals := make([]Goal, 0)
	if err := c.do(ctx, http.MethodGet, goalsPath, nil, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// GetGoal fetches a goal together with its todos.
func (c *Client) GetGoal(ctx context.Context, id int) (*GoalWithTodos, error) {
	var g GoalWithTodos
	if err := c.do(ctx, http.MethodGet, itemPath(goalsPath, id), nil, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGoal posts a new goal.
func (c *Client) CreateGoal(ctx context.Context, in GoalInput) (*Goal, error) {
	var g Goal
	if err := c.do(ctx, http.MethodPost, goalsPath, nil, in, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateGoal replaces the goal's fields.
func (c *Client) UpdateGoal(ctx context.Context, id int, in GoalInput) (*Goal, error) {
	var g Goal
	if err := c.do(ctx, http.MethodPut, itemPath(goalsPath, id), nil, in, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGoal removes a goal. The backend also removes its todos.
func (c *Client) DeleteGoal(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(goalsPath, id), nil, nil, nil)
}

// ListTodos fetches every todo with its goal snapshot.
func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	todos := make([]Todo, 0)
	if err := c.do(ctx, http.MethodGet, todosPath, nil, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo fetches one todo.
func (c *Client) GetTodo(ctx context.Context, id int) (*Todo, error) {
	var t Todo
	if err := c.do(ctx, http.MethodGet, itemPath(todosPath, id), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTodo posts a new todo.
func (c *Client) CreateTodo(ctx context.Context, in TodoInput) (*Todo, error) {
	var t Todo
	if err := c.do(ctx, http.MethodPost, todosPath, nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTodo replaces the todo's fields.
func (c *Client) UpdateTodo(ctx context.Context, id int, in TodoInput) (*Todo, error) {
	var t Todo
	if err := c.do(ctx, http.MethodPut, itemPath(todosPath, id), nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SetTodoCompleted sends a partial update carrying only the completion flag.
func (c *Client) SetTodoCompleted(ctx context.Context, id int, completed bool) (*Todo, error) {
	var t Todo
	if err := c.do(ctx, http.MethodPut, itemPath(todosPath, id), nil, TodoCompletion{Completed: completed}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(todosPath, id), nil, nil, nil)
}

// ListEvents fetches every calendar event.
func (c *Client) ListEvents(ctx context.Context) ([]CalendarEvent, error) {
	events := make([]CalendarEvent, 0)
	if err := c.do(ctx, http.MethodGet, calendarPath, nil, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventsBetween uses the backend's date range filter. Either bound may be zero.
func (c *Client) EventsBetween(ctx context.Context, start, end Date) ([]CalendarEvent, error) {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("start_date", start.Time().Format("2006-01-02T15:04:05"))
	}
	if !end.IsZero() {
		q.Set("end_date", end.Time().Add(24*time.Hour-time.Second).Format("2006-01-02T15:04:05"))
	}
	events := make([]CalendarEvent, 0)
	if err := c.do(ctx, http.MethodGet, calendarPath, q, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches one event.
func (c *Client) GetEvent(ctx context.Context, id int) (*CalendarEvent, error) {
	var e CalendarEvent
	if err := c.do(ctx, http.MethodGet, itemPath(calendarPath, id), nil, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEvent posts a manual event.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*CalendarEvent, error) {
	var e CalendarEvent
	if err := c.do(ctx, http.MethodPost, calendarPath, nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEvent replaces a manual event's fields.
func (c *Client) UpdateEvent(ctx context.Context, id int, in EventInput) (*CalendarEvent, error) {
	var e CalendarEvent
	if err := c.do(ctx, http.MethodPut, itemPath(calendarPath, id), nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(calendarPath, id), nil, nil, nil)
}

// Stats fetches the aggregate counters.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, statsPath, nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func itemPath(collection string, id int) string {
	return collection + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := sonic.ConfigDefault.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
