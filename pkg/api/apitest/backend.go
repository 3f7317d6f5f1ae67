// Package apitest serves an in-memory taskodos backend for tests. It follows
// the real backend's behaviour: calendar events are generated from todo due
// dates and goal target dates, goal deletes cascade and PUT is a partial
// update.
package apitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"tableflip.dev/taskodos/pkg/api"
)

// Request is one call the backend received.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// Backend is the fake. The zero value is not usable; call New.
type Backend struct {
	// Now stamps created_at.
	Now func() time.Time

	mu       sync.Mutex
	nextID   int
	goals    map[int]*api.Goal
	todos    map[int]*api.Todo
	events   map[int]*api.CalendarEvent
	requests []Request
	failures map[string]int
}

func New() *Backend {
	return &Backend{
		Now:      time.Now,
		goals:    make(map[int]*api.Goal),
		todos:    make(map[int]*api.Todo),
		events:   make(map[int]*api.CalendarEvent),
		failures: make(map[string]int),
	}
}

// Start serves the backend until the test ends and returns its base URL,
// including the /api prefix.
func (b *Backend) Start(tb testing.TB) string {
	tb.Helper()
	srv := httptest.NewServer(b.Handler())
	tb.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// Fail makes every request matching method and path (e.g. "GET", "/api/stats")
// answer with code.
func (b *Backend) Fail(method, path string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = code
}

// Recover removes every injected failure.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]int)
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request{}, b.requests...)
}

// Count returns how many requests matched method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Reset forgets the recorded requests, keeping the data.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

// SeedGoal stores g as is, assigning an id when g.ID is zero.
func (b *Backend) SeedGoal(g api.Goal) api.Goal {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g.ID == 0 {
		g.ID = b.id()
	}
	b.bump(g.ID)
	b.goals[g.ID] = &g
	return g
}

// SeedTodo stores t as is, assigning an id when t.ID is zero.
func (b *Backend) SeedTodo(t api.Todo) api.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.ID == 0 {
		t.ID = b.id()
	}
	b.bump(t.ID)
	b.todos[t.ID] = &t
	return t
}

// SeedEvent stores e as is, assigning an id when e.ID is zero.
func (b *Backend) SeedEvent(e api.CalendarEvent) api.CalendarEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.ID == 0 {
		e.ID = b.id()
	}
	b.bump(e.ID)
	b.events[e.ID] = &e
	return e
}

// Events returns every stored event ordered by id.
func (b *Backend) Events() []api.CalendarEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eventList()
}

// Todos returns every stored todo ordered by id.
func (b *Backend) Todos() []api.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.todoList()
}

// Goals returns every stored goal ordered by id.
func (b *Backend) Goals() []api.Goal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.goalList()
}

// Handler returns the gin engine serving the API.
func (b *Backend) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), b.record)

	g := r.Group("/api")
	g.GET("/goals", b.listGoals)
	g.GET("/goals/:id", b.getGoal)
	g.POST("/goals", b.createGoal)
	g.PUT("/goals/:id", b.updateGoal)
	g.DELETE("/goals/:id", b.deleteGoal)

	g.GET("/todos", b.listTodos)
	g.GET("/todos/:id", b.getTodo)
	g.POST("/todos", b.createTodo)
	g.PUT("/todos/:id", b.updateTodo)
	g.DELETE("/todos/:id", b.deleteTodo)

	g.GET("/calendar", b.listEvents)
	g.GET("/calendar/:id", b.getEvent)
	g.POST("/calendar", b.createEvent)
	g.PUT("/calendar/:id", b.updateEvent)
	g.DELETE("/calendar/:id", b.deleteEvent)

	g.GET("/stats", b.stats)
	return r
}

func (b *Backend) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Body:   string(body),
	})
	code, fail := b.failures[c.Request.Method+" "+c.Request.URL.Path]
	b.mu.Unlock()

	if fail {
		c.AbortWithStatusJSON(code, gin.H{"detail": "injected failure"})
		return
	}
	c.Next()
}

// id is called with mu held.
func (b *Backend) id() int {
	b.nextID++
	return b.nextID
}

func (b *Backend) bump(id int) {
	if id > b.nextID {
		b.nextID = id
	}
}

func (b *Backend) now() api.Timestamp {
	return api.NewTimestamp(b.Now().UTC())
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "id must be an integer"})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": what + " not found"})
}

// fields decodes a JSON object body, keeping which keys were present.
func fields(c *gin.Context) (map[string]any, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return nil, false
	}
	m := map[string]any{}
	if err := sonic.ConfigDefault.Unmarshal(raw, &m); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return nil, false
	}
	return m, true
}

func optString(m map[string]any, key string) (*string, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	s, isString := v.(string)
	if !isString {
		return nil, true
	}
	return &s, true
}

func optTime(m map[string]any, key string) (*api.Timestamp, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	s, isString := v.(string)
	if !isString || s == "" {
		return nil, true, nil
	}
	t, err := api.ParseTime(s)
	if err != nil {
		return nil, true, err
	}
	ts := api.Timestamp{Time: t}
	return &ts, true, nil
}

func optInt(m map[string]any, key string) (*int, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i, true
	case int64:
		i := int(n)
		return &i, true
	case int:
		return &n, true
	}
	return nil, true
}

func optBool(m map[string]any, key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	flag, _ := v.(bool)
	return flag, true
}

func (b *Backend) goalList() []api.Goal {
	out := make([]api.Goal, 0, len(b.goals))
	for _, g := range b.goals {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) todoList() []api.Todo {
	out := make([]api.Todo, 0, len(b.todos))
	for _, t := range b.todos {
		out = append(out, b.withGoal(*t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) eventList() []api.CalendarEvent {
	out := make([]api.CalendarEvent, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) withGoal(t api.Todo) api.Todo {
	t.Goal = nil
	if t.GoalID != nil {
		if g, ok := b.goals[*t.GoalID]; ok {
			goal := *g
			t.Goal = &goal
		}
	}
	return t
}
