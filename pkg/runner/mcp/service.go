// Package mcp provides the Model Context Protocol server integration for taskodos.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/views"
)

// Service adapts the application service to the shapes MCP tools exchange.
// Every read refreshes first so agents never see stale data.
type Service struct {
	App      *app.Service
	Location *time.Location
	Now      func() time.Time
}

// GoalOptions captures the fields of a goal create.
type GoalOptions struct {
	Title       string
	Description string
	TargetDate  string
	Status      string
}

// TodoOptions captures the fields of a todo create.
type TodoOptions struct {
	Title       string
	Description string
	DueDate     string
	GoalID      int
}

// EventOptions captures the fields of a manual event create.
type EventOptions struct {
	Title       string
	Description string
	Date        string
}

// GoalList is the goal view an agent sees.
type GoalList struct {
	Active    []api.Goal `json:"active"`
	Completed []api.Goal `json:"completed"`
	Archived  int        `json:"archived"`
}

// TodoList is the todo view an agent sees.
type TodoList struct {
	Pending   []api.Todo `json:"pending"`
	Completed []api.Todo `json:"completed"`
}

// EventDay is one day of the calendar list.
type EventDay struct {
	Date   string              `json:"date"`
	Label  string              `json:"label"`
	Events []api.CalendarEvent `json:"events"`
}

// Timeline is the upcoming/past calendar view.
type Timeline struct {
	Upcoming  []api.CalendarEvent `json:"upcoming"`
	Past      []api.CalendarEvent `json:"past"`
	PastTotal int                 `json:"pastTotal"`
}

// NewService builds a service around a configured application service.
// Deletes requested through MCP are treated as confirmed by the caller.
func NewService(a *app.Service, loc *time.Location) *Service {
	if a != nil {
		a.Confirm = app.AlwaysConfirm
	}
	return &Service{App: a, Location: loc, Now: time.Now}
}

func (s *Service) ready() error {
	if s.App == nil {
		return errors.New("service is not configured")
	}
	return nil
}

func (s *Service) load(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.App.Refresh(ctx)
}

// ListGoals returns goals split by status.
func (s *Service) ListGoals(ctx context.Context) (GoalList, error) {
	if err := s.load(ctx); err != nil {
		return GoalList{}, err
	}
	p := views.PartitionGoals(s.App.Snapshot().Goals)
	return GoalList{Active: p.Active, Completed: p.Completed, Archived: p.Archived}, nil
}

// ListTodos returns todos split by completion.
func (s *Service) ListTodos(ctx context.Context) (TodoList, error) {
	if err := s.load(ctx); err != nil {
		return TodoList{}, err
	}
	p := views.PartitionTodos(s.App.Snapshot().Todos)
	return TodoList{Pending: p.Pending, Completed: p.Completed}, nil
}

// ListEvents returns the calendar grouped by day.
func (s *Service) ListEvents(ctx context.Context) ([]EventDay, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	groups := views.GroupByDay(s.App.Snapshot().Events)
	out := make([]EventDay, 0, len(groups))
	for _, g := range groups {
		out = append(out, EventDay{Date: g.Key, Label: g.Label, Events: g.Events})
	}
	return out, nil
}

// UpcomingEvents returns the calendar split around the current time.
func (s *Service) UpcomingEvents(ctx context.Context) (Timeline, error) {
	if err := s.load(ctx); err != nil {
		return Timeline{}, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	tl := views.SplitTimeline(s.App.Snapshot().Events, api.WallClock(now(), s.Location))
	return Timeline{Upcoming: tl.Upcoming, Past: tl.Past, PastTotal: tl.PastTotal}, nil
}

// Stats returns the backend's counters.
func (s *Service) Stats(ctx context.Context) (*api.Stats, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.App.Snapshot().Stats, nil
}

// CreateGoal creates a goal and returns the refreshed goal view.
func (s *Service) CreateGoal(ctx context.Context, opts GoalOptions) (GoalList, error) {
	if err := s.ready(); err != nil {
		return GoalList{}, err
	}
	status, err := api.ParseGoalStatus(opts.Status)
	if err != nil {
		return GoalList{}, err
	}
	f := app.NewGoalForm()
	f.Toggle()
	f.Title = opts.Title
	f.Description = opts.Description
	f.TargetDate = opts.TargetDate
	f.Status = status
	if err := s.App.SubmitGoal(ctx, &f); err != nil {
		return GoalList{}, err
	}
	p := views.PartitionGoals(s.App.Snapshot().Goals)
	return GoalList{Active: p.Active, Completed: p.Completed, Archived: p.Archived}, nil
}

// CreateTodo creates a todo; GoalID zero means standalone.
func (s *Service) CreateTodo(ctx context.Context, opts TodoOptions) (TodoList, error) {
	if err := s.ready(); err != nil {
		return TodoList{}, err
	}
	f := app.NewTodoForm()
	f.Toggle()
	f.Title = opts.Title
	f.Description = opts.Description
	f.DueDate = opts.DueDate
	if opts.GoalID > 0 {
		f.GoalID = fmt.Sprint(opts.GoalID)
	}
	if err := s.App.SubmitTodo(ctx, &f); err != nil {
		return TodoList{}, err
	}
	p := views.PartitionTodos(s.App.Snapshot().Todos)
	return TodoList{Pending: p.Pending, Completed: p.Completed}, nil
}

// CreateEvent creates a manual calendar event.
func (s *Service) CreateEvent(ctx context.Context, opts EventOptions) ([]EventDay, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	f := app.NewEventForm()
	f.Toggle()
	f.Title = opts.Title
	f.Description = opts.Description
	f.EventDate = strings.TrimSpace(opts.Date)
	if err := s.App.SubmitEvent(ctx, &f); err != nil {
		return nil, err
	}
	groups := views.GroupByDay(s.App.Snapshot().Events)
	out := make([]EventDay, 0, len(groups))
	for _, g := range groups {
		out = append(out, EventDay{Date: g.Key, Label: g.Label, Events: g.Events})
	}
	return out, nil
}

// ToggleTodo flips a todo's completion and returns it as stored afterwards.
func (s *Service) ToggleTodo(ctx context.Context, id int) (*api.Todo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.App.FetchTodo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("todo %d: %w", id, err)
	}
	if err := s.App.ToggleTodo(ctx, *t); err != nil {
		return nil, err
	}
	updated, err := s.App.Todo(id)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGoal removes a goal and, on the backend, its todos.
func (s *Service) DeleteGoal(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.App.DeleteGoal(ctx, id)
}

// DeleteTodo removes a todo.
func (s *Service) DeleteTodo(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.App.DeleteTodo(ctx, id)
}

// DeleteEvent removes a manual event. Generated events are refused.
func (s *Service) DeleteEvent(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	e, err := s.App.FetchEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("event %d: %w", id, err)
	}
	return s.App.DeleteEvent(ctx, *e)
}

// GoalDetail is a goal with the todos attached to it.
type GoalDetail struct {
	Goal  api.Goal   `json:"goal"`
	Todos []api.Todo `json:"todos"`
}

// GoalByID returns a goal with its todos.
func (s *Service) GoalByID(ctx context.Context, id int) (GoalDetail, error) {
	if err := s.ready(); err != nil {
		return GoalDetail{}, err
	}
	g, err := s.App.FetchGoal(ctx, id)
	if err != nil {
		return GoalDetail{}, fmt.Errorf("goal %d: %w", id, err)
	}
	out := GoalDetail{Goal: g.Goal, Todos: g.Todos}
	if out.Todos == nil {
		out.Todos = []api.Todo{}
	}
	return out, nil
}
