// Package app is the application service shared by the TUI, the CLI and the
// MCP server. Every mutation goes to the backend and, when it succeeds, asks
// the state store for a full refresh.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/state"
	"tableflip.dev/taskodos/pkg/views"
)

var (
	ErrCancelled     = errors.New("app: cancelled")
	ErrAutoGenerated = errors.New("app: auto-generated events are managed by their todo or goal")
	ErrTitleRequired = errors.New("app: title is required")
	ErrDateRequired  = errors.New("app: date is required")
	ErrInvalidGoal   = errors.New("app: invalid goal id")
	ErrNotFound      = errors.New("app: not found")
)

// Confirmation prompts, one per entity.
const (
	GoalDeletePrompt  = "Delete this goal? Associated todos will also be deleted."
	TodoDeletePrompt  = "Delete this todo?"
	EventDeletePrompt = "Delete this event?"
)

// Backend is the API as the service uses it: single-record reads and writes.
type Backend interface {
	GetGoal(ctx context.Context, id int) (*api.GoalWithTodos, error)
	GetTodo(ctx context.Context, id int) (*api.Todo, error)
	GetEvent(ctx context.Context, id int) (*api.CalendarEvent, error)
	CreateGoal(ctx context.Context, in api.GoalInput) (*api.Goal, error)
	UpdateGoal(ctx context.Context, id int, in api.GoalInput) (*api.Goal, error)
	DeleteGoal(ctx context.Context, id int) error
	CreateTodo(ctx context.Context, in api.TodoInput) (*api.Todo, error)
	UpdateTodo(ctx context.Context, id int, in api.TodoInput) (*api.Todo, error)
	SetTodoCompleted(ctx context.Context, id int, completed bool) (*api.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
	CreateEvent(ctx context.Context, in api.EventInput) (*api.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id int, in api.EventInput) (*api.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id int) error
}

// State is the aggregation root as the service sees it.
type State interface {
	Refresh(ctx context.Context) error
	Snapshot() state.Snapshot
}

// Confirmer asks a yes/no question and blocks until answered.
type Confirmer func(prompt string) (bool, error)

// AlwaysConfirm answers yes; for callers that confirmed upstream.
func AlwaysConfirm(string) (bool, error) { return true, nil }

// Service wires the backend, the state store and a confirmation prompt.
type Service struct {
	Backend Backend
	State   State
	Confirm Confirmer
	Log     *zap.SugaredLogger
}

func (s *Service) logger() *zap.SugaredLogger {
	if s.Log == nil {
		return zap.NewNop().Sugar()
	}
	return s.Log
}

func (s *Service) ready() error {
	if s.Backend == nil || s.State == nil {
		return errors.New("app: service is not configured")
	}
	return nil
}

// Refresh re-reads everything from the backend.
func (s *Service) Refresh(ctx context.Context) error {
	if s.State == nil {
		return errors.New("app: service is not configured")
	}
	return s.State.Refresh(ctx)
}

// Snapshot returns the current state.
func (s *Service) Snapshot() state.Snapshot {
	if s.State == nil {
		return state.Snapshot{}
	}
	return s.State.Snapshot()
}

// SubmitGoal creates or updates the goal in f. The form is reset whatever
// the outcome; a validation error leaves it open instead.
func (s *Service) SubmitGoal(ctx context.Context, f *GoalForm) error {
	if err := s.ready(); err != nil {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return err
	}
	editing, id := f.Mode == ModeEditing, f.EditingID
	f.Reset()

	if editing {
		_, err = s.Backend.UpdateGoal(ctx, id, in)
	} else {
		_, err = s.Backend.CreateGoal(ctx, in)
	}
	if err != nil {
		s.logger().Errorw("error saving goal", "op", uuid.NewString(), "id", id, "error", err)
		return err
	}
	return s.State.Refresh(ctx)
}

// DeleteGoal removes a goal after confirmation. The backend cascades to
// the goal's todos.
func (s *Service) DeleteGoal(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.confirm(GoalDeletePrompt); err != nil {
		return err
	}
	if err := s.Backend.DeleteGoal(ctx, id); err != nil {
		s.logger().Errorw("error deleting goal", "op", uuid.NewString(), "id", id, "error", err)
		return err
	}
	return s.State.Refresh(ctx)
}

// SubmitTodo creates or updates the todo in f.
func (s *Service) SubmitTodo(ctx context.Context, f *TodoForm) error {
	if err := s.ready(); err != nil {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return err
	}
	editing, id := f.Mode == ModeEditing, f.EditingID
	if in.GoalID != nil {
		if err := s.checkGoal(ctx, *in.GoalID, editing, id); err != nil {
			return err
		}
	}
	f.Reset()

	if editing {
		_, err = s.Backend.UpdateTodo(ctx, id, in)
	} else {
		_, err = s.Backend.CreateTodo(ctx, in)
	}
	if err != nil {
		s.logger().Errorw("error saving todo", "op", uuid.NewString(), "id", id, "error", err)
		return err
	}
	return s.State.Refresh(ctx)
}

// checkGoal accepts an active goal, or the goal an edited todo already
// belongs to. A miss on the current snapshot is retried after a refresh.
func (s *Service) checkGoal(ctx context.Context, goalID int, editing bool, todoID int) error {
	ok := func(snap state.Snapshot) bool {
		for _, g := range views.AssignableGoals(snap.Goals) {
			if g.ID == goalID {
				return true
			}
		}
		if !editing {
			return false
		}
		for _, t := range snap.Todos {
			if t.ID == todoID {
				return t.GoalID != nil && *t.GoalID == goalID
			}
		}
		return false
	}
	snap := s.State.Snapshot()
	if snap.Loaded() && ok(snap) {
		return nil
	}
	if err := s.State.Refresh(ctx); err != nil {
		return err
	}
	if !ok(s.State.Snapshot()) {
		return fmt.Errorf("%w: goal %d is not active", ErrInvalidGoal, goalID)
	}
	return nil
}

// ToggleTodo flips completion with a partial update carrying only the flag.
func (s *Service) ToggleTodo(ctx context.Context, t api.Todo) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.Backend.SetTodoCompleted(ctx, t.ID, !t.Completed); err != nil {
		s.logger().Errorw("error updating todo", "op", uuid.NewString(), "id", t.ID, "error", err)
		return err
	}
	return s.State.Refresh(ctx)
}

// DeleteTodo removes a todo after confirmation.
func (s *Service) DeleteTodo(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.confirm(TodoDeletePrompt); err != nil {
		return err
	}
	if err := s.Backend.DeleteTodo(ctx, id); err != nil {
		s.logger().Errorw("error deleting todo", "op", uuid.NewString(), "id", id, "error", err)
		return err
	}
	return s.State.Refresh(ctx)
}

// SubmitEvent creates or updates the manual event in f.
func (s *Service) SubmitEvent(ctx context.Context, f *EventForm) error {
	if err := s.ready(); err != nil {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return err
	}
	editing, id := f.Mode == ModeEditing, f.EditingID
	f.Reset()

	if editing {
		_, err = s.Backend.UpdateEvent(ctx, id, in)
	} else {
		_, err = s.Backend.CreateEvent(ctx, in)
	}
	if err != nil {
		s.logger().Errorw("error saving event", "op", uuid.NewString(), "id", id, "error", err)
		return err
	}
	return s.State.Refresh(ctx)
}

// DeleteEvent removes a manual event after confirmation.
func (s *Service) DeleteEvent(ctx context.Context, e api.CalendarEvent) error {
	if err := s.ready(); err != nil {
		return err
	}
	if e.AutoGenerated() {
		return ErrAutoGenerated
	}
	if err := s.confirm(EventDeletePrompt); err != nil {
		return err
	}
	if err := s.Backend.DeleteEvent(ctx, e.ID); err != nil {
		s.logger().Errorw("error deleting event", "op", uuid.NewString(), "id", e.ID, "error", err)
		return err
	}
	return s.State.Refresh(ctx)
}

func (s *Service) confirm(prompt string) error {
	if s.Confirm == nil {
		return ErrCancelled
	}
	ok, err := s.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// Todo finds a todo in the current snapshot.
func (s *Service) Todo(id int) (api.Todo, error) {
	for _, t := range s.Snapshot().Todos {
		if t.ID == id {
			return t, nil
		}
	}
	return api.Todo{}, ErrNotFound
}

// FetchGoal reads one goal and its todos straight from the backend.
func (s *Service) FetchGoal(ctx context.Context, id int) (*api.GoalWithTodos, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	g, err := s.Backend.GetGoal(ctx, id)
	return g, notFound(err)
}

// FetchTodo reads one todo straight from the backend.
func (s *Service) FetchTodo(ctx context.Context, id int) (*api.Todo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.Backend.GetTodo(ctx, id)
	return t, notFound(err)
}

// FetchEvent reads one event straight from the backend.
func (s *Service) FetchEvent(ctx context.Context, id int) (*api.CalendarEvent, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	e, err := s.Backend.GetEvent(ctx, id)
	return e, notFound(err)
}

// notFound folds a backend 404 into ErrNotFound.
func notFound(err error) error {
	if api.IsNotFound(err) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
