package app_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/api/apitest"
	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/state"
)

type harness struct {
	backend *apitest.Backend
	store   *state.Store
	svc     *app.Service
	asked   []string
}

func newHarness(t *testing.T, answer bool) *harness {
	t.Helper()
	h := &harness{backend: apitest.New()}
	client, err := api.New(h.backend.Start(t))
	require.NoError(t, err)
	h.store = state.New(client)
	h.svc = &app.Service{
		Backend: client,
		State:   h.store,
		Confirm: func(prompt string) (bool, error) {
			h.asked = append(h.asked, prompt)
			return answer, nil
		},
	}
	return h
}

// refreshes counts full reloads: each one reads /stats exactly once.
func (h *harness) refreshes() int {
	return h.backend.Count(http.MethodGet, "/api/stats")
}

func TestSubmitTodoCreatesAndRefreshes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)

	f := app.NewTodoForm()
	f.Toggle()
	f.Title = "Learn React"
	f.DueDate = "2024-12-31"
	require.NoError(t, h.svc.SubmitTodo(ctx, &f))

	assert.False(t, f.Open(), "form should be reset after submit")
	assert.Equal(t, "", f.Title)

	posts := 0
	for _, r := range h.backend.Requests() {
		if r.Method == http.MethodPost && r.Path == "/api/todos" {
			posts++
			assert.JSONEq(t,
				`{"title":"Learn React","description":"","due_date":"2024-12-31","completed":false,"goal_id":null}`,
				r.Body)
		}
	}
	assert.Equal(t, 1, posts)
	assert.Equal(t, 1, h.refreshes())

	snap := h.svc.Snapshot()
	require.Len(t, snap.Todos, 1)
	assert.Equal(t, "Learn React", snap.Todos[0].Title)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "Todo: Learn React", snap.Events[0].Title)
	assert.True(t, snap.Events[0].AutoGenerated())
}

func TestSubmitValidationKeepsForm(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)

	f := app.NewGoalForm()
	f.Toggle()
	f.Description = "no title"
	err := h.svc.SubmitGoal(ctx, &f)
	assert.ErrorIs(t, err, app.ErrTitleRequired)
	assert.True(t, f.Open())
	assert.Equal(t, "no title", f.Description)
	assert.Empty(t, h.backend.Requests())
}

func TestSubmitFailureResetsFormWithoutRefresh(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	h.backend.Fail(http.MethodPost, "/api/goals", http.StatusInternalServerError)

	f := app.NewGoalForm()
	f.Toggle()
	f.Title = "Doomed"
	err := h.svc.SubmitGoal(ctx, &f)
	require.Error(t, err)
	assert.False(t, f.Open())
	assert.Equal(t, 0, h.refreshes())
}

func TestEditGoalUsesPut(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	target := api.NewTimestamp(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC))
	g := h.backend.SeedGoal(api.Goal{Title: "Old", Status: api.GoalActive, TargetDate: &target})

	got, err := h.svc.FetchGoal(ctx, g.ID)
	require.NoError(t, err)

	f := app.NewGoalForm()
	f.Edit(got.Goal)
	assert.Equal(t, "2024-06-30", f.TargetDate)
	assert.Equal(t, "Update Goal", f.SubmitLabel())
	f.Title = "New"
	require.NoError(t, h.svc.SubmitGoal(ctx, &f))

	assert.Equal(t, 1, h.backend.Count(http.MethodPut, "/api/goals/1"))
	require.Len(t, h.svc.Snapshot().Goals, 1)
	assert.Equal(t, "New", h.svc.Snapshot().Goals[0].Title)
}

func TestToggleTodoIssuesOnePutAndOneRefresh(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	todo := h.backend.SeedTodo(api.Todo{Title: "Write tests"})
	require.NoError(t, h.svc.Refresh(ctx))
	h.backend.Reset()

	require.NoError(t, h.svc.ToggleTodo(ctx, todo))

	reqs := h.backend.Requests()
	puts := 0
	for _, r := range reqs {
		if r.Method == http.MethodPut {
			puts++
			assert.Equal(t, "/api/todos/1", r.Path)
			assert.JSONEq(t, `{"completed":true}`, r.Body)
		}
	}
	assert.Equal(t, 1, puts)
	assert.Equal(t, 1, h.refreshes())
	assert.Len(t, reqs, 5)

	got, err := h.svc.Todo(todo.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestDeclinedDeleteIssuesNoRequest(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)
	g := h.backend.SeedGoal(api.Goal{Title: "Keep", Status: api.GoalActive})

	err := h.svc.DeleteGoal(ctx, g.ID)
	assert.ErrorIs(t, err, app.ErrCancelled)
	assert.Equal(t, []string{app.GoalDeletePrompt}, h.asked)
	assert.Equal(t, 0, h.backend.Count(http.MethodDelete, "/api/goals/1"))
	assert.Len(t, h.backend.Goals(), 1)
}

func TestNilConfirmerCancels(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	h.svc.Confirm = nil
	todo := h.backend.SeedTodo(api.Todo{Title: "x"})

	assert.ErrorIs(t, h.svc.DeleteTodo(ctx, todo.ID), app.ErrCancelled)
	assert.Empty(t, h.backend.Requests())
}

func TestConfirmedDeleteRefreshes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	todo := h.backend.SeedTodo(api.Todo{Title: "Gone"})
	require.NoError(t, h.svc.Refresh(ctx))

	require.NoError(t, h.svc.DeleteTodo(ctx, todo.ID))
	assert.Equal(t, []string{app.TodoDeletePrompt}, h.asked)
	assert.Equal(t, 1, h.backend.Count(http.MethodDelete, "/api/todos/1"))
	assert.Empty(t, h.svc.Snapshot().Todos)
}

func TestAutoGeneratedEventsAreReadOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	todoID := 7
	e := h.backend.SeedEvent(api.CalendarEvent{
		Title:     "Todo: x",
		EventDate: api.NewTimestamp(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)),
		TodoID:    &todoID,
	})

	err := h.svc.DeleteEvent(ctx, e)
	assert.ErrorIs(t, err, app.ErrAutoGenerated)
	assert.Empty(t, h.asked)
	assert.Empty(t, h.backend.Requests())

	f := app.NewEventForm()
	assert.ErrorIs(t, f.Edit(e), app.ErrAutoGenerated)
	assert.False(t, f.Open())
}

func TestManualEventLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)

	f := app.NewEventForm()
	f.Toggle()
	f.Title = "Dentist"
	f.EventDate = "2024-07-04"
	require.NoError(t, h.svc.SubmitEvent(ctx, &f))

	snap := h.svc.Snapshot()
	require.Len(t, snap.Events, 1)
	ev := snap.Events[0]
	assert.False(t, ev.AutoGenerated())

	require.NoError(t, f.Edit(ev))
	assert.Equal(t, "2024-07-04", f.EventDate)
	f.EventDate = "2024-07-05"
	require.NoError(t, h.svc.SubmitEvent(ctx, &f))
	fetched, err := h.svc.FetchEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-05", fetched.EventDate.Date().String())

	require.NoError(t, h.svc.DeleteEvent(ctx, *fetched))
	assert.Equal(t, []string{app.EventDeletePrompt}, h.asked)
	assert.Empty(t, h.svc.Snapshot().Events)
}

func TestLookupMissing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	_, err := h.svc.Todo(42)
	assert.True(t, errors.Is(err, app.ErrNotFound))

	_, err = h.svc.FetchGoal(ctx, 42)
	assert.ErrorIs(t, err, app.ErrNotFound)
	_, err = h.svc.FetchTodo(ctx, 42)
	assert.ErrorIs(t, err, app.ErrNotFound)
	_, err = h.svc.FetchEvent(ctx, 42)
	assert.ErrorIs(t, err, app.ErrNotFound)

	h.backend.Fail(http.MethodGet, "/api/todos/7", http.StatusInternalServerError)
	_, err = h.svc.FetchTodo(ctx, 7)
	require.Error(t, err)
	assert.False(t, errors.Is(err, app.ErrNotFound), "only a 404 maps to ErrNotFound")
}

func TestSubmitTodoRequiresActiveGoal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	done := h.backend.SeedGoal(api.Goal{Title: "Shipped", Status: api.GoalCompleted})
	old := h.backend.SeedGoal(api.Goal{Title: "Shelved", Status: api.GoalArchived})
	active := h.backend.SeedGoal(api.Goal{Title: "Running", Status: api.GoalActive})

	for _, id := range []int{done.ID, old.ID, 99} {
		f := app.NewTodoForm()
		f.Toggle()
		f.Title = "Attach"
		f.GoalID = strconv.Itoa(id)
		err := h.svc.SubmitTodo(ctx, &f)
		assert.ErrorIs(t, err, app.ErrInvalidGoal, "goal %d", id)
		assert.True(t, f.Open(), "a rejected goal keeps the form open")
	}
	assert.Equal(t, 0, h.backend.Count(http.MethodPost, "/api/todos"))

	f := app.NewTodoForm()
	f.Toggle()
	f.Title = "Attach"
	f.GoalID = strconv.Itoa(active.ID)
	require.NoError(t, h.svc.SubmitTodo(ctx, &f))
	assert.Equal(t, 1, h.backend.Count(http.MethodPost, "/api/todos"))
}

func TestEditTodoKeepsExistingGoal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	done := h.backend.SeedGoal(api.Goal{Title: "Shipped", Status: api.GoalCompleted})
	other := h.backend.SeedGoal(api.Goal{Title: "Archived", Status: api.GoalArchived})
	todo := h.backend.SeedTodo(api.Todo{Title: "Write notes", GoalID: &done.ID})
	require.NoError(t, h.svc.Refresh(ctx))

	current, err := h.svc.Todo(todo.ID)
	require.NoError(t, err)
	f := app.NewTodoForm()
	f.Edit(current)
	f.Title = "Write release notes"
	require.NoError(t, h.svc.SubmitTodo(ctx, &f), "an unchanged association is allowed")
	assert.Equal(t, 1, h.backend.Count(http.MethodPut, "/api/todos/"+strconv.Itoa(todo.ID)))

	current, err = h.svc.Todo(todo.ID)
	require.NoError(t, err)
	f.Edit(current)
	f.GoalID = strconv.Itoa(other.ID)
	assert.ErrorIs(t, h.svc.SubmitTodo(ctx, &f), app.ErrInvalidGoal)
	assert.Equal(t, 1, h.backend.Count(http.MethodPut, "/api/todos/"+strconv.Itoa(todo.ID)))
}
