package get

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/api/apitest"
	"tableflip.dev/taskodos/pkg/state"
	"tableflip.dev/taskodos/pkg/store"
)

func init() {
	color.NoColor = true
}

func day(d int) api.Timestamp {
	return api.NewTimestamp(time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC))
}

func newBackend(t *testing.T) (*apitest.Backend, *api.Client) {
	t.Helper()
	backend := apitest.New()
	backend.SeedGoal(api.Goal{ID: 1, Title: "Read more", Status: api.GoalActive})
	backend.SeedTodo(api.Todo{ID: 2, Title: "Finish book"})
	backend.SeedEvent(api.CalendarEvent{ID: 3, Title: "Dentist", EventDate: day(2)})
	backend.SeedEvent(api.CalendarEvent{ID: 4, Title: "Party", EventDate: day(20)})
	client, err := api.New(backend.Start(t))
	require.NoError(t, err)
	return backend, client
}

func TestParseResource(t *testing.T) {
	for raw, want := range map[string]Resource{"": All, "goal": Goals, "t": Todos, "events": Calendar, "stats": Stats} {
		got, err := ParseResource(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseResource("notes")
	assert.Error(t, err)
}

func TestGetAll(t *testing.T) {
	_, client := newBackend(t)
	var out bytes.Buffer
	g := Get{State: state.New(client), Location: time.UTC, Out: &out}
	require.NoError(t, g.Do(context.Background()))

	for _, want := range []string{"📝 Taskodos", "Active Goals", "Read more", "Pending (1)", "Finish book", "Dentist", "Party"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestGetRangeAsksBackend(t *testing.T) {
	backend, client := newBackend(t)
	var out bytes.Buffer
	g := Get{
		Resource: Calendar,
		From:     api.Date{Year: 2024, Month: time.May, Day: 15},
		State:    state.New(client),
		Ranger:   client,
		Out:      &out,
	}
	require.NoError(t, g.Do(context.Background()))

	assert.Contains(t, out.String(), "Party")
	assert.NotContains(t, out.String(), "Dentist")
	var ranged int
	for _, r := range backend.Requests() {
		if r.Method == http.MethodGet && r.Path == "/api/calendar" && r.Query != "" {
			ranged++
		}
	}
	assert.Equal(t, 1, ranged)
}

func TestGetRejectsInvertedRange(t *testing.T) {
	g := Get{
		From: api.Date{Year: 2024, Month: time.May, Day: 15},
		To:   api.Date{Year: 2024, Month: time.May, Day: 1},
	}
	assert.Error(t, g.Do(context.Background()))
}

func TestGetJSON(t *testing.T) {
	_, client := newBackend(t)
	var out bytes.Buffer
	g := Get{Resource: Goals, JSON: true, State: state.New(client), Out: &out}
	require.NoError(t, g.Do(context.Background()))
	assert.Contains(t, out.String(), `"title": "Read more"`)
}

func TestGetCachedFiltersLocally(t *testing.T) {
	_, client := newBackend(t)
	archive, err := store.Open(t.TempDir())
	require.NoError(t, err)
	s := state.New(client, state.WithArchive(archive))
	require.NoError(t, s.Refresh(context.Background()))

	var out bytes.Buffer
	g := Get{
		Resource: Calendar,
		Cached:   true,
		To:       api.Date{Year: 2024, Month: time.May, Day: 10},
		Archive:  archive,
		Out:      &out,
	}
	require.NoError(t, g.Do(context.Background()))
	assert.Contains(t, out.String(), "cached ")
	assert.Contains(t, out.String(), "Dentist")
	assert.NotContains(t, out.String(), "Party")
}

func TestGetCachedWithoutArchive(t *testing.T) {
	g := Get{Cached: true}
	assert.Error(t, g.Do(context.Background()))
}
