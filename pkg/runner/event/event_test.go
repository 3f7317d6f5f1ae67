package event

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/api/apitest"
	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/state"
)

func newService(t *testing.T) (*app.Service, *apitest.Backend) {
	t.Helper()
	color.NoColor = true
	backend := apitest.New()
	client, err := api.New(backend.Start(t))
	require.NoError(t, err)
	return &app.Service{Backend: client, State: state.New(client), Confirm: app.AlwaysConfirm}, backend
}

func TestAdd(t *testing.T) {
	svc, backend := newService(t)
	var out bytes.Buffer
	a := Add{Service: svc, Title: "Dentist", Date: "2024-05-02", Out: &out}
	require.NoError(t, a.Do(context.Background()))

	require.Len(t, backend.Events(), 1)
	assert.Equal(t, "2024-05-02", backend.Events()[0].EventDate.Date().String())
	assert.Contains(t, out.String(), `Created event "Dentist"`)
}

func TestAddRequiresDate(t *testing.T) {
	svc, backend := newService(t)
	assert.Error(t, (&Add{Service: svc, Title: "Dentist"}).Do(context.Background()))
	assert.Empty(t, backend.Events())
}

func TestEdit(t *testing.T) {
	svc, backend := newService(t)
	seeded := backend.SeedEvent(api.CalendarEvent{
		Title:     "Dentist",
		EventDate: api.NewTimestamp(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)),
	})

	date := "2024-05-03"
	require.NoError(t, (&Edit{Service: svc, ID: seeded.ID, Date: &date, Out: &bytes.Buffer{}}).Do(context.Background()))
	got := backend.Events()[0]
	assert.Equal(t, "Dentist", got.Title)
	assert.Equal(t, "2024-05-03", got.EventDate.Date().String())
}

func TestGeneratedEventsAreReadOnly(t *testing.T) {
	svc, backend := newService(t)
	todoID := 7
	seeded := backend.SeedEvent(api.CalendarEvent{
		Title:     "Todo: Finish book",
		EventDate: api.NewTimestamp(time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)),
		TodoID:    &todoID,
	})

	title := "Renamed"
	err := (&Edit{Service: svc, ID: seeded.ID, Title: &title}).Do(context.Background())
	assert.ErrorIs(t, err, app.ErrAutoGenerated)

	err = (&Delete{Service: svc, ID: seeded.ID}).Do(context.Background())
	assert.ErrorIs(t, err, app.ErrAutoGenerated)
	assert.Len(t, backend.Events(), 1)
}

func TestDelete(t *testing.T) {
	svc, backend := newService(t)
	seeded := backend.SeedEvent(api.CalendarEvent{
		Title:     "Party",
		EventDate: api.NewTimestamp(time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)),
	})

	var out bytes.Buffer
	require.NoError(t, (&Delete{Service: svc, ID: seeded.ID, Out: &out}).Do(context.Background()))
	assert.Empty(t, backend.Events())
	assert.Contains(t, out.String(), `Deleted event "Party"`)
}

func TestUnknownEvent(t *testing.T) {
	svc, _ := newService(t)
	title := "x"
	assert.ErrorIs(t, (&Edit{Service: svc, ID: 42, Title: &title}).Do(context.Background()), app.ErrNotFound)
	assert.ErrorIs(t, (&Delete{Service: svc, ID: 42}).Do(context.Background()), app.ErrNotFound)
}
