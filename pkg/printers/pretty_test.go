package printers

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskodos/pkg/api"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func day(d int) api.Timestamp {
	return api.NewTimestamp(time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC))
}

func contains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("expected %q in output:\n%s", w, out)
		}
	}
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Stats(nil)
	if buf.Len() != 0 {
		t.Fatalf("nil stats should print nothing, got %q", buf.String())
	}
	pp.Stats(&api.Stats{
		Goals:          api.GoalCounts{Active: 2},
		Todos:          api.TodoCounts{Pending: 3, Completed: 4},
		CalendarEvents: 5,
	})
	contains(t, buf.String(), "2  Active Goals", "3  Pending Todos", "4  Completed Todos", "5  Calendar Events")
}

func TestGoals(t *testing.T) {
	target := day(31)
	desc := "Twelve books this year"
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, ShowID: true}
	pp.Goals([]api.Goal{
		{ID: 7, Title: "Read more", Status: api.GoalActive, TargetDate: &target, Description: &desc},
		{ID: 8, Title: "Old plan", Status: api.GoalArchived},
		{ID: 9, Title: "Ship v1", Status: api.GoalCompleted},
	})
	out := buf.String()
	contains(t, out, "Active Goals (1)", "7", "Read more", "Target: May 31, 2024", "Twelve books this year", "Completed Goals (1)", "✓", "Ship v1")
	if strings.Contains(out, "Old plan") {
		t.Fatalf("archived goals must not be listed:\n%s", out)
	}
}

func TestGoalsEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Goals(nil)
	out := buf.String()
	contains(t, out, "Active Goals (0)", "No active goals. Create one to get started!")
	if strings.Contains(out, "Completed Goals") {
		t.Fatalf("completed section should be omitted when empty:\n%s", out)
	}
}

func TestTodos(t *testing.T) {
	due := day(20)
	goalID := 1
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Todos([]api.Todo{
		{ID: 1, Title: "Finish book", DueDate: &due, GoalID: &goalID},
		{ID: 2, Title: "Water plants", Completed: true},
	}, []api.Goal{{ID: 1, Title: "Read more", Status: api.GoalArchived}})
	contains(t, buf.String(), "Pending (1)", "☐", "Finish book", "Due: May 20, 2024", "🎯 Read more", "Completed (1)", "☑", "Water plants")
}

func TestTodosEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Todos(nil, nil)
	contains(t, buf.String(), "Pending (0)", "No pending todos. Great job!")
}

func TestCalendar(t *testing.T) {
	todoID := 3
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Calendar([]api.CalendarEvent{
		{ID: 1, Title: "Todo: Finish book", EventDate: day(20), TodoID: &todoID},
		{ID: 2, Title: "Dentist", EventDate: day(2)},
	})
	out := buf.String()
	contains(t, out, "May 2, 2024", "Dentist", "May 20, 2024", "📋 Todo", "Auto-generated")
	if strings.Index(out, "Dentist") > strings.Index(out, "Finish book") {
		t.Fatalf("days should be ascending:\n%s", out)
	}
}

func TestCalendarEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Calendar(nil)
	contains(t, buf.String(), "No events scheduled.")
}

func TestUpcoming(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	pp.Upcoming([]api.CalendarEvent{
		{ID: 1, Title: "Later", EventDate: day(20)},
		{ID: 2, Title: "Earlier", EventDate: day(2)},
	}, now)
	out := buf.String()
	contains(t, out, "Upcoming Events (1)", "Later", "Past Events (1)", "Earlier")
	if strings.Index(out, "Later") > strings.Index(out, "Earlier") {
		t.Fatalf("upcoming should print before past:\n%s", out)
	}
}

func TestUpcomingCapsPast(t *testing.T) {
	var events []api.CalendarEvent
	for d := 1; d <= 12; d++ {
		events = append(events, api.CalendarEvent{ID: d, Title: fmt.Sprintf("Past %02d", d), EventDate: day(d)})
	}
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Upcoming(events, time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC))
	out := buf.String()
	contains(t, out, "No upcoming events.", "Past Events (12)", "Past 12", "Past 03", "2 older events not shown")
	if strings.Contains(out, "Past 02") || strings.Contains(out, "Past 01") {
		t.Fatalf("only the ten most recent past events should print:\n%s", out)
	}
}
