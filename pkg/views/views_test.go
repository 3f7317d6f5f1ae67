package views

import (
	"testing"
	"time"

	"tableflip.dev/taskodos/pkg/api"
)

func at(year int, month time.Month, day, hour int) api.Timestamp {
	return api.NewTimestamp(time.Date(year, month, day, hour, 0, 0, 0, time.UTC))
}

func intp(v int) *int { return &v }

func TestPartitionGoals(t *testing.T) {
	goals := []api.Goal{
		{ID: 1, Title: "a", Status: api.GoalActive},
		{ID: 2, Title: "b", Status: api.GoalCompleted},
		{ID: 3, Title: "c", Status: api.GoalArchived},
		{ID: 4, Title: "d", Status: api.GoalActive},
	}
	p := PartitionGoals(goals)
	if len(p.Active) != 2 || p.Active[0].ID != 1 || p.Active[1].ID != 4 {
		t.Fatalf("unexpected active goals: %+v", p.Active)
	}
	if len(p.Completed) != 1 || p.Completed[0].ID != 2 {
		t.Fatalf("unexpected completed goals: %+v", p.Completed)
	}
	if p.Archived != 1 {
		t.Fatalf("expected one archived goal, got %d", p.Archived)
	}
}

func TestPartitionEmpty(t *testing.T) {
	p := PartitionGoals(nil)
	if p.Active == nil || p.Completed == nil {
		t.Fatalf("expected empty, non-nil partitions")
	}
	tp := PartitionTodos(nil)
	if tp.Pending == nil || tp.Completed == nil {
		t.Fatalf("expected empty, non-nil partitions")
	}
}

func TestAssignableGoalsExcludesInactive(t *testing.T) {
	goals := []api.Goal{
		{ID: 1, Status: api.GoalActive},
		{ID: 2, Status: api.GoalCompleted},
		{ID: 3, Status: api.GoalArchived},
	}
	got := AssignableGoals(goals)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only the active goal, got %+v", got)
	}
}

func TestPartitionTodos(t *testing.T) {
	todos := []api.Todo{
		{ID: 1, Completed: true},
		{ID: 2},
		{ID: 3},
		{ID: 4, Completed: true},
	}
	p := PartitionTodos(todos)
	if len(p.Pending) != 2 || p.Pending[0].ID != 2 || p.Pending[1].ID != 3 {
		t.Fatalf("unexpected pending: %+v", p.Pending)
	}
	if len(p.Completed) != 2 || p.Completed[0].ID != 1 || p.Completed[1].ID != 4 {
		t.Fatalf("unexpected completed: %+v", p.Completed)
	}
}

func TestGroupByDay(t *testing.T) {
	events := []api.CalendarEvent{
		{ID: 1, EventDate: at(2024, time.March, 5, 18)},
		{ID: 2, EventDate: at(2024, time.March, 1, 9)},
		{ID: 3, EventDate: at(2024, time.March, 5, 7)},
	}
	groups := GroupByDay(events)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "2024-03-01" || groups[1].Key != "2024-03-05" {
		t.Fatalf("unexpected group order: %s, %s", groups[0].Key, groups[1].Key)
	}
	if groups[1].Label != "March 5, 2024" {
		t.Fatalf("unexpected label %q", groups[1].Label)
	}
	// Input order is kept inside a day.
	if got := groups[1].Events; len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected events in group: %+v", got)
	}
}

func TestSplitTimeline(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	events := []api.CalendarEvent{
		{ID: 1, EventDate: at(2024, time.March, 12, 0)},
		{ID: 2, EventDate: at(2024, time.March, 9, 0)},
		{ID: 3, EventDate: at(2024, time.March, 10, 12)},
		{ID: 4, EventDate: at(2024, time.March, 11, 0)},
		{ID: 5, EventDate: at(2024, time.March, 1, 0)},
	}
	tl := SplitTimeline(events, now)

	wantUp := []int{3, 4, 1}
	if len(tl.Upcoming) != len(wantUp) {
		t.Fatalf("expected %d upcoming, got %d", len(wantUp), len(tl.Upcoming))
	}
	for i, id := range wantUp {
		if tl.Upcoming[i].ID != id {
			t.Fatalf("upcoming[%d] = %d, want %d", i, tl.Upcoming[i].ID, id)
		}
	}
	if len(tl.Past) != 2 || tl.Past[0].ID != 2 || tl.Past[1].ID != 5 {
		t.Fatalf("unexpected past order: %+v", tl.Past)
	}
}

func TestSplitTimelineCapsPast(t *testing.T) {
	now := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	var events []api.CalendarEvent
	for day := 1; day <= 15; day++ {
		events = append(events, api.CalendarEvent{ID: day, EventDate: at(2024, time.March, day, 0)})
	}
	tl := SplitTimeline(events, now)
	if len(tl.Past) != PastLimit {
		t.Fatalf("expected %d past events, got %d", PastLimit, len(tl.Past))
	}
	if tl.PastTotal != 15 {
		t.Fatalf("expected total 15, got %d", tl.PastTotal)
	}
	if tl.Past[0].ID != 15 || tl.Past[PastLimit-1].ID != 6 {
		t.Fatalf("expected the most recent past events, got first=%d last=%d", tl.Past[0].ID, tl.Past[PastLimit-1].ID)
	}
	if len(tl.Upcoming) != 0 {
		t.Fatalf("expected no upcoming events")
	}
}

func TestBadges(t *testing.T) {
	manual := api.CalendarEvent{ID: 1}
	if IsAutoGenerated(manual) || len(Badges(manual)) != 0 {
		t.Fatalf("manual event should carry no badges")
	}
	fromTodo := api.CalendarEvent{ID: 2, TodoID: intp(1), GoalID: intp(3)}
	if !IsAutoGenerated(fromTodo) {
		t.Fatalf("expected todo event to be auto-generated")
	}
	b := Badges(fromTodo)
	if len(b) != 2 || b[0] != TodoBadge || b[1] != GoalBadge {
		t.Fatalf("unexpected badges %v", b)
	}
}

func TestGoalTitle(t *testing.T) {
	goals := []api.Goal{{ID: 3, Title: "Archived goal", Status: api.GoalArchived}}
	if name, ok := GoalTitle(api.Todo{GoalID: intp(3)}, goals); !ok || name != "Archived goal" {
		t.Fatalf("expected association to archived goal to show, got %q %v", name, ok)
	}
	embedded := api.Todo{GoalID: intp(9), Goal: &api.Goal{ID: 9, Title: "Embedded"}}
	if name, _ := GoalTitle(embedded, goals); name != "Embedded" {
		t.Fatalf("expected embedded goal title, got %q", name)
	}
	if _, ok := GoalTitle(api.Todo{}, goals); ok {
		t.Fatalf("standalone todo has no goal")
	}
}
