// Package views derives the display partitions the UI renders from the raw
// collections: goals by status, todos by completion and calendar events by day
// or by position relative to now. Everything here is pure.
package views

import (
	"sort"
	"time"

	"tableflip.dev/taskodos/pkg/api"
)

// PastLimit caps how many past events the upcoming view shows.
const PastLimit = 10

// GoalPartition splits goals by status. Archived goals land in neither
// bucket; Archived only counts them.
type GoalPartition struct {
	Active    []api.Goal
	Completed []api.Goal
	Archived  int
}

// PartitionGoals splits goals into active and completed, preserving order.
func PartitionGoals(goals []api.Goal) GoalPartition {
	p := GoalPartition{Active: []api.Goal{}, Completed: []api.Goal{}}
	for _, g := range goals {
		switch g.Status {
		case api.GoalActive:
			p.Active = append(p.Active, g)
		case api.GoalCompleted:
			p.Completed = append(p.Completed, g)
		default:
			p.Archived++
		}
	}
	return p
}

// AssignableGoals returns the goals a todo can be newly attached to.
func AssignableGoals(goals []api.Goal) []api.Goal {
	out := make([]api.Goal, 0, len(goals))
	for _, g := range goals {
		if g.Status == api.GoalActive {
			out = append(out, g)
		}
	}
	return out
}

// TodoPartition splits todos by the completion flag.
type TodoPartition struct {
	Pending   []api.Todo
	Completed []api.Todo
}

// PartitionTodos splits todos into pending and completed, preserving order.
func PartitionTodos(todos []api.Todo) TodoPartition {
	p := TodoPartition{Pending: []api.Todo{}, Completed: []api.Todo{}}
	for _, t := range todos {
		if t.Completed {
			p.Completed = append(p.Completed, t)
		} else {
			p.Pending = append(p.Pending, t)
		}
	}
	return p
}

// DayGroup is every event falling on one calendar day.
type DayGroup struct {
	Key    string
	Date   api.Date
	Label  string
	Events []api.CalendarEvent
}

// GroupByDay buckets events by calendar day. Groups are ascending by date;
// events keep their input order inside a group.
func GroupByDay(events []api.CalendarEvent) []DayGroup {
	index := make(map[api.Date]int)
	groups := make([]DayGroup, 0)
	for _, e := range events {
		d := e.EventDate.Date()
		i, ok := index[d]
		if !ok {
			i = len(groups)
			index[d] = i
			groups = append(groups, DayGroup{Key: d.String(), Date: d, Label: d.Label()})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}

// Timeline is the upcoming/past split of the calendar.
type Timeline struct {
	Upcoming  []api.CalendarEvent
	Past      []api.CalendarEvent
	PastTotal int
}

// SplitTimeline partitions events against now, which must already be a wall
// clock (see api.WallClock). Upcoming is ascending, past descending and capped
// at PastLimit; PastTotal keeps the uncapped count.
func SplitTimeline(events []api.CalendarEvent, now time.Time) Timeline {
	tl := Timeline{Upcoming: []api.CalendarEvent{}, Past: []api.CalendarEvent{}}
	for _, e := range events {
		if e.EventDate.Before(now) {
			tl.Past = append(tl.Past, e)
		} else {
			tl.Upcoming = append(tl.Upcoming, e)
		}
	}
	sort.SliceStable(tl.Upcoming, func(i, j int) bool {
		return tl.Upcoming[i].EventDate.Before(tl.Upcoming[j].EventDate.Time)
	})
	sort.SliceStable(tl.Past, func(i, j int) bool {
		return tl.Past[j].EventDate.Before(tl.Past[i].EventDate.Time)
	})
	tl.PastTotal = len(tl.Past)
	if len(tl.Past) > PastLimit {
		tl.Past = tl.Past[:PastLimit]
	}
	return tl
}

// IsAutoGenerated reports whether the event was derived from a todo or goal
// and so cannot be edited or deleted here.
func IsAutoGenerated(e api.CalendarEvent) bool {
	return e.AutoGenerated()
}

const (
	TodoBadge = "📋 Todo"
	GoalBadge = "🎯 Goal"
	AutoLabel = "Auto-generated"
)

// Badges lists the source markers of an event.
func Badges(e api.CalendarEvent) []string {
	var out []string
	if e.TodoID != nil {
		out = append(out, TodoBadge)
	}
	if e.GoalID != nil {
		out = append(out, GoalBadge)
	}
	return out
}

// Now returns the current wall clock in loc, ready for SplitTimeline.
func Now(loc *time.Location) time.Time {
	return api.WallClock(time.Now(), loc)
}

// GoalTitle returns the title of the goal t belongs to, preferring the goal
// embedded by the backend. Associations to any goal status are shown.
func GoalTitle(t api.Todo, goals []api.Goal) (string, bool) {
	if t.Goal != nil {
		return t.Goal.Title, true
	}
	if t.GoalID == nil {
		return "", false
	}
	for _, g := range goals {
		if g.ID == *t.GoalID {
			return g.Title, true
		}
	}
	return "", false
}
