// Package api holds the wire types and the REST client for the taskodos
// backend (goals, todos, calendar events and stats).
package api

import (
	"fmt"
	"strings"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalArchived  GoalStatus = "archived"
)

// GoalStatuses lists the statuses in form order.
func GoalStatuses() []GoalStatus {
	return []GoalStatus{GoalActive, GoalCompleted, GoalArchived}
}

// ParseGoalStatus converts user input to a GoalStatus. Empty means active.
func ParseGoalStatus(raw string) (GoalStatus, error) {
	s := GoalStatus(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return GoalActive, nil
	}
	for _, candidate := range GoalStatuses() {
		if candidate == s {
			return candidate, nil
		}
	}
	return GoalActive, fmt.Errorf("api: unknown goal status %q", raw)
}

// Goal is a long-running objective.
type Goal struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	TargetDate  *Timestamp `json:"target_date"`
	Status      GoalStatus `json:"status"`
	CreatedAt   Timestamp  `json:"created_at"`
}

// GoalWithTodos is the single-goal read, carrying the todos that reference it.
type GoalWithTodos struct {
	Goal
	Todos []Todo `json:"todos"`
}

// Todo is a single actionable item, optionally attached to a goal.
type Todo struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *Timestamp `json:"due_date"`
	Completed   bool       `json:"completed"`
	GoalID      *int       `json:"goal_id"`
	Goal        *Goal      `json:"goal,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
}

// CalendarEvent is a dated entry. Events referencing a todo or a goal are
// generated by the backend from that entity's date.
type CalendarEvent struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   Timestamp `json:"event_date"`
	TodoID      *int      `json:"todo_id"`
	GoalID      *int      `json:"goal_id"`
	CreatedAt   Timestamp `json:"created_at"`
}

// AutoGenerated reports whether the backend owns this event.
func (e CalendarEvent) AutoGenerated() bool {
	return e.TodoID != nil || e.GoalID != nil
}

// GoalCounts is the goal block of Stats.
type GoalCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// TodoCounts is the todo block of Stats.
type TodoCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Stats are aggregate counts computed by the backend. Display only.
type Stats struct {
	Goals          GoalCounts `json:"goals"`
	Todos          TodoCounts `json:"todos"`
	CalendarEvents int        `json:"calendar_events"`
}

// GoalInput is the body of a goal create or full update.
type GoalInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *Date      `json:"target_date"`
	Status      GoalStatus `json:"status"`
}

// TodoInput is the body of a todo create or full update.
type TodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     *Date  `json:"due_date"`
	Completed   bool   `json:"completed"`
	GoalID      *int   `json:"goal_id"`
}

// TodoCompletion is the partial update body used to flip completion.
type TodoCompletion struct {
	Completed bool `json:"completed"`
}

// EventInput is the body of a manual event create or update.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   Date   `json:"event_date"`
}

// Text dereferences an optional string.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
