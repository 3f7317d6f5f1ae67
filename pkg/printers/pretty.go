// Package printers renders snapshots for the command line.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/views"
)

const (
	titleWidth       = 60
	descriptionWidth = 72
)

type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// TitleWithCount prints "title (n)".
func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " (%d)\n", count)
}

func (pp *PrettyPrint) none(text string) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintf(pp.out(), "  %s\n\n", text)
}

// Header prints the application banner.
func (pp *PrettyPrint) Header() {
	_, _ = color.New(color.Bold).Fprintln(pp.out(), "📝 Taskodos")
	_, _ = color.New(color.Faint).Fprintln(pp.out(), "Goals, todos and calendar in one place")
	pp.NewLine()
}

// Stats prints the four headline counters. Nothing is printed before stats
// have loaded.
func (pp *PrettyPrint) Stats(s *api.Stats) {
	if s == nil {
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(
		bold.Sprint(s.Goals.Active), "Active Goals",
		bold.Sprint(s.Todos.Pending), "Pending Todos",
		bold.Sprint(s.Todos.Completed), "Completed Todos",
		bold.Sprint(s.CalendarEvents), "Calendar Events",
	)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Goals prints active goals, then completed goals when there are any.
func (pp *PrettyPrint) Goals(goals []api.Goal) {
	p := views.PartitionGoals(goals)

	pp.TitleWithCount("Active Goals", len(p.Active))
	if len(p.Active) == 0 {
		pp.none("No active goals. Create one to get started!")
	} else {
		pp.goalTable(p.Active, true)
	}

	if len(p.Completed) > 0 {
		pp.TitleWithCount("Completed Goals", len(p.Completed))
		pp.goalTable(p.Completed, false)
	}
}

func (pp *PrettyPrint) goalTable(goals []api.Goal, showTarget bool) {
	y := color.New(color.FgHiYellow, color.Faint)
	f := color.New(color.Faint)
	done := color.New(color.FgGreen)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, g := range goals {
		mark := "🎯"
		title := truncate.StringWithTail(g.Title, titleWidth, "…")
		if g.Status == api.GoalCompleted {
			mark = done.Sprint("✓")
		}
		target := ""
		if showTarget && g.TargetDate != nil && !g.TargetDate.IsZero() {
			target = f.Sprint("Target: " + g.TargetDate.Date().Label())
		}
		if pp.ShowID {
			tbl.AddRow(y.Sprint(g.ID), mark, title, target)
		} else {
			tbl.AddRow(mark, title, target)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	for _, g := range goals {
		pp.description(g.Title, g.Description)
	}
	pp.NewLine()
}

// Todos prints pending todos, then completed todos when there are any.
func (pp *PrettyPrint) Todos(todos []api.Todo, goals []api.Goal) {
	p := views.PartitionTodos(todos)

	pp.TitleWithCount("Pending", len(p.Pending))
	if len(p.Pending) == 0 {
		pp.none("No pending todos. Great job!")
	} else {
		pp.todoTable(p.Pending, goals)
	}

	if len(p.Completed) > 0 {
		pp.TitleWithCount("Completed", len(p.Completed))
		pp.todoTable(p.Completed, goals)
	}
}

func (pp *PrettyPrint) todoTable(todos []api.Todo, goals []api.Goal) {
	y := color.New(color.FgHiYellow, color.Faint)
	f := color.New(color.Faint)
	g := color.New(color.FgMagenta)
	done := color.New(color.FgGreen)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, t := range todos {
		box := "☐"
		title := truncate.StringWithTail(t.Title, titleWidth, "…")
		if t.Completed {
			box = done.Sprint("☑")
			title = color.New(color.CrossedOut, color.Faint).Sprint(title)
		}
		due := ""
		if t.DueDate != nil && !t.DueDate.IsZero() {
			due = f.Sprint("Due: " + t.DueDate.Date().Label())
		}
		goal := ""
		if name, ok := views.GoalTitle(t, goals); ok {
			goal = g.Sprint("🎯 " + name)
		}
		if pp.ShowID {
			tbl.AddRow(y.Sprint(t.ID), box, title, due, goal)
		} else {
			tbl.AddRow(box, title, due, goal)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	for _, t := range todos {
		pp.description(t.Title, t.Description)
	}
	pp.NewLine()
}

// description prints a wrapped, indented description under its title.
func (pp *PrettyPrint) description(title string, desc *string) {
	text := strings.TrimSpace(api.Text(desc))
	if text == "" {
		return
	}
	f := color.New(color.Faint)
	_, _ = fmt.Fprintf(pp.out(), "  %s\n", color.New(color.Bold).Sprint(truncate.StringWithTail(title, titleWidth, "…")))
	_, _ = f.Fprintln(pp.out(), indent.String(wordwrap.String(text, descriptionWidth), 4))
}
