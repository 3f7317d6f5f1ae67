// Package todo holds the runners behind `taskodos todo`.
package todo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/taskodos/pkg/app"
)

type Add struct {
	Service     *app.Service
	Title       string
	Description string
	DueDate     string
	GoalID      string
	Out         io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errors.New("can not add todo, no service")
	}
	f := app.NewTodoForm()
	f.Toggle()
	f.Title = a.Title
	f.Description = a.Description
	f.DueDate = a.DueDate
	f.GoalID = a.GoalID
	if err := a.Service.SubmitTodo(ctx, &f); err != nil {
		return err
	}
	done(a.Out, "Created todo %q", a.Title)
	return nil
}

// Edit updates the fields that are set. An empty GoalID detaches the todo.
type Edit struct {
	Service     *app.Service
	ID          int
	Title       *string
	Description *string
	DueDate     *string
	GoalID      *string
	Completed   *bool
	Out         io.Writer
}

func (e *Edit) Do(ctx context.Context) error {
	if e.Service == nil {
		return errors.New("can not edit todo, no service")
	}
	t, err := e.Service.FetchTodo(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("todo %d: %w", e.ID, err)
	}

	f := app.NewTodoForm()
	f.Edit(*t)
	if e.Title != nil {
		f.Title = *e.Title
	}
	if e.Description != nil {
		f.Description = *e.Description
	}
	if e.DueDate != nil {
		f.DueDate = *e.DueDate
	}
	if e.GoalID != nil {
		f.GoalID = *e.GoalID
	}
	if e.Completed != nil {
		f.Completed = *e.Completed
	}
	title := f.Title
	if err := e.Service.SubmitTodo(ctx, &f); err != nil {
		return err
	}
	done(e.Out, "Updated todo %q", title)
	return nil
}

type Toggle struct {
	Service *app.Service
	ID      int
	Out     io.Writer
}

func (t *Toggle) Do(ctx context.Context) error {
	if t.Service == nil {
		return errors.New("can not toggle todo, no service")
	}
	todo, err := t.Service.FetchTodo(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("todo %d: %w", t.ID, err)
	}
	if err := t.Service.ToggleTodo(ctx, *todo); err != nil {
		return err
	}
	if todo.Completed {
		done(t.Out, "Reopened todo %q", todo.Title)
	} else {
		done(t.Out, "Completed todo %q", todo.Title)
	}
	return nil
}

type Delete struct {
	Service *app.Service
	ID      int
	Out     io.Writer
}

func (d *Delete) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("can not delete todo, no service")
	}
	if err := d.Service.DeleteTodo(ctx, d.ID); err != nil {
		return err
	}
	done(d.Out, "Deleted todo %d", d.ID)
	return nil
}

func done(w io.Writer, format string, args ...any) {
	if w == nil {
		w = color.Output
	}
	_, _ = color.New(color.FgGreen).Fprint(w, "✓ ")
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
