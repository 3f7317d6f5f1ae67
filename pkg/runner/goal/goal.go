// Package goal holds the runners behind `taskodos goal`.
package goal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/app"
)

type Add struct {
	Service     *app.Service
	Title       string
	Description string
	TargetDate  string
	Status      api.GoalStatus
	Out         io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errors.New("can not add goal, no service")
	}
	f := app.NewGoalForm()
	f.Toggle()
	f.Title = a.Title
	f.Description = a.Description
	f.TargetDate = a.TargetDate
	if a.Status != "" {
		f.Status = a.Status
	}
	if err := a.Service.SubmitGoal(ctx, &f); err != nil {
		return err
	}
	done(a.Out, "Created goal %q", a.Title)
	return nil
}

// Edit updates the fields that are set, keeping the rest from the backend.
type Edit struct {
	Service     *app.Service
	ID          int
	Title       *string
	Description *string
	TargetDate  *string
	Status      *api.GoalStatus
	Out         io.Writer
}

func (e *Edit) Do(ctx context.Context) error {
	if e.Service == nil {
		return errors.New("can not edit goal, no service")
	}
	g, err := e.Service.FetchGoal(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("goal %d: %w", e.ID, err)
	}

	f := app.NewGoalForm()
	f.Edit(g.Goal)
	if e.Title != nil {
		f.Title = *e.Title
	}
	if e.Description != nil {
		f.Description = *e.Description
	}
	if e.TargetDate != nil {
		f.TargetDate = *e.TargetDate
	}
	if e.Status != nil {
		f.Status = *e.Status
	}
	title := f.Title
	if err := e.Service.SubmitGoal(ctx, &f); err != nil {
		return err
	}
	done(e.Out, "Updated goal %q", title)
	return nil
}

type Delete struct {
	Service *app.Service
	ID      int
	Out     io.Writer
}

func (d *Delete) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("can not delete goal, no service")
	}
	if err := d.Service.DeleteGoal(ctx, d.ID); err != nil {
		return err
	}
	done(d.Out, "Deleted goal %d", d.ID)
	return nil
}

func done(w io.Writer, format string, args ...any) {
	if w == nil {
		w = color.Output
	}
	_, _ = color.New(color.FgGreen).Fprint(w, "✓ ")
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
