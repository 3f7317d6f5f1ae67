// Package event holds the runners behind `taskodos event`. Only manual events
// can be changed; the backend owns events generated from todos and goals.
package event

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
	Date        string
	Out         io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errors.New("can not add event, no service")
	}
	f := app.NewEventForm()
	f.Toggle()
	f.Title = a.Title
	f.Description = a.Description
	f.EventDate = a.Date
	if err := a.Service.SubmitEvent(ctx, &f); err != nil {
		return err
	}
	done(a.Out, "Created event %q", a.Title)
	return nil
}

type Edit struct {
	Service     *app.Service
	ID          int
	Title       *string
	Description *string
	Date        *string
	Out         io.Writer
}

func (e *Edit) Do(ctx context.Context) error {
	if e.Service == nil {
		return errors.New("can not edit event, no service")
	}
	ev, err := e.Service.FetchEvent(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("event %d: %w", e.ID, err)
	}

	f := app.NewEventForm()
	if err := f.Edit(*ev); err != nil {
		return err
	}
	if e.Title != nil {
		f.Title = *e.Title
	}
	if e.Description != nil {
		f.Description = *e.Description
	}
	if e.Date != nil {
		f.EventDate = *e.Date
	}
	title := f.Title
	if err := e.Service.SubmitEvent(ctx, &f); err != nil {
		return err
	}
	done(e.Out, "Updated event %q", title)
	return nil
}

type Delete struct {
	Service *app.Service
	ID      int
	Out     io.Writer
}

func (d *Delete) Do(ctx context.Context) error {
	if d.Service == nil {
		return errors.New("can not delete event, no service")
	}
	ev, err := d.Service.FetchEvent(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("event %d: %w", d.ID, err)
	}
	if err := d.Service.DeleteEvent(ctx, *ev); err != nil {
		return err
	}
	done(d.Out, "Deleted event %q", ev.Title)
	return nil
}

func done(w io.Writer, format string, args ...any) {
	if w == nil {
		w = color.Output
	}
	_, _ = color.New(color.FgGreen).Fprint(w, "✓ ")
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
