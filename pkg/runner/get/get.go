package get

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/printers"
	"tableflip.dev/taskodos/pkg/state"
)

// Resource selects what Get prints.
type Resource string

const (
	All      Resource = ""
	Goals    Resource = "goals"
	Todos    Resource = "todos"
	Calendar Resource = "calendar"
	Stats    Resource = "stats"
)

// Resources lists the valid arguments of `get`.
func Resources() []Resource {
	return []Resource{Goals, Todos, Calendar, Stats}
}

// ParseResource accepts the plural, singular and a few short forms.
func ParseResource(raw string) (Resource, error) {
	switch raw {
	case "":
		return All, nil
	case "goals", "goal", "g":
		return Goals, nil
	case "todos", "todo", "t":
		return Todos, nil
	case "calendar", "events", "event", "cal", "c":
		return Calendar, nil
	case "stats", "stat", "s":
		return Stats, nil
	}
	return All, fmt.Errorf("unknown resource %q, expected one of goals, todos, calendar or stats", raw)
}

// Loader refreshes and exposes the current snapshot.
type Loader interface {
	Refresh(ctx context.Context) error
	Snapshot() state.Snapshot
}

// Cache returns the last archived snapshot.
type Cache interface {
	Load() (state.Snapshot, error)
}

// Ranger reads calendar events inside a date range.
type Ranger interface {
	EventsBetween(ctx context.Context, start, end api.Date) ([]api.CalendarEvent, error)
}

type Get struct {
	Resource Resource
	Upcoming bool
	From     api.Date
	To       api.Date
	JSON     bool
	ShowID   bool
	Cached   bool

	State    Loader
	Archive  Cache
	Ranger   Ranger
	Location *time.Location
	Out      io.Writer
}

func (g *Get) out() io.Writer {
	if g.Out == nil {
		return color.Output
	}
	return g.Out
}

func (g *Get) ranged() bool {
	return !g.From.IsZero() || !g.To.IsZero()
}

func (g *Get) Do(ctx context.Context) error {
	if !g.From.IsZero() && !g.To.IsZero() && g.To.Before(g.From) {
		return errors.New("--to is before --from")
	}

	snap, err := g.load(ctx)
	if err != nil {
		return err
	}

	if g.ranged() && (g.Resource == Calendar || g.Resource == All) {
		if snap.Events, err = g.events(ctx, snap.Events); err != nil {
			return err
		}
	}

	if g.JSON {
		return g.printJSON(snap)
	}

	pp := printers.PrettyPrint{ShowID: g.ShowID, Out: g.out()}
	if g.Cached {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintf(g.out(), "cached %s\n\n", snap.LoadedAt.Local().Format(time.RFC1123))
	}

	switch g.Resource {
	case Goals:
		pp.Goals(snap.Goals)
	case Todos:
		pp.Todos(snap.Todos, snap.Goals)
	case Calendar:
		g.printCalendar(&pp, snap.Events)
	case Stats:
		pp.Stats(snap.Stats)
	default:
		pp.Header()
		pp.Stats(snap.Stats)
		pp.Title("📋 Todos")
		pp.Todos(snap.Todos, snap.Goals)
		pp.Title("🎯 Goals")
		pp.Goals(snap.Goals)
		pp.Title("📅 Calendar")
		g.printCalendar(&pp, snap.Events)
	}
	return nil
}

func (g *Get) load(ctx context.Context) (state.Snapshot, error) {
	if g.Cached {
		if g.Archive == nil {
			return state.Snapshot{}, errors.New("can not get, no archive")
		}
		return g.Archive.Load()
	}
	if g.State == nil {
		return state.Snapshot{}, errors.New("can not get, no backend")
	}
	if err := g.State.Refresh(ctx); err != nil {
		return state.Snapshot{}, err
	}
	return g.State.Snapshot(), nil
}

// events narrows to the requested range, asking the backend when live.
func (g *Get) events(ctx context.Context, all []api.CalendarEvent) ([]api.CalendarEvent, error) {
	if !g.Cached && g.Ranger != nil {
		return g.Ranger.EventsBetween(ctx, g.From, g.To)
	}
	out := make([]api.CalendarEvent, 0, len(all))
	for _, e := range all {
		d := e.EventDate.Date()
		if !g.From.IsZero() && d.Before(g.From) {
			continue
		}
		if !g.To.IsZero() && g.To.Before(d) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (g *Get) printCalendar(pp *printers.PrettyPrint, events []api.CalendarEvent) {
	if g.Upcoming {
		pp.Upcoming(events, api.WallClock(time.Now(), g.Location))
		return
	}
	pp.Calendar(events)
}

func (g *Get) printJSON(snap state.Snapshot) error {
	var v any
	switch g.Resource {
	case Goals:
		v = snap.Goals
	case Todos:
		v = snap.Todos
	case Calendar:
		v = snap.Events
	case Stats:
		v = snap.Stats
	default:
		v = map[string]any{
			"goals":    snap.Goals,
			"todos":    snap.Todos,
			"calendar": snap.Events,
			"stats":    snap.Stats,
		}
	}
	b, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.out(), string(b))
	return nil
}
