// Package ui launches the terminal interface.
package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/state"
	"tableflip.dev/taskodos/pkg/tui"
)

// ErrNotTerminal is returned when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("ui needs an interactive terminal, try `taskodos get` instead")

type UI struct {
	Service  *app.Service
	State    *state.Store
	Archive  tui.Watcher
	Location *time.Location
	Log      *zap.SugaredLogger
	In       io.Reader
	Out      io.Writer
}

func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil {
		return errors.New("can not start ui, no service")
	}
	if !terminal(u.In) || !terminal(u.Out) {
		return ErrNotTerminal
	}

	opts := tui.Options{
		Service:  u.Service,
		Watcher:  u.Archive,
		Location: u.Location,
		Log:      u.Log,
	}
	if u.State != nil {
		opts.Snapshots = u.State.Subscribe()
	}
	m := tui.New(opts).WithContext(ctx)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func terminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
