// Package tui is the tabbed Bubble Tea interface over the application service.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/state"
	"tableflip.dev/taskodos/pkg/store"
	"tableflip.dev/taskodos/pkg/tui/theme"
	"tableflip.dev/taskodos/pkg/views"
)

type tab int

const (
	tabTodos tab = iota
	tabGoals
	tabCalendar
)

var tabs = []tab{tabTodos, tabGoals, tabCalendar}

func (t tab) String() string {
	switch t {
	case tabGoals:
		return "🎯 Goals"
	case tabCalendar:
		return "📅 Calendar"
	default:
		return "📋 Todos"
	}
}

type mode int

const (
	modeNormal mode = iota
	modeForm
	modeConfirm
)

// Watcher reports snapshots archived by other processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// Options configures a Model.
type Options struct {
	Service *app.Service
	// Snapshots delivers every snapshot the state store publishes. When nil
	// the model reads the service after each operation instead.
	Snapshots <-chan state.Snapshot
	Watcher   Watcher
	Location  *time.Location
	Now       func() time.Time
	Log       *zap.SugaredLogger
}

// pendingDelete is the action behind the confirmation overlay.
type pendingDelete struct {
	prompt string
	done   string
	run    func(ctx context.Context) error
}

// Model contains UI state.
type Model struct {
	svc       *app.Service
	snapshots <-chan state.Snapshot
	watcher   Watcher
	ctx       context.Context
	loc       *time.Location
	now       func() time.Time
	log       *zap.SugaredLogger
	theme     theme.Theme

	tab      tab
	mode     mode
	cursor   map[tab]int
	upcoming bool

	snap    state.Snapshot
	loading bool

	goalForm  app.GoalForm
	todoForm  app.TodoForm
	eventForm app.EventForm
	form      *form
	confirm   *pendingDelete

	status    string
	statusErr bool

	width    int
	height   int
	viewport viewport.Model
	offset   map[tab]int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New creates the UI model.
func New(opts Options) *Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	m := &Model{
		svc:       opts.Service,
		snapshots: opts.Snapshots,
		watcher:   opts.Watcher,
		ctx:       context.Background(),
		loc:       opts.Location,
		now:       now,
		log:       log,
		theme:     theme.Default(),
		tab:       tabTodos,
		cursor:    map[tab]int{},
		offset:    map[tab]int{},
		viewport:  viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		snap:      state.Snapshot{Goals: []api.Goal{}, Todos: []api.Todo{}, Events: []api.CalendarEvent{}},
		goalForm:  app.NewGoalForm(),
		todoForm:  app.NewTodoForm(),
		eventForm: app.NewEventForm(),
		status:    "n new · e edit · d delete · r refresh · q quit",
	}
	if m.svc != nil {
		m.loading = true
	}
	return m
}

// WithContext sets the context used for backend calls.
func (m *Model) WithContext(ctx context.Context) *Model {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

// Init loads initial data and starts listening for changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.waitForSnapshot(), m.startWatchCmd(), textinput.Blink)
}

// messages
type refreshedMsg struct{ err error }

type mutatedMsg struct {
	done string
	err  error
}

type snapshotMsg struct{ snap state.Snapshot }

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

func (m *Model) refreshCmd() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return refreshedMsg{err: svc.Refresh(ctx)}
	}
}

// mutate runs fn off the update loop. The service refreshes on success.
func (m *Model) mutate(done string, fn func(ctx context.Context) error) tea.Cmd {
	if m.svc == nil {
		m.setError(errors.New("not connected to a backend"))
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return mutatedMsg{done: done, err: fn(ctx)}
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	if m.snapshots == nil {
		return nil
	}
	ch := m.snapshots
	return func() tea.Msg {
		return snapshotMsg{snap: <-ch}
	}
}

// syncSnapshot pulls the latest snapshot when there is no subscription.
func (m *Model) syncSnapshot() {
	if m.snapshots == nil && m.svc != nil {
		m.setSnapshot(m.svc.Snapshot())
	}
}

func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snap = snap
	m.clampCursor()
}

func (m *Model) startWatchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	parent, w := m.ctx, m.watcher
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := w.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.log.Errorw("ui operation failed", "op", uuid.NewString(), "error", err)
	m.status = "ERR: " + err.Error()
	m.statusErr = true
}

// clock is the wall clock used to split the calendar, taken at render time.
func (m *Model) clock() time.Time {
	return api.WallClock(m.now(), m.loc)
}

// row is one selectable line of the current tab.
type row struct {
	todo  *api.Todo
	goal  *api.Goal
	event *api.CalendarEvent
}

func (m *Model) rows() []row {
	var out []row
	switch m.tab {
	case tabTodos:
		p := views.PartitionTodos(m.snap.Todos)
		for _, list := range [][]api.Todo{p.Pending, p.Completed} {
			for i := range list {
				out = append(out, row{todo: &list[i]})
			}
		}
	case tabGoals:
		p := views.PartitionGoals(m.snap.Goals)
		for _, list := range [][]api.Goal{p.Active, p.Completed} {
			for i := range list {
				out = append(out, row{goal: &list[i]})
			}
		}
	case tabCalendar:
		for _, list := range m.calendarSections() {
			for i := range list {
				out = append(out, row{event: &list[i]})
			}
		}
	}
	return out
}

// calendarSections returns the selectable events in display order for the
// current calendar mode. Past events in the upcoming mode are display only.
func (m *Model) calendarSections() [][]api.CalendarEvent {
	if m.upcoming {
		tl := views.SplitTimeline(m.snap.Events, m.clock())
		return [][]api.CalendarEvent{tl.Upcoming}
	}
	groups := views.GroupByDay(m.snap.Events)
	out := make([][]api.CalendarEvent, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Events)
	}
	return out
}

func (m *Model) selected() (row, bool) {
	rows := m.rows()
	i := m.cursor[m.tab]
	if i < 0 || i >= len(rows) {
		return row{}, false
	}
	return rows[i], true
}

func (m *Model) clampCursor() {
	for _, t := range tabs {
		prev := m.tab
		m.tab = t
		n := len(m.rows())
		m.tab = prev
		switch {
		case n == 0:
			m.cursor[t] = 0
		case m.cursor[t] >= n:
			m.cursor[t] = n - 1
		case m.cursor[t] < 0:
			m.cursor[t] = 0
		}
	}
}
