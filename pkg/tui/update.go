package tui

import (
	"context"
	"errors"
	"strconv"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/app"
)

// Update handles messages and keybindings.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(max(msg.Width, 1))
	case refreshedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.syncSnapshot()
		}
	case mutatedMsg:
		switch {
		case errors.Is(msg.err, app.ErrCancelled):
			m.setStatus("Cancelled")
		case msg.err != nil:
			m.setError(msg.err)
		default:
			m.setStatus(msg.done)
			m.syncSnapshot()
		}
	case snapshotMsg:
		m.setSnapshot(msg.snap)
		cmds = append(cmds, m.waitForSnapshot())
	case watchStartedMsg:
		if msg.err != nil {
			m.log.Warnw("snapshot watch unavailable", "error", msg.err)
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		m.setStatus("Changed elsewhere, refreshing")
		cmds = append(cmds, m.refreshCmd(), m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		if m.ctx.Err() == nil {
			cmds = append(cmds, m.startWatchCmd())
		}
	case tea.KeyPressMsg:
		switch m.mode {
		case modeForm:
			cmds = append(cmds, m.handleFormKey(msg))
		case modeConfirm:
			cmds = append(cmds, m.handleConfirmKey(msg))
		default:
			cmds = append(cmds, m.handleNormalKey(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.stopWatch()
		return tea.Quit
	case "1":
		m.tab = tabTodos
	case "2":
		m.tab = tabGoals
	case "3":
		m.tab = tabCalendar
	case "tab":
		m.tab = tabs[(int(m.tab)+1)%len(tabs)]
	case "shift+tab":
		m.tab = tabs[(int(m.tab)+len(tabs)-1)%len(tabs)]
	case "j", "down":
		if m.cursor[m.tab] < len(m.rows())-1 {
			m.cursor[m.tab]++
		}
	case "k", "up":
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case "g", "home":
		m.cursor[m.tab] = 0
	case "G", "end":
		if n := len(m.rows()); n > 0 {
			m.cursor[m.tab] = n - 1
		}
	case "r":
		m.setStatus("Refreshing")
		return m.refreshCmd()
	case "v":
		if m.tab == tabCalendar {
			m.upcoming = !m.upcoming
			m.cursor[tabCalendar] = 0
		}
	case "n":
		return m.openCreate()
	case "e", "enter":
		return m.openEdit()
	case "d":
		m.openDelete()
	case "space", "x":
		if m.tab == tabTodos {
			if r, ok := m.selected(); ok {
				t := *r.todo
				done := "Todo completed"
				if t.Completed {
					done = "Todo reopened"
				}
				svc := m.svc
				return m.mutate(done, func(ctx context.Context) error {
					return svc.ToggleTodo(ctx, t)
				})
			}
		}
	}
	return nil
}

func (m *Model) openCreate() tea.Cmd {
	switch m.tab {
	case tabGoals:
		m.goalForm.Toggle()
		m.form = newGoalForm(m.goalForm)
	case tabTodos:
		m.todoForm.Toggle()
		m.form = newTodoForm(m.todoForm, m.snap.Goals)
	case tabCalendar:
		m.eventForm.Toggle()
		m.form = newEventForm(m.eventForm)
	}
	m.mode = modeForm
	return m.form.focusField(0)
}

func (m *Model) openEdit() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	switch {
	case r.goal != nil:
		m.goalForm.Edit(*r.goal)
		m.form = newGoalForm(m.goalForm)
	case r.todo != nil:
		m.todoForm.Edit(*r.todo)
		m.form = newTodoForm(m.todoForm, m.snap.Goals)
	case r.event != nil:
		if err := m.eventForm.Edit(*r.event); err != nil {
			m.setStatus("Auto-generated events are managed by their todo or goal")
			return nil
		}
		m.form = newEventForm(m.eventForm)
	default:
		return nil
	}
	m.mode = modeForm
	return m.form.focusField(0)
}

func (m *Model) openDelete() {
	r, ok := m.selected()
	if !ok {
		return
	}
	svc := m.svc
	switch {
	case r.goal != nil:
		id := r.goal.ID
		m.confirm = &pendingDelete{prompt: app.GoalDeletePrompt, done: "Goal deleted", run: func(ctx context.Context) error {
			return svc.DeleteGoal(ctx, id)
		}}
	case r.todo != nil:
		id := r.todo.ID
		m.confirm = &pendingDelete{prompt: app.TodoDeletePrompt, done: "Todo deleted", run: func(ctx context.Context) error {
			return svc.DeleteTodo(ctx, id)
		}}
	case r.event != nil:
		if r.event.AutoGenerated() {
			m.setStatus("Auto-generated events are managed by their todo or goal")
			return
		}
		e := *r.event
		m.confirm = &pendingDelete{prompt: app.EventDeletePrompt, done: "Event deleted", run: func(ctx context.Context) error {
			return svc.DeleteEvent(ctx, e)
		}}
	default:
		return
	}
	m.mode = modeConfirm
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		pending := m.confirm
		m.confirm = nil
		m.mode = modeNormal
		if pending == nil {
			return nil
		}
		return m.mutate(pending.done, pending.run)
	case "n", "N", "esc", "q":
		m.confirm = nil
		m.mode = modeNormal
		m.setStatus("Delete cancelled")
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.form == nil {
		m.mode = modeNormal
		return nil
	}
	cmd, submit, cancel := m.form.update(msg)
	switch {
	case cancel:
		m.closeForm()
		m.setStatus("Cancelled")
		return nil
	case submit:
		return m.submitForm()
	}
	return cmd
}

func (m *Model) closeForm() {
	switch m.form.entity {
	case tabGoals:
		m.goalForm.Reset()
	case tabTodos:
		m.todoForm.Reset()
	case tabCalendar:
		m.eventForm.Reset()
	}
	m.form = nil
	m.mode = modeNormal
}

// submitForm validates locally, keeping the overlay open on a validation
// error. Otherwise the overlay closes before the request is sent.
func (m *Model) submitForm() tea.Cmd {
	fo := m.form
	svc := m.svc
	switch fo.entity {
	case tabGoals:
		m.goalForm.Title = fo.get("title")
		m.goalForm.Description = fo.get("description")
		m.goalForm.TargetDate = fo.date()
		m.goalForm.Status = api.GoalStatus(fo.get("status"))
		if _, err := m.goalForm.Input(); err != nil {
			fo.err = err.Error()
			return nil
		}
		f := m.goalForm
		m.closeForm()
		return m.mutate(saved(f.Mode, "Goal"), func(ctx context.Context) error {
			return svc.SubmitGoal(ctx, &f)
		})
	case tabTodos:
		m.todoForm.Title = fo.get("title")
		m.todoForm.Description = fo.get("description")
		m.todoForm.DueDate = fo.date()
		m.todoForm.GoalID = fo.get("goal")
		if m.todoForm.Mode == app.ModeEditing {
			m.todoForm.Completed, _ = strconv.ParseBool(fo.get("completed"))
		}
		if _, err := m.todoForm.Input(); err != nil {
			fo.err = err.Error()
			return nil
		}
		f := m.todoForm
		m.closeForm()
		return m.mutate(saved(f.Mode, "Todo"), func(ctx context.Context) error {
			return svc.SubmitTodo(ctx, &f)
		})
	default:
		m.eventForm.Title = fo.get("title")
		m.eventForm.Description = fo.get("description")
		m.eventForm.EventDate = fo.date()
		if _, err := m.eventForm.Input(); err != nil {
			fo.err = err.Error()
			return nil
		}
		f := m.eventForm
		m.closeForm()
		return m.mutate(saved(f.Mode, "Event"), func(ctx context.Context) error {
			return svc.SubmitEvent(ctx, &f)
		})
	}
}

func saved(mode app.Mode, noun string) string {
	if mode == app.ModeEditing {
		return noun + " updated"
	}
	return noun + " created"
}
