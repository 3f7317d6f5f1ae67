package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/tui/theme"
	"tableflip.dev/taskodos/pkg/views"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldChoice
	fieldCheck
)

type choice struct {
	value string
	label string
}

type field struct {
	key     string
	label   string
	kind    fieldKind
	input   textinput.Model
	choices []choice
	choice  int
	checked bool
}

func textField(key, label, placeholder, value string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")
	ti.Styles.Cursor.Shape = tea.CursorBlock
	ti.SetValue(value)
	ti.CursorEnd()
	return field{key: key, label: label, kind: fieldText, input: ti}
}

func choiceField(key, label string, choices []choice, value string) field {
	f := field{key: key, label: label, kind: fieldChoice, choices: choices}
	for i, c := range choices {
		if c.value == value {
			f.choice = i
		}
	}
	return f
}

func checkField(key, label string, checked bool) field {
	return field{key: key, label: label, kind: fieldCheck, checked: checked}
}

func (f *field) value() string {
	switch f.kind {
	case fieldChoice:
		if len(f.choices) == 0 {
			return ""
		}
		return f.choices[f.choice].value
	case fieldCheck:
		return strconv.FormatBool(f.checked)
	default:
		return f.input.Value()
	}
}

func (f *field) cycle(delta int) {
	if f.kind != fieldChoice || len(f.choices) == 0 {
		return
	}
	f.choice = (f.choice + delta + len(f.choices)) % len(f.choices)
}

// form is the overlay editing one goal, todo or event.
type form struct {
	entity tab
	title  string
	submit string
	fields []field
	focus  int
	err    string
}

func (f *form) get(key string) string {
	for i := range f.fields {
		if f.fields[i].key == key {
			return f.fields[i].value()
		}
	}
	return ""
}

// date is the date field with surrounding blanks dropped; it is parsed, not
// sent as typed.
func (f *form) date() string {
	return strings.TrimSpace(f.get("date"))
}

// focusField moves focus to i and returns the input's focus command.
func (f *form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if f.fields[j].kind == fieldText {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
	if f.fields[i].kind == fieldText {
		return f.fields[i].input.Focus()
	}
	return nil
}

// update routes a key to the form. It reports whether the key submitted or
// cancelled the form.
func (f *form) update(msg tea.KeyPressMsg) (cmd tea.Cmd, submit, cancel bool) {
	cur := &f.fields[f.focus]
	switch msg.String() {
	case "esc":
		return nil, false, true
	case "enter":
		return nil, true, false
	case "tab", "down":
		return f.focusField(f.focus + 1), false, false
	case "shift+tab", "up":
		return f.focusField(f.focus - 1), false, false
	}
	switch cur.kind {
	case fieldChoice:
		switch msg.String() {
		case "left", "h":
			cur.cycle(-1)
		case "right", "l", "space":
			cur.cycle(1)
		}
		return nil, false, false
	case fieldCheck:
		if msg.String() == "space" || msg.String() == "x" {
			cur.checked = !cur.checked
		}
		return nil, false, false
	}
	cur.input, cmd = cur.input.Update(msg)
	return cmd, false, false
}

func (f *form) view(th theme.Theme, width int) string {
	lines := []string{th.Modal.Title.Render(f.title), ""}
	for i := range f.fields {
		fd := &f.fields[i]
		label := th.Modal.Label.Render(fd.label + ":")
		marker := "  "
		if i == f.focus {
			marker = "→ "
			label = th.Modal.Focused.Render(fd.label + ":")
		}
		var value string
		switch fd.kind {
		case fieldChoice:
			value = "‹ " + fd.choices[fd.choice].label + " ›"
		case fieldCheck:
			box := "[ ]"
			if fd.checked {
				box = "[x]"
			}
			value = box
		default:
			value = fd.input.View()
		}
		lines = append(lines, marker+label+" "+value)
	}
	if f.err != "" {
		lines = append(lines, "", th.Modal.Error.Render(f.err))
	}
	lines = append(lines, "", th.Modal.Help.Render(fmt.Sprintf("enter %s · tab next field · ←/→ change choice · esc cancel", f.submit)))
	frame := th.Modal.Frame
	if width > 8 {
		frame = frame.MaxWidth(width)
	}
	return frame.Render(strings.Join(lines, "\n"))
}

func goalStatusChoices() []choice {
	out := make([]choice, 0, 3)
	for _, s := range api.GoalStatuses() {
		out = append(out, choice{value: string(s), label: string(s)})
	}
	return out
}

func newGoalForm(f app.GoalForm) *form {
	return &form{
		entity: tabGoals,
		title:  heading(f.Mode, "Goal"),
		submit: f.SubmitLabel(),
		fields: []field{
			textField("title", "Title", "What do you want to achieve?", f.Title),
			textField("description", "Description", "Optional details", f.Description),
			textField("date", "Target date", api.DateLayout, f.TargetDate),
			choiceField("status", "Status", goalStatusChoices(), string(f.Status)),
		},
	}
}

// goalChoices lists active goals. A todo already attached to an inactive
// goal keeps that goal as a choice so saving does not detach it.
func goalChoices(goals []api.Goal, current string) []choice {
	opts := app.GoalOptions(views.AssignableGoals(goals))
	out := make([]choice, 0, len(opts)+1)
	found := current == ""
	for _, o := range opts {
		out = append(out, choice{value: o.Value, label: o.Label})
		if o.Value == current {
			found = true
		}
	}
	if !found {
		label := "Goal " + current
		for _, g := range goals {
			if strconv.Itoa(g.ID) == current {
				label = fmt.Sprintf("🎯 %s (%s)", g.Title, g.Status)
			}
		}
		out = append(out, choice{value: current, label: label})
	}
	return out
}

func newTodoForm(f app.TodoForm, goals []api.Goal) *form {
	fields := []field{
		textField("title", "Title", "What needs doing?", f.Title),
		textField("description", "Description", "Optional details", f.Description),
		textField("date", "Due date", api.DateLayout, f.DueDate),
		choiceField("goal", "Goal", goalChoices(goals, f.GoalID), f.GoalID),
	}
	if f.Mode == app.ModeEditing {
		fields = append(fields, checkField("completed", "Completed", f.Completed))
	}
	return &form{
		entity: tabTodos,
		title:  heading(f.Mode, "Todo"),
		submit: f.SubmitLabel(),
		fields: fields,
	}
}

func newEventForm(f app.EventForm) *form {
	return &form{
		entity: tabCalendar,
		title:  heading(f.Mode, "Event"),
		submit: f.SubmitLabel(),
		fields: []field{
			textField("title", "Title", "Event title", f.Title),
			textField("description", "Description", "Optional details", f.Description),
			textField("date", "Date", api.DateLayout, f.EventDate),
		},
	}
}

func heading(mode app.Mode, noun string) string {
	if mode == app.ModeEditing {
		return "Edit " + noun
	}
	return "New " + noun
}
