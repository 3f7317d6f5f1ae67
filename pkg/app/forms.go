package app

import (
	"strconv"

	"tableflip.dev/taskodos/pkg/api"
)

// Mode is where a form sits in its lifecycle: hidden, creating or editing.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "idle"
	}
}

// GoalForm holds the goal create/edit fields as the user typed them.
type GoalForm struct {
	Mode        Mode
	EditingID   int
	Title       string `validate:"required,notblank"`
	Description string
	TargetDate  string `validate:"omitempty,datetime=2006-01-02"`
	Status      api.GoalStatus
}

// NewGoalForm returns a hidden, empty form.
func NewGoalForm() GoalForm {
	return GoalForm{Status: api.GoalActive}
}

// Open reports whether the form is shown.
func (f *GoalForm) Open() bool { return f.Mode != ModeIdle }

// Toggle shows an empty create form, or hides and clears an open one.
func (f *GoalForm) Toggle() {
	if f.Open() {
		f.Reset()
		return
	}
	*f = NewGoalForm()
	f.Mode = ModeCreating
}

// Edit prefills the form from g. Stored dates lose their time component.
func (f *GoalForm) Edit(g api.Goal) {
	*f = GoalForm{
		Mode:        ModeEditing,
		EditingID:   g.ID,
		Title:       g.Title,
		Description: api.Text(g.Description),
		TargetDate:  dateField(g.TargetDate),
		Status:      g.Status,
	}
}

// Reset hides the form and clears every field.
func (f *GoalForm) Reset() {
	*f = NewGoalForm()
}

// Input validates the fields and builds the request body.
func (f *GoalForm) Input() (api.GoalInput, error) {
	if err := check(f); err != nil {
		return api.GoalInput{}, err
	}
	date, err := optionalDate(f.TargetDate)
	if err != nil {
		return api.GoalInput{}, err
	}
	status := f.Status
	if status == "" {
		status = api.GoalActive
	}
	return api.GoalInput{
		Title:       f.Title,
		Description: f.Description,
		TargetDate:  date,
		Status:      status,
	}, nil
}

// SubmitLabel is the text of the submit control.
func (f *GoalForm) SubmitLabel() string {
	if f.Mode == ModeEditing {
		return "Update Goal"
	}
	return "Create Goal"
}

// TodoForm holds the todo create/edit fields. GoalID is the selector value:
// a goal id as text, or blank for a standalone todo.
type TodoForm struct {
	Mode        Mode
	EditingID   int
	Title       string `validate:"required,notblank"`
	Description string
	DueDate     string `validate:"omitempty,datetime=2006-01-02"`
	Completed   bool
	GoalID      string `validate:"omitempty,number"`
}

// NewTodoForm returns a hidden, empty form.
func NewTodoForm() TodoForm {
	return TodoForm{}
}

// Open reports whether the form is shown.
func (f *TodoForm) Open() bool { return f.Mode != ModeIdle }

// Toggle shows an empty create form, or hides and clears an open one.
func (f *TodoForm) Toggle() {
	if f.Open() {
		f.Reset()
		return
	}
	*f = NewTodoForm()
	f.Mode = ModeCreating
}

// Edit prefills the form from t.
func (f *TodoForm) Edit(t api.Todo) {
	goalID := ""
	if t.GoalID != nil {
		goalID = strconv.Itoa(*t.GoalID)
	}
	*f = TodoForm{
		Mode:        ModeEditing,
		EditingID:   t.ID,
		Title:       t.Title,
		Description: api.Text(t.Description),
		DueDate:     dateField(t.DueDate),
		Completed:   t.Completed,
		GoalID:      goalID,
	}
}

// Reset hides the form and clears every field.
func (f *TodoForm) Reset() {
	*f = NewTodoForm()
}

// Input validates the fields and builds the request body, turning the goal
// selector value into an integer id or null.
func (f *TodoForm) Input() (api.TodoInput, error) {
	if err := check(f); err != nil {
		return api.TodoInput{}, err
	}
	date, err := optionalDate(f.DueDate)
	if err != nil {
		return api.TodoInput{}, err
	}
	var goalID *int
	if f.GoalID != "" {
		id, err := strconv.Atoi(f.GoalID)
		if err != nil {
			return api.TodoInput{}, ErrInvalidGoal
		}
		goalID = &id
	}
	return api.TodoInput{
		Title:       f.Title,
		Description: f.Description,
		DueDate:     date,
		Completed:   f.Completed,
		GoalID:      goalID,
	}, nil
}

// SubmitLabel is the text of the submit control.
func (f *TodoForm) SubmitLabel() string {
	if f.Mode == ModeEditing {
		return "Update Todo"
	}
	return "Create Todo"
}

// GoalOption is one entry of the todo form's goal selector.
type GoalOption struct {
	Value string
	Label string
}

// GoalOptions lists the selector entries: the standalone choice first, then
// every active goal.
func GoalOptions(active []api.Goal) []GoalOption {
	opts := make([]GoalOption, 0, len(active)+1)
	opts = append(opts, GoalOption{Value: "", Label: "No goal (standalone todo)"})
	for _, g := range active {
		opts = append(opts, GoalOption{Value: strconv.Itoa(g.ID), Label: "🎯 " + g.Title})
	}
	return opts
}

// EventForm holds the manual event create/edit fields.
type EventForm struct {
	Mode        Mode
	EditingID   int
	Title       string `validate:"required,notblank"`
	Description string
	EventDate   string `validate:"required,notblank,datetime=2006-01-02"`
}

// NewEventForm returns a hidden, empty form.
func NewEventForm() EventForm {
	return EventForm{}
}

// Open reports whether the form is shown.
func (f *EventForm) Open() bool { return f.Mode != ModeIdle }

// Toggle shows an empty create form, or hides and clears an open one.
func (f *EventForm) Toggle() {
	if f.Open() {
		f.Reset()
		return
	}
	*f = NewEventForm()
	f.Mode = ModeCreating
}

// Edit prefills the form from e. Backend-generated events are refused.
func (f *EventForm) Edit(e api.CalendarEvent) error {
	if e.AutoGenerated() {
		return ErrAutoGenerated
	}
	*f = EventForm{
		Mode:        ModeEditing,
		EditingID:   e.ID,
		Title:       e.Title,
		Description: api.Text(e.Description),
		EventDate:   dateField(&e.EventDate),
	}
	return nil
}

// Reset hides the form and clears every field.
func (f *EventForm) Reset() {
	*f = NewEventForm()
}

// Input validates the fields and builds the request body.
func (f *EventForm) Input() (api.EventInput, error) {
	if err := check(f); err != nil {
		return api.EventInput{}, err
	}
	d, err := api.ParseDate(f.EventDate)
	if err != nil {
		return api.EventInput{}, err
	}
	return api.EventInput{
		Title:       f.Title,
		Description: f.Description,
		EventDate:   d,
	}, nil
}

// SubmitLabel is the text of the submit control.
func (f *EventForm) SubmitLabel() string {
	if f.Mode == ModeEditing {
		return "Update Event"
	}
	return "Create Event"
}

func dateField(t *api.Timestamp) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return api.StripTime(t.String())
}

func optionalDate(raw string) (*api.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := api.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
