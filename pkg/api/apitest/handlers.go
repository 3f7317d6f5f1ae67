package apitest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableflip.dev/taskodos/pkg/api"
)

func (b *Backend) listGoals(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.goalList())
}

func (b *Backend) getGoal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	g, found := b.goals[id]
	if !found {
		notFound(c, "Goal")
		return
	}
	out := api.GoalWithTodos{Goal: *g, Todos: []api.Todo{}}
	for _, t := range b.todoList() {
		if t.GoalID != nil && *t.GoalID == id {
			t.Goal = nil
			out.Todos = append(out.Todos, t)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createGoal(c *gin.Context) {
	m, ok := fields(c)
	if !ok {
		return
	}
	title, _ := optString(m, "title")
	if title == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "title is required"})
		return
	}
	target, _, err := optTime(m, "target_date")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	desc, _ := optString(m, "description")
	status := api.GoalActive
	if s, _ := optString(m, "status"); s != nil && *s != "" {
		status = api.GoalStatus(*s)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	g := &api.Goal{
		ID:          b.id(),
		Title:       *title,
		Description: desc,
		TargetDate:  target,
		Status:      status,
		CreatedAt:   b.now(),
	}
	b.goals[g.ID] = g
	if target != nil {
		goalID := g.ID
		e := &api.CalendarEvent{
			ID:          b.id(),
			Title:       "Goal: " + g.Title,
			Description: desc,
			EventDate:   *target,
			GoalID:      &goalID,
			CreatedAt:   b.now(),
		}
		b.events[e.ID] = e
	}
	c.JSON(http.StatusOK, g)
}

func (b *Backend) updateGoal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, ok := fields(c)
	if !ok {
		return
	}
	target, targetSet, err := optTime(m, "target_date")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	g, found := b.goals[id]
	if !found {
		notFound(c, "Goal")
		return
	}
	if s, set := optString(m, "title"); set && s != nil {
		g.Title = *s
	}
	if s, set := optString(m, "description"); set {
		g.Description = s
	}
	if s, set := optString(m, "status"); set && s != nil {
		g.Status = api.GoalStatus(*s)
	}
	if targetSet {
		g.TargetDate = target
	}

	if target != nil {
		var existing *api.CalendarEvent
		for _, e := range b.events {
			if e.GoalID != nil && *e.GoalID == id && e.TodoID == nil {
				existing = e
				break
			}
		}
		if existing != nil {
			existing.EventDate = *target
			existing.Title = "Goal: " + g.Title
		} else {
			goalID := id
			e := &api.CalendarEvent{
				ID:          b.id(),
				Title:       "Goal: " + g.Title,
				Description: g.Description,
				EventDate:   *target,
				GoalID:      &goalID,
				CreatedAt:   b.now(),
			}
			b.events[e.ID] = e
		}
	}
	c.JSON(http.StatusOK, g)
}

func (b *Backend) deleteGoal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.goals[id]; !found {
		notFound(c, "Goal")
		return
	}
	delete(b.goals, id)
	for tid, t := range b.todos {
		if t.GoalID != nil && *t.GoalID == id {
			b.dropTodo(tid)
		}
	}
	for eid, e := range b.events {
		if e.GoalID != nil && *e.GoalID == id {
			delete(b.events, eid)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

func (b *Backend) listTodos(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.todoList())
}

func (b *Backend) getTodo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t, found := b.todos[id]
	if !found {
		notFound(c, "Todo")
		return
	}
	c.JSON(http.StatusOK, b.withGoal(*t))
}

func (b *Backend) createTodo(c *gin.Context) {
	m, ok := fields(c)
	if !ok {
		return
	}
	title, _ := optString(m, "title")
	if title == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "title is required"})
		return
	}
	due, _, err := optTime(m, "due_date")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	desc, _ := optString(m, "description")
	completed, _ := optBool(m, "completed")
	goalID, _ := optInt(m, "goal_id")

	b.mu.Lock()
	defer b.mu.Unlock()
	t := &api.Todo{
		ID:          b.id(),
		Title:       *title,
		Description: desc,
		DueDate:     due,
		Completed:   completed,
		GoalID:      goalID,
		CreatedAt:   b.now(),
	}
	b.todos[t.ID] = t
	if due != nil {
		todoID := t.ID
		e := &api.CalendarEvent{
			ID:          b.id(),
			Title:       "Todo: " + t.Title,
			Description: desc,
			EventDate:   *due,
			TodoID:      &todoID,
			GoalID:      goalID,
			CreatedAt:   b.now(),
		}
		b.events[e.ID] = e
	}
	out := *t
	c.JSON(http.StatusOK, out)
}

func (b *Backend) updateTodo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, ok := fields(c)
	if !ok {
		return
	}
	due, dueSet, err := optTime(m, "due_date")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	t, found := b.todos[id]
	if !found {
		notFound(c, "Todo")
		return
	}
	if s, set := optString(m, "title"); set && s != nil {
		t.Title = *s
	}
	if s, set := optString(m, "description"); set {
		t.Description = s
	}
	if v, set := optBool(m, "completed"); set {
		t.Completed = v
	}
	if v, set := optInt(m, "goal_id"); set {
		t.GoalID = v
	}
	if dueSet {
		t.DueDate = due
	}

	if due != nil {
		var existing *api.CalendarEvent
		for _, e := range b.events {
			if e.TodoID != nil && *e.TodoID == id {
				existing = e
				break
			}
		}
		if existing != nil {
			existing.EventDate = *due
			existing.Title = "Todo: " + t.Title
		} else {
			todoID := id
			e := &api.CalendarEvent{
				ID:          b.id(),
				Title:       "Todo: " + t.Title,
				Description: t.Description,
				EventDate:   *due,
				TodoID:      &todoID,
				GoalID:      t.GoalID,
				CreatedAt:   b.now(),
			}
			b.events[e.ID] = e
		}
	}
	out := *t
	c.JSON(http.StatusOK, out)
}

func (b *Backend) deleteTodo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.todos[id]; !found {
		notFound(c, "Todo")
		return
	}
	b.dropTodo(id)
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

// dropTodo removes a todo and the events generated from it.
func (b *Backend) dropTodo(id int) {
	delete(b.todos, id)
	for eid, e := range b.events {
		if e.TodoID != nil && *e.TodoID == id {
			delete(b.events, eid)
		}
	}
}

func (b *Backend) listEvents(c *gin.Context) {
	var start, end *api.Timestamp
	for key, dst := range map[string]**api.Timestamp{"start_date": &start, "end_date": &end} {
		if raw := c.Query(key); raw != "" {
			t, err := api.ParseTime(raw)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
				return
			}
			ts := api.Timestamp{Time: t}
			*dst = &ts
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.CalendarEvent, 0, len(b.events))
	for _, e := range b.eventList() {
		if start != nil && e.EventDate.Before(start.Time) {
			continue
		}
		if end != nil && e.EventDate.After(end.Time) {
			continue
		}
		out = append(out, e)
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) getEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	e, found := b.events[id]
	if !found {
		notFound(c, "Calendar event")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (b *Backend) createEvent(c *gin.Context) {
	m, ok := fields(c)
	if !ok {
		return
	}
	title, _ := optString(m, "title")
	date, _, err := optTime(m, "event_date")
	if err != nil || title == nil || date == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "title and event_date are required"})
		return
	}
	desc, _ := optString(m, "description")
	todoID, _ := optInt(m, "todo_id")
	goalID, _ := optInt(m, "goal_id")

	b.mu.Lock()
	defer b.mu.Unlock()
	e := &api.CalendarEvent{
		ID:          b.id(),
		Title:       *title,
		Description: desc,
		EventDate:   *date,
		TodoID:      todoID,
		GoalID:      goalID,
		CreatedAt:   b.now(),
	}
	b.events[e.ID] = e
	c.JSON(http.StatusOK, e)
}

func (b *Backend) updateEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, ok := fields(c)
	if !ok {
		return
	}
	date, dateSet, err := optTime(m, "event_date")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, found := b.events[id]
	if !found {
		notFound(c, "Calendar event")
		return
	}
	if s, set := optString(m, "title"); set && s != nil {
		e.Title = *s
	}
	if s, set := optString(m, "description"); set {
		e.Description = s
	}
	if dateSet && date != nil {
		e.EventDate = *date
	}
	c.JSON(http.StatusOK, e)
}

func (b *Backend) deleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.events[id]; !found {
		notFound(c, "Calendar event")
		return
	}
	delete(b.events, id)
	c.JSON(http.StatusOK, gin.H{"message": "Calendar event deleted successfully"})
}

func (b *Backend) stats(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var s api.Stats
	for _, g := range b.goals {
		s.Goals.Total++
		switch g.Status {
		case api.GoalActive:
			s.Goals.Active++
		case api.GoalCompleted:
			s.Goals.Completed++
		}
	}
	for _, t := range b.todos {
		s.Todos.Total++
		if t.Completed {
			s.Todos.Completed++
		} else {
			s.Todos.Pending++
		}
	}
	s.CalendarEvents = len(b.events)
	c.JSON(http.StatusOK, s)
}
