package mcp

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	h := &handlers{svc: svc}

	srv.AddTool(mcp.NewTool(
		"list_goals",
		mcp.WithDescription("List active and completed goals. Archived goals are only counted."),
	), h.listGoals)

	srv.AddTool(mcp.NewTool(
		"list_todos",
		mcp.WithDescription("List pending and completed todos, with the goal each belongs to."),
	), h.listTodos)

	srv.AddTool(mcp.NewTool(
		"list_events",
		mcp.WithDescription("List calendar events grouped by day, or split into upcoming and past."),
		mcp.WithBoolean("upcoming",
			mcp.Description("Return upcoming and the ten most recent past events instead of days."),
		),
	), h.listEvents)

	srv.AddTool(mcp.NewTool(
		"get_stats",
		mcp.WithDescription("Counts of goals, todos and calendar events."),
	), h.getStats)

	srv.AddTool(mcp.NewTool(
		"create_goal",
		mcp.WithDescription("Create a goal. A target date also creates a calendar event."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Goal title."),
		),
		mcp.WithString("description",
			mcp.Description("Optional longer description."),
		),
		mcp.WithString("target_date",
			mcp.Description("Optional target date as YYYY-MM-DD."),
		),
		mcp.WithString("status",
			mcp.Description("Goal status, active by default."),
			mcp.Enum("active", "completed", "archived"),
		),
	), h.createGoal)

	srv.AddTool(mcp.NewTool(
		"create_todo",
		mcp.WithDescription("Create a todo, optionally attached to an active goal. A due date also creates a calendar event."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Todo title."),
		),
		mcp.WithString("description",
			mcp.Description("Optional longer description."),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional due date as YYYY-MM-DD."),
		),
		mcp.WithNumber("goal_id",
			mcp.Description("Goal to attach the todo to; omit for a standalone todo."),
		),
	), h.createTodo)

	srv.AddTool(mcp.NewTool(
		"create_event",
		mcp.WithDescription("Create a manual calendar event."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title."),
		),
		mcp.WithString("event_date",
			mcp.Required(),
			mcp.Description("Event date as YYYY-MM-DD."),
		),
		mcp.WithString("description",
			mcp.Description("Optional longer description."),
		),
	), h.createEvent)

	srv.AddTool(mcp.NewTool(
		"toggle_todo",
		mcp.WithDescription("Flip a todo between pending and completed."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Todo identifier."),
		),
	), h.toggleTodo)

	srv.AddTool(mcp.NewTool(
		"delete_goal",
		mcp.WithDescription("Delete a goal. Its todos are deleted too."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Goal identifier."),
		),
	), h.deleteGoal)

	srv.AddTool(mcp.NewTool(
		"delete_todo",
		mcp.WithDescription("Delete a todo."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Todo identifier."),
		),
	), h.deleteTodo)

	srv.AddTool(mcp.NewTool(
		"delete_event",
		mcp.WithDescription("Delete a manual calendar event. Events generated from todos or goals are refused."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Event identifier."),
		),
	), h.deleteEvent)
}

type handlers struct {
	svc *Service
}

func (h *handlers) listGoals(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goals, err := h.svc.ListGoals(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(goals)
}

func (h *handlers) listTodos(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	todos, err := h.svc.ListTodos(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(todos)
}

func (h *handlers) listEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Upcoming bool `json:"upcoming"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Upcoming {
		tl, err := h.svc.UpcomingEvents(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(tl)
	}
	days, err := h.svc.ListEvents(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(days)
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(stats)
}

func (h *handlers) createGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		TargetDate  string `json:"target_date"`
		Status      string `json:"status"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	goals, err := h.svc.CreateGoal(ctx, GoalOptions{
		Title:       args.Title,
		Description: args.Description,
		TargetDate:  args.TargetDate,
		Status:      args.Status,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(goals)
}

func (h *handlers) createTodo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
		GoalID      int    `json:"goal_id"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	todos, err := h.svc.CreateTodo(ctx, TodoOptions{
		Title:       args.Title,
		Description: args.Description,
		DueDate:     args.DueDate,
		GoalID:      args.GoalID,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(todos)
}

func (h *handlers) createEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		EventDate   string `json:"event_date"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	days, err := h.svc.CreateEvent(ctx, EventOptions{
		Title:       args.Title,
		Description: args.Description,
		Date:        args.EventDate,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(days)
}

func (h *handlers) toggleTodo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	todo, err := h.svc.ToggleTodo(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(todo)
}

func (h *handlers) deleteGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.deleteBy(ctx, request, "goal", h.svc.DeleteGoal)
}

func (h *handlers) deleteTodo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.deleteBy(ctx, request, "todo", h.svc.DeleteTodo)
}

func (h *handlers) deleteEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.deleteBy(ctx, request, "event", h.svc.DeleteEvent)
}

func (h *handlers) deleteBy(ctx context.Context, request mcp.CallToolRequest, kind string, del func(context.Context, int) error) (*mcp.CallToolResult, error) {
	id, err := requireID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := del(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{
		"deleted": kind,
		"id":      id,
	})
}

func requireID(request mcp.CallToolRequest) (int, error) {
	var args struct {
		ID int `json:"id"`
	}
	if err := request.BindArguments(&args); err != nil {
		return 0, fmt.Errorf("invalid arguments: %v", err)
	}
	if args.ID <= 0 {
		return 0, fmt.Errorf("id is required")
	}
	return args.ID, nil
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := sonic.ConfigDefault.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
