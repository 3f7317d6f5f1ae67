package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerGoalsResource(srv, svc)
	registerTodosResource(srv, svc)
	registerCalendarResource(srv, svc)
	registerStatsResource(srv, svc)
	registerGoalTemplate(srv, svc)
}

func registerGoalsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"taskodos://goals",
		"Goals",
		mcp.WithResourceDescription("Active and completed goals."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		goals, err := svc.ListGoals(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, goals)
	})
}

func registerTodosResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"taskodos://todos",
		"Todos",
		mcp.WithResourceDescription("Pending and completed todos."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		todos, err := svc.ListTodos(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, todos)
	})
}

func registerCalendarResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"taskodos://calendar",
		"Calendar",
		mcp.WithResourceDescription("Calendar events grouped by day."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		days, err := svc.ListEvents(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"days":  days,
			"count": len(days),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerStatsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"taskodos://stats",
		"Stats",
		mcp.WithResourceDescription("Goal, todo and calendar counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, stats)
	})
}

func registerGoalTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"taskodos://goals/{id}",
		"Goal Details",
		mcp.WithTemplateDescription("A goal and the todos attached to it."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw := fmt.Sprint(request.Params.Arguments["id"])
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("goal id is required")
		}

		detail, err := svc.GoalByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, detail)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := sonic.ConfigDefault.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
