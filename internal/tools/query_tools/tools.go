package query_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/tools/common"
)

// RegisterQueryTools registers the cross-instance power query tools
// with the MCP server. All of them are read-only.
func RegisterQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Simple list queries share the same shape: gather, filter, wrap.
	listQueries := []struct {
		name        string
		description string
		filter      func(tasks []queryTask, now time.Time) []queryTask
	}{
		{
			name:        "overdue_tasks",
			description: "Get tasks past their due date across instances",
			filter:      filterOverdue,
		},
		{
			name:        "due_today",
			description: "Get tasks due today plus overdue ones",
			filter:      filterDueToday,
		},
		{
			name:        "due_this_week",
			description: "Get tasks due in the next 7 days plus overdue ones",
			filter:      filterDueThisWeek,
		},
		{
			name:        "high_priority_tasks",
			description: "Get tasks with priority >= 3",
			filter: func(tasks []queryTask, _ time.Time) []queryTask {
				return filterByPriority(tasks, highPriorityThreshold)
			},
		},
		{
			name:        "urgent_tasks",
			description: "Get tasks with priority >= 4 (critical)",
			filter: func(tasks []queryTask, _ time.Time) []queryTask {
				return filterByPriority(tasks, urgentThreshold)
			},
		},
		{
			name:        "unscheduled_tasks",
			description: "Get tasks without a due date",
			filter: func(tasks []queryTask, _ time.Time) []queryTask {
				return filterUnscheduled(tasks)
			},
		},
	}

	for _, q := range listQueries {
		filter := q.filter
		tool := mcp.NewTool(q.name,
			mcp.WithDescription(q.description),
			mcp.WithString("instance",
				mcp.Description("Filter to specific instance. Empty = all."),
			),
		)

		s.AddTool(tool, common.InstrumentedToolHandlerWithOperation(
			q.name, "query", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args, _ := request.Params.Arguments.(map[string]interface{})

				tasks, err := gatherTasks(ctx, sc, common.GetInstanceFromArgs(args))
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to gather tasks: %v", err)), nil
				}

				matched := filter(tasks, time.Now().UTC())
				return queryResult(matched), nil
			}))
	}

	// Focus now tool (limit parameter)
	focusNowTool := mcp.NewTool("focus_now",
		mcp.WithDescription("Get tasks needing attention: priority >= 4 or overdue. Best for 'what should I work on?'"),
		mcp.WithString("instance",
			mcp.Description("Filter to specific instance. Empty = all."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max tasks (0=all, default 10)"),
		),
	)

	s.AddTool(focusNowTool, common.InstrumentedToolHandlerWithOperation(
		"focus_now", "query", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			limit := int64(10)
			if v, ok, err := common.GetOptionalInt64Arg(args, "limit"); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			} else if ok {
				limit = v
			}

			tasks, err := gatherTasks(ctx, sc, common.GetInstanceFromArgs(args))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to gather tasks: %v", err)), nil
			}

			focus := filterFocus(tasks, time.Now().UTC())
			total := len(focus)
			if limit > 0 && int64(len(focus)) > limit {
				focus = focus[:limit]
			}

			result, _ := json.MarshalIndent(map[string]interface{}{
				"tasks":          focus,
				"count":          len(focus),
				"total_matching": total,
			}, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Upcoming deadlines tool (days parameter)
	upcomingTool := mcp.NewTool("upcoming_deadlines",
		mcp.WithDescription("Get tasks due in the next N days (not overdue)"),
		mcp.WithString("instance",
			mcp.Description("Filter to specific instance. Empty = all."),
		),
		mcp.WithNumber("days",
			mcp.Description("Days to look ahead (default 3)"),
		),
	)

	s.AddTool(upcomingTool, common.InstrumentedToolHandlerWithOperation(
		"upcoming_deadlines", "query", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			days := int64(3)
			if v, ok, err := common.GetOptionalInt64Arg(args, "days"); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			} else if ok {
				days = v
			}

			tasks, err := gatherTasks(ctx, sc, common.GetInstanceFromArgs(args))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to gather tasks: %v", err)), nil
			}

			return queryResult(filterUpcoming(tasks, time.Now().UTC(), int(days))), nil
		}))

	// Task summary tool (counts only)
	summaryTool := mcp.NewTool("task_summary",
		mcp.WithDescription("Lightweight task overview, counts only"),
		mcp.WithString("instance",
			mcp.Description("Filter to specific instance. Empty = all."),
		),
	)

	s.AddTool(summaryTool, common.InstrumentedToolHandlerWithOperation(
		"task_summary", "query", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			tasks, err := gatherTasks(ctx, sc, common.GetInstanceFromArgs(args))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to gather tasks: %v", err)), nil
			}

			result, _ := json.MarshalIndent(summarize(tasks, time.Now().UTC()), "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}

func queryResult(tasks []queryTask) *mcp.CallToolResult {
	result, _ := json.MarshalIndent(map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	}, "", "  ")
	return mcp.NewToolResultText(string(result))
}
