package task_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/tools/batch"
	"github.com/ivantohelpyou/vikunja-mcp/internal/tools/common"
	"github.com/ivantohelpyou/vikunja-mcp/internal/vikunja"
)

// taskSummary is the compact task representation returned by list_tasks.
type taskSummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Done        bool     `json:"done"`
	Priority    int      `json:"priority"`
	DueDate     string   `json:"due_date,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	ProjectID   int64    `json:"project_id"`
}

func summarize(t vikunja.Task) taskSummary {
	s := taskSummary{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		Priority:  t.Priority,
		ProjectID: t.ProjectID,
	}
	if len(t.Description) > 200 {
		s.Description = t.Description[:200]
	} else {
		s.Description = t.Description
	}
	if !t.DueDate.IsZero() {
		s.DueDate = t.DueDate.UTC().Format(time.RFC3339)
	}
	for _, l := range t.Labels {
		s.Labels = append(s.Labels, l.Title)
	}
	return s
}

// parseDateArg parses a date argument. Bare dates without a time part
// get one appended: midnight by default, end of day for end dates.
func parseDateArg(value string, endOfDay bool) (time.Time, error) {
	if !strings.Contains(value, "T") {
		if endOfDay {
			value += "T23:59:00Z"
		} else {
			value += "T00:00:00Z"
		}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use ISO format (2026-01-31 or 2026-01-31T15:00:00Z)", value)
	}
	return t, nil
}

// RegisterTaskTools registers task management tools with the MCP server.
// Mutating tools are only registered when write operations are enabled.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerTaskReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register task read tools: %w", err)
	}
	if !readOnly {
		if err := registerTaskWriteTools(s, sc); err != nil {
			return fmt.Errorf("failed to register task write tools: %w", err)
		}
	}
	return nil
}

func registerTaskReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List tasks tool
	listTasksTool := mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks in a project"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed tasks (default: false)"),
		),
		mcp.WithString("label_filter",
			mcp.Description("Filter by label name (case-insensitive substring)"),
		),
	)

	s.AddTool(listTasksTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		includeCompleted, _ := args["include_completed"].(bool)
		tasks, err := client.ListTasks(ctx, projectID, vikunja.ListTasksOptions{IncludeDone: includeCompleted})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
		}

		if labelFilter, _ := args["label_filter"].(string); labelFilter != "" {
			needle := strings.ToLower(labelFilter)
			filtered := tasks[:0]
			for _, t := range tasks {
				for _, l := range t.Labels {
					if strings.Contains(strings.ToLower(l.Title), needle) {
						filtered = append(filtered, t)
						break
					}
				}
			}
			tasks = filtered
		}

		summaries := make([]taskSummary, 0, len(tasks))
		for _, t := range tasks {
			summaries = append(summaries, summarize(t))
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"tasks": summaries,
			"count": len(summaries),
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Get tasks tool (accepts a single ID or an array)
	getTasksTool := mcp.NewTool("get_tasks",
		mcp.WithDescription("Get details of one or more tasks by ID"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_ids",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs"),
		),
	)

	s.AddTool(getTasksTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		ids, err := batch.ParseIDOrArray(args["task_ids"], "task_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(ids, func(id int64) (string, error) {
			task, err := client.GetTask(ctx, id)
			if err != nil {
				return "", err
			}
			detail, _ := json.Marshal(task)
			return string(detail), nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	})

	// List task relations tool
	listRelationsTool := mcp.NewTool("list_task_relations",
		mcp.WithDescription("List relations for a task"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
	)

	s.AddTool(listRelationsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.GetInt64Arg(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task, err := client.GetTask(ctx, taskID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"task_id":   taskID,
			"relations": task.RelatedTasks,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	return nil
}

func registerTaskWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Create task tool
	createTaskTool := mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("description",
			mcp.Description("Task description"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date (ISO format, bare dates get T00:00:00Z)"),
		),
		mcp.WithString("start_date",
			mcp.Description("Start date for GANTT"),
		),
		mcp.WithString("end_date",
			mcp.Description("End date for GANTT"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priority 0-5"),
		),
		mcp.WithNumber("repeat_after",
			mcp.Description("Repeat interval in seconds"),
		),
		mcp.WithNumber("repeat_mode",
			mcp.Description("0=from due date, 1=from completion"),
		),
	)

	s.AddTool(createTaskTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, err := common.GetStringArg(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		in := vikunja.TaskInput{Title: vikunja.Ptr(title)}
		if err := applyTaskArgs(&in, args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task, err := client.CreateTask(ctx, projectID, in)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(task, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Update task tool
	updateTaskTool := mcp.NewTool("update_task",
		mcp.WithDescription("Update an existing task. Only the given fields are changed."),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date"),
		),
		mcp.WithString("start_date",
			mcp.Description("New start date"),
		),
		mcp.WithString("end_date",
			mcp.Description("New end date"),
		),
		mcp.WithNumber("priority",
			mcp.Description("New priority"),
		),
		mcp.WithNumber("repeat_after",
			mcp.Description("Repeat interval in seconds (0 disables)"),
		),
		mcp.WithNumber("repeat_mode",
			mcp.Description("Repeat mode"),
		),
	)

	s.AddTool(updateTaskTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.GetInt64Arg(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var in vikunja.TaskInput
		if title, _ := args["title"].(string); title != "" {
			in.Title = vikunja.Ptr(title)
		}
		if err := applyTaskArgs(&in, args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if in.IsEmpty() {
			return mcp.NewToolResultError("No changes specified"), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task, err := client.UpdateTask(ctx, taskID, in)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(task, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Complete tasks tool (accepts a single ID or an array)
	completeTasksTool := mcp.NewTool("complete_tasks",
		mcp.WithDescription("Mark one or more tasks as complete"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_ids",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs"),
		),
	)

	s.AddTool(completeTasksTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		ids, err := batch.ParseIDOrArray(args["task_ids"], "task_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(ids, func(id int64) (string, error) {
			task, err := client.CompleteTask(ctx, id)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Completed '%s'", task.Title), nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	})

	// Delete tasks tool (accepts a single ID or an array)
	deleteTasksTool := mcp.NewTool("delete_tasks",
		mcp.WithDescription("Delete one or more tasks. Permanent!"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_ids",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs"),
		),
	)

	s.AddTool(deleteTasksTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		ids, err := batch.ParseIDOrArray(args["task_ids"], "task_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(ids, func(id int64) (string, error) {
			if err := client.DeleteTask(ctx, id); err != nil {
				return "", err
			}
			return "Deleted", nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	})

	// Create task relation tool
	createRelationTool := mcp.NewTool("create_task_relation",
		mcp.WithDescription("Create a relation between tasks"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Source task ID"),
		),
		mcp.WithString("relation_kind",
			mcp.Required(),
			mcp.Description("Relation type: subtask, parenttask, related, blocking, blocked, precedes, follows, duplicates"),
		),
		mcp.WithNumber("other_task_id",
			mcp.Required(),
			mcp.Description("Target task ID"),
		),
	)

	s.AddTool(createRelationTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.GetInt64Arg(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		otherTaskID, err := common.GetInt64Arg(args, "other_task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kind, err := common.GetStringArg(args, "relation_kind")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.CreateRelation(ctx, taskID, otherTaskID, kind); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create relation: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"task_id":       taskID,
			"relation_kind": kind,
			"other_task_id": otherTaskID,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	return nil
}

// applyTaskArgs fills the shared optional task fields from request
// arguments.
func applyTaskArgs(in *vikunja.TaskInput, args map[string]interface{}) error {
	if description, _ := args["description"].(string); description != "" {
		in.Description = vikunja.Ptr(description)
	}
	if dueDate, _ := args["due_date"].(string); dueDate != "" {
		t, err := parseDateArg(dueDate, false)
		if err != nil {
			return err
		}
		in.DueDate = &t
	}
	if startDate, _ := args["start_date"].(string); startDate != "" {
		t, err := parseDateArg(startDate, false)
		if err != nil {
			return err
		}
		in.StartDate = &t
	}
	if endDate, _ := args["end_date"].(string); endDate != "" {
		t, err := parseDateArg(endDate, true)
		if err != nil {
			return err
		}
		in.EndDate = &t
	}
	if priority, ok, err := common.GetOptionalInt64Arg(args, "priority"); err != nil {
		return err
	} else if ok {
		in.Priority = vikunja.Ptr(int(priority))
	}
	if repeatAfter, ok, err := common.GetOptionalInt64Arg(args, "repeat_after"); err != nil {
		return err
	} else if ok {
		in.RepeatAfter = &repeatAfter
	}
	if repeatMode, ok, err := common.GetOptionalInt64Arg(args, "repeat_mode"); err != nil {
		return err
	} else if ok {
		in.RepeatMode = vikunja.Ptr(int(repeatMode))
	}
	return nil
}
