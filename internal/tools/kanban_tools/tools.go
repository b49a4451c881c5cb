package kanban_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/tools/common"
	"github.com/ivantohelpyou/vikunja-mcp/internal/vikunja"
)

// bucketInfo is the per-bucket entry in list_buckets output. Task
// payloads are reduced to a count.
type bucketInfo struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Position  float64 `json:"position"`
	Limit     int     `json:"limit"`
	TaskCount int     `json:"task_count"`
}

// RegisterKanbanTools registers kanban view and bucket tools with the
// MCP server. Mutating tools are only registered when write operations
// are enabled.
func RegisterKanbanTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List views tool
	listViewsTool := mcp.NewTool("list_views",
		mcp.WithDescription("List all views for a project"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
	)

	s.AddTool(listViewsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		views, err := client.ListViews(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list views: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"views": views,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Get kanban view tool
	getKanbanViewTool := mcp.NewTool("get_kanban_view",
		mcp.WithDescription("Get the kanban view for a project"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
	)

	s.AddTool(getKanbanViewTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		view, err := client.KanbanView(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get kanban view: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"view_id": view.ID,
			"title":   view.Title,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// List buckets tool
	listBucketsTool := mcp.NewTool("list_buckets",
		mcp.WithDescription("List kanban buckets in a view"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
		mcp.WithNumber("view_id",
			mcp.Required(),
			mcp.Description("Kanban view ID"),
		),
	)

	s.AddTool(listBucketsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		viewID, err := common.GetInt64Arg(args, "view_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		buckets, err := client.ListBuckets(ctx, projectID, viewID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list buckets: %v", err)), nil
		}

		infos := make([]bucketInfo, 0, len(buckets))
		for _, b := range buckets {
			infos = append(infos, bucketInfo{
				ID:        b.ID,
				Title:     b.Title,
				Position:  b.Position,
				Limit:     b.Limit,
				TaskCount: len(b.Tasks),
			})
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"buckets": infos,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	if readOnly {
		return nil
	}

	// Create bucket tool
	createBucketTool := mcp.NewTool("create_bucket",
		mcp.WithDescription("Create a kanban bucket"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
		mcp.WithNumber("view_id",
			mcp.Required(),
			mcp.Description("Kanban view ID"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Bucket title"),
		),
		mcp.WithNumber("limit",
			mcp.Description("WIP limit (0=no limit)"),
		),
		mcp.WithNumber("position",
			mcp.Description("Position"),
		),
	)

	s.AddTool(createBucketTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		viewID, err := common.GetInt64Arg(args, "view_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, err := common.GetStringArg(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		in := vikunja.BucketInput{Title: title}
		if limit, ok, err := common.GetOptionalInt64Arg(args, "limit"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		} else if ok {
			in.Limit = int(limit)
		}
		if position, ok := args["position"].(float64); ok {
			in.Position = position
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		bucket, err := client.CreateBucket(ctx, projectID, viewID, in)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create bucket: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"id":    bucket.ID,
			"title": bucket.Title,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Set task position tool
	setTaskPositionTool := mcp.NewTool("set_task_position",
		mcp.WithDescription("Move a task to a kanban bucket"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
		mcp.WithNumber("view_id",
			mcp.Required(),
			mcp.Description("Kanban view ID"),
		),
		mcp.WithNumber("bucket_id",
			mcp.Required(),
			mcp.Description("Target bucket ID"),
		),
	)

	s.AddTool(setTaskPositionTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.GetInt64Arg(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		viewID, err := common.GetInt64Arg(args, "view_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		bucketID, err := common.GetInt64Arg(args, "bucket_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.MoveTaskToBucket(ctx, projectID, viewID, bucketID, taskID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to move task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"task_id":   taskID,
			"bucket_id": bucketID,
			"moved":     true,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	return nil
}
