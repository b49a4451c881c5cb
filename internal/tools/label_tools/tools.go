package label_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/tools/common"
)

// RegisterLabelTools registers label management tools with the MCP
// server. Mutating tools are only registered when write operations are
// enabled.
func RegisterLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List labels tool (read-only, always available)
	listLabelsTool := mcp.NewTool("list_labels",
		mcp.WithDescription("List all labels"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
	)

	s.AddTool(listLabelsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		labels, err := client.ListLabels(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list labels: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"labels": labels,
			"count":  len(labels),
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	if readOnly {
		return nil
	}

	// Create label tool
	createLabelTool := mcp.NewTool("create_label",
		mcp.WithDescription("Create a new label"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Label title"),
		),
		mcp.WithString("hex_color",
			mcp.Description("Color in hex format (e.g., '#FF0000')"),
		),
	)

	s.AddTool(createLabelTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		title, err := common.GetStringArg(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		hexColor, _ := args["hex_color"].(string)
		hexColor = strings.TrimPrefix(hexColor, "#")

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		label, err := client.CreateLabel(ctx, title, hexColor)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create label: %v", err)), nil
		}

		result, _ := json.MarshalIndent(label, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Delete label tool
	deleteLabelTool := mcp.NewTool("delete_label",
		mcp.WithDescription("Delete a label"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("label_id",
			mcp.Required(),
			mcp.Description("Label ID"),
		),
	)

	s.AddTool(deleteLabelTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		labelID, err := common.GetInt64Arg(args, "label_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.DeleteLabel(ctx, labelID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete label: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"deleted": labelID,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Add label to task tool
	addLabelTool := mcp.NewTool("add_label_to_task",
		mcp.WithDescription("Add a label to a task"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithNumber("label_id",
			mcp.Required(),
			mcp.Description("Label ID"),
		),
	)

	s.AddTool(addLabelTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.GetInt64Arg(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		labelID, err := common.GetInt64Arg(args, "label_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.AddLabelToTask(ctx, taskID, labelID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add label: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"task_id":  taskID,
			"label_id": labelID,
			"added":    true,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Remove label from task tool
	removeLabelTool := mcp.NewTool("remove_label_from_task",
		mcp.WithDescription("Remove a label from a task"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithNumber("label_id",
			mcp.Required(),
			mcp.Description("Label ID"),
		),
	)

	s.AddTool(removeLabelTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.GetInt64Arg(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		labelID, err := common.GetInt64Arg(args, "label_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.RemoveLabelFromTask(ctx, taskID, labelID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to remove label: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"task_id":  taskID,
			"label_id": labelID,
			"removed":  true,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	return nil
}
