package project_tools

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

// RegisterProjectTools registers project management tools with the MCP
// server. Create, update and delete are only registered when write
// operations are enabled.
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List projects tool (read-only, always available)
	listProjectsTool := mcp.NewTool("list_projects",
		mcp.WithDescription("List all Vikunja projects"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
	)

	s.AddTool(listProjectsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		projects, err := client.ListProjects(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list projects: %v", err)), nil
		}

		result, _ := json.MarshalIndent(projects, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Get project tool
	getProjectTool := mcp.NewTool("get_project",
		mcp.WithDescription("Get details of a specific project"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
	)

	s.AddTool(getProjectTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := client.GetProject(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(project, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Write operations (requires !readOnly)
	if !readOnly {
		if err := registerProjectWriteTools(s, sc); err != nil {
			return fmt.Errorf("failed to register project write tools: %w", err)
		}
	}

	return nil
}

func registerProjectWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Create project tool
	createProjectTool := mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Project title"),
		),
		mcp.WithString("description",
			mcp.Description("Project description"),
		),
		mcp.WithString("hex_color",
			mcp.Description("Color in hex format"),
		),
		mcp.WithNumber("parent_project_id",
			mcp.Description("Parent project ID for nesting"),
		),
	)

	s.AddTool(createProjectTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		title, err := common.GetStringArg(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		parentID, _, err := common.GetOptionalInt64Arg(args, "parent_project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		description, _ := args["description"].(string)
		hexColor, _ := args["hex_color"].(string)

		project, err := client.CreateProject(ctx, vikunja.ProjectInput{
			Title:       title,
			Description: description,
			HexColor:    hexColor,
			ParentID:    parentID,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(project, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Update project tool
	updateProjectTool := mcp.NewTool("update_project",
		mcp.WithDescription("Update a project's properties"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("hex_color",
			mcp.Description("New color"),
		),
		mcp.WithNumber("parent_project_id",
			mcp.Description("New parent project ID (0 moves to root)"),
		),
	)

	s.AddTool(updateProjectTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		// The update endpoint replaces the title, so fall back to the
		// current one when the caller doesn't change it.
		current, err := client.GetProject(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get project: %v", err)), nil
		}

		fields := map[string]interface{}{
			"id":    projectID,
			"title": current.Title,
		}
		if title, _ := args["title"].(string); title != "" {
			fields["title"] = title
		}
		if description, _ := args["description"].(string); description != "" {
			fields["description"] = description
		}
		if hexColor, _ := args["hex_color"].(string); hexColor != "" {
			fields["hex_color"] = hexColor
		}
		if parentID, ok, err := common.GetOptionalInt64Arg(args, "parent_project_id"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		} else if ok {
			fields["parent_project_id"] = parentID
		}

		project, err := client.UpdateProject(ctx, projectID, fields)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(project, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Delete project tool
	deleteProjectTool := mcp.NewTool("delete_project",
		mcp.WithDescription("Delete a project and all its tasks. WARNING: Permanent!"),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("Project ID"),
		),
	)

	s.AddTool(deleteProjectTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.GetInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := sc.ClientForInstance(common.GetInstanceFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.DeleteProject(ctx, projectID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"deleted": projectID,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	return nil
}
