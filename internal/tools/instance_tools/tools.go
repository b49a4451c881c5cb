package instance_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/config"
	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/tools/common"
	"github.com/ivantohelpyou/vikunja-mcp/internal/vikunja"
)

// instanceInfo is the per-instance entry in list_instances output.
type instanceInfo struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	IsCurrent bool   `json:"is_current"`
}

// RegisterInstanceTools registers instance and context management tools
// with the MCP server. These tools only touch local configuration, so
// they are available in read-only mode as well.
func RegisterInstanceTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List instances tool
	listInstancesTool := mcp.NewTool("list_instances",
		mcp.WithDescription("List all configured Vikunja instances with URLs and current selection"),
	)

	s.AddTool(listInstancesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instances, err := sc.Store().Instances()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load instances: %v", err)), nil
		}
		current, _ := sc.Store().CurrentInstance()

		names, err := sc.Store().InstanceNames()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load instances: %v", err)), nil
		}

		infos := make([]instanceInfo, 0, len(names))
		for _, name := range names {
			infos = append(infos, instanceInfo{
				Name:      name,
				URL:       instances[name].URL,
				IsCurrent: name == current,
			})
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"instances": infos,
			"current":   current,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Switch instance tool
	switchInstanceTool := mcp.NewTool("switch_instance",
		mcp.WithDescription("Switch to a different Vikunja instance. All subsequent operations will use this instance."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Instance name to switch to"),
		),
	)

	s.AddTool(switchInstanceTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		name, err := common.GetStringArg(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := sc.Store().SetCurrentInstance(name); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to switch instance: %v", err)), nil
		}

		inst, err := sc.Store().Resolve(name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve instance: %v", err)), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"switched_to": name,
			"url":         inst.URL,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Connect instance tool
	connectInstanceTool := mcp.NewTool("connect_instance",
		mcp.WithDescription("Connect a new Vikunja instance. Validates the token before storing."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name for this instance (e.g., 'personal', 'work')"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Vikunja instance URL"),
		),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("API token from Vikunja Settings > API Tokens"),
		),
	)

	s.AddTool(connectInstanceTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		name, err := common.GetStringArg(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		url, err := common.GetStringArg(args, "url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		token, err := common.GetStringArg(args, "token")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		url = strings.TrimRight(url, "/")

		// Validate the token against the instance before storing it
		client := vikunja.NewClient(url, token, vikunja.WithLogger(sc.Logger()))
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Token validation failed: %v", err)), nil
		}

		if err := sc.Store().AddInstance(name, config.Instance{URL: url, Token: token}); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to store instance: %v", err)), nil
		}
		sc.InvalidateClient(name)

		current, _ := sc.Store().CurrentInstance()

		result, _ := json.MarshalIndent(map[string]interface{}{
			"connected":  name,
			"url":        url,
			"user":       user.Username,
			"is_current": current == name,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Get context tool
	getContextTool := mcp.NewTool("get_context",
		mcp.WithDescription("Get the current Vikunja instance context"),
	)

	s.AddTool(getContextTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		current, _ := sc.Store().CurrentInstance()

		url := ""
		if current != "" {
			if inst, err := sc.Store().Resolve(current); err == nil {
				url = inst.URL
			}
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"instance": current,
			"url":      url,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	})

	// Set active context tool
	setActiveContextTool := mcp.NewTool("set_active_context",
		mcp.WithDescription("Set default instance and/or project for queries. Empty instance or zero project clears the default."),
		mcp.WithString("instance",
			mcp.Description("Default instance. Empty to clear."),
		),
		mcp.WithNumber("project_id",
			mcp.Description("Default project ID. 0 to clear."),
		),
	)

	s.AddTool(setActiveContextTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		instance := common.GetInstanceFromArgs(args)
		projectID, _, err := common.GetOptionalInt64Arg(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := sc.Store().SetContext(instance, projectID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to set context: %v", err)), nil
		}

		return activeContextResult(sc)
	})

	// Get active context tool
	getActiveContextTool := mcp.NewTool("get_active_context",
		mcp.WithDescription("Get current default instance and project context"),
	)

	s.AddTool(getActiveContextTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return activeContextResult(sc)
	})

	return nil
}

func activeContextResult(sc *server.ServerContext) (*mcp.CallToolResult, error) {
	mcpContext, err := sc.Store().GetContext()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load context: %v", err)), nil
	}
	names, err := sc.Store().InstanceNames()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load instances: %v", err)), nil
	}

	result, _ := json.MarshalIndent(map[string]interface{}{
		"instance":            mcpContext.Instance,
		"project_id":          mcpContext.ProjectID,
		"available_instances": names,
	}, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}
