package xq_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/instrumentation"
	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/tools/common"
	"github.com/ivantohelpyou/vikunja-mcp/internal/xq"
)

// RegisterXQTools registers the exchange-queue tools with the MCP
// server. Checking the queue is read-only; setup, claim and complete
// mutate the remote board and are only registered when write operations
// are enabled.
func RegisterXQTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Check queue tool (read-only, always available)
	checkTool := mcp.NewTool("check_xq",
		mcp.WithDescription("Check the exchange queue for pending handoff tasks. Empty instance checks all instances with a queue mapping."),
		mcp.WithString("instance",
			mcp.Description("Instance name. Empty = all instances with an xq mapping."),
		),
	)

	s.AddTool(checkTool, common.InstrumentedToolHandler("check_xq", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			instance := common.GetInstanceFromArgs(args)

			if instance == "" {
				statuses, err := sc.Queue().CheckAll(ctx)
				if err != nil {
					return queueError(ctx, sc, "check", err), nil
				}
				for _, st := range statuses {
					recordQueue(ctx, sc, st.Instance, "check", "", &st)
				}
				result, _ := json.MarshalIndent(map[string]interface{}{
					"queues": statuses,
				}, "", "  ")
				return mcp.NewToolResultText(string(result)), nil
			}

			status, err := sc.Queue().Check(ctx, instance)
			if err != nil {
				return queueError(ctx, sc, "check", err), nil
			}
			recordQueue(ctx, sc, status.Instance, "check", "", status)

			result, _ := json.MarshalIndent(status, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	if readOnly {
		return nil
	}

	// Setup queue tool
	setupTool := mcp.NewTool("setup_xq",
		mcp.WithDescription("Create the exchange queue buckets (Handoff, Review, Filed) in the configured handoff project. Idempotent."),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
	)

	s.AddTool(setupTool, common.InstrumentedToolHandler("setup_xq", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			setup, err := sc.Queue().Setup(ctx, common.GetInstanceFromArgs(args))
			if err != nil {
				return queueError(ctx, sc, "setup", err), nil
			}
			recordQueue(ctx, sc, setup.Instance, "setup", "", nil)

			result, _ := json.MarshalIndent(setup, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Claim task tool
	claimTool := mcp.NewTool("claim_xq_task",
		mcp.WithDescription("Claim a pending handoff task for this session. The task moves to Review and carries this session's claim marker."),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID to claim"),
		),
	)

	s.AddTool(claimTool, common.InstrumentedToolHandler("claim_xq_task", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := common.GetInt64Arg(args, "task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			instance := common.GetInstanceFromArgs(args)
			item, err := sc.Queue().Claim(ctx, instance, taskID)
			if err != nil {
				return queueError(ctx, sc, "claim", err), nil
			}
			recordQueue(ctx, sc, instance, "claim", "", nil)

			result, _ := json.MarshalIndent(map[string]interface{}{
				"claimed": item,
				"session": sc.Queue().Session(),
			}, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Complete task tool
	completeTool := mcp.NewTool("complete_xq_task",
		mcp.WithDescription("Complete a claimed handoff task: record where it was filed, mark it done and move it to Filed. Only the claiming session may complete it."),
		mcp.WithString("instance",
			mcp.Description("Instance name (default: current instance)"),
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID to complete"),
		),
		mcp.WithString("filed_to",
			mcp.Required(),
			mcp.Description("Where the work was filed (project, task or free text)"),
		),
	)

	s.AddTool(completeTool, common.InstrumentedToolHandler("complete_xq_task", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := common.GetInt64Arg(args, "task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			filedTo, err := common.GetStringArg(args, "filed_to")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			instance := common.GetInstanceFromArgs(args)
			item, err := sc.Queue().Complete(ctx, instance, taskID, filedTo)
			if err != nil {
				return queueError(ctx, sc, "complete", err), nil
			}
			recordQueue(ctx, sc, instance, "complete", "", nil)

			result, _ := json.MarshalIndent(map[string]interface{}{
				"completed": item,
				"filed_to":  filedTo,
			}, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}

// queueError renders an exchange-queue failure with its kind so agents
// can react to the taxonomy (already_claimed vs lost_race etc.), and
// records it in the queue metrics.
func queueError(ctx context.Context, sc *server.ServerContext, operation string, err error) *mcp.CallToolResult {
	kind := xq.KindOf(err)

	instance := ""
	var qerr *xq.Error
	if errors.As(err, &qerr) {
		instance = qerr.Instance
	}

	if m := sc.Metrics(); m != nil {
		m.RecordQueueOperation(ctx, instance, operation, instrumentation.StatusError, string(kind))
	}

	if kind == "" {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("[%s] %v", kind, err))
}

// recordQueue records a successful queue operation and, when a status
// is given, the pending gauge.
func recordQueue(ctx context.Context, sc *server.ServerContext, instance, operation string, kind string, status *xq.Status) {
	m := sc.Metrics()
	if m == nil {
		return
	}
	m.RecordQueueOperation(ctx, instance, operation, instrumentation.StatusSuccess, kind)
	if status != nil {
		m.RecordQueuePending(ctx, instance, len(status.Pending))
	}
}
