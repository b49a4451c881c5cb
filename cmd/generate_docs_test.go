package cmd

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{name: "list_instances", expected: "Instance Tools"},
		{name: "connect_instance", expected: "Instance Tools"},
		{name: "get_active_context", expected: "Instance Tools"},
		{name: "list_projects", expected: "Project Tools"},
		{name: "delete_project", expected: "Project Tools"},
		{name: "list_tasks", expected: "Task Tools"},
		{name: "create_task_relation", expected: "Task Tools"},
		{name: "list_labels", expected: "Label Tools"},
		{name: "add_label_to_task", expected: "Label Tools"},
		{name: "list_buckets", expected: "Kanban Tools"},
		{name: "get_kanban_view", expected: "Kanban Tools"},
		{name: "set_task_position", expected: "Kanban Tools"},
		{name: "overdue_tasks", expected: "Query Tools"},
		{name: "focus_now", expected: "Query Tools"},
		{name: "task_summary", expected: "Query Tools"},
		{name: "check_xq", expected: "Exchange Queue Tools"},
		{name: "claim_xq_task", expected: "Exchange Queue Tools"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getCategoryFromToolName(tt.name)
			if got != tt.expected {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	tools := []mcp.Tool{
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List tasks in a project"),
			mcp.WithNumber("project_id",
				mcp.Required(),
				mcp.Description("Project ID"),
			),
			mcp.WithString("instance",
				mcp.Description("Instance name"),
			),
		),
		mcp.NewTool("check_xq",
			mcp.WithDescription("Check exchange queue status"),
		),
	}

	markdown := generateToolsMarkdown(tools)

	for _, want := range []string{
		"# MCP Tools Reference",
		"## Table of Contents",
		"## Task Tools",
		"## Exchange Queue Tools",
		"### list_tasks",
		"### check_xq",
		"`project_id` (required)",
		"`instance` (optional)",
	} {
		if !strings.Contains(markdown, want) {
			t.Errorf("generateToolsMarkdown() missing %q", want)
		}
	}
}

func TestGenerateToolMarkdownNoArgs(t *testing.T) {
	tool := mcp.NewTool("task_summary",
		mcp.WithDescription("Summarize tasks across instances"),
	)

	markdown := generateToolMarkdown(tool)

	if !strings.Contains(markdown, "### task_summary") {
		t.Error("missing tool heading")
	}
	if strings.Contains(markdown, "**Arguments:**") {
		t.Error("arguments section rendered for tool with no arguments")
	}
}
