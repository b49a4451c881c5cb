// Package kanban_tools provides MCP tools for Vikunja kanban views and
// buckets.
//
// # Available Tools
//
//   - list_views: List all views for a project
//   - get_kanban_view: Find the kanban view of a project
//   - list_buckets: List buckets in a kanban view with task counts
//   - create_bucket: Create a bucket (write mode only)
//   - set_task_position: Move a task into a bucket (write mode only)
package kanban_tools
