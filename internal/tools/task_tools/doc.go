// Package task_tools provides MCP tools for managing Vikunja tasks.
//
// # Available Tools
//
// Read:
//   - list_tasks: List tasks in a project (completion and label filters)
//   - get_tasks: Get one or more tasks by ID
//   - list_task_relations: List a task's relations
//
// Write (only registered when write operations are enabled):
//   - create_task: Create a task (dates, priority, repeat config)
//   - update_task: Partially update a task
//   - complete_tasks: Mark one or more tasks done
//   - delete_tasks: Delete one or more tasks
//   - create_task_relation: Link two tasks
//
// Batch tools accept either a single task ID or an array and report
// per-item success or failure.
package task_tools
