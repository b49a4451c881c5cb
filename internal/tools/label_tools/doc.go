// Package label_tools provides MCP tools for managing Vikunja labels.
//
// # Available Tools
//
//   - list_labels: List all labels
//   - create_label: Create a label (write mode only)
//   - delete_label: Delete a label (write mode only)
//   - add_label_to_task: Attach a label to a task (write mode only)
//   - remove_label_from_task: Detach a label from a task (write mode only)
package label_tools
