// Package project_tools provides MCP tools for managing Vikunja projects.
//
// # Available Tools
//
//   - list_projects: List all projects
//   - get_project: Get details of a specific project
//   - create_project: Create a new project (write mode only)
//   - update_project: Update a project's properties (write mode only)
//   - delete_project: Delete a project and all its tasks (write mode only)
//
// All tools accept an optional 'instance' parameter selecting the
// Vikunja instance; without it the current instance is used.
package project_tools
