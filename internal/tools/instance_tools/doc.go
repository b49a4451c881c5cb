// Package instance_tools provides MCP tools for managing Vikunja instances.
//
// This package implements MCP (Model Context Protocol) tools for the
// multi-instance configuration: connecting new instances, switching the
// current one, and managing the default instance/project context used
// by other tools.
//
// # Available Tools
//
//   - list_instances: List all configured instances with URLs and current selection
//   - switch_instance: Switch the current instance
//   - connect_instance: Add a new instance after validating its API token
//   - get_context: Get the current instance and its URL
//   - set_active_context: Set default instance and/or project for queries
//   - get_active_context: Get the configured defaults
//
// These tools only touch local configuration (plus a token validation
// request for connect_instance), so they are registered in read-only
// mode as well.
package instance_tools
