// Package vikunja is a minimal client for the Vikunja REST API (v1),
// covering the surface the MCP tools need: projects, tasks, labels,
// relations, and kanban views with their buckets.
//
// The client speaks bearer-token auth and reports failures as *APIError
// values so callers can branch on HTTP status without parsing messages.
package vikunja
