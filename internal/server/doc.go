// Package server holds the MCP server runtime: the shared server context
// with its per-instance Vikunja client cache and exchange queue, the HTTP
// transport for streamable MCP, health check endpoints for deployment
// probes, and the dedicated Prometheus metrics server.
package server
