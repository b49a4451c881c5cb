// Package common provides shared utilities for MCP tool implementations.
// It contains helpers for reading tool arguments and the instrumented
// handler wrappers used by all tool packages to record metrics and
// audit logs consistently.
package common
