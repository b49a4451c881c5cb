// Package xq_tools exposes the exchange queue over MCP.
//
// The exchange queue hands tasks off between agent sessions through a
// designated Vikunja project's kanban board. These tools are thin
// shells over the queue state machine; failures carry a machine-readable
// kind (not_configured, already_claimed, lost_race, ...) in the result
// text so agents can react to races without parsing prose.
//
// # Available Tools
//
//   - check_xq: List pending handoff tasks, one instance or all mapped ones
//   - setup_xq: Create the queue buckets, idempotent (write mode only)
//   - claim_xq_task: Claim a pending task for this session (write mode only)
//   - complete_xq_task: File and finish a claimed task (write mode only)
package xq_tools
