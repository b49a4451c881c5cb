// Package query_tools provides fast cross-instance task queries.
//
// All tools gather incomplete tasks from every configured instance (or
// one, via the 'instance' parameter) and filter them locally, so a
// single broken instance degrades rather than fails the query.
//
// # Available Tools
//
//   - overdue_tasks: Tasks past their due date
//   - due_today: Tasks due today plus overdue ones
//   - due_this_week: Tasks due in the next 7 days
//   - high_priority_tasks: Priority >= 3
//   - urgent_tasks: Priority >= 4
//   - focus_now: Urgent or overdue tasks, limited list
//   - task_summary: Counts only
//   - unscheduled_tasks: Tasks without a due date
//   - upcoming_deadlines: Tasks due in the next N days
//
// Vikunja reports unset due dates with a year-one sentinel; such tasks
// are treated as unscheduled.
package query_tools
