package query_tools

import (
	"context"
	"sort"
	"time"

	"github.com/ivantohelpyou/vikunja-mcp/internal/logging"
	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/vikunja"
)

// queryTask is a task annotated with its project title and instance
// name for cross-instance query results.
type queryTask struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
	DueDate  string `json:"due_date,omitempty"`
	Overdue  bool   `json:"overdue,omitempty"`
	Project  string `json:"project"`
	Instance string `json:"instance"`

	due time.Time
}

// summaryCounts is the task_summary result.
type summaryCounts struct {
	Total        int `json:"total"`
	Overdue      int `json:"overdue"`
	DueToday     int `json:"due_today"`
	DueThisWeek  int `json:"due_this_week"`
	HighPriority int `json:"high_priority"`
	Urgent       int `json:"urgent"`
	Unscheduled  int `json:"unscheduled"`
}

const (
	highPriorityThreshold = 3
	urgentThreshold       = 4
)

// gatherTasks collects all incomplete tasks across the selected
// instances. An empty instance name means all configured instances.
// Instances or projects that fail to respond are skipped with a warning
// so one broken instance doesn't take down cross-instance queries.
func gatherTasks(ctx context.Context, sc *server.ServerContext, instance string) ([]queryTask, error) {
	names, err := sc.Store().InstanceNames()
	if err != nil {
		return nil, err
	}
	if instance != "" {
		names = []string{instance}
	}

	var all []queryTask
	for _, name := range names {
		client, err := sc.ClientForInstance(name)
		if err != nil {
			sc.Logger().Warn("skipping instance",
				logging.Instance(name),
				logging.Err(err))
			continue
		}

		projects, err := client.ListProjects(ctx)
		if err != nil {
			sc.Logger().Warn("failed to list projects",
				logging.Instance(name),
				logging.Err(err))
			continue
		}

		for _, p := range projects {
			tasks, err := client.ListTasks(ctx, p.ID, vikunja.ListTasksOptions{})
			if err != nil {
				sc.Logger().Warn("failed to list tasks",
					logging.Instance(name),
					logging.Project(p.ID),
					logging.Err(err))
				continue
			}
			for _, t := range tasks {
				if t.Done {
					continue
				}
				qt := queryTask{
					ID:       t.ID,
					Title:    t.Title,
					Priority: t.Priority,
					Project:  p.Title,
					Instance: name,
					due:      t.DueDate,
				}
				if !t.DueDate.IsZero() {
					qt.DueDate = t.DueDate.UTC().Format(time.RFC3339)
				}
				all = append(all, qt)
			}
		}
	}
	return all, nil
}

func filterOverdue(tasks []queryTask, now time.Time) []queryTask {
	var out []queryTask
	for _, t := range tasks {
		if !t.due.IsZero() && t.due.Before(now) {
			out = append(out, t)
		}
	}
	sortByDue(out)
	return out
}

func filterDueBy(tasks []queryTask, now, deadline time.Time) []queryTask {
	var out []queryTask
	for _, t := range tasks {
		if t.due.IsZero() || t.due.After(deadline) {
			continue
		}
		t.Overdue = t.due.Before(now)
		out = append(out, t)
	}
	return out
}

func filterDueToday(tasks []queryTask, now time.Time) []queryTask {
	todayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	out := filterDueBy(tasks, now, todayEnd)
	sortByPriorityThenDue(out)
	return out
}

func filterDueThisWeek(tasks []queryTask, now time.Time) []queryTask {
	out := filterDueBy(tasks, now, now.AddDate(0, 0, 7))
	sortByDue(out)
	return out
}

func filterByPriority(tasks []queryTask, threshold int) []queryTask {
	var out []queryTask
	for _, t := range tasks {
		if t.Priority >= threshold {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// filterFocus selects tasks needing attention now: urgent priority or
// past due.
func filterFocus(tasks []queryTask, now time.Time) []queryTask {
	var out []queryTask
	for _, t := range tasks {
		overdue := !t.due.IsZero() && t.due.Before(now)
		if !overdue && t.Priority < urgentThreshold {
			continue
		}
		t.Overdue = overdue
		out = append(out, t)
	}
	sortByPriorityThenDue(out)
	return out
}

func filterUnscheduled(tasks []queryTask) []queryTask {
	var out []queryTask
	for _, t := range tasks {
		if t.due.IsZero() {
			out = append(out, t)
		}
	}
	return out
}

func filterUpcoming(tasks []queryTask, now time.Time, days int) []queryTask {
	deadline := now.AddDate(0, 0, days)
	var out []queryTask
	for _, t := range tasks {
		if t.due.IsZero() || t.due.Before(now) || t.due.After(deadline) {
			continue
		}
		out = append(out, t)
	}
	sortByDue(out)
	return out
}

func summarize(tasks []queryTask, now time.Time) summaryCounts {
	todayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	weekEnd := now.AddDate(0, 0, 7)

	counts := summaryCounts{Total: len(tasks)}
	for _, t := range tasks {
		if t.due.IsZero() {
			counts.Unscheduled++
		} else {
			if t.due.Before(now) {
				counts.Overdue++
			}
			if !t.due.After(todayEnd) {
				counts.DueToday++
			}
			if !t.due.After(weekEnd) {
				counts.DueThisWeek++
			}
		}
		if t.Priority >= highPriorityThreshold {
			counts.HighPriority++
		}
		if t.Priority >= urgentThreshold {
			counts.Urgent++
		}
	}
	return counts
}

func sortByDue(tasks []queryTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].due.Before(tasks[j].due)
	})
}

// sortByPriorityThenDue orders by priority descending, then earliest
// due date; tasks without a due date sort last within a priority.
func sortByPriorityThenDue(tasks []queryTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority > tasks[j].Priority
		}
		if tasks[i].due.IsZero() != tasks[j].due.IsZero() {
			return !tasks[i].due.IsZero()
		}
		return tasks[i].due.Before(tasks[j].due)
	})
}
