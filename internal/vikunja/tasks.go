package vikunja

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListTasksOptions filters task listings.
type ListTasksOptions struct {
	// IncludeDone includes completed tasks in the listing.
	IncludeDone bool

	// Filter is a Vikunja filter expression passed through verbatim.
	Filter string

	// Page selects a result page; zero means the first page.
	Page int
}

// ListTasks returns the tasks of a project. By default completed tasks
// are filtered out.
func (c *Client) ListTasks(ctx context.Context, projectID int64, opts ListTasksOptions) ([]Task, error) {
	q := url.Values{}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	} else if !opts.IncludeDone {
		q.Set("filter", "done = false")
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}

	path := fmt.Sprintf("/projects/%d/tasks", projectID)
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var tasks []Task
	if err := c.do(ctx, "list_tasks", http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAllTasks returns tasks across all projects visible to the token.
func (c *Client) ListAllTasks(ctx context.Context, filter string) ([]Task, error) {
	path := "/tasks/all"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var tasks []Task
	if err := c.do(ctx, "list_all_tasks", http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task by ID.
func (c *Client) GetTask(ctx context.Context, taskID int64) (*Task, error) {
	var task Task
	path := fmt.Sprintf("/tasks/%d", taskID)
	if err := c.do(ctx, "get_task", http.MethodGet, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task in a project.
func (c *Client) CreateTask(ctx context.Context, projectID int64, in TaskInput) (*Task, error) {
	var task Task
	path := fmt.Sprintf("/projects/%d/tasks", projectID)
	if err := c.do(ctx, "create_task", http.MethodPut, path, in.payload(), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task. Only fields set on the
// input are sent.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, in TaskInput) (*Task, error) {
	var task Task
	path := fmt.Sprintf("/tasks/%d", taskID)
	if err := c.do(ctx, "update_task", http.MethodPost, path, in.payload(), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteTask marks a task as done.
func (c *Client) CompleteTask(ctx context.Context, taskID int64) (*Task, error) {
	return c.UpdateTask(ctx, taskID, TaskInput{Done: Ptr(true)})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	path := fmt.Sprintf("/tasks/%d", taskID)
	return c.do(ctx, "delete_task", http.MethodDelete, path, nil, nil)
}

// CreateRelation links two tasks with the given relation kind.
func (c *Client) CreateRelation(ctx context.Context, taskID, otherTaskID int64, kind string) error {
	body := map[string]interface{}{
		"task_id":       taskID,
		"other_task_id": otherTaskID,
		"relation_kind": kind,
	}
	path := fmt.Sprintf("/tasks/%d/relations", taskID)
	return c.do(ctx, "create_relation", http.MethodPut, path, body, nil)
}

// DeleteRelation removes a relation between two tasks.
func (c *Client) DeleteRelation(ctx context.Context, taskID, otherTaskID int64, kind string) error {
	path := fmt.Sprintf("/tasks/%d/relations/%s/%d", taskID, kind, otherTaskID)
	return c.do(ctx, "delete_relation", http.MethodDelete, path, nil, nil)
}
