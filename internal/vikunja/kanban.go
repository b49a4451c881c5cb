package vikunja

import (
	"context"
	"fmt"
	"net/http"
)

// ListViews returns all views of a project.
func (c *Client) ListViews(ctx context.Context, projectID int64) ([]View, error) {
	var views []View
	path := fmt.Sprintf("/projects/%d/views", projectID)
	if err := c.do(ctx, "list_views", http.MethodGet, path, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// KanbanView returns the project's kanban view, or an error when the
// project has none.
func (c *Client) KanbanView(ctx context.Context, projectID int64) (*View, error) {
	views, err := c.ListViews(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if views[i].ViewKind == ViewKindKanban {
			return &views[i], nil
		}
	}
	return nil, &APIError{
		Op:         "kanban_view",
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("project %d has no kanban view", projectID),
	}
}

// ListBuckets returns the buckets of a project view, with their tasks
// when the view is a kanban view.
func (c *Client) ListBuckets(ctx context.Context, projectID, viewID int64) ([]Bucket, error) {
	var buckets []Bucket
	path := fmt.Sprintf("/projects/%d/views/%d/buckets", projectID, viewID)
	if err := c.do(ctx, "list_buckets", http.MethodGet, path, nil, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// BucketInput carries fields for bucket creation. Limit zero means no
// WIP limit.
type BucketInput struct {
	Title    string
	Limit    int
	Position float64
}

// CreateBucket adds a bucket to a project view.
func (c *Client) CreateBucket(ctx context.Context, projectID, viewID int64, in BucketInput) (*Bucket, error) {
	body := map[string]interface{}{
		"title":           in.Title,
		"project_view_id": viewID,
	}
	if in.Limit > 0 {
		body["limit"] = in.Limit
	}
	if in.Position > 0 {
		body["position"] = in.Position
	}
	var bucket Bucket
	path := fmt.Sprintf("/projects/%d/views/%d/buckets", projectID, viewID)
	if err := c.do(ctx, "create_bucket", http.MethodPut, path, body, &bucket); err != nil {
		return nil, err
	}
	return &bucket, nil
}

// MoveTaskToBucket moves a task into a bucket of a kanban view.
func (c *Client) MoveTaskToBucket(ctx context.Context, projectID, viewID, bucketID, taskID int64) error {
	body := map[string]interface{}{
		"task_id":         taskID,
		"bucket_id":       bucketID,
		"project_view_id": viewID,
		"project_id":      projectID,
	}
	path := fmt.Sprintf("/projects/%d/views/%d/buckets/%d/tasks", projectID, viewID, bucketID)
	return c.do(ctx, "move_task", http.MethodPost, path, body, nil)
}
