package vikunja

import (
	"context"
	"fmt"
	"net/http"
)

// ListLabels returns all labels visible to the token.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	if err := c.do(ctx, "list_labels", http.MethodGet, "/labels", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateLabel creates a label. hexColor is optional and given without the
// leading '#'.
func (c *Client) CreateLabel(ctx context.Context, title, hexColor string) (*Label, error) {
	body := map[string]interface{}{"title": title}
	if hexColor != "" {
		body["hex_color"] = hexColor
	}
	var label Label
	if err := c.do(ctx, "create_label", http.MethodPut, "/labels", body, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// DeleteLabel removes a label entirely.
func (c *Client) DeleteLabel(ctx context.Context, labelID int64) error {
	path := fmt.Sprintf("/labels/%d", labelID)
	return c.do(ctx, "delete_label", http.MethodDelete, path, nil, nil)
}

// AddLabelToTask attaches a label to a task.
func (c *Client) AddLabelToTask(ctx context.Context, taskID, labelID int64) error {
	body := map[string]interface{}{"label_id": labelID}
	path := fmt.Sprintf("/tasks/%d/labels", taskID)
	return c.do(ctx, "add_label", http.MethodPut, path, body, nil)
}

// RemoveLabelFromTask detaches a label from a task.
func (c *Client) RemoveLabelFromTask(ctx context.Context, taskID, labelID int64) error {
	path := fmt.Sprintf("/tasks/%d/labels/%d", taskID, labelID)
	return c.do(ctx, "remove_label", http.MethodDelete, path, nil, nil)
}
