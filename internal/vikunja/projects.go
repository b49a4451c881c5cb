package vikunja

import (
	"context"
	"fmt"
	"net/http"
)

// ListProjects returns all projects visible to the token.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, "list_projects", http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(ctx context.Context, projectID int64) (*Project, error) {
	var project Project
	path := fmt.Sprintf("/projects/%d", projectID)
	if err := c.do(ctx, "get_project", http.MethodGet, path, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectInput carries fields for project creation.
type ProjectInput struct {
	Title       string
	Description string
	HexColor    string
	ParentID    int64
}

// CreateProject creates a project. A zero ParentID creates a top-level
// project.
func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	body := map[string]interface{}{"title": in.Title}
	if in.Description != "" {
		body["description"] = in.Description
	}
	if in.HexColor != "" {
		body["hex_color"] = in.HexColor
	}
	if in.ParentID != 0 {
		body["parent_project_id"] = in.ParentID
	}
	var project Project
	if err := c.do(ctx, "create_project", http.MethodPut, "/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies the given field changes to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID int64, fields map[string]interface{}) (*Project, error) {
	var project Project
	path := fmt.Sprintf("/projects/%d", projectID)
	if err := c.do(ctx, "update_project", http.MethodPost, path, fields, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject deletes a project and all its tasks.
func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	path := fmt.Sprintf("/projects/%d", projectID)
	return c.do(ctx, "delete_project", http.MethodDelete, path, nil, nil)
}
