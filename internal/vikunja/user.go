package vikunja

import (
	"context"
	"net/http"
)

// CurrentUser returns the user the token belongs to. Used for connection
// checks.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "current_user", http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
