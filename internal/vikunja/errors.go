package vikunja

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the Vikunja API.
type APIError struct {
	// Op is the client operation that failed, e.g. "get_task".
	Op string

	// StatusCode is the HTTP status returned by the API.
	StatusCode int

	// Message is the error message from the API response body, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vikunja %s: %s (HTTP %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("vikunja %s: HTTP %d", e.Op, e.StatusCode)
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsForbidden reports whether err is an API error with status 401 or 403.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized
}
