package agentapi

import (
	"errors"
	"fmt"
)

// ErrEmptyGoal is returned by Execute when the goal is empty or whitespace.
var ErrEmptyGoal = errors.New("agentapi: goal is empty")

// APIError is a non-2xx response from the agent service.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return fmt.Sprintf("agent api error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("agent api error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
