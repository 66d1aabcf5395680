package sim

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// retryAfterParameter is the auxiliary parameter key carrying a retry delay.
const retryAfterParameter = "retry_after"

// APIError is a platform-style outbound failure marker. An override (or
// handler) returning an APIError makes the intercepted call resolve as a
// failed outcome carrying the code, description, and auxiliary parameters.
// Outside the interceptor it is an inert data value.
type APIError struct {
	// Code is the numeric platform error code.
	Code int
	// Description is the human-readable failure summary.
	Description string
	// Parameters carries optional auxiliary values such as retry delays.
	Parameters map[string]any
}

// NewAPIError builds a platform-style error marker.
func NewAPIError(code int, description string) *APIError {
	return &APIError{Code: code, Description: description}
}

// WithParameter attaches one auxiliary parameter and returns the error for chaining.
func (e *APIError) WithParameter(key string, value any) *APIError {
	if e.Parameters == nil {
		e.Parameters = make(map[string]any)
	}
	e.Parameters[key] = value

	return e
}

// WithRetryAfter attaches a suggested retry delay, stored in whole seconds.
func (e *APIError) WithRetryAfter(delay time.Duration) *APIError {
	return e.WithParameter(retryAfterParameter, int(delay/time.Second))
}

// Error returns one operator-readable failure summary.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}

	fields := make([]string, 0, 3)
	if e.Code != 0 {
		fields = append(fields, fmt.Sprintf("code=%d", e.Code))
	}
	if description := strings.TrimSpace(e.Description); description != "" {
		fields = append(fields, "description="+description)
	}
	if delay, ok := e.RetryAfter(); ok {
		fields = append(fields, "retry_after="+delay.String())
	}

	if len(fields) == 0 {
		return "api error"
	}

	return "api error: " + strings.Join(fields, " ")
}

// RetryAfter extracts the suggested retry delay from auxiliary parameters.
//
// It returns `(0, false)` when no retry hint is present.
func (e *APIError) RetryAfter() (time.Duration, bool) {
	if e == nil || e.Parameters == nil {
		return 0, false
	}

	switch value := e.Parameters[retryAfterParameter].(type) {
	case time.Duration:
		return value, true
	case int:
		return time.Duration(value) * time.Second, true
	case int64:
		return time.Duration(value) * time.Second, true
	case float64:
		return time.Duration(value * float64(time.Second)), true
	default:
		return 0, false
	}
}

// AsAPIError extracts an APIError from wrapped error chains.
func AsAPIError(err error) (*APIError, bool) {
	if err == nil {
		return nil, false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}
