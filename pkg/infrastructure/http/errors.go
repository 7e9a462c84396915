// Package httputil turns upstream error responses into typed errors.
package httputil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxErrorBodySize is the maximum size of error body to include in error messages
const MaxErrorBodySize = 500

// HTTPError represents an HTTP error with status code and response body
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s (status %d): %s", e.Status, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s (status %d)", e.Status, e.URL, e.StatusCode)
}

// truncate truncates a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// ParseErrorResponse checks if the response is an error (4xx/5xx) and returns
// a rich HTTPError containing the response body. Returns nil for success responses.
// The response body is re-wrapped so the caller can still read it.
func ParseErrorResponse(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	// Re-wrap body so caller can still read it if needed
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
	}
	if err == nil && len(bodyBytes) > 0 {
		httpErr.Body = truncate(string(bodyBytes), MaxErrorBodySize)
	}
	if resp.Request != nil && resp.Request.URL != nil {
		// query strings may carry credentials
		u := *resp.Request.URL
		u.RawQuery = ""
		httpErr.URL = u.String()
	}
	return httpErr
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from an error response.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
