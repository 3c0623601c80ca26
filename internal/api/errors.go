package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the server, other than the 401/404
// cases that map to domain sentinels. Message carries the server-provided
// text when the body was parseable, so validation failures (4xx) can be shown
// to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// newAPIError extracts the server's message from an error response body.
// The API uses either {"message": "..."} or {"error": "..."}; anything else
// is kept as a short raw snippet for diagnostics.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Message != "":
			apiErr.Message = envelope.Message
			return apiErr
		case envelope.Error != "":
			apiErr.Message = envelope.Error
			return apiErr
		}
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
