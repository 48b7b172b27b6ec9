package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/krolx/nicemusic/internal/shared"
)

// Error is the normalized failure shape surfaced by the client.
//
// Every non-2xx response and every transport failure is folded into this one
// type at the adapter boundary, so stores never inspect raw transport errors.
// Message prefers the server-supplied detail, falling back to transport text.
// Status defaults to 500 when no HTTP status is available.
type Error struct {
	Status  int               // HTTP status code, 500 when absent
	Code    string            // Machine-readable server code (e.g. NOT_FOUND), may be empty
	Message string            // Human-readable message for display
	Fields  map[string]string // Optional field-level validation detail
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether e is an authorization failure.
func (e *Error) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized
}

// errorBody matches the API's error envelope. The detail field is either a
// plain string or an object with code/message/fields.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// normalizeResponse converts a non-2xx response body into an [*Error].
func normalizeResponse(status int, body []byte) *Error {
	apiErr := &Error{Status: status, Message: http.StatusText(status)}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d", status)
	}

	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail errorDetail
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil && detail.Message != "" {
		apiErr.Code = detail.Code
		apiErr.Message = detail.Message
		apiErr.Fields = detail.Fields
		return apiErr
	}

	var plain string
	if err := json.Unmarshal(envelope.Detail, &plain); err == nil && plain != "" {
		apiErr.Message = plain
	}

	return apiErr
}

// normalizeTransport converts a transport-level failure into an [*Error].
// Timed-out calls surface as 504 so callers can tell a slow server from a
// broken one.
func normalizeTransport(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Status:  http.StatusGatewayTimeout,
			Message: fmt.Sprintf("%s: %s", shared.ErrTimeout.Error(), err.Error()),
		}
	}
	return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
}
