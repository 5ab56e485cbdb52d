package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tgienger/taskdesk/internal/validate"
)

// TransportError means the request never produced an HTTP response
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestFailed is a non-2xx response or a success:false envelope
type RequestFailed struct {
	Op      string
	Status  int
	Message string
}

func (e *RequestFailed) Error() string {
	return fmt.Sprintf("%s: %d: %s", e.Op, e.Status, e.Message)
}

// MalformedResponse is a 2xx response missing what the caller needs
type MalformedResponse struct {
	Op     string
	Reason string
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
}

// Message turns any error from this package (or a validation error) into
// the single string shown to the user
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		rf  *RequestFailed
		te  *TransportError
		mr  *MalformedResponse
		ves validate.Errors
	)
	switch {
	case errors.As(err, &rf):
		return rf.Message
	case errors.As(err, &te):
		return "Unable to reach the server: " + te.Err.Error()
	case errors.As(err, &mr):
		return "Malformed response: " + mr.Reason
	case errors.As(err, &ves):
		return ves.Error()
	}
	return err.Error()
}

// Status returns the HTTP status carried by err, or 0
func Status(err error) int {
	var rf *RequestFailed
	if errors.As(err, &rf) {
		return rf.Status
	}
	return 0
}

// failureMessage picks the human message out of an error body:
// message field, then error field, then the raw text, then the status.
func failureMessage(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))

	var obj map[string]json.RawMessage
	if json.Unmarshal(body, &obj) == nil && obj != nil {
		for _, key := range []string{"message", "error"} {
			if s := stringField(obj[key]); s != "" {
				return s
			}
		}
		return genericMessage(status)
	}

	var s string
	if json.Unmarshal(body, &s) == nil && s != "" {
		return s
	}
	if trimmed != "" && !json.Valid(body) {
		return trimmed
	}
	return genericMessage(status)
}

// stringField reads a string, or the message of a nested {message} object
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &nested) == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

func genericMessage(status int) string {
	if text := http.StatusText(status); text != "" && (status < 200 || status > 299) {
		return fmt.Sprintf("Request failed with %d (%s)", status, text)
	}
	return fmt.Sprintf("Request failed with %d", status)
}
