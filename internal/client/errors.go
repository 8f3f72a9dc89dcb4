package client

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx answer from the remote API. Message is the service's
// own explanation and is empty when the body carried none.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
}

// Reason is the explanation the remote service gave, if any.
func (e *APIError) Reason() string {
	return e.Message
}

// newAPIError extracts the JSON "error" (or "message") field of the body.
func newAPIError(op string, status int, body []byte) *APIError {
	msg := ""
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error", "message", "error.message"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String {
				msg = strings.TrimSpace(v.String())
				if msg != "" {
					break
				}
			}
		}
	}
	return &APIError{Op: op, Status: status, Message: msg}
}
