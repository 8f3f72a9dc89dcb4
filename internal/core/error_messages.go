package core

// error_messages.go maps technical failures from the collaborators to text
// a user can act on. Codes are listed in the package documentation.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is user-facing error text with a support code.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Connectivity (NET001-NET003)
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the processing service",
			Action:  "Check that the API is running and try again",
			Code:    "NET001",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "The processing service address could not be resolved",
			Action:  "Check API_BASE_URL",
			Code:    "NET002",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try again, or use a smaller file",
			Code:    "NET003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try again, or use a smaller file",
			Code:    "NET003",
		},
	},

	// Credentials (AUTH001-AUTH002)
	{
		pattern: "status 401",
		msg: UserMessage{
			Message: "Your session is not authorized",
			Action:  "Sign in again and retry",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "status 403",
		msg: UserMessage{
			Message: "You are not allowed to perform this action",
			Action:  "Contact an administrator",
			Code:    "AUTH002",
		},
	},

	// Upload rejected (FILE001-FILE003)
	{
		pattern: "status 413",
		msg: UserMessage{
			Message: "The file is too large for the service",
			Action:  "Split the file and upload the parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Use CSV, Excel, JSON or XML",
			Code:    "FILE002",
		},
	},
	{
		pattern: "status 404",
		msg: UserMessage{
			Message: "The file was not found on the service",
			Action:  "Upload the file again",
			Code:    "FILE003",
		},
	},

	// Options (OPT001)
	{
		pattern: "invalid option",
		msg: UserMessage{
			Message: "One of the processing options is not valid",
			Action:  "Pick values from the lists offered",
			Code:    "OPT001",
		},
	},

	// Throttling (RATE001)
	{
		pattern: "status 429",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is the ERR000 fallback.
var defaultMessage = UserMessage{
	Message: "Processing failed",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error to a user message. Nil maps to the
// zero UserMessage; unknown errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// reasoner is implemented by collaborator errors that carry the remote
// service's own explanation.
type reasoner interface {
	Reason() string
}

// UserText is the message shown inline for a failed collaborator call: the
// collaborator's reported reason when it gave one, otherwise the mapped text.
func UserText(err error) string {
	if err == nil {
		return ""
	}
	var r reasoner
	if errors.As(err, &r) {
		if reason := strings.TrimSpace(r.Reason()); reason != "" {
			return reason
		}
	}
	return FormatUserError(err)
}
