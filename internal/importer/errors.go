package importer

// errors.go maps technical errors to user-friendly messages with support
// codes. The web layer logs the technical error and returns the mapped
// message, so end users see actionable guidance and support staff get a
// stable code to search for.
//
// Codes by category:
//
//	DB001-DB099   database errors (connectivity, constraints)
//	FILE001-FILE099  upload/file errors (unreadable workbook, size)
//	IMP001-IMP099 import pipeline errors (headers, limiter)
//	ERR000        unrecognized errors (check server logs)

import (
	"errors"
	"strings"

	"github.com/brightbay/salestrack/internal/store"
)

// UserMessage provides user-friendly error information with actionable
// guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive, substring
// match) to user messages. The first matching pattern wins, so specific
// patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "The sheet is missing a required column",
			Action:  "Download the import template and keep the Development Name and Unit Number columns",
			Code:    "IMP001",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "Too many imports are running right now",
			Action:  "Wait a moment and try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The file could not be read as an Excel workbook",
			Action:  "Save the file as .xlsx and upload it again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no worksheets",
		msg: UserMessage{
			Message: "The workbook contains no worksheets",
			Action:  "Add your data to the first worksheet and re-upload",
			Code:    "FILE002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The uploaded file is too large",
			Action:  "Split the sheet into smaller files",
			Code:    "FILE003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB002",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Check the sheet for duplicate unit numbers",
			Code:    "DB003",
		},
	},
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Message: "Unknown error", Code: "ERR000"}
	}

	if errors.Is(err, store.ErrNotFound) {
		return UserMessage{
			Message: "The requested record was not found",
			Action:  "Check the development and unit number",
			Code:    "IMP003",
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Try again; if the problem persists, quote code ERR000 to support",
		Code:    "ERR000",
	}
}
