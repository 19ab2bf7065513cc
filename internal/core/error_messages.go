package core

// error_messages.go maps technical pipeline errors to user-facing messages.
//
// Codes, grouped by category:
//
//	SRC001 - Partner file could not be opened or read (ErrSourceUnavailable)
//	SRC002 - Partner file exceeds the size limit
//	SRC003 - Partner file could not be parsed into rows (ErrMalformedSource)
//	SCH001 - A unified row is missing a canonical column (ErrSchemaMismatch)
//	CFG001 - Partner configuration is invalid
//	CFG002 - Partner configuration file could not be read
//	RUN001 - Run cancelled
//	RUN002 - Run timed out
//	ERR000 - Anything else; check the logs for the technical error
//
// Typed kinds are checked first with errors.Is; remaining errors are
// matched case-insensitively against ordered substring patterns, the first
// match winning.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorKind struct {
	target error
	msg    UserMessage
}

// errorKinds is checked before errorPatterns. Specific before general.
var errorKinds = []errorKind{
	{
		target: errFileTooLarge,
		msg: UserMessage{
			Message: "Partner file exceeds the maximum size",
			Action:  "Raise INGEST_MAX_FILE_SIZE or split the file",
			Code:    "SRC002",
		},
	},
	{
		target: ErrSourceUnavailable,
		msg: UserMessage{
			Message: "A partner file could not be opened",
			Action:  "Check file_path in the partner configuration",
			Code:    "SRC001",
		},
	},
	{
		target: ErrMalformedSource,
		msg: UserMessage{
			Message: "A partner file could not be parsed",
			Action:  "Check the delimiter and that rows do not have more fields than the header",
			Code:    "SRC003",
		},
	},
	{
		target: ErrSchemaMismatch,
		msg: UserMessage{
			Message: "A record is missing a required column",
			Action:  "Regenerate the unified output; this indicates an internal error",
			Code:    "SCH001",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Run was cancelled",
			Action:  "Start the run again",
			Code:    "RUN001",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Run timed out",
			Action:  "Try again or raise the request timeout",
			Code:    "RUN002",
		},
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "partner config: read",
		msg: UserMessage{
			Message: "Partner configuration file could not be read",
			Action:  "Check the --config path",
			Code:    "CFG002",
		},
	},
	{
		pattern: "partner config",
		msg: UserMessage{
			Message: "Partner configuration is invalid",
			Action:  "Run the validate command to list the problems",
			Code:    "CFG001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, ek := range errorKinds {
		if errors.Is(err, ek.target) {
			return ek.msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(lower, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action", naming the
// failing partner when known.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	if partner := PartnerOf(err); partner != "" {
		return fmt.Sprintf("%s: partner %q (Code: %s). %s", msg.Message, partner, msg.Code, msg.Action)
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
