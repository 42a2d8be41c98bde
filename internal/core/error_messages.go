// Package core composes the ingestion pipeline.
//
// # Error Codes Reference
//
// This file defines user-facing error messages with codes for support
// reference. Typed pipeline errors are recognized first with errors.As;
// anything else falls through to case-insensitive pattern matching on the
// error text.
//
// # Transfer Errors (XFER001-XFER099, LOC001)
//
//	XFER001 - Not found: The remote object or URL does not exist
//	          Action: Check the bucket, key or URL
//	          Match: transfer.ErrNotFound
//
//	XFER002 - Credentials: The object store rejected the credentials
//	          Action: Set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY
//	          Patterns: "nocredentialproviders", "accessdenied", "invalidaccesskeyid",
//	                    "signaturedoesnotmatch"
//
//	XFER003 - Transfer failed: Copy to or from remote storage failed
//	          Action: Check the local path is writable and the network is up
//	          Match: *transfer.TransferError
//
//	LOC001  - Bad location: The bucket/key string is malformed
//	          Action: Use s3://bucket/key or bucket/key
//	          Match: *transfer.InvalidLocationError
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Malformed file: Header or row shape is wrong
//	           Action: Check the delimiter and that every row has the header's field count
//	           Match: *tabular.ParseError
//
//	PARSE002 - Unreadable file: The dataset could not be opened or read
//	           Action: Check the file path, or fetch the dataset first
//	           Match: *tabular.ParseError wrapping an I/O error
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid record: A row has neither artist nor album
//	         Action: Fix or remove the reported row and ingest again
//	         Match: *album.ValidationError
//
// # Database Errors (DB001-DB099, SCH001)
//
//	DB001 - Duplicate: A record with this key already exists
//	DB002 - Missing value: A required column was NULL
//	DB003 - No table: The albums table does not exist
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//	DB006 - Timeout: Operation timed out or was cancelled
//	DB007 - Busy: Database is locked or deadlocked
//	SCH001 - Schema mismatch: The albums table has unexpected columns
//	         Match: schema.ErrSchemaMismatch
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the logs for the underlying error
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/albums/internal/album"
	"github.com/JonMunkholm/albums/internal/schema"
	"github.com/JonMunkholm/albums/internal/tabular"
	"github.com/JonMunkholm/albums/internal/transfer"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotFound = UserMessage{
		Message: "The remote object does not exist",
		Action:  "Check the bucket, key or URL",
		Code:    "XFER001",
	}
	msgCredentials = UserMessage{
		Message: "The object store rejected the credentials",
		Action:  "Set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY",
		Code:    "XFER002",
	}
	msgTransfer = UserMessage{
		Message: "Copy to or from remote storage failed",
		Action:  "Check the local path is writable and the network is up",
		Code:    "XFER003",
	}
	msgLocation = UserMessage{
		Message: "The bucket/key string is malformed",
		Action:  "Use s3://bucket/key or bucket/key",
		Code:    "LOC001",
	}
	msgMalformed = UserMessage{
		Message: "The dataset file is malformed",
		Action:  "Check the delimiter and that every row has the header's field count",
		Code:    "PARSE001",
	}
	msgUnreadable = UserMessage{
		Message: "The dataset could not be opened or read",
		Action:  "Check the file path, or fetch the dataset first",
		Code:    "PARSE002",
	}
	msgInvalidRecord = UserMessage{
		Message: "A row has neither artist nor album",
		Action:  "Fix or remove the reported row and ingest again",
		Code:    "VAL001",
	}
	msgTimeout = UserMessage{
		Message: "Operation timed out or was cancelled",
		Action:  "Raise INGEST_TIMEOUT or try again",
		Code:    "DB006",
	}
	msgSchema = UserMessage{
		Message: "The albums table exists with unexpected columns",
		Action:  "Run delete-db then create-db to rebuild it",
		Code:    "SCH001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps driver error text (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
// Messages differ between Postgres, MySQL and SQLite, hence the aliases.
var errorPatterns = []errorPattern{
	// Credentials
	{pattern: "nocredentialproviders", msg: msgCredentials},
	{pattern: "accessdenied", msg: msgCredentials},
	{pattern: "invalidaccesskeyid", msg: msgCredentials},
	{pattern: "signaturedoesnotmatch", msg: msgCredentials},

	// Constraints
	{pattern: "duplicate", msg: UserMessage{
		Message: "A record with this key already exists",
		Action:  "Reseed the table before ingesting again",
		Code:    "DB001",
	}},
	{pattern: "unique constraint", msg: UserMessage{
		Message: "A record with this key already exists",
		Action:  "Reseed the table before ingesting again",
		Code:    "DB001",
	}},
	{pattern: "not null constraint", msg: UserMessage{
		Message: "A required column was empty",
		Action:  "Check artist and album values in the source",
		Code:    "DB002",
	}},
	{pattern: "violates not-null", msg: UserMessage{
		Message: "A required column was empty",
		Action:  "Check artist and album values in the source",
		Code:    "DB002",
	}},

	// Missing table
	{pattern: "no such table", msg: UserMessage{
		Message: "The albums table does not exist",
		Action:  "Run create-db first",
		Code:    "DB003",
	}},
	{pattern: "doesn't exist", msg: UserMessage{
		Message: "The albums table does not exist",
		Action:  "Run create-db first",
		Code:    "DB003",
	}},
	{pattern: "does not exist", msg: UserMessage{
		Message: "The albums table does not exist",
		Action:  "Run create-db first",
		Code:    "DB003",
	}},

	// Connectivity
	{pattern: "connection refused", msg: UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{pattern: "connection reset", msg: UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{pattern: "timeout", msg: msgTimeout},
	{pattern: "deadlock", msg: UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB007",
	}},
	{pattern: "database is locked", msg: UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Make sure no other process holds the database file",
		Code:    "DB007",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the underlying error",
	Code:    "ERR000",
}

// MapError converts a pipeline error to a user-friendly message.
//
// Example:
//
//	_, err := svc.Seed(ctx, opts)
//	msg := MapError(err)
//	// msg.Code == "VAL001" when a row had neither artist nor album
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTyped(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapTyped(err error) (UserMessage, bool) {
	var (
		locErr   *transfer.InvalidLocationError
		xferErr  *transfer.TransferError
		parseErr *tabular.ParseError
		valErr   *album.ValidationError
	)

	switch {
	case errors.Is(err, schema.ErrSchemaMismatch):
		return msgSchema, true
	case errors.As(err, &locErr):
		return msgLocation, true
	case errors.Is(err, transfer.ErrNotFound):
		return msgNotFound, true
	case errors.As(err, &xferErr):
		if isCredentialError(err) {
			return msgCredentials, true
		}
		return msgTransfer, true
	case errors.As(err, &parseErr):
		if parseErr.Err != nil && parseErr.Line == 0 {
			return msgUnreadable, true
		}
		return msgMalformed, true
	case errors.As(err, &valErr):
		return msgInvalidRecord, true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return msgTimeout, true
	}
	return UserMessage{}, false
}

func isCredentialError(err error) bool {
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns[:4] {
		if strings.Contains(errStr, ep.pattern) {
			return true
		}
	}
	return false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
