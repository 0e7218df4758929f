// Package clierr defines structured errors shared by the CLI, the TUI and
// the JSON API.
package clierr

import (
	"fmt"
)

// Error codes for structured error output.
const (
	// Validation errors.
	InvalidInput    = "INVALID_INPUT"
	InvalidTitle    = "INVALID_TITLE"
	InvalidDate     = "INVALID_DATE"
	InvalidStatus   = "INVALID_STATUS"
	InvalidPriority = "INVALID_PRIORITY"
	InvalidField    = "INVALID_FIELD"
	InvalidTaskID   = "INVALID_TASK_ID"
	InvalidConfig   = "INVALID_CONFIG"
	ConfirmationReq = "CONFIRMATION_REQUIRED"

	// Not-found errors.
	BoardNotFound   = "BOARD_NOT_FOUND"
	ColumnNotFound  = "COLUMN_NOT_FOUND"
	TaskNotFound    = "TASK_NOT_FOUND"
	PackageNotFound = "PACKAGE_NOT_FOUND"
	SubtaskNotFound = "SUBTASK_NOT_FOUND"
	NothingToPick   = "NOTHING_TO_PICK"

	// Constraint violations.
	PackageNotEmpty     = "PACKAGE_NOT_EMPTY"
	DuplicatePackage    = "DUPLICATE_PACKAGE"
	DuplicateColumn     = "DUPLICATE_COLUMN"
	TaskHasOpenSubtasks = "TASK_HAS_OPEN_SUBTASKS"
	BoardExists         = "BOARD_EXISTS"
	StatusConflict      = "STATUS_CONFLICT"
	WIPLimitExceeded    = "WIP_LIMIT_EXCEEDED"

	InternalError = "INTERNAL_ERROR"
)

// Kind groups error codes into the categories callers branch on.
type Kind int

const (
	// KindInternal is anything not caused by the caller's input.
	KindInternal Kind = iota
	// KindValidation is an empty or malformed required value.
	KindValidation
	// KindNotFound is a reference to a column, task or package that does not exist.
	KindNotFound
	// KindConstraint is a well-formed request the current state refuses.
	KindConstraint
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConstraint:
		return "ConstraintViolation"
	default:
		return "InternalError"
	}
}

var kindByCode = map[string]Kind{
	InvalidInput:        KindValidation,
	InvalidTitle:        KindValidation,
	InvalidDate:         KindValidation,
	InvalidStatus:       KindValidation,
	InvalidPriority:     KindValidation,
	InvalidField:        KindValidation,
	InvalidTaskID:       KindValidation,
	InvalidConfig:       KindValidation,
	ConfirmationReq:     KindValidation,
	BoardNotFound:       KindNotFound,
	ColumnNotFound:      KindNotFound,
	TaskNotFound:        KindNotFound,
	PackageNotFound:     KindNotFound,
	SubtaskNotFound:     KindNotFound,
	NothingToPick:       KindNotFound,
	PackageNotEmpty:     KindConstraint,
	DuplicatePackage:    KindConstraint,
	DuplicateColumn:     KindConstraint,
	TaskHasOpenSubtasks: KindConstraint,
	BoardExists:         KindConstraint,
	StatusConflict:      KindConstraint,
	WIPLimitExceeded:    KindConstraint,
}

// kindError is the sentinel type matched by errors.Is against an *Error.
type kindError struct{ kind Kind }

func (e *kindError) Error() string { return e.kind.String() }

// Sentinels for errors.Is classification.
var (
	ErrValidation error = &kindError{KindValidation}
	ErrNotFound   error = &kindError{KindNotFound}
	ErrConstraint error = &kindError{KindConstraint}
)

// Error is a structured error carrying a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Kind returns the category of the error code.
func (e *Error) Kind() Kind {
	return kindByCode[e.Code]
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(*kindError)
	return ok && k.kind == e.Kind()
}

// ExitCode returns 2 for internal errors and 1 for everything else.
func (e *Error) ExitCode() int {
	if e.Kind() == KindInternal {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// New creates an Error with the given code and message.
func New(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches details and returns the same error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// SilentError signals a non-zero exit without printing anything; the
// command already reported its own output.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
