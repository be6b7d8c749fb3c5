package errors

import (
	"errors"
	"fmt"
)

var (
	ErrFolderNotFound   = errors.New("folder not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrRegistryEmpty    = errors.New("course registry is empty")
	ErrTemplateNotFound = errors.New("attendance form template not found")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// PreconditionError aborts an entire pass before any mutation is performed.
type PreconditionError struct {
	Subject string
	Reason  string
}

func (e PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s: %s", e.Subject, e.Reason)
}

// ConsistencyError reports a file whose stored name no longer matches the
// name captured when the submission was listed. The operation is skipped,
// never applied against the stale snapshot.
type ConsistencyError struct {
	FileID string
	Want   string
	Got    string
}

func (e ConsistencyError) Error() string {
	return fmt.Sprintf("file %s changed since listing: want '%s', got '%s'",
		e.FileID, e.Want, e.Got)
}

// RemoteError is a rejected platform call. Calls are fire-once: the error
// propagates to the caller, which decides whether to continue with the next
// unit of work.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: remote call failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: remote call failed with status %d: %s", e.Op, e.StatusCode, e.Message)
}
