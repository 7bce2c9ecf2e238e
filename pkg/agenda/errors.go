package agenda

import (
	"fmt"
	"strings"
)

// StorageCorruptError describes a persisted record that could not be loaded.
type StorageCorruptError struct {
	File   string
	Line   int
	ID     string // empty when the line did not parse far enough
	Reason string
	Raw    string
}

func (e *StorageCorruptError) Error() string {
	where := e.File
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.ID != "" {
		return fmt.Sprintf("corrupt record at %s (id %s): %s", where, e.ID, e.Reason)
	}
	return fmt.Sprintf("corrupt record at %s: %s", where, e.Reason)
}

// NotFoundError is returned when no session matches an ID or prefix.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no session matches %q", e.Ref)
}

// AmbiguousIDError is returned when a prefix matches more than one session.
type AmbiguousIDError struct {
	Ref        string
	Candidates []string
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("%q is ambiguous, it matches %d sessions: %s",
		e.Ref, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// ValidationError reports bad user input. No mutation has been applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError reports a failed write. The in-memory state has diverged
// from disk unless Derived is set.
type PersistenceError struct {
	Path string
	// Derived marks a failure after sessions.jsonl was written, in the
	// track view or the archive at Path.
	Derived bool
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Derived {
		return fmt.Sprintf("sessions saved but %s was not updated: %v", e.Path, e.Err)
	}
	if e.Path == "" {
		return fmt.Sprintf("change applied in memory but not saved: %v", e.Err)
	}
	return fmt.Sprintf("change applied in memory but not saved to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
