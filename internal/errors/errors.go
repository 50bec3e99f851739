package errors

import (
	"errors"
	"fmt"
)

// Authentication errors indicate a missing or wrong key.
var (
	// ErrNotAuthenticated indicates no key has been derived for this session.
	ErrNotAuthenticated = errors.New("not authenticated: derive a key first")

	// ErrAuthenticationFailed indicates the container did not authenticate under the key.
	ErrAuthenticationFailed = errors.New("authentication failed: wrong key or tampered container")

	// ErrKeyDerivation indicates the key could not be derived from the credentials.
	ErrKeyDerivation = errors.New("failed to derive key")

	// ErrInvalidKeyLength indicates a key of an unexpected size.
	ErrInvalidKeyLength = errors.New("invalid key length")
)

// Container errors indicate input that is not a well-formed envelope.
var (
	// ErrMalformedContainer indicates the data is too short or structurally invalid.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrInvalidText indicates decrypted note content is not valid UTF-8.
	ErrInvalidText = errors.New("decrypted content is not valid text")
)

// Filesystem errors indicate issues with reading or writing paths.
var (
	// ErrFilesystem matches every PathError.
	ErrFilesystem = errors.New("filesystem error")

	// ErrInvalidPath indicates a path that cannot be handled, such as one that is neither file nor directory.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotDirectory indicates a directory was required.
	ErrNotDirectory = errors.New("not a directory")
)

// Workspace errors indicate issues with opened items.
var (
	// ErrNotFound indicates the item id is not registered.
	ErrNotFound = errors.New("item not found")

	// ErrNotNote indicates the item is not an encrypted note.
	ErrNotNote = errors.New("item is not a note")

	// ErrAlreadyExists indicates the target path is already taken.
	ErrAlreadyExists = errors.New("path already exists")
)

// Configuration errors.
var (
	// ErrInvalidSettings indicates the settings file is malformed.
	ErrInvalidSettings = errors.New("settings are invalid")

	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrNoAuditLog indicates the audit log does not exist yet.
	ErrNoAuditLog = errors.New("no audit log found")
)

// PathError records a filesystem failure together with the path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// NewPathError wraps err with the operation and path that produced it.
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Is reports PathError as a filesystem error.
func (e *PathError) Is(target error) bool {
	return target == ErrFilesystem
}

// Is is errors.Is, re-exported so callers importing this package under the
// name errors keep access to it.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported for the same reason as Is.
func As(err error, target any) bool {
	return errors.As(err, target)
}
