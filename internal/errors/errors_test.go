package errors

import (
	"fmt"
	"io/fs"
	"testing"
)

func TestPathError_MatchesFilesystem(t *testing.T) {
	err := NewPathError("read", "/tmp/missing.lockd", fs.ErrNotExist)

	if !Is(err, ErrFilesystem) {
		t.Errorf("Expected PathError to match ErrFilesystem")
	}
	if !Is(err, fs.ErrNotExist) {
		t.Errorf("Expected PathError to unwrap to fs.ErrNotExist")
	}
	if Is(err, ErrNotFound) {
		t.Errorf("PathError should not match ErrNotFound")
	}
}

func TestPathError_MessageIncludesPath(t *testing.T) {
	err := NewPathError("write", "/data/report.txt.lockd", fs.ErrPermission)
	want := "write /data/report.txt.lockd: permission denied"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestPathError_SurvivesWrapping(t *testing.T) {
	inner := NewPathError("read", "/a/b", fs.ErrPermission)
	wrapped := fmt.Errorf("encrypting folder: %w", inner)

	var pathErr *PathError
	if !As(wrapped, &pathErr) {
		t.Fatal("Expected errors.As to find PathError")
	}
	if pathErr.Path != "/a/b" {
		t.Errorf("Expected path /a/b, got %s", pathErr.Path)
	}
	if !Is(wrapped, ErrFilesystem) {
		t.Errorf("Expected wrapped error to match ErrFilesystem")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if Is(ErrMalformedContainer, ErrAuthenticationFailed) {
		t.Error("Malformed container must be distinct from authentication failure")
	}
	if Is(ErrNotAuthenticated, ErrAuthenticationFailed) {
		t.Error("Missing key must be distinct from a wrong key")
	}
}
