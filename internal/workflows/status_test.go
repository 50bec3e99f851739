package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
)

func setMtime(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}
}

func TestStatus(t *testing.T) {
	root := t.TempDir()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(time.Hour)

	files := map[string]time.Time{
		"current.txt":              old,
		"current.txt.lockd":        recent,
		"stale.txt":                recent,
		"stale.txt.lockd":          old,
		"plain.txt":                old,
		"docs/only.md.lockd":       old,
		"ideas.lockd":              old,
		".lockd/state":             old,
		".hidden/secret.txt":       old,
		"photos.lockd/a.jpg.lockd": old,
		"build/out.o":              old,
	}
	for name, mtime := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		writeTestFile(t, path, "x")
		setMtime(t, path, mtime)
	}

	result, err := Status(context.Background(), StatusOptions{Root: root, Ignore: []string{"build"}})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	want := map[string]FileStatus{
		"current.txt":                    StatusCurrent,
		"stale.txt":                      StatusStale,
		"plain.txt":                      StatusUnencrypted,
		filepath.Join("docs", "only.md"): StatusEncryptedOnly,
	}
	if len(result.Files) != len(want) {
		t.Fatalf("Expected %d files, got %+v", len(want), result.Files)
	}
	for _, f := range result.Files {
		if want[f.Path] != f.Status {
			t.Errorf("Expected %s to be %s, got %s", f.Path, want[f.Path], f.Status)
		}
	}
	if result.Files[0].Path != "current.txt" {
		t.Errorf("Expected files sorted by path, got %s first", result.Files[0].Path)
	}

	if len(result.Notes) != 1 || result.Notes[0] != "ideas.lockd" {
		t.Errorf("Expected ideas.lockd as the only note, got %v", result.Notes)
	}
	sum := result.Summary
	if sum.Current != 1 || sum.Stale != 1 || sum.Unencrypted != 1 || sum.EncryptedOnly != 1 || sum.Notes != 1 {
		t.Errorf("Unexpected summary %+v", sum)
	}
}

func TestStatus_Errors(t *testing.T) {
	root := t.TempDir()

	file := filepath.Join(root, "file.txt")
	writeTestFile(t, file, "x")
	if _, err := Status(context.Background(), StatusOptions{Root: file}); !errors.Is(err, lerrors.ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}

	if _, err := Status(context.Background(), StatusOptions{Root: root, Ignore: []string{"[bad"}}); !errors.Is(err, lerrors.ErrInvalidSettings) {
		t.Errorf("Expected ErrInvalidSettings, got %v", err)
	}
}

func TestStatus_FindsWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".lockd"), 0755); err != nil {
		t.Fatalf("Failed to create marker: %v", err)
	}
	sub := filepath.Join(root, "sub")
	writeTestFile(t, filepath.Join(sub, "a.txt"), "a")

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })

	result, err := Status(context.Background(), StatusOptions{})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].Path != filepath.Join("sub", "a.txt") {
		t.Errorf("Expected sub/a.txt from the workspace root, got %+v", result.Files)
	}
}
