package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/lockd/internal/audit"
	"github.com/PolarWolf314/lockd/internal/classify"
	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/secrets"
)

func TestDrop_EncryptThenDecryptFile(t *testing.T) {
	tmpDir := t.TempDir()
	sess := unlockedSession(t)
	logPath := filepath.Join(tmpDir, "data", audit.FileName)

	src := filepath.Join(tmpDir, "report.txt")
	writeTestFile(t, src, "numbers")

	enc, err := Drop(context.Background(), sess, src, DropOptions{AuditPath: logPath})
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if enc.Action != classify.EncryptFile {
		t.Errorf("Expected EncryptFile, got %s", enc.Action)
	}
	if enc.Dest != src+secrets.Extension {
		t.Errorf("Expected dest %s, got %s", src+secrets.Extension, enc.Dest)
	}

	if err := os.Remove(src); err != nil {
		t.Fatalf("Failed to remove plaintext: %v", err)
	}

	dec, err := Drop(context.Background(), sess, enc.Dest, DropOptions{AuditPath: logPath})
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if dec.Action != classify.DecryptFile {
		t.Errorf("Expected DecryptFile, got %s", dec.Action)
	}
	if got := readTestFile(t, src); got != "numbers" {
		t.Errorf("Expected restored content, got %q", got)
	}

	entries, err := audit.ReadEntries(logPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Operation != "encrypt" || entries[1].Operation != "decrypt" {
		t.Fatalf("Expected encrypt and decrypt entries, got %+v", entries)
	}
	if entries[0].User != "alice" || entries[0].Path != src {
		t.Errorf("Unexpected entry %+v", entries[0])
	}
}

func TestDrop_OpensWorkspaceFolderAndNote(t *testing.T) {
	tmpDir := t.TempDir()
	sess := unlockedSession(t)

	if _, err := sess.InitWorkspace(tmpDir); err != nil {
		t.Fatalf("InitWorkspace failed: %v", err)
	}
	folder, err := Drop(context.Background(), sess, tmpDir, DropOptions{})
	if err != nil {
		t.Fatalf("Drop folder failed: %v", err)
	}
	if folder.Action != classify.OpenFolder || folder.ID == "" {
		t.Errorf("Expected OpenFolder with an id, got %+v", folder)
	}

	notePath := filepath.Join(t.TempDir(), "ideas.lockd")
	if _, err := sess.SaveNoteAs(notePath, "first idea"); err != nil {
		t.Fatalf("SaveNoteAs failed: %v", err)
	}
	note, err := Drop(context.Background(), sess, notePath, DropOptions{})
	if err != nil {
		t.Fatalf("Drop note failed: %v", err)
	}
	if note.Action != classify.OpenNote {
		t.Errorf("Expected OpenNote, got %s", note.Action)
	}
	if note.Note == nil || note.Note.Content != "first idea" {
		t.Errorf("Expected decrypted note, got %+v", note.Note)
	}
}

func TestDrop_DryRunChangesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	sess := unlockedSession(t)

	src := filepath.Join(tmpDir, "photos")
	writeTestFile(t, filepath.Join(src, "a.jpg"), "jpeg")

	result, err := Drop(context.Background(), sess, src, DropOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if result.Action != classify.EncryptFolder || !result.DryRun {
		t.Errorf("Unexpected result %+v", result)
	}
	if _, err := os.Stat(result.Dest); !os.IsNotExist(err) {
		t.Error("Dry run must not create the destination")
	}
}

func TestDrop_CustomDestination(t *testing.T) {
	tmpDir := t.TempDir()
	sess := unlockedSession(t)

	src := filepath.Join(tmpDir, "a.txt")
	writeTestFile(t, src, "a")
	dest := filepath.Join(tmpDir, "out", "sealed.bin.lockd")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	result, err := Drop(context.Background(), sess, src, DropOptions{Dest: dest})
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if result.Dest != dest || len(result.Written) != 1 || result.Written[0] != dest {
		t.Errorf("Expected output at %s, got %+v", dest, result)
	}
}

func TestDrop_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Drop(context.Background(), unlockedSession(t), filepath.Join(tmpDir, "missing"), DropOptions{}); !errors.Is(err, lerrors.ErrFilesystem) {
		t.Errorf("Expected ErrFilesystem, got %v", err)
	}

	sess := unlockedSession(t)
	sess.Lock()
	src := filepath.Join(tmpDir, "a.txt")
	writeTestFile(t, src, "a")
	if _, err := Drop(context.Background(), sess, src, DropOptions{}); !errors.Is(err, lerrors.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Drop(ctx, unlockedSession(t), src, DropOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
