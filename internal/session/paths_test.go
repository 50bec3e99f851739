package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/secrets"
)

func TestEncryptDecryptPath_File(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "report.txt")
	writeTestFile(t, plain, "numbers")

	s, rec := unlockedSession(t, Options{})
	written, err := s.EncryptPath(plain, "")
	if err != nil {
		t.Fatalf("EncryptPath failed: %v", err)
	}
	enc := filepath.Join(root, "report.txt.lockd")
	if len(written) != 1 || written[0] != enc {
		t.Fatalf("Expected [%s], got %v", enc, written)
	}

	out := filepath.Join(root, "restored.txt")
	if _, err := s.DecryptPath(enc, out); err != nil {
		t.Fatalf("DecryptPath failed: %v", err)
	}
	if got := readTestFile(t, out); got != "numbers" {
		t.Errorf("Expected numbers, got %q", got)
	}
	if s.LastPath() != out {
		t.Errorf("Expected last path %s, got %s", out, s.LastPath())
	}
	if len(rec.Events) != 0 {
		t.Errorf("Expected no events outside the tree, got %v", rec.Names())
	}
}

func TestEncryptPath_InjectedNonce(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "a.txt")
	writeTestFile(t, plain, "a")

	nonce := bytes.Repeat([]byte{7}, secrets.NonceSize)
	s, _ := unlockedSession(t, Options{Rand: bytes.NewReader(nonce)})
	if _, err := s.EncryptPath(plain, ""); err != nil {
		t.Fatalf("EncryptPath failed: %v", err)
	}

	data, _ := os.ReadFile(plain + secrets.Extension)
	if !bytes.Equal(data[:secrets.NonceSize], nonce) {
		t.Errorf("Expected the injected nonce, got %x", data[:secrets.NonceSize])
	}
}

func TestDecryptPath_WrongKeyWritesNothing(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "a.txt")
	writeTestFile(t, plain, "a")

	s, rec := unlockedSession(t, Options{})
	if _, err := s.EncryptPath(plain, ""); err != nil {
		t.Fatalf("EncryptPath failed: %v", err)
	}
	if err := s.DeriveKey("alice", "wrong"); err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	out := filepath.Join(root, "out.txt")
	if _, err := s.DecryptPath(plain+secrets.Extension, out); !errors.Is(err, lerrors.ErrAuthenticationFailed) {
		t.Fatalf("Expected ErrAuthenticationFailed, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("Expected no output after failed decryption")
	}
	assertNames(t, rec, events.Error)
}

func TestEncryptDecryptPath_Folder(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "project")
	writeTestFile(t, filepath.Join(src, "a.txt"), "a")
	writeTestFile(t, filepath.Join(src, "docs", "b.md"), "b")
	writeTestFile(t, filepath.Join(src, "build", "out.o"), "o")

	s, _ := unlockedSession(t, Options{Ignore: []string{"build"}})
	written, err := s.EncryptPath(src, "")
	if err != nil {
		t.Fatalf("EncryptPath failed: %v", err)
	}
	if len(written) != 2 {
		t.Errorf("Expected 2 envelopes, got %v", written)
	}

	enc := filepath.Join(root, "project.lockd")
	if _, err := os.Stat(filepath.Join(enc, "build")); !os.IsNotExist(err) {
		t.Error("Ignored directory must not be mirrored")
	}

	restored, err := s.DecryptPath(enc, "")
	if err != nil {
		t.Fatalf("DecryptPath failed: %v", err)
	}
	if len(restored) != 2 {
		t.Errorf("Expected 2 restored files, got %v", restored)
	}
	if got := readTestFile(t, filepath.Join(src, "docs", "b.md")); got != "b" {
		t.Errorf("Expected b, got %q", got)
	}
}

func TestEncryptPath_RejectsDestinationInsideSource(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.txt"), "a")

	s, _ := unlockedSession(t, Options{})
	_, err := s.EncryptPath(root, filepath.Join(root, "out"))
	if !errors.Is(err, lerrors.ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
	if _, err := s.EncryptPath(root, root); !errors.Is(err, lerrors.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestEncryptPath_RefreshesOpenedFolder(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "a.txt")
	writeTestFile(t, plain, "a")

	s, rec := unlockedSession(t, Options{})
	folderID, _ := s.OpenItem(root)

	if _, err := s.EncryptPath(plain, ""); err != nil {
		t.Fatalf("EncryptPath failed: %v", err)
	}

	folder, _ := s.Item(folderID)
	if len(folder.Children) != 2 {
		t.Errorf("Expected the envelope to appear in the tree, got %d children", len(folder.Children))
	}
	assertNames(t, rec, events.ItemOpened, events.ItemRefreshed)
}

func TestEncryptPath_MissingSource(t *testing.T) {
	s, _ := unlockedSession(t, Options{})

	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err := s.EncryptPath(missing, "")

	var pathErr *lerrors.PathError
	if !errors.As(err, &pathErr) || pathErr.Path != missing {
		t.Errorf("Expected PathError for %s, got %v", missing, err)
	}
}
