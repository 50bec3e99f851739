package workflows

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/secrets"
	"github.com/PolarWolf314/lockd/internal/session"
)

func unlockedSession(t *testing.T) *session.Session {
	t.Helper()
	n := 0
	sess := session.New(session.Options{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		KDF:  secrets.Argon2Params{Time: 1, Memory: 64, Threads: 1, KeyLen: secrets.KeySize},
		Sink: events.Discard,
		Now:  func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) },
	})
	if err := sess.DeriveKey("alice", "correct horse"); err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	return sess
}

// writeTestFile is a helper to write test files with 0644 permissions.
// #nosec G306 -- Test files are temporary and don't contain sensitive data.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { // #nosec G306
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
