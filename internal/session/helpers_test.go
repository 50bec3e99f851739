package session

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/secrets"
)

// testKDF keeps key derivation fast in tests.
var testKDF = secrets.Argon2Params{Time: 1, Memory: 64, Threads: 1, KeyLen: secrets.KeySize}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// recorder keeps every event the session emits.
type recorder struct {
	Events []events.Event
}

func (r *recorder) Emit(ev events.Event) {
	r.Events = append(r.Events, ev)
}

// Names returns the recorded event names in order.
func (r *recorder) Names() []string {
	names := make([]string, len(r.Events))
	for i, ev := range r.Events {
		names[i] = ev.Name
	}
	return names
}

func newTestSession(t *testing.T, opts Options) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	if opts.NewID == nil {
		opts.NewID = sequentialIDs()
	}
	if opts.KDF == (secrets.Argon2Params{}) {
		opts.KDF = testKDF
	}
	if opts.Sink == nil {
		opts.Sink = rec
	}
	opts.Now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }
	return New(opts), rec
}

func unlockedSession(t *testing.T, opts Options) (*Session, *recorder) {
	t.Helper()
	s, rec := newTestSession(t, opts)
	if err := s.DeriveKey("alice", "correct horse"); err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	return s, rec
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

func assertNames(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	got := rec.Names()
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected event %d to be %s, got %s", i, want[i], got[i])
		}
	}
}
