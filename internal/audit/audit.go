package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PolarWolf314/lockd/internal/events"
)

// FileName is the name of the audit log inside the data directory.
const FileName = "audit.jsonl"

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // User the key was derived for.
	Operation string `json:"op"`   // Operation or event name.

	// Optional fields depending on operation.
	ID      string   `json:"id,omitempty"`      // Workspace item id.
	Path    string   `json:"path,omitempty"`    // Item or source path.
	Title   string   `json:"title,omitempty"`   // For note-renamed.
	Message string   `json:"message,omitempty"` // For error.
	Files   []string `json:"files,omitempty"`   // For encrypt/decrypt.
}

// mu serializes appends so concurrent entries never interleave.
var mu sync.Mutex

// Log appends an entry to the audit log at logPath.
// If logging fails, the entry is dropped without returning an error.
// Operations should not fail just because audit logging failed.
func Log(logPath string, entry Entry) {
	if logPath == "" {
		return
	}

	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(timestampLayout)
	}

	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	// Open file for appending (create if doesn't exist).
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Write entry with newline.
	_, _ = f.Write(append(data, '\n'))
}

// UserFunc returns the user an entry is attributed to.
type UserFunc func() string

// Sink returns an event sink that appends every event to the audit log.
// user is called per event, so a session that switches users is recorded
// under the user active at the time.
func Sink(logPath string, user UserFunc) events.Sink {
	return events.SinkFunc(func(ev events.Event) {
		entry := Entry{
			User:      user(),
			Operation: ev.Name,
			ID:        ev.ID,
			Path:      ev.Path,
			Title:     ev.Title,
			Message:   ev.Message,
		}
		if !ev.Time.IsZero() {
			entry.Timestamp = ev.Time.UTC().Format(timestampLayout)
		}
		Log(logPath, entry)
	})
}

// LogPath returns the path to the audit log file in dataDir.
// Returns empty string if dataDir is empty.
func LogPath(dataDir string) string {
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, FileName)
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
