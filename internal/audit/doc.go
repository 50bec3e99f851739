// Package audit provides an audit trail of lockd operations.
//
// Workspace events (opened, closed, renamed notes, errors) and folder
// encrypt/decrypt runs are recorded in a per-user audit log. This helps a user
// see which files were touched and when.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) in the
// lockd data directory:
//
//	~/.local/share/lockd/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - User name
//   - Operation name
//   - Operation-specific details (item id, path, files, error message)
//
// Note contents and keys are never written.
//
// # Usage
//
// Attach the log to a session as an event sink:
//
//	sink := audit.Sink(audit.LogPath(dataDir), sess.User)
//
// or record an operation directly:
//
//	audit.Log(logPath, audit.Entry{User: user, Operation: "encrypt", Files: written})
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Operations should never
// fail just because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
