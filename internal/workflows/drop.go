package workflows

import (
	"context"

	"github.com/PolarWolf314/lockd/internal/audit"
	"github.com/PolarWolf314/lockd/internal/classify"
	"github.com/PolarWolf314/lockd/internal/secrets"
	"github.com/PolarWolf314/lockd/internal/session"
)

// DropOptions configures the drop workflow.
type DropOptions struct {
	// Dest overrides the output path of encrypt and decrypt actions.
	Dest string

	// DryRun reports the action and destination without changing anything.
	DryRun bool

	// AuditPath is the audit log to record encrypt and decrypt runs in.
	// Empty disables auditing.
	AuditPath string
}

// DropResult contains the outcome of a drop.
type DropResult struct {
	// Action is what the path was classified as.
	Action classify.Action

	// Path is the dropped path.
	Path string

	// Dest is the output path for encrypt and decrypt actions.
	Dest string

	// Written lists the files created by encrypt and decrypt actions.
	Written []string

	// ID is the tree id for open actions.
	ID string

	// Note is the decrypted note for OpenNote.
	Note *session.Note

	// DryRun indicates whether this was a dry-run (no files modified).
	DryRun bool
}

// Drop classifies path and performs the matching action: workspace folders
// and notes are opened, everything else is encrypted or decrypted next to
// the source.
func Drop(ctx context.Context, sess *session.Session, path string, opts DropOptions) (*DropResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := classify.Inspect(path)
	if err != nil {
		return nil, err
	}

	result := &DropResult{
		Action: classify.Classify(info),
		Path:   path,
		DryRun: opts.DryRun,
	}

	switch result.Action {
	case classify.EncryptFolder, classify.EncryptFile:
		result.Dest = destOr(opts.Dest, secrets.EncryptedPath(path))
	case classify.DecryptFolder, classify.DecryptFile:
		result.Dest = destOr(opts.Dest, secrets.DecryptedPath(path))
	}

	if opts.DryRun {
		return result, nil
	}

	switch result.Action {
	case classify.OpenFolder:
		result.ID, err = sess.OpenItem(path)

	case classify.OpenNote:
		result.ID, err = sess.OpenItem(path)
		if err != nil {
			break
		}
		var note session.Note
		note, err = sess.OpenNote(result.ID)
		result.Note = &note

	case classify.EncryptFolder, classify.EncryptFile:
		result.Written, err = sess.EncryptPath(path, result.Dest)
		recordRun(opts.AuditPath, sess.User(), "encrypt", path, result.Written, err)

	case classify.DecryptFolder, classify.DecryptFile:
		result.Written, err = sess.DecryptPath(path, result.Dest)
		recordRun(opts.AuditPath, sess.User(), "decrypt", path, result.Written, err)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func destOr(dest, fallback string) string {
	if dest != "" {
		return dest
	}
	return fallback
}

// recordRun appends a successful encrypt or decrypt run to the audit log.
func recordRun(logPath, user, op, path string, written []string, err error) {
	if err != nil || logPath == "" {
		return
	}
	audit.Log(logPath, audit.Entry{
		User:      user,
		Operation: op,
		Path:      path,
		Files:     written,
	})
}
