// Package workflows provides high-level orchestration for lockd commands.
//
// Workflows coordinate the session, the classifier, and the audit log to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Classifying paths
//   - Dispatching to the right Session operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Drop: does the right thing with any path (open, encrypt, decrypt)
//   - Encrypt, Decrypt: transform several paths in one run
//   - Status: reports which plaintext files are missing or stale envelopes
//   - Log: reads and filters the audit log
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Drop(ctx, sess, path, opts)
//	if errors.Is(err, lerrors.ErrNotAuthenticated) {
//	    // Ask for the password
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Multi-path workflows check it between paths; a single folder walk is not
// interrupted.
package workflows
