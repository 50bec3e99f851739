package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/lockd/internal/session"
)

// TransformOptions configures the encrypt and decrypt workflows.
type TransformOptions struct {
	// Paths are the files or folders to transform.
	Paths []string

	// Dest is the output path. Only valid with a single path.
	Dest string

	// AuditPath is the audit log to record runs in. Empty disables auditing.
	AuditPath string
}

// TransformResult contains the outcome of an encrypt or decrypt run.
type TransformResult struct {
	// Written maps each source path to the files created from it.
	Written map[string][]string

	// Files lists every created file in order.
	Files []string
}

// Encrypt encrypts each path with the session key.
//
// Returns ErrNotAuthenticated if the session is locked.
func Encrypt(ctx context.Context, sess *session.Session, opts TransformOptions) (*TransformResult, error) {
	return transform(ctx, "encrypt", sess.EncryptPath, sess.User(), opts)
}

// Decrypt decrypts each path with the session key. Paths before a failure
// stay decrypted.
//
// Returns ErrNotAuthenticated if the session is locked.
// Returns ErrAuthenticationFailed if a file does not authenticate.
func Decrypt(ctx context.Context, sess *session.Session, opts TransformOptions) (*TransformResult, error) {
	return transform(ctx, "decrypt", sess.DecryptPath, sess.User(), opts)
}

func transform(ctx context.Context, op string, fn func(path, dest string) ([]string, error), user string, opts TransformOptions) (*TransformResult, error) {
	if opts.Dest != "" && len(opts.Paths) > 1 {
		return nil, fmt.Errorf("an output path can only be given for a single input, got %d", len(opts.Paths))
	}

	result := &TransformResult{Written: make(map[string][]string)}
	for _, path := range opts.Paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		written, err := fn(path, opts.Dest)
		if err != nil {
			return result, fmt.Errorf("%s %s: %w", op, path, err)
		}
		recordRun(opts.AuditPath, user, op, path, written, nil)

		result.Written[path] = written
		result.Files = append(result.Files, written...)
	}

	return result, nil
}
