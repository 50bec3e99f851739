// Package errors provides typed error values for the lockd application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The command
// layer relies on this to tell a wrong password apart from a file that is not
// an envelope at all.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Authentication errors: no key or a key that does not open the container
//     (ErrNotAuthenticated, ErrAuthenticationFailed)
//   - Container errors: input that cannot be an envelope (ErrMalformedContainer)
//   - Filesystem errors: read/write/permission failures (ErrFilesystem, PathError)
//   - Workspace errors: unknown item ids (ErrNotFound)
//
// # Usage
//
// Wrap filesystem failures so the offending path travels with the error:
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return nil, errors.NewPathError("read", path, err)
//	}
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, lerrors.ErrAuthenticationFailed) {
//	    // Wrong password or tampered file
//	}
package errors
