// Package workspace tracks the files and folders opened in a lockd session.
//
// Every opened item gets an opaque id when it is first seen. The id never
// changes while the item stays open, even when the file is renamed or its
// parent folder is re-scanned, so callers can hold on to ids instead of paths.
//
// # Structure
//
// A Tree owns its root items; each directory item owns its children. Items
// refer to their parent by id only. Two indexes sit beside the tree:
//
//   - id to node, for O(1) Resolve and Get
//   - path to id, for idempotent Open
//
// Both indexes are updated in the same call as the tree itself. The Tree is
// not safe for concurrent use; the session serializes access.
//
// # Scanning
//
// Opening a directory scans it recursively. Directories sort before files,
// names sort byte-wise, and hidden directories (such as the .lockd marker)
// are listed but not descended into. A subdirectory that cannot be read is
// kept as a leaf without children.
package workspace
