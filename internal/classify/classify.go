// Package classify decides what lockd should do with a path from its shape alone.
//
// Classification never inspects file contents. A file named like a note is
// treated as a note even if it is not an envelope; decryption then fails.
package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/secrets"
)

// Action is the intent derived from a path.
type Action int

const (
	// OpenFolder scans a workspace folder (one containing the marker directory) into the tree.
	OpenFolder Action = iota + 1

	// EncryptFolder encrypts a plaintext folder into a sibling .lockd tree.
	EncryptFolder

	// DecryptFolder decrypts a folder produced by EncryptFolder.
	DecryptFolder

	// DecryptFile decrypts an opaque encrypted file (double extension, e.g. report.txt.lockd).
	DecryptFile

	// OpenNote decrypts a note (single extension, e.g. report.lockd) for editing.
	OpenNote

	// EncryptFile encrypts any other file.
	EncryptFile
)

func (a Action) String() string {
	switch a {
	case OpenFolder:
		return "open-folder"
	case EncryptFolder:
		return "encrypt-folder"
	case DecryptFolder:
		return "decrypt-folder"
	case DecryptFile:
		return "decrypt-file"
	case OpenNote:
		return "open-note"
	case EncryptFile:
		return "encrypt-file"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Info is the path metadata classification depends on.
type Info struct {
	Path      string
	IsDir     bool
	HasMarker bool
}

// Classify maps path metadata to an Action.
func Classify(info Info) Action {
	name := filepath.Base(info.Path)

	if info.IsDir {
		switch {
		case info.HasMarker:
			return OpenFolder
		case hasReservedExtension(name):
			return DecryptFolder
		default:
			return EncryptFolder
		}
	}

	if !hasReservedExtension(name) {
		return EncryptFile
	}
	if IsNote(name) {
		return OpenNote
	}
	return DecryptFile
}

// Inspect stats path and reports whether it is a directory holding the marker.
func Inspect(path string) (Info, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return Info{}, lerrors.NewPathError("stat", path, err)
	}

	info := Info{Path: path, IsDir: fileInfo.IsDir()}
	if !info.IsDir && !fileInfo.Mode().IsRegular() {
		return Info{}, lerrors.NewPathError("classify", path, lerrors.ErrInvalidPath)
	}
	if info.IsDir {
		marker, err := os.Stat(filepath.Join(path, secrets.MarkerDir))
		info.HasMarker = err == nil && marker.IsDir()
	}
	return info, nil
}

// IsNote reports whether a file name is a note: the reserved extension and
// a stem without any further extension.
func IsNote(name string) bool {
	if !hasReservedExtension(name) {
		return false
	}
	return !hasExtension(strings.TrimSuffix(name, secrets.Extension))
}

func hasReservedExtension(name string) bool {
	return len(name) > len(secrets.Extension) && strings.HasSuffix(name, secrets.Extension)
}

// hasExtension reports whether name has an extension. A leading dot marks a
// hidden file, not an extension.
func hasExtension(name string) bool {
	return strings.LastIndex(name, ".") > 0
}
