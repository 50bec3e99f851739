package workflows

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PolarWolf314/lockd/internal/classify"
	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/secrets"
	"github.com/PolarWolf314/lockd/internal/utils"

	"github.com/bmatcuk/doublestar/v4"
)

// FileStatus represents the encryption status of a file.
type FileStatus string

const (
	// StatusCurrent means the encrypted file is newer than the plaintext.
	StatusCurrent FileStatus = "current"
	// StatusStale means the plaintext was modified after encryption.
	StatusStale FileStatus = "stale"
	// StatusUnencrypted means plaintext exists with no encrypted version.
	StatusUnencrypted FileStatus = "unencrypted"
	// StatusEncryptedOnly means encrypted exists with no plaintext.
	StatusEncryptedOnly FileStatus = "encrypted_only"
)

const mtimeLayout = "2006-01-02T15:04:05Z07:00"

// FileStatusInfo holds information about a file's encryption status.
type FileStatusInfo struct {
	// Path is the path of the plaintext file, relative to the root.
	Path string

	// Status is the encryption status of the file.
	Status FileStatus

	// PlaintextMtime is the modification time of the plaintext file (if any).
	PlaintextMtime string

	// EncryptedMtime is the modification time of the encrypted file (if any).
	EncryptedMtime string
}

// StatusSummary holds counts of files by status.
type StatusSummary struct {
	Current       int
	Stale         int
	Unencrypted   int
	EncryptedOnly int
	Notes         int
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// Root is the folder to inspect. Empty means the workspace containing
	// the working directory.
	Root string

	// Ignore holds doublestar patterns, relative to Root, of entries to skip.
	Ignore []string
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	// Root is the inspected folder.
	Root string

	// Files contains the status of each plaintext/envelope pair.
	Files []FileStatusInfo

	// Notes lists the notes found under Root, relative to it.
	Notes []string

	// Summary contains counts of files by status.
	Summary StatusSummary
}

// Status reports which files under a folder have an up-to-date envelope
// next to them:
//   - current: envelope is newer than the plaintext
//   - stale: plaintext modified after encryption
//   - unencrypted: plaintext with no envelope
//   - encrypted_only: envelope with no plaintext
//
// Notes are listed separately. Hidden directories, the marker directory and
// encrypted folders are not descended into.
//
// Returns ErrNotFound if Root is empty and no workspace contains the
// working directory.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	root := opts.Root
	if root == "" {
		found, err := utils.FindWorkspaceRoot(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return nil, fmt.Errorf("%w: no workspace contains the current directory", lerrors.ErrNotFound)
		}
		root = found
	}

	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: invalid ignore pattern %q", lerrors.ErrInvalidSettings, pattern)
		}
	}

	plain, sealed, notes, err := discover(ctx, root, opts.Ignore)
	if err != nil {
		return nil, err
	}

	basePaths := make(map[string]bool)
	for _, f := range plain {
		basePaths[f] = true
	}
	for _, f := range sealed {
		basePaths[strings.TrimSuffix(f, secrets.Extension)] = true
	}

	var files []FileStatusInfo
	for basePath := range basePaths {
		status, plainMtime, sealedMtime := determineFileStatus(basePath)

		relPath, err := filepath.Rel(root, basePath)
		if err != nil {
			relPath = basePath
		}

		files = append(files, FileStatusInfo{
			Path:           relPath,
			Status:         status,
			PlaintextMtime: plainMtime,
			EncryptedMtime: sealedMtime,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	result := &StatusResult{
		Root:    root,
		Files:   files,
		Summary: calculateStatusSummary(files),
	}
	for _, note := range notes {
		rel, err := filepath.Rel(root, note)
		if err != nil {
			rel = note
		}
		result.Notes = append(result.Notes, rel)
	}
	sort.Strings(result.Notes)
	result.Summary.Notes = len(result.Notes)

	return result, nil
}

// discover splits the regular files under root into plaintext files,
// envelopes of files, and notes.
func discover(ctx context.Context, root string, ignore []string) (plain, sealed, notes []string, err error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, nil, lerrors.NewPathError("stat", root, err)
	}
	if !info.IsDir() {
		return nil, nil, nil, lerrors.NewPathError("status", root, lerrors.ErrNotDirectory)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return lerrors.NewPathError("walk", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return lerrors.NewPathError("walk", path, err)
		}
		skip, err := ignored(ignore, filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if skip || strings.HasPrefix(name, ".") || strings.HasSuffix(name, secrets.Extension) {
				return filepath.SkipDir
			}
			return nil
		}
		if skip || !d.Type().IsRegular() {
			return nil
		}

		switch {
		case classify.IsNote(d.Name()):
			notes = append(notes, path)
		case strings.HasSuffix(d.Name(), secrets.Extension):
			sealed = append(sealed, path)
		default:
			plain = append(plain, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return plain, sealed, notes, nil
}

func ignored(patterns []string, rel string) (bool, error) {
	for _, pattern := range patterns {
		match, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// determineFileStatus determines the encryption status of a file.
func determineFileStatus(basePath string) (FileStatus, string, string) {
	plainInfo, plainErr := os.Stat(basePath)
	sealedInfo, sealedErr := os.Stat(secrets.EncryptedPath(basePath))

	plainExists := plainErr == nil
	sealedExists := sealedErr == nil

	var plainMtime, sealedMtime string
	if plainExists {
		plainMtime = formatMtime(plainInfo.ModTime())
	}
	if sealedExists {
		sealedMtime = formatMtime(sealedInfo.ModTime())
	}

	switch {
	case plainExists && sealedExists:
		if sealedInfo.ModTime().After(plainInfo.ModTime()) {
			return StatusCurrent, plainMtime, sealedMtime
		}
		return StatusStale, plainMtime, sealedMtime

	case plainExists:
		return StatusUnencrypted, plainMtime, ""

	case sealedExists:
		return StatusEncryptedOnly, "", sealedMtime

	default:
		// Neither exists - removed during the walk.
		return StatusUnencrypted, "", ""
	}
}

func formatMtime(t time.Time) string {
	return t.Format(mtimeLayout)
}

// calculateStatusSummary calculates the counts of files by status.
func calculateStatusSummary(files []FileStatusInfo) StatusSummary {
	var summary StatusSummary
	for _, file := range files {
		switch file.Status {
		case StatusCurrent:
			summary.Current++
		case StatusStale:
			summary.Stale++
		case StatusUnencrypted:
			summary.Unencrypted++
		case StatusEncryptedOnly:
			summary.EncryptedOnly++
		}
	}
	return summary
}
