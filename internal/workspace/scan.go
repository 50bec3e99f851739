package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PolarWolf314/lockd/internal/classify"
	lerrors "github.com/PolarWolf314/lockd/internal/errors"
)

// Scan lists dir recursively, giving every item a fresh id from newID.
// It fails only if dir itself cannot be read.
func Scan(dir, parentID string, newID IDFunc) ([]*Item, error) {
	return scan(dir, parentID, func(string) string { return newID() })
}

func scan(dir, parentID string, idFor func(path string) string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, lerrors.NewPathError("scan", dir, err)
	}

	items := make([]*Item, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir, followed := entryIsDir(path, entry)

		item := &Item{
			ID:          idFor(path),
			ParentID:    parentID,
			Name:        entry.Name(),
			Path:        path,
			IsDirectory: isDir,
			IsNote:      !isDir && classify.IsNote(entry.Name()),
		}

		// Symlinked directories are not descended into so a link cannot make
		// a node its own ancestor.
		if isDir && !followed && !strings.HasPrefix(entry.Name(), ".") {
			children, err := scan(path, item.ID, idFor)
			if err == nil {
				item.Children = children
			}
		}

		items = append(items, item)
	}

	sortItems(items)
	return items, nil
}

// entryIsDir reports whether entry is a directory, following symlinks.
// followed is true when the answer came through a symlink.
func entryIsDir(path string, entry fs.DirEntry) (isDir, followed bool) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, true
	}
	return info.IsDir(), true
}

// sortItems puts directories first, then orders by name.
func sortItems(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDirectory != items[j].IsDirectory {
			return items[i].IsDirectory
		}
		return items[i].Name < items[j].Name
	})
}
