package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/secrets"
	"github.com/PolarWolf314/lockd/internal/workspace"
)

// OpenItem adds path to the tree and returns its id. Opening a path that is
// already tracked, as a root or inside an opened folder, returns the
// existing id and emits nothing.
func (s *Session) OpenItem(path string) (string, error) {
	id, evs, err := s.openItem(path)
	s.finish(err, evs...)
	return id, err
}

func (s *Session) openItem(path string) (string, []events.Event, error) {
	path, err := absPath(path)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, created, err := s.tree.Open(path)
	if err != nil {
		return "", nil, err
	}
	s.lastPath = path
	if !created {
		return id, nil, nil
	}

	item, _ := s.tree.Get(id)
	s.log.Infof("opened %s as %s", path, id)
	return id, []events.Event{s.event(events.ItemOpened, &item)}, nil
}

// InitWorkspace turns dir into a workspace folder and opens it.
func (s *Session) InitWorkspace(dir string) (string, error) {
	abs, err := absPath(dir)
	if err != nil {
		s.finish(err)
		return "", err
	}
	if err := workspace.EnsureMarker(abs); err != nil {
		s.finish(err)
		return "", err
	}
	return s.OpenItem(abs)
}

// CloseItem removes the item and its descendants from the tree. Closing an
// unknown id is a no-op and reports false.
func (s *Session) CloseItem(id string) bool {
	s.mu.Lock()
	item, ok := s.tree.Get(id)
	if ok {
		s.tree.Close(id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	s.finish(nil, s.event(events.ItemClosed, &item))
	return true
}

// RenameItem renames the item on disk to newTitle within its directory,
// keeping its id. Notes keep the .lockd extension.
func (s *Session) RenameItem(id, newTitle string) error {
	evs, err := s.renameItem(id, newTitle)
	s.finish(err, evs...)
	return err
}

func (s *Session) renameItem(id, newTitle string) ([]events.Event, error) {
	title, err := cleanTitle(newTitle)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.tree.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", lerrors.ErrNotFound, id)
	}

	newName := title
	if item.IsNote && !strings.HasSuffix(newName, secrets.Extension) {
		newName += secrets.Extension
	}
	newPath := filepath.Join(filepath.Dir(item.Path), newName)

	if newPath != item.Path {
		if other, tracked := s.tree.Lookup(newPath); tracked && other != id {
			return nil, fmt.Errorf("%w: %s", lerrors.ErrAlreadyExists, newPath)
		}
		if exists(newPath) {
			return nil, lerrors.NewPathError("rename", newPath, lerrors.ErrAlreadyExists)
		}
		if err := os.Rename(item.Path, newPath); err != nil {
			return nil, lerrors.NewPathError("rename", item.Path, err)
		}
	}

	if err := s.tree.Rename(id, newPath, newName); err != nil {
		// Keep disk and tree in agreement.
		_ = os.Rename(newPath, item.Path)
		return nil, err
	}
	if s.lastPath == item.Path {
		s.lastPath = newPath
	}

	renamed, _ := s.tree.Get(id)
	ev := s.event(events.NoteRenamed, &renamed)
	ev.Title = title
	return []events.Event{ev}, nil
}

// cleanTitle rejects titles that would move the item out of its directory.
func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || title == "." || title == ".." || strings.ContainsAny(title, `/\`) || title == secrets.Extension {
		return "", lerrors.NewPathError("rename", title, lerrors.ErrInvalidPath)
	}
	return title, nil
}

// ResolveItem returns the current path of id.
func (s *Session) ResolveItem(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Resolve(id)
}

// Item returns a snapshot of one item.
func (s *Session) Item(id string) (workspace.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.tree.Get(id)
	if !ok {
		return workspace.Item{}, fmt.Errorf("%w: %s", lerrors.ErrNotFound, id)
	}
	return item, nil
}

// ListOpened returns a snapshot of the opened items.
func (s *Session) ListOpened() []workspace.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.List()
}

// Count returns the number of opened items, descendants included.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Len()
}

// Refresh re-scans the opened directory owning path after a change on disk.
// A tracked path that no longer exists is closed. Paths outside the tree
// are ignored.
func (s *Session) Refresh(path string) error {
	evs, err := s.refresh(path)
	s.finish(err, evs...)
	return err
}

func (s *Session) refresh(path string) ([]events.Event, error) {
	path, err := absPath(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.tree.Lookup(path); ok && !exists(path) {
		item, _ := s.tree.Get(id)
		s.tree.Close(id)
		return []events.Event{s.event(events.ItemClosed, &item)}, nil
	}

	ev, ok, err := s.refreshOwner(path)
	if err != nil || !ok {
		return nil, err
	}
	return []events.Event{ev}, nil
}

// refreshOwner re-scans the opened directory containing path, if any.
// It must be called with mu held.
func (s *Session) refreshOwner(path string) (events.Event, bool, error) {
	owner, ok := s.tree.Owner(path)
	if !ok {
		return events.Event{}, false, nil
	}
	if err := s.tree.Refresh(owner); err != nil {
		return events.Event{}, false, err
	}
	item, _ := s.tree.Get(owner)
	return s.event(events.ItemRefreshed, &item), true, nil
}

// track makes a freshly written path visible in the tree: a re-scan of the
// opened folder containing it, or a new root otherwise. It must be called
// with mu held.
func (s *Session) track(path string) (string, []events.Event, error) {
	if id, ok := s.tree.Lookup(path); ok {
		return id, nil, nil
	}

	var evs []events.Event
	ev, refreshed, err := s.refreshOwner(filepath.Dir(path))
	if err != nil {
		return "", nil, err
	}
	if refreshed {
		evs = append(evs, ev)
		if id, ok := s.tree.Lookup(path); ok {
			return id, evs, nil
		}
		// Below a hidden or symlinked directory the scan does not reach path.
	}

	id, _, err := s.tree.Open(path)
	if err != nil {
		return "", nil, err
	}
	item, _ := s.tree.Get(id)
	return id, append(evs, s.event(events.ItemOpened, &item)), nil
}
