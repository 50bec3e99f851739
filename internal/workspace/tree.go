package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/lockd/internal/classify"
	lerrors "github.com/PolarWolf314/lockd/internal/errors"

	"github.com/google/uuid"
)

// IDFunc returns a new unique item id.
type IDFunc func() string

// Tree is the set of opened items.
type Tree struct {
	roots []*Item
	nodes map[string]*Item  // id -> node
	paths map[string]string // path -> id
	newID IDFunc
}

// NewTree creates an empty tree. A nil newID uses random UUIDs.
func NewTree(newID IDFunc) *Tree {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Tree{
		nodes: make(map[string]*Item),
		paths: make(map[string]string),
		newID: newID,
	}
}

// Open adds path to the tree and returns its id. If path is already tracked,
// as a root or inside an opened folder, its existing id is returned and
// created is false.
func (t *Tree) Open(path string) (id string, created bool, err error) {
	path = filepath.Clean(path)
	if id, ok := t.paths[path]; ok {
		return id, false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", false, lerrors.NewPathError("open", path, err)
	}

	item := &Item{
		ID:          t.newID(),
		Name:        filepath.Base(path),
		Path:        path,
		IsDirectory: info.IsDir(),
		IsNote:      !info.IsDir() && classify.IsNote(filepath.Base(path)),
	}

	if item.IsDirectory {
		children, err := scan(path, item.ID, t.idFor)
		if err != nil {
			return "", false, err
		}
		item.Children = children
	}

	t.absorbRoots(item)
	t.roots = append(t.roots, item)
	t.index(item)

	return item.ID, true, nil
}

// Close removes the item and all its descendants. It reports whether id was present.
func (t *Tree) Close(id string) bool {
	node, ok := t.nodes[id]
	if !ok {
		return false
	}

	if parent, ok := t.nodes[node.ParentID]; ok {
		parent.Children = removeItem(parent.Children, id)
	} else {
		t.roots = removeItem(t.roots, id)
	}

	t.unindex(node)
	return true
}

// Rename moves the item to newPath and newName, keeping its id and position.
// Paths of descendants are rebased onto newPath.
func (t *Tree) Rename(id, newPath, newName string) error {
	node, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", lerrors.ErrNotFound, id)
	}

	newPath = filepath.Clean(newPath)
	if other, ok := t.paths[newPath]; ok && other != id {
		return fmt.Errorf("%w: %s is tracked as %s", lerrors.ErrAlreadyExists, newPath, other)
	}

	oldPath := node.Path
	node.walk(func(it *Item) {
		delete(t.paths, it.Path)
		if it == node {
			it.Path = newPath
		} else {
			it.Path = newPath + strings.TrimPrefix(it.Path, oldPath)
		}
		t.paths[it.Path] = it.ID
	})
	node.Name = newName
	if !node.IsDirectory {
		node.IsNote = classify.IsNote(newName)
	}

	return nil
}

// Resolve returns the current path of id.
func (t *Tree) Resolve(id string) (string, error) {
	node, ok := t.nodes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", lerrors.ErrNotFound, id)
	}
	return node.Path, nil
}

// Get returns a copy of the item with id.
func (t *Tree) Get(id string) (Item, bool) {
	node, ok := t.nodes[id]
	if !ok {
		return Item{}, false
	}
	return *node.clone(), true
}

// Lookup returns the id tracking path.
func (t *Tree) Lookup(path string) (string, bool) {
	id, ok := t.paths[filepath.Clean(path)]
	return id, ok
}

// Owner returns the id of the closest scanned directory containing path,
// path itself included. Directories left as leaves by the scan (hidden,
// symlinked or unreadable) are skipped.
func (t *Tree) Owner(path string) (string, bool) {
	path = filepath.Clean(path)
	for {
		if id, ok := t.paths[path]; ok {
			if node := t.nodes[id]; node.IsDirectory && node.Children != nil {
				return id, true
			}
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", false
		}
		path = parent
	}
}

// Refresh re-scans a directory item. Children whose paths survive keep their ids.
// The tree is unchanged if the directory cannot be read.
func (t *Tree) Refresh(id string) error {
	node, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", lerrors.ErrNotFound, id)
	}
	if !node.IsDirectory {
		return lerrors.NewPathError("refresh", node.Path, lerrors.ErrNotDirectory)
	}

	children, err := scan(node.Path, node.ID, t.idFor)
	if err != nil {
		return err
	}

	for _, child := range node.Children {
		t.unindex(child)
	}
	node.Children = children
	t.absorbRoots(node)
	for _, child := range node.Children {
		t.index(child)
	}

	return nil
}

// List returns a deep copy of the root items in opening order.
func (t *Tree) List() []Item {
	out := make([]Item, len(t.roots))
	for i, root := range t.roots {
		out[i] = *root.clone()
	}
	return out
}

// Len returns the number of tracked items.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// idFor keeps the id of a path that is already tracked.
func (t *Tree) idFor(path string) string {
	if id, ok := t.paths[path]; ok {
		return id
	}
	return t.newID()
}

// absorbRoots drops roots whose ids now appear below item, so a file opened
// on its own and later found inside an opened folder stays a single node.
func (t *Tree) absorbRoots(item *Item) {
	below := make(map[string]bool)
	for _, child := range item.Children {
		child.walk(func(it *Item) { below[it.ID] = true })
	}

	kept := t.roots[:0]
	for _, root := range t.roots {
		if below[root.ID] {
			t.unindex(root)
			continue
		}
		kept = append(kept, root)
	}
	t.roots = kept
}

func (t *Tree) index(item *Item) {
	item.walk(func(it *Item) {
		t.nodes[it.ID] = it
		t.paths[it.Path] = it.ID
	})
}

func (t *Tree) unindex(item *Item) {
	item.walk(func(it *Item) {
		delete(t.nodes, it.ID)
		if t.paths[it.Path] == it.ID {
			delete(t.paths, it.Path)
		}
	})
}

func removeItem(items []*Item, id string) []*Item {
	for i, it := range items {
		if it.ID == id {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
