package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/events"
)

func TestOpenRenameResolve_KeepsID(t *testing.T) {
	root := t.TempDir()
	original := filepath.Join(root, "a", "b.txt")
	writeTestFile(t, original, "body")

	s, rec := newTestSession(t, Options{})
	id, err := s.OpenItem(original)
	if err != nil {
		t.Fatalf("OpenItem failed: %v", err)
	}

	if err := s.RenameItem(id, "c.txt"); err != nil {
		t.Fatalf("RenameItem failed: %v", err)
	}

	got, err := s.ResolveItem(id)
	if err != nil {
		t.Fatalf("ResolveItem failed: %v", err)
	}
	want := filepath.Join(root, "a", "c.txt")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if readTestFile(t, want) != "body" {
		t.Error("Expected the file to be renamed on disk")
	}
	if _, err := os.Stat(original); !os.IsNotExist(err) {
		t.Error("Expected the old path to be gone")
	}

	assertNames(t, rec, events.ItemOpened, events.NoteRenamed)
	if rec.Events[1].ID != id || rec.Events[1].Path != want {
		t.Errorf("Unexpected rename event: %+v", rec.Events[1])
	}
}

func TestRenameItem_NoteKeepsExtension(t *testing.T) {
	root := t.TempDir()
	note := filepath.Join(root, "todo.lockd")
	writeTestFile(t, note, "")

	s, rec := newTestSession(t, Options{})
	id, _ := s.OpenItem(note)

	if err := s.RenameItem(id, "  done  "); err != nil {
		t.Fatalf("RenameItem failed: %v", err)
	}

	item, err := s.Item(id)
	if err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if item.Name != "done.lockd" || !item.IsNote {
		t.Errorf("Expected note done.lockd, got %+v", item)
	}
	if item.Path != filepath.Join(root, "done.lockd") {
		t.Errorf("Unexpected path %s", item.Path)
	}
	if title := rec.Events[len(rec.Events)-1].Title; title != "done" {
		t.Errorf("Expected event title done, got %q", title)
	}
}

func TestRenameItem_InsideOpenedFolder(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "notes", "old.lockd"), "")

	s, _ := newTestSession(t, Options{})
	folderID, _ := s.OpenItem(root)
	noteID, _ := s.OpenItem(filepath.Join(root, "notes", "old.lockd"))

	if err := s.RenameItem(noteID, "new"); err != nil {
		t.Fatalf("RenameItem failed: %v", err)
	}

	folder, _ := s.Item(folderID)
	note := folder.Children[0].Children[0]
	if note.ID != noteID || note.Name != "new.lockd" {
		t.Errorf("Expected renamed note in place, got %+v", note)
	}
}

func TestRenameItem_Errors(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.lockd")
	writeTestFile(t, a, "a")
	writeTestFile(t, filepath.Join(root, "b.lockd"), "b")

	s, rec := newTestSession(t, Options{})
	id, _ := s.OpenItem(a)

	tests := []struct {
		name  string
		id    string
		title string
		want  error
	}{
		{"UnknownID", "missing", "x", lerrors.ErrNotFound},
		{"ExistingFile", id, "b", lerrors.ErrAlreadyExists},
		{"Empty", id, "   ", lerrors.ErrInvalidPath},
		{"Separator", id, "../escape", lerrors.ErrInvalidPath},
		{"DotDot", id, "..", lerrors.ErrInvalidPath},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.RenameItem(tc.id, tc.title); !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}

	if got, _ := s.ResolveItem(id); got != a {
		t.Errorf("Failed renames must leave the item alone, got %s", got)
	}
	if readTestFile(t, filepath.Join(root, "b.lockd")) != "b" {
		t.Error("Existing file must not be overwritten")
	}
	for _, ev := range rec.Events[1:] {
		if ev.Name != events.Error {
			t.Errorf("Expected only error events after open, got %s", ev.Name)
		}
	}
}

func TestOpenItem_Idempotent(t *testing.T) {
	root := t.TempDir()
	note := filepath.Join(root, "n.lockd")
	writeTestFile(t, note, "")

	s, rec := newTestSession(t, Options{})
	first, err := s.OpenItem(note)
	if err != nil {
		t.Fatalf("OpenItem failed: %v", err)
	}
	second, err := s.OpenItem(note)
	if err != nil {
		t.Fatalf("OpenItem failed: %v", err)
	}

	if first != second {
		t.Errorf("Expected the same id, got %s and %s", first, second)
	}
	if n := len(s.ListOpened()); n != 1 {
		t.Errorf("Expected 1 opened item, got %d", n)
	}
	assertNames(t, rec, events.ItemOpened)
	if s.LastPath() != note {
		t.Errorf("Expected last path %s, got %s", note, s.LastPath())
	}
}

func TestOpenItem_RelativePath(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "n.lockd"), "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s, _ := newTestSession(t, Options{})
	id, err := s.OpenItem("n.lockd")
	if err != nil {
		t.Fatalf("OpenItem failed: %v", err)
	}

	got, _ := s.ResolveItem(id)
	if !filepath.IsAbs(got) {
		t.Errorf("Expected an absolute path, got %s", got)
	}
}

func TestOpenItem_Missing(t *testing.T) {
	s, rec := newTestSession(t, Options{})

	_, err := s.OpenItem(filepath.Join(t.TempDir(), "missing.lockd"))
	if !errors.Is(err, lerrors.ErrFilesystem) {
		t.Errorf("Expected ErrFilesystem, got %v", err)
	}
	assertNames(t, rec, events.Error)
}

func TestCloseItem_CascadesThroughFolder(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "one.lockd"), "")
	writeTestFile(t, filepath.Join(root, "two.lockd"), "")

	s, rec := newTestSession(t, Options{})
	folderID, err := s.OpenItem(root)
	if err != nil {
		t.Fatalf("OpenItem failed: %v", err)
	}
	folder, _ := s.Item(folderID)
	if n := s.Count(); n != 3 {
		t.Errorf("Expected 3 opened items, got %d", n)
	}

	if !s.CloseItem(folderID) {
		t.Fatal("Expected CloseItem to report the folder")
	}
	if n := s.Count(); n != 0 {
		t.Errorf("Expected no opened items after close, got %d", n)
	}
	for _, child := range folder.Children {
		if _, err := s.ResolveItem(child.ID); !errors.Is(err, lerrors.ErrNotFound) {
			t.Errorf("Expected child %s to be released, got %v", child.ID, err)
		}
	}

	if s.CloseItem(folderID) {
		t.Error("Closing twice must be a no-op")
	}
	assertNames(t, rec, events.ItemOpened, events.ItemClosed)
	if rec.Events[1].ID != folderID {
		t.Errorf("Expected close event for %s, got %s", folderID, rec.Events[1].ID)
	}
}

func TestInitWorkspace(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "n.lockd"), "")

	s, _ := newTestSession(t, Options{})
	id, err := s.InitWorkspace(root)
	if err != nil {
		t.Fatalf("InitWorkspace failed: %v", err)
	}

	if info, err := os.Stat(filepath.Join(root, ".lockd")); err != nil || !info.IsDir() {
		t.Error("Expected the marker directory to be created")
	}
	item, _ := s.Item(id)
	if !item.IsDirectory || len(item.Children) != 2 {
		t.Errorf("Expected folder with marker and note, got %+v", item)
	}
}

func TestRefresh_PicksUpChangesAndKeepsIDs(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep.lockd")
	writeTestFile(t, keep, "")

	s, rec := newTestSession(t, Options{})
	folderID, _ := s.OpenItem(root)
	keepID, _ := s.OpenItem(keep)

	added := filepath.Join(root, "sub", "added.lockd")
	writeTestFile(t, added, "")

	if err := s.Refresh(filepath.Join(root, "sub")); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	folder, _ := s.Item(folderID)
	if len(folder.Children) != 2 {
		t.Fatalf("Expected sub and keep.lockd, got %d children", len(folder.Children))
	}
	if folder.Children[1].ID != keepID {
		t.Errorf("Expected keep.lockd to keep id %s, got %s", keepID, folder.Children[1].ID)
	}
	if got := folder.Children[0].Children[0].Path; got != added {
		t.Errorf("Expected %s in the tree, got %s", added, got)
	}
	assertNames(t, rec, events.ItemOpened, events.ItemRefreshed)
}

func TestRefresh_ClosesVanishedRoot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "notes")
	writeTestFile(t, filepath.Join(dir, "n.lockd"), "")

	s, rec := newTestSession(t, Options{})
	id, _ := s.OpenItem(dir)

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}
	if err := s.Refresh(dir); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if _, err := s.ResolveItem(id); !errors.Is(err, lerrors.ErrNotFound) {
		t.Errorf("Expected vanished folder to be closed, got %v", err)
	}
	assertNames(t, rec, events.ItemOpened, events.ItemClosed)
}

func TestRefresh_OutsideTreeIsIgnored(t *testing.T) {
	s, rec := newTestSession(t, Options{})
	if err := s.Refresh(t.TempDir()); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if len(rec.Events) != 0 {
		t.Errorf("Expected no events, got %v", rec.Names())
	}
}
