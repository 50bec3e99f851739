package session

import (
	"fmt"
	"path/filepath"
	"strings"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/secrets"
)

// Note is a decrypted note.
type Note struct {
	ID      string
	Path    string
	Title   string
	Content string

	// Lossy is set when the plaintext was not valid UTF-8 and Content was
	// replaced by an empty document.
	Lossy bool
}

// OpenNote decrypts the note tracked as id.
func (s *Session) OpenNote(id string) (Note, error) {
	note, evs, err := s.openNote(id)
	s.finish(err, evs...)
	return note, err
}

func (s *Session) openNote(id string) (Note, []events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.tree.Get(id)
	if !ok {
		return Note{}, nil, fmt.Errorf("%w: %s", lerrors.ErrNotFound, id)
	}
	if !item.IsNote {
		return Note{}, nil, lerrors.NewPathError("open", item.Path, lerrors.ErrNotNote)
	}
	return s.readNote(item.Path)
}

// ReadNote decrypts the note at path, tracked or not.
func (s *Session) ReadNote(path string) (Note, error) {
	note, evs, err := func() (Note, []events.Event, error) {
		path, err := absPath(path)
		if err != nil {
			return Note{}, nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.readNote(path)
	}()
	s.finish(err, evs...)
	return note, err
}

// readNote must be called with mu held.
func (s *Session) readNote(path string) (Note, []events.Event, error) {
	key, err := s.currentKey()
	if err != nil {
		return Note{}, nil, err
	}

	plaintext, err := secrets.ReadEnvelope(key, path)
	if err != nil {
		return Note{}, nil, err
	}

	content, lossy, err := secrets.DecodeText(plaintext, s.textMode)
	if err != nil {
		return Note{}, nil, lerrors.NewPathError("open", path, err)
	}
	if lossy {
		s.log.Warnf("%s is not valid text, opened as an empty note", path)
	}

	note := Note{
		Path:    path,
		Title:   noteTitle(path),
		Content: content,
		Lossy:   lossy,
	}
	note.ID, _ = s.tree.Lookup(path)
	s.lastPath = path

	ev := events.Event{
		Name:    events.NoteOpened,
		ID:      note.ID,
		Path:    path,
		Title:   note.Title,
		Content: content,
		Time:    s.now(),
	}
	return note, []events.Event{ev}, nil
}

// SaveNote encrypts content over the note tracked as id.
func (s *Session) SaveNote(id, content string) error {
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		item, ok := s.tree.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", lerrors.ErrNotFound, id)
		}
		if item.IsDirectory {
			return lerrors.NewPathError("save", item.Path, lerrors.ErrNotNote)
		}
		if err := s.writeNote(item.Path, content); err != nil {
			return err
		}
		s.lastPath = item.Path
		return nil
	}()
	s.finish(err)
	return err
}

// SaveNoteAs writes content as a new note at path and opens it. The .lockd
// extension is appended when missing. It returns the note's id.
func (s *Session) SaveNoteAs(path, content string) (string, error) {
	id, evs, err := s.saveNoteAs(path, content)
	s.finish(err, evs...)
	return id, err
}

func (s *Session) saveNoteAs(path, content string) (string, []events.Event, error) {
	path, err := absPath(path)
	if err != nil {
		return "", nil, err
	}
	path = withExtension(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeNote(path, content); err != nil {
		return "", nil, err
	}
	s.lastPath = path

	return s.track(path)
}

// SaveNoteCopy writes content as a note at path without opening it. An
// opened folder containing path is re-scanned.
func (s *Session) SaveNoteCopy(path, content string) (string, error) {
	written, evs, err := func() (string, []events.Event, error) {
		path, err := absPath(path)
		if err != nil {
			return "", nil, err
		}
		path = withExtension(path)

		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.writeNote(path, content); err != nil {
			return "", nil, err
		}
		ev, ok, err := s.refreshOwner(filepath.Dir(path))
		if err != nil || !ok {
			return path, nil, err
		}
		return path, []events.Event{ev}, nil
	}()
	s.finish(err, evs...)
	return written, err
}

// writeNote must be called with mu held.
func (s *Session) writeNote(path, content string) error {
	key, err := s.currentKey()
	if err != nil {
		return err
	}

	return secrets.WriteEnvelopeWithRand(s.rand, key, path, []byte(content))
}

// noteTitle is the file name without the .lockd extension.
func noteTitle(path string) string {
	name := filepath.Base(path)
	if title := strings.TrimSuffix(name, secrets.Extension); title != "" {
		return title
	}
	return "Untitled"
}

func withExtension(path string) string {
	if strings.HasSuffix(filepath.Base(path), secrets.Extension) && filepath.Base(path) != secrets.Extension {
		return path
	}
	return path + secrets.Extension
}
