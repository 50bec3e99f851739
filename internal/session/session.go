package session

import (
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/events"
	logger "github.com/PolarWolf314/lockd/internal/logging"
	"github.com/PolarWolf314/lockd/internal/secrets"
	"github.com/PolarWolf314/lockd/internal/workspace"
)

// Options configures a Session. The zero value is usable.
type Options struct {
	// NewID generates item ids. Defaults to random UUIDs.
	NewID workspace.IDFunc

	// Rand is the nonce source. Defaults to crypto/rand.
	Rand io.Reader

	// KDF overrides the Argon2id parameters. Zero means the defaults.
	KDF secrets.Argon2Params

	// TextMode controls how notes with invalid UTF-8 are opened.
	TextMode secrets.TextMode

	// Ignore holds doublestar patterns skipped by folder encryption.
	Ignore []string

	Logger logger.Logger
	Sink   events.Sink

	// Now stamps events. Defaults to time.Now.
	Now func() time.Time
}

// Session is the key and workspace tree of one user session.
type Session struct {
	mu       sync.Mutex
	key      *secrets.Key
	user     string
	tree     *workspace.Tree
	lastPath string

	newID    workspace.IDFunc
	rand     io.Reader
	kdf      secrets.Argon2Params
	textMode secrets.TextMode
	ignore   []string
	log      logger.Logger
	sink     events.Sink
	now      func() time.Time
}

// New creates a locked session with an empty tree.
func New(opts Options) *Session {
	s := &Session{
		newID:    opts.NewID,
		rand:     opts.Rand,
		kdf:      opts.KDF,
		textMode: opts.TextMode,
		ignore:   opts.Ignore,
		log:      opts.Logger,
		sink:     opts.Sink,
		now:      opts.Now,
	}
	if s.rand == nil {
		s.rand = rand.Reader
	}
	if s.kdf == (secrets.Argon2Params{}) {
		s.kdf = secrets.DefaultArgon2Params
	}
	if s.sink == nil {
		s.sink = events.Discard
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.tree = workspace.NewTree(s.newID)
	return s
}

// DeriveKey derives a key from username and password and makes it the
// session key, wiping any previous one. Derivation runs outside the lock.
func (s *Session) DeriveKey(username, password string) error {
	key, err := secrets.DeriveKeyWithParams(username, password, s.kdf)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	if s.key != nil {
		s.key.Zero()
	}
	s.key = &key
	s.user = username
	s.mu.Unlock()

	s.log.Debugf("derived key for %s", username)
	return nil
}

// Lock wipes the key. The tree is kept.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropKey()
}

// Unlocked reports whether a key is present.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key != nil
}

// User returns the username the current key was derived for.
func (s *Session) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// LastPath returns the last file the session read or wrote.
func (s *Session) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath
}

// Reset wipes the key, closes every item and forgets the last path.
func (s *Session) Reset() {
	s.mu.Lock()
	s.dropKey()
	var evs []events.Event
	for _, root := range s.tree.List() {
		evs = append(evs, s.event(events.ItemClosed, &root))
	}
	s.tree = workspace.NewTree(s.newID)
	s.lastPath = ""
	s.mu.Unlock()

	s.finish(nil, evs...)
}

// dropKey must be called with mu held.
func (s *Session) dropKey() {
	if s.key != nil {
		s.key.Zero()
		s.key = nil
	}
	s.user = ""
}

// currentKey must be called with mu held.
func (s *Session) currentKey() (secrets.Key, error) {
	if s.key == nil {
		return secrets.Key{}, lerrors.ErrNotAuthenticated
	}
	return *s.key, nil
}

func (s *Session) event(name string, it *workspace.Item) events.Event {
	ev := events.Event{Name: name, Time: s.now()}
	if it != nil {
		ev.ID = it.ID
		ev.ParentID = it.ParentID
		ev.Path = it.Path
		ev.Title = it.Name
	}
	return ev
}

// finish emits evs, or an error event if err is set. It must be called
// without mu held so sinks may call back into the session.
func (s *Session) finish(err error, evs ...events.Event) {
	if err != nil {
		s.log.Debugf("session: %v", err)
		s.sink.Emit(events.Event{Name: events.Error, Message: err.Error(), Time: s.now()})
		return
	}
	for _, ev := range evs {
		s.sink.Emit(ev)
	}
}

func absPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", lerrors.NewPathError("resolve", path, lerrors.ErrInvalidPath)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", lerrors.NewPathError("resolve", path, err)
	}
	return abs, nil
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
