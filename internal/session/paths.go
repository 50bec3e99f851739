package session

import (
	"os"
	"path/filepath"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/secrets"
)

// EncryptPath encrypts a file or folder to dest and returns the written
// envelopes. An empty dest means path + ".lockd". Folders are mirrored.
func (s *Session) EncryptPath(path, dest string) ([]string, error) {
	written, evs, err := s.transform("encrypt", path, dest, secrets.EncryptedPath, func(key secrets.Key, src, dst string, isDir bool) ([]string, error) {
		if isDir {
			return secrets.EncryptFolder(key, src, dst, secrets.FolderOptions{Ignore: s.ignore, Rand: s.rand})
		}
		plaintext, err := os.ReadFile(src)
		if err != nil {
			return nil, lerrors.NewPathError("read", src, err)
		}
		if err := secrets.WriteEnvelopeWithRand(s.rand, key, dst, plaintext); err != nil {
			return nil, err
		}
		return []string{dst}, nil
	})
	s.finish(err, evs...)
	return written, err
}

// DecryptPath decrypts a file or folder to dest and returns the written
// files. An empty dest strips the .lockd extension. Nothing is written for
// a file that fails to authenticate.
func (s *Session) DecryptPath(path, dest string) ([]string, error) {
	written, evs, err := s.transform("decrypt", path, dest, secrets.DecryptedPath, func(key secrets.Key, src, dst string, isDir bool) ([]string, error) {
		if isDir {
			return secrets.DecryptFolder(key, src, dst)
		}
		if err := secrets.DecryptFile(key, src, dst); err != nil {
			return nil, err
		}
		return []string{dst}, nil
	})
	s.finish(err, evs...)
	return written, err
}

type transformFunc func(key secrets.Key, src, dst string, isDir bool) ([]string, error)

func (s *Session) transform(op, path, dest string, defaultDest func(string) string, fn transformFunc) ([]string, []events.Event, error) {
	path, err := absPath(path)
	if err != nil {
		return nil, nil, err
	}
	if dest == "" {
		dest = defaultDest(path)
	}
	dest, err = absPath(dest)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, lerrors.NewPathError("stat", path, err)
	}
	if dest == path {
		return nil, nil, lerrors.NewPathError(op, dest, lerrors.ErrAlreadyExists)
	}
	// Writing into the source would walk our own output.
	if info.IsDir() && within(dest, path) {
		return nil, nil, lerrors.NewPathError(op, dest, lerrors.ErrInvalidPath)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return nil, nil, lerrors.NewPathError(op, path, lerrors.ErrInvalidPath)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.currentKey()
	if err != nil {
		return nil, nil, err
	}

	s.log.Infof("%sing %s to %s", op, path, dest)
	written, err := fn(key, path, dest, info.IsDir())
	if err != nil {
		return nil, nil, err
	}
	s.lastPath = dest

	var evs []events.Event
	ev, ok, err := s.refreshOwner(filepath.Dir(dest))
	if err != nil {
		// The files are written; a stale tree is only logged.
		s.log.Warnf("failed to refresh tree after %s: %v", op, err)
	} else if ok {
		evs = append(evs, ev)
	}
	return written, evs, nil
}
