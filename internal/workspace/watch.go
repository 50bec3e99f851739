package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	logger "github.com/PolarWolf314/lockd/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of events to settle.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc receives the directories whose contents changed, plus any
// removed or renamed paths.
type ChangeFunc func(dirs []string)

// Watch starts an fsnotify watcher on root and every non-hidden directory
// below it, and calls onChange with the parent directories of changed
// entries until ctx is cancelled. Bursts of events are coalesced.
func Watch(ctx context.Context, root string, debounce time.Duration, log logger.Logger, onChange ChangeFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	log.Debugf("watcher: started on %s", root)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Debugf("watcher: stopped on %s", root)
			return nil

		case <-timerC:
			timer = nil
			timerC = nil
			dirs := make([]string, 0, len(pending))
			for dir := range pending {
				dirs = append(dirs, dir)
			}
			sort.Strings(dirs)
			pending = make(map[string]struct{})
			if len(dirs) > 0 {
				onChange(dirs)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Chmod == ev.Op {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() && !hidden(ev.Name) {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						log.Warnf("watcher: add new dir %s failed: %v", ev.Name, addErr)
					}
				}
			}

			log.Debugf("watcher: %s %s", ev.Op, ev.Name)
			pending[filepath.Dir(ev.Name)] = struct{}{}
			// A vanished entry may itself be an opened item.
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				pending[ev.Name] = struct{}{}
			}
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watcher: %v", err)
		}
	}
}

// addDirsRecursive walks root and adds every non-hidden directory to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return lerrors.NewPathError("watch", path, err)
			}
			// Unreadable subdirectories are skipped, as in Scan.
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return lerrors.NewPathError("watch", path, err)
		}
		return nil
	})
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
