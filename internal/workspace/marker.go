package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/secrets"
)

// HasMarker checks whether dir contains the .lockd marker directory.
func HasMarker(dir string) (bool, error) {
	fileInfo, err := os.Stat(filepath.Join(dir, secrets.MarkerDir))
	if err != nil {
		if os.IsNotExist(err) {
			// Not a workspace yet, which is an expected outcome.
			return false, nil
		}
		return false, lerrors.NewPathError("stat", filepath.Join(dir, secrets.MarkerDir), err)
	}

	if !fileInfo.IsDir() {
		return false, fmt.Errorf("%s exists but is not a directory", secrets.MarkerDir)
	}

	return true, nil
}

// EnsureMarker turns dir into a workspace folder by creating the marker directory.
func EnsureMarker(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return lerrors.NewPathError("stat", dir, err)
	}
	if !info.IsDir() {
		return lerrors.NewPathError("init", dir, lerrors.ErrNotDirectory)
	}

	marker := filepath.Join(dir, secrets.MarkerDir)
	if err := os.MkdirAll(marker, 0700); err != nil {
		return lerrors.NewPathError("mkdir", marker, err)
	}
	return nil
}
