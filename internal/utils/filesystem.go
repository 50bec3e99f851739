package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// markerDir mirrors secrets.MarkerDir; utils sits below secrets in the import graph.
const markerDir = ".lockd"

// FindWorkspaceRoot traverses up from dir to the nearest directory holding a
// .lockd marker directory. Returns an empty string if none is found.
func FindWorkspaceRoot(dir string) (string, error) {
	currentDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		info, err := os.Stat(filepath.Join(currentDir, markerDir))
		// No error means the path exists
		if err == nil {
			if info.IsDir() {
				return currentDir, nil
			}
		} else if !os.IsNotExist(err) {
			// Return any error that's not "file not found" (like permission issues)
			return "", fmt.Errorf("error checking for %s directory at %s: %w", markerDir, currentDir, err)
		}

		parentDir := filepath.Dir(currentDir)

		// Reached the filesystem root without finding a marker
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}
