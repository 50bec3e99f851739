package configs

import (
	"os"
	"path/filepath"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
)

const (
	// InitialConfigName is the free-form application config file, kept in
	// the user's config directory.
	InitialConfigName = ".lockdfg"

	// InitialConfigDefault is written when the file does not exist.
	InitialConfigDefault = "{}"
)

// InitialConfigPath returns the path of the application config in the config directory dir.
func InitialConfigPath(dir string) string {
	return filepath.Join(dir, InitialConfigName)
}

// LoadInitialConfig returns the content of dir/.lockdfg, creating it with
// InitialConfigDefault when it does not exist.
func LoadInitialConfig(dir string) (string, error) {
	path := InitialConfigPath(dir)

	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", lerrors.NewPathError("read", path, err)
	}

	if err := os.WriteFile(path, []byte(InitialConfigDefault), 0600); err != nil {
		return "", lerrors.NewPathError("write", path, err)
	}
	return InitialConfigDefault, nil
}

// SaveInitialConfig replaces the content of dir/.lockdfg.
func SaveInitialConfig(dir, content string) error {
	path := InitialConfigPath(dir)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return lerrors.NewPathError("write", path, err)
	}
	return nil
}
