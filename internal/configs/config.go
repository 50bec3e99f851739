package configs

import (
	"fmt"
	"os"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/secrets"

	"github.com/bmatcuk/doublestar/v4"
)

// Settings is the content of config.toml.
type Settings struct {
	// Username is the key-derivation salt. Empty means the OS user.
	Username string `toml:"username"`

	// StrictText makes opening a note with invalid UTF-8 an error instead
	// of showing it as empty.
	StrictText bool `toml:"strict_text"`

	// Ignore holds doublestar patterns skipped when encrypting a folder.
	Ignore []string `toml:"ignore"`

	// Audit enables the JSON Lines audit log in the data directory.
	Audit bool `toml:"audit"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Ignore: []string{".git", "**/.DS_Store"},
		Audit:  true,
	}
}

// TextMode returns the note decoding mode.
func (s *Settings) TextMode() secrets.TextMode {
	if s.StrictText {
		return secrets.TextStrict
	}
	return secrets.TextLossy
}

// Validate checks the ignore patterns.
func (s *Settings) Validate() error {
	for _, pattern := range s.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: invalid ignore pattern %q", lerrors.ErrInvalidSettings, pattern)
		}
	}
	return nil
}

// LoadSettings loads the settings at path. A missing file yields DefaultSettings.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	if err := LoadTOML(path, settings); err != nil {
		return nil, fmt.Errorf("%w: failed to load settings: %v", lerrors.ErrInvalidSettings, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// SaveSettings validates and writes settings to path.
func SaveSettings(path string, settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := SaveTOML(path, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// EnsureSettings loads the settings at path, writing the defaults first if
// the file does not exist. It reports whether the file was created.
func EnsureSettings(path string) (*Settings, bool, error) {
	if _, err := os.Stat(path); err == nil {
		settings, err := LoadSettings(path)
		return settings, false, err
	} else if !os.IsNotExist(err) {
		return nil, false, lerrors.NewPathError("stat", path, err)
	}

	settings := DefaultSettings()
	if err := SaveSettings(path, settings); err != nil {
		return nil, false, err
	}
	return settings, true, nil
}
