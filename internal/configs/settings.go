package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/lockd/internal/utils"
)

// UserSettings holds the per-user directories lockd reads and writes.
type UserSettings struct {
	ConfigPath string
	DataPath   string
	Username   string
}

// UserLockdSettings is set by InitUserSettings.
var UserLockdSettings *UserSettings

// InitUserSettings resolves the config and data directories and the OS user.
func InitUserSettings() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("error getting home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("error getting config directory: %w", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		return fmt.Errorf("error getting username: %w", err)
	}

	UserLockdSettings = &UserSettings{
		ConfigPath: filepath.Join(configDir, "lockd"),
		DataPath:   filepath.Join(dataDir, "lockd"),
		Username:   username,
	}
	return nil
}

// SettingsPath returns the path of config.toml for these settings.
func (u *UserSettings) SettingsPath() string {
	return filepath.Join(u.ConfigPath, "config.toml")
}
