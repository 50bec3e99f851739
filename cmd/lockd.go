package cmd

import (
	"fmt"

	"github.com/PolarWolf314/lockd/internal/configs"
	logger "github.com/PolarWolf314/lockd/internal/logging"
	"github.com/PolarWolf314/lockd/internal/utils"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	debug    bool
	userFlag string
	Logger   logger.Logger

	// Settings holds config.toml, loaded before every command runs.
	Settings *configs.Settings
)

// Attach registers the persistent flags, settings loading and every lockd
// sub-command on root.
func Attach(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	root.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "username the key is derived for")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		return loadSettings()
	}

	root.AddCommand(
		encryptCmd,
		decryptCmd,
		openCmd,
		treeCmd,
		initCmd,
		statusCmd,
		logCmd,
		noteCmd,
		shellCmd,
		ConfigCmd,
	)
}

// loadSettings resolves the user directories and reads config.toml.
func loadSettings() error {
	if configs.UserLockdSettings == nil {
		Logger.Debugf("Initializing user settings")
		if err := configs.InitUserSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init user settings: %v", err)
		}
	}

	path := configs.UserLockdSettings.SettingsPath()
	Logger.Debugf("Loading settings from %s", path)
	settings, err := configs.LoadSettings(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	Settings = settings
	return nil
}

// username picks the key-derivation username: --user, then config.toml, then the OS user.
func username() string {
	var fromSettings, fromOS string
	if Settings != nil {
		fromSettings = Settings.Username
	}
	if configs.UserLockdSettings != nil {
		fromOS = configs.UserLockdSettings.Username
	}
	return utils.FirstNonEmpty(userFlag, fromSettings, fromOS)
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	userFlag = ""
	Settings = nil
	resetEncryptCommandState()
	resetOpenCommandState()
	resetTreeCommandState()
	resetStatusCommandState()
	resetLogCommandState()
	resetNoteCommandState()
	resetConfigShowState()
}
