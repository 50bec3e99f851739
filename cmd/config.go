package cmd

import (
	"fmt"

	"github.com/PolarWolf314/lockd/internal/audit"
	"github.com/PolarWolf314/lockd/internal/configs"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lockd configuration",
	Long: `Provides commands for managing the user settings in config.toml and the
.lockdfg application config.

Examples:
  # Create config.toml and .lockdfg with defaults
  lockd config init

  # Set the username keys are derived for
  lockd config init --username alice

  # Show the current settings
  lockd config show

  # Print where the files live
  lockd config path

  # Replace the application config
  echo '{}' | lockd config app set`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration and data paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := configs.UserLockdSettings
		fmt.Printf("%-10s %s\n", "settings:", u.SettingsPath())
		fmt.Printf("%-10s %s\n", "app:", configs.InitialConfigPath(u.ConfigPath))
		fmt.Printf("%-10s %s\n", "audit:", audit.LogPath(u.DataPath))
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configPathCmd)
	ConfigCmd.AddCommand(configAppCmd)
}

// resetConfigCobraFlagState resets the flag state for all config commands to prevent test pollution.
func resetConfigCobraFlagState() {
	for _, c := range ConfigCmd.Commands() {
		c.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}
