package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/lockd/internal/configs"
	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/utils"

	"github.com/spf13/cobra"
)

var configAppCmd = &cobra.Command{
	Use:   "app",
	Short: "Read or replace the .lockdfg application config",
}

var configAppShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print .lockdfg",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read %s: %w", configs.InitialConfigName, err)
		}
		fmt.Println(app)
		return nil
	},
}

var configAppSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace .lockdfg with JSON read from stdin",
	Long: `Reads a JSON document from stdin and stores it as the application config.

Examples:
  echo '{"theme": "dark"}' | lockd config app set`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config app set command")

		content, err := utils.ReadStdin()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read config from stdin: %w", err)
		}
		if !json.Valid(content) {
			return Logger.ErrorfAndReturn("%s must hold valid JSON", configs.InitialConfigName)
		}

		// Creates the config directory when missing.
		if _, err := loadAppConfig(); err != nil {
			return Logger.ErrorfAndReturn("failed to prepare %s: %w", configs.InitialConfigName, err)
		}

		dir := configs.UserLockdSettings.ConfigPath
		if err := configs.SaveInitialConfig(dir, string(content)); err != nil {
			return Logger.ErrorfAndReturn("failed to write %s: %w", configs.InitialConfigName, err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Saved " + ui.Path.Sprint(configs.InitialConfigPath(dir)))
		return nil
	},
}

func init() {
	configAppCmd.AddCommand(configAppShowCmd)
	configAppCmd.AddCommand(configAppSetCmd)
}
