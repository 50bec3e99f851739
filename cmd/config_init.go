package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/lockd/internal/configs"
	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/utils"

	"github.com/spf13/cobra"
)

var (
	configInitUsername   string
	configInitStrictText bool
	configInitIgnore     []string
	configInitNoAudit    bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitUsername, "username", "", "username keys are derived for (defaults to the OS user)")
	configInitCmd.Flags().BoolVar(&configInitStrictText, "strict-text", false, "refuse to open notes that are not valid UTF-8")
	configInitCmd.Flags().StringSliceVar(&configInitIgnore, "ignore", nil, "doublestar patterns skipped when encrypting folders")
	configInitCmd.Flags().BoolVar(&configInitNoAudit, "no-audit", false, "disable the audit log")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitUsername = ""
	configInitStrictText = false
	configInitIgnore = nil
	configInitNoAudit = false
	resetConfigCobraFlagState()
}

// promptForInput prompts the user for input with an optional default value.
func promptForInput(reader *bufio.Reader, prompt, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" && defaultValue != "" {
		return defaultValue, nil
	}
	return input, nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update config.toml and .lockdfg",
	Long: `Creates config.toml with default settings if it does not exist, then applies
any flags given. Also creates the .lockdfg application config.

When run interactively on a new install, prompts for the username keys are
derived for. The username is the salt of every key: a different username
cannot decrypt your files.

Examples:
  lockd config init
  lockd config init --username alice --ignore '**/node_modules'
  lockd config init --strict-text`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		u := configs.UserLockdSettings
		path := u.SettingsPath()

		settings, created, err := configs.EnsureSettings(path)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load %s: %w", path, err)
		}
		Logger.Debugf("Settings at %s (created=%t)", path, created)

		flags := cmd.Flags()
		changed := false
		switch {
		case flags.Changed("username"):
			settings.Username = configInitUsername
			changed = true
		case created && utils.IsTerminal():
			name, err := promptForInput(bufio.NewReader(os.Stdin), "Username", u.Username)
			if err != nil {
				return err
			}
			if name != u.Username {
				settings.Username = name
				changed = true
			}
		}
		if flags.Changed("strict-text") {
			settings.StrictText = configInitStrictText
			changed = true
		}
		if flags.Changed("ignore") {
			settings.Ignore = configInitIgnore
			changed = true
		}
		if flags.Changed("no-audit") {
			settings.Audit = !configInitNoAudit
			changed = true
		}

		if changed {
			if err := configs.SaveSettings(path, settings); err != nil {
				fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
				return nil
			}
		}

		if _, err := loadAppConfig(); err != nil {
			return Logger.ErrorfAndReturn("failed to create %s: %w", configs.InitialConfigName, err)
		}
		Settings = settings

		switch {
		case created:
			fmt.Println(ui.Success.Sprint("✓") + " Settings saved to " + ui.Path.Sprint(path))
		case changed:
			fmt.Println(ui.Success.Sprint("✓") + " Settings updated")
		default:
			fmt.Println(ui.Success.Sprint("✓") + " Settings already exist at " + ui.Path.Sprint(path))
			fmt.Println(ui.Info.Sprint("→") + " Run with flags to update: " + ui.Code.Sprint("lockd config init --username alice"))
		}
		return nil
	},
}
