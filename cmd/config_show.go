package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/lockd/internal/configs"
	"github.com/PolarWolf314/lockd/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
	resetConfigInitState()
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the settings in effect, with defaults filled in, and the content
of the .lockdfg application config.

Examples:
  lockd config show
  lockd config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		u := configs.UserLockdSettings

		app, err := loadAppConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read %s: %w", configs.InitialConfigName, err)
		}

		if configShowJSON {
			return outputConfigJSON(Settings, app)
		}
		outputConfigText(u, Settings, app)
		return nil
	},
}

// outputConfigJSON outputs settings in JSON format.
func outputConfigJSON(settings *configs.Settings, app string) error {
	output, err := json.MarshalIndent(struct {
		Username   string          `json:"username"`
		StrictText bool            `json:"strict_text"`
		Ignore     []string        `json:"ignore"`
		Audit      bool            `json:"audit"`
		App        json.RawMessage `json:"app,omitempty"`
	}{
		Username:   username(),
		StrictText: settings.StrictText,
		Ignore:     settings.Ignore,
		Audit:      settings.Audit,
		App:        rawJSON(app),
	}, "", "  ")
	if err != nil {
		return Logger.ErrorfAndReturn("failed to marshal config to JSON: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// rawJSON returns app unchanged when it is valid JSON, so a hand-edited
// .lockdfg cannot break --json output.
func rawJSON(app string) json.RawMessage {
	if !json.Valid([]byte(app)) {
		return nil
	}
	return json.RawMessage(app)
}

// outputConfigText outputs settings in human-readable format.
func outputConfigText(u *configs.UserSettings, settings *configs.Settings, app string) {
	fmt.Println(ui.Info.Sprint("Settings") + " (" + ui.Path.Sprint(u.SettingsPath()) + "):")
	fmt.Println()
	fmt.Printf("  %-12s %s\n", "Username:", ui.Highlight.Sprint(username()))
	fmt.Printf("  %-12s %t\n", "Strict text:", settings.StrictText)
	fmt.Printf("  %-12s %s\n", "Ignore:", strings.Join(settings.Ignore, ", "))
	fmt.Printf("  %-12s %t\n", "Audit:", settings.Audit)
	fmt.Println()
	fmt.Println(ui.Info.Sprint("App config") + " (" + ui.Path.Sprint(configs.InitialConfigPath(u.ConfigPath)) + "):")
	fmt.Println("  " + app)
}
