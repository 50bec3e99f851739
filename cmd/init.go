package cmd

import (
	"fmt"

	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/ui"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Turns a folder into a lockd workspace",
	Long: `Creates the .lockd/ marker directory that makes a folder open as a workspace.

Defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		sess := newSession(events.Discard)
		id, err := sess.InitWorkspace(dir)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to initialize %s: %w", dir, err)
		}
		path, err := sess.ResolveItem(id)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success.Sprint("✓") + " Initialized workspace in " + ui.Path.Sprint(path))
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("lockd shell") + " and " + ui.Code.Sprint("open "+path) + " to start writing notes")
		return nil
	},
}
