package cmd

import (
	"os"

	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/ui"

	"github.com/spf13/cobra"
)

var treeIDs bool

func init() {
	treeCmd.Flags().BoolVar(&treeIDs, "ids", false, "show item ids")
}

// resetTreeCommandState resets the tree command's global state for testing.
func resetTreeCommandState() {
	treeIDs = false
}

var treeCmd = &cobra.Command{
	Use:   "tree <path>...",
	Short: "Shows files and folders as the workspace tree",
	Long: `Opens each path into a workspace tree and prints it. Folders are listed
directories first, then by name. Hidden folders are shown but not expanded.

No password is needed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting tree command")

		sess := newSession(events.Discard)
		for _, path := range args {
			if _, err := sess.OpenItem(path); err != nil {
				return Logger.ErrorfAndReturn("failed to open %s: %w", path, err)
			}
		}

		return ui.RenderTree(os.Stdout, sess.ListOpened(), ui.TreeOptions{ShowIDs: treeIDs})
	},
}
