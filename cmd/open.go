package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/lockd/internal/classify"
	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/utils"
	"github.com/PolarWolf314/lockd/internal/workflows"
	"github.com/PolarWolf314/lockd/internal/workspace"

	"github.com/spf13/cobra"
)

var (
	openOutput string
	openDryRun bool
	openIDs    bool
)

func init() {
	openCmd.Flags().StringVarP(&openOutput, "output", "o", "", "output path for encrypt and decrypt actions")
	openCmd.Flags().BoolVar(&openDryRun, "dry-run", false, "show what would happen without changing anything")
	openCmd.Flags().BoolVar(&openIDs, "ids", false, "show item ids when opening a folder")
}

// resetOpenCommandState resets the open command's global state for testing.
func resetOpenCommandState() {
	openOutput = ""
	openDryRun = false
	openIDs = false
}

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Does the right thing with any file or folder",
	Long: `Classifies the path and acts on it:

  - workspace folder (has a .lockd/ marker)   shows its tree
  - note (name.lockd)                         prints the decrypted note
  - encrypted file (name.ext.lockd)           decrypts it next to itself
  - encrypted folder (name.lockd/)            decrypts it next to itself
  - any other file or folder                  encrypts it next to itself

Use --dry-run to see the classification without touching anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting open command")
		path := args[0]

		info, err := classify.Inspect(path)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to inspect %s: %w", path, err)
		}
		action := classify.Classify(info)
		Logger.Debugf("Classified %s as %s", path, action)

		sess := newSession(events.Discard)
		if action != classify.OpenFolder && !openDryRun {
			if err := unlock(sess); err != nil {
				return Logger.ErrorfAndReturn("failed to derive key: %w", err)
			}
		}

		result, err := workflows.Drop(cmd.Context(), sess, path, workflows.DropOptions{
			Dest:      openOutput,
			DryRun:    openDryRun,
			AuditPath: auditPath(),
		})
		if err != nil {
			fmt.Println(formatError(action.String(), err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		return printDropResult(sess.ListOpened, result)
	},
}

type listFunc func() []workspace.Item

func printDropResult(list listFunc, result *workflows.DropResult) error {
	if result.DryRun {
		msg := ui.Info.Sprint("ℹ") + " " + ui.Path.Sprint(result.Path) + " → " + ui.Highlight.Sprint(result.Action.String())
		if result.Dest != "" {
			msg += " → " + ui.Path.Sprint(result.Dest)
		}
		fmt.Println(msg)
		return nil
	}

	switch result.Action {
	case classify.OpenFolder:
		return ui.RenderTree(os.Stdout, list(), ui.TreeOptions{ShowIDs: openIDs})

	case classify.OpenNote:
		if result.Note.Lossy {
			Logger.WarnfAlways("%s is not valid UTF-8 and is shown as empty", result.Path)
		}
		fmt.Print(ui.EnsureNewline(result.Note.Content))
		return nil

	default:
		fmt.Print(ui.Success.Sprint("✓") + " " + ui.Path.Sprint(result.Path) + " " + result.Action.String() + " done\n" +
			"The following files were created: " + utils.FormatPaths(result.Written))
		return nil
	}
}
