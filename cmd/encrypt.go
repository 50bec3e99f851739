package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/session"
	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/utils"
	"github.com/PolarWolf314/lockd/internal/workflows"

	"github.com/spf13/cobra"
)

var encryptOutput string

func init() {
	encryptCmd.Flags().StringVarP(&encryptOutput, "output", "o", "", "output path (single input only)")
}

// resetEncryptCommandState resets the encrypt and decrypt commands' global state for testing.
func resetEncryptCommandState() {
	encryptOutput = ""
	decryptOutput = ""
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <path>...",
	Short: "Encrypts files or folders into .lockd envelopes",
	Long: `Encrypts each file into <file>.lockd, and each folder into a mirrored
<folder>.lockd folder holding one envelope per file.

Examples:
  lockd encrypt report.pdf
  lockd encrypt photos/ -o /mnt/backup/photos.lockd
  LOCKD_PASSWORD=... lockd encrypt a.txt b.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(cmd, "encrypt", args, encryptOutput, workflows.Encrypt)
	},
}

type transformWorkflow func(context.Context, *session.Session, workflows.TransformOptions) (*workflows.TransformResult, error)

func runTransform(cmd *cobra.Command, action string, paths []string, output string, run transformWorkflow) error {
	Logger.Infof("Starting %s command", action)

	sess := newSession(events.Discard)
	if err := unlock(sess); err != nil {
		return Logger.ErrorfAndReturn("failed to derive key: %w", err)
	}

	spinner, cleanup := startSpinner(fmt.Sprintf("%sing %d path(s)...", strings.ToUpper(action[:1])+action[1:], len(paths)), verbose)
	defer cleanup()

	result, err := run(cmd.Context(), sess, workflows.TransformOptions{
		Paths:     paths,
		Dest:      output,
		AuditPath: auditPath(),
	})
	if err != nil {
		spinner.FinalMSG = formatError(action, err)
		if isUnexpectedError(err) {
			return err
		}
		return nil
	}

	Logger.Infof("%s command completed successfully. Wrote %d files", action, len(result.Files))
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Files " + action + "ed successfully!\n" +
		"The following files were created: " + utils.FormatPaths(result.Files)
	return nil
}
