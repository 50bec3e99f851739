package cmd

import (
	"github.com/PolarWolf314/lockd/internal/workflows"

	"github.com/spf13/cobra"
)

var decryptOutput string

func init() {
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "output path (single input only)")
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <path>...",
	Short: "Decrypts .lockd envelopes and encrypted folders",
	Long: `Decrypts each envelope next to itself with the .lockd suffix removed, and
each encrypted folder into a mirrored plaintext folder.

Nothing is written for a file that fails to authenticate.

Examples:
  lockd decrypt report.pdf.lockd
  lockd decrypt photos.lockd -o ~/restored`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(cmd, "decrypt", args, decryptOutput, workflows.Decrypt)
	},
}
