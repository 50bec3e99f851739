package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/lockd/cmd"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lockd",
	Short: "lockd - local encrypted notes and files.",
	Long: `lockd keeps notes and files encrypted at rest with a key derived from your
username and password. Nothing leaves your machine.

Features:
  - Encrypt and decrypt files and whole folders
  - Read and write encrypted notes
  - Browse workspace folders as a tree with stable item ids

Usage:
  lockd <command> [flags]

Available Commands:
  encrypt    Encrypt files or folders
  decrypt    Decrypt files or folders
  open       Open, encrypt or decrypt a path depending on what it is
  note       Read and write encrypted notes
  shell      Start an interactive workspace session

Run 'lockd help <command>' for more details on a specific command.
`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to lockd! Run 'lockd --help' to see available commands.")
	},
}

func init() {
	cmd.Attach(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
