package cmd

import (
	"fmt"

	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/utils"

	"github.com/spf13/cobra"
)

var noteSaveCopy bool

func init() {
	noteSaveCmd.Flags().BoolVar(&noteSaveCopy, "copy", false, "write a copy without opening it")

	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteSaveCmd)
	noteCmd.AddCommand(noteRenameCmd)
}

// resetNoteCommandState resets the note commands' global state for testing.
func resetNoteCommandState() {
	noteSaveCopy = false
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Read and write encrypted notes",
	Long: `Notes are UTF-8 text files encrypted as name.lockd.

Examples:
  lockd note show ideas.lockd
  echo "buy milk" | lockd note save todo
  lockd note rename todo.lockd groceries`,
}

var noteShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print a decrypted note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting note show command")

		sess := newSession(events.Discard)
		if err := unlock(sess); err != nil {
			return Logger.ErrorfAndReturn("failed to derive key: %w", err)
		}

		note, err := sess.ReadNote(args[0])
		if err != nil {
			fmt.Println(formatError("open note", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}
		if note.Lossy {
			Logger.WarnfAlways("%s is not valid UTF-8 and is shown as empty", note.Path)
		}
		fmt.Print(ui.EnsureNewline(note.Content))
		return nil
	},
}

var noteSaveCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "Encrypt stdin as a note",
	Long: `Reads the note from stdin and encrypts it to path, adding the .lockd
extension when missing. An existing note is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting note save command")

		content, err := utils.ReadStdin()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read note from stdin: %w", err)
		}

		sess := newSession(events.Discard)
		if err := unlock(sess); err != nil {
			return Logger.ErrorfAndReturn("failed to derive key: %w", err)
		}

		var path string
		if noteSaveCopy {
			path, err = sess.SaveNoteCopy(args[0], string(content))
		} else {
			var id string
			id, err = sess.SaveNoteAs(args[0], string(content))
			if err == nil {
				path, err = sess.ResolveItem(id)
			}
		}
		if err != nil {
			return Logger.ErrorfAndReturn("failed to save note: %w", err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Saved " + ui.Path.Sprint(path))
		return nil
	},
}

var noteRenameCmd = &cobra.Command{
	Use:   "rename <path> <title>",
	Short: "Rename a note in place",
	Long: `Renames the note within its folder. The .lockd extension is kept, so the
title is the file name without it. No password is needed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting note rename command")

		sess := newSession(events.Discard)
		id, err := sess.OpenItem(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open %s: %w", args[0], err)
		}
		if err := sess.RenameItem(id, args[1]); err != nil {
			fmt.Println(formatError("rename", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		path, err := sess.ResolveItem(id)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success.Sprint("✓") + " Renamed to " + ui.Path.Sprint(path))
		return nil
	},
}
